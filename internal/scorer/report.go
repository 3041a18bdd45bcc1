package scorer

import (
	"strings"

	"github.com/sells-group/site-analyzer/internal/model"
)

// Report text.
const (
	ReportAllPassed = "Excellent! This website passes all basic checks for local business optimization."
	reportHeading   = "Issues found:"
	reportBullet    = "• "
)

// BuildReport lists the reason of every failed check in evaluation order,
// or the all-passed sentence when no check carries a failure reason. The
// report only reflects checks; penalties never appear in it.
func BuildReport(outcomes []model.CheckOutcome) string {
	var lines []string
	for _, o := range outcomes {
		if !o.Passed && o.Reason != "" {
			lines = append(lines, reportBullet+o.Reason)
		}
	}
	if len(lines) == 0 {
		return ReportAllPassed
	}
	return reportHeading + "\n" + strings.Join(lines, "\n")
}
