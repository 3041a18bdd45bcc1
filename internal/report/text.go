package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/site-analyzer/internal/model"
)

// TimestampLayout formats the report generation time.
const TimestampLayout = "2006-01-02 15:04:05"

func renderText(w io.Writer, b *model.Bundle) error {
	var sb strings.Builder
	a := b.Analysis

	fmt.Fprintf(&sb, "Website Analysis Report\n")
	fmt.Fprintf(&sb, "Generated: %s\n", a.AnalyzedAt.Format(TimestampLayout))
	fmt.Fprintf(&sb, "Website: %s\n\n", a.URL)
	fmt.Fprintf(&sb, "OVERALL SCORE: %d/10\n\n", a.Score)

	if b.Content != nil {
		writeSection(&sb, "IS THIS A GOOD LEAD?", b.Content.LeadQualification)
	}
	writeSection(&sb, "PLAIN-ENGLISH REPORT:", a.Report)
	if b.Content != nil {
		writeSection(&sb, "SITE BUILDER PROMPT:", b.Content.RebuildPrompt)
		writeSection(&sb, "OUTREACH EMAIL:", b.Content.OutreachEmail)
		writeSection(&sb, "OUTREACH DM:", b.Content.OutreachDM)
	}

	out := strings.TrimRight(sb.String(), "\n") + "\n"
	if _, err := io.WriteString(w, out); err != nil {
		return eris.Wrap(err, "report: write text")
	}
	return nil
}

func writeSection(sb *strings.Builder, heading, body string) {
	sb.WriteString(heading)
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
}
