package scorer

import (
	"go.uber.org/zap"

	"github.com/sells-group/site-analyzer/internal/model"
	"github.com/sells-group/site-analyzer/internal/page"
)

// Result is the scored outcome for one page.
type Result struct {
	Checks    []model.CheckOutcome
	BaseScore int
	Penalties model.Penalties
	Score     int
	Report    string
}

// Scorer applies the rubric to parsed pages. It holds no per-page state and
// is safe for concurrent use.
type Scorer struct {
	rules  Rules
	checks []Check
}

// New creates a Scorer. Zero-valued rule fields fall back to DefaultRules.
func New(rules Rules) *Scorer {
	rules = rules.withDefaults()
	return &Scorer{
		rules:  rules,
		checks: Checks(rules),
	}
}

// Evaluate runs every check in order.
func (s *Scorer) Evaluate(p *page.Page) []model.CheckOutcome {
	out := make([]model.CheckOutcome, 0, len(s.checks))
	for _, c := range s.checks {
		passed, reason := c.Eval(p)
		out = append(out, model.CheckOutcome{
			Name:   c.Name,
			Passed: passed,
			Reason: reason,
		})
	}
	return out
}

// Penalize computes the quality deductions for a page.
func (s *Scorer) Penalize(p *page.Page) model.Penalties {
	return penalize(p, s.rules)
}

// Score evaluates the rubric and clamps the result to [MinScore, MaxScore].
func (s *Scorer) Score(p *page.Page) *Result {
	outcomes := s.Evaluate(p)

	base := 0
	for _, o := range outcomes {
		if o.Passed {
			base++
		}
	}
	penalties := s.Penalize(p)
	final := Clamp(base - penalties.Total())

	zap.L().Debug("scorer: page scored",
		zap.String("url", p.URL),
		zap.Int("base_score", base),
		zap.Int("quality_penalties", penalties.Total()),
		zap.Int("final_score", final),
	)

	return &Result{
		Checks:    outcomes,
		BaseScore: base,
		Penalties: penalties,
		Score:     final,
		Report:    BuildReport(outcomes),
	}
}

// Clamp bounds a raw score to [MinScore, MaxScore].
func Clamp(raw int) int {
	return min(MaxScore, max(MinScore, raw))
}
