package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/rotisserie/eris"

	"github.com/sells-group/site-analyzer/internal/generate"
	"github.com/sells-group/site-analyzer/internal/model"
)

var plainBlock = markdown.SyntaxHighlight("text")

func renderMarkdown(w io.Writer, b *model.Bundle) error {
	md := markdown.NewMarkdown(w)
	a := b.Analysis

	md.H1("Website Analysis Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website", "`" + a.URL + "`"},
			{"Business", escapeCell(a.BusinessName)},
			{"Business Type", a.BusinessType},
			{"Score", fmt.Sprintf("**%d/10** (%s)", a.Score, b.ScoreBand())},
			{"Load Time", fmt.Sprintf("%.2fs", a.LoadTime)},
			{"Generated", a.AnalyzedAt.Format(TimestampLayout)},
		},
	})
	md.PlainText("")
	writeScoreAlert(md, b)

	writeChecks(md, a)
	writePenalties(md, a.Penalties)

	md.H2("Plain-English Report")
	md.PlainText("")
	md.PlainText(a.Report)
	md.PlainText("")

	if c := b.Content; c != nil {
		md.H2("Is This a Good Lead?")
		md.PlainText("")
		if generate.IsFallback(generate.TaskLeadQualification, c.LeadQualification) {
			md.Warning(oneLine(c.LeadQualification))
		} else {
			md.PlainText(c.LeadQualification)
		}
		md.PlainText("")

		for _, s := range []struct{ task, title, body string }{
			{generate.TaskRebuildPrompt, "Site Builder Prompt", c.RebuildPrompt},
			{generate.TaskOutreachEmail, "Outreach Email", c.OutreachEmail},
			{generate.TaskOutreachDM, "Outreach DM", c.OutreachDM},
		} {
			md.H2(s.title)
			md.PlainText("")
			if generate.IsFallback(s.task, s.body) {
				md.Warning(oneLine(s.body))
			} else {
				md.CodeBlocks(plainBlock, s.body)
			}
			md.PlainText("")
		}
	}

	if err := md.Build(); err != nil {
		return eris.Wrap(err, "report: build markdown")
	}
	return nil
}

func writeScoreAlert(md *markdown.Markdown, b *model.Bundle) {
	switch b.ScoreBand() {
	case model.ScoreBandHigh:
		md.Tip("This website is in good shape.")
	case model.ScoreBandMedium:
		md.Importantf("This website has %d issue(s) worth fixing.", len(b.Analysis.FailedChecks()))
	default:
		md.Cautionf("This website scores %d/10 and is a strong redesign candidate.", b.Analysis.Score)
	}
	md.PlainText("")
}

func writeChecks(md *markdown.Markdown, a model.AnalysisResult) {
	md.H2("Checks")
	md.PlainText("")

	rows := make([][]string, len(a.Checks))
	for i, c := range a.Checks {
		status, reason := "✅ Pass", "-"
		if !c.Passed {
			status, reason = "❌ Fail", escapeCell(c.Reason)
		}
		rows[i] = []string{c.Name, status, reason}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Result", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText(fmt.Sprintf("%d of %d checks passed.", a.PassedCount(), len(a.Checks)))
	md.PlainText("")
}

func writePenalties(md *markdown.Markdown, p model.Penalties) {
	md.H2("Quality Penalties")
	md.PlainText("")

	if p.Total() == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	var rows [][]string
	for _, r := range []struct {
		label string
		value int
	}{
		{"DIY website builder", p.BuilderBrand},
		{"Under construction", p.UnderConstruction},
		{"Thin content", p.ThinContent},
		{"Missing business vocabulary", p.MissingBusinessWords},
		{"Few images", p.FewImages},
	} {
		if r.value > 0 {
			rows = append(rows, []string{r.label, "-" + strconv.Itoa(r.value)})
		}
	}
	rows = append(rows, []string{"**Total**", "**-" + strconv.Itoa(p.Total()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Penalty", "Points"},
		Rows:   rows,
	})
	md.PlainText("")
}

// oneLine keeps a failure message inside a single alert block.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// escapeCell keeps pipes and newlines from breaking a table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
