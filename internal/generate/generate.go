package generate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/site-analyzer/internal/cost"
	"github.com/sells-group/site-analyzer/internal/extract"
	"github.com/sells-group/site-analyzer/internal/model"
)

// DefaultTemplatePath is the rebuild prompt template read relative to the
// working directory.
const DefaultTemplatePath = "rebuild_prompt_template.txt"

// Task names, used in fallback messages, logs and metrics.
const (
	TaskLeadQualification = "lead qualification"
	TaskRebuildPrompt     = "rebuild prompt"
	TaskOutreachEmail     = "outreach email"
	TaskOutreachDM        = "outreach DM"
)

// Template placeholders substituted in the rebuild prompt.
const (
	placeholderDomain       = "{domain}"
	placeholderBusinessType = "{business_type}"
	placeholderLocation     = "{location}"
)

// Fallback returns the text shown in place of a task's output when the
// task fails.
func Fallback(task string, err error) string {
	return fmt.Sprintf("Unable to generate %s: %s", task, err.Error())
}

// IsFallback reports whether s is a failure message for task.
func IsFallback(task, s string) bool {
	return strings.HasPrefix(s, "Unable to generate "+task+": ")
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplatePath overrides the rebuild prompt template location.
func WithTemplatePath(path string) Option {
	return func(g *Generator) {
		g.templatePath = path
	}
}

// WithCostCalculator enables per-call cost attribution logging.
func WithCostCalculator(calc *cost.Calculator) Option {
	return func(g *Generator) {
		g.calc = calc
	}
}

// WithFailureHook registers a callback invoked with the task name each
// time a task falls back.
func WithFailureHook(fn func(task string)) Option {
	return func(g *Generator) {
		g.onFailure = fn
	}
}

// Generator produces the four outreach artifacts. Each task fails on its
// own and yields a fallback string instead of an error.
type Generator struct {
	completer    Completer
	templatePath string
	calc         *cost.Calculator
	onFailure    func(task string)
}

// New creates a Generator backed by completer.
func New(completer Completer, opts ...Option) *Generator {
	g := &Generator{
		completer:    completer,
		templatePath: DefaultTemplatePath,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// All runs lead qualification, rebuild prompt, outreach email and outreach
// DM in that order.
func (g *Generator) All(ctx context.Context, a *model.AnalysisResult) *model.GeneratedContent {
	return &model.GeneratedContent{
		LeadQualification: g.LeadQualification(ctx, a),
		RebuildPrompt:     g.RebuildPrompt(a),
		OutreachEmail:     g.OutreachEmail(ctx, a),
		OutreachDM:        g.OutreachDM(ctx, a),
	}
}

// LeadQualification asks for a Yes/No verdict with a short rationale.
func (g *Generator) LeadQualification(ctx context.Context, a *model.AnalysisResult) string {
	return g.complete(ctx, TaskLeadQualification, leadQualificationPrompt(a), LeadQualificationMaxTokens)
}

// OutreachEmail drafts a cold email with a subject line.
func (g *Generator) OutreachEmail(ctx context.Context, a *model.AnalysisResult) string {
	return g.complete(ctx, TaskOutreachEmail, outreachEmailPrompt(a), OutreachEmailMaxTokens)
}

// OutreachDM drafts a short social media message.
func (g *Generator) OutreachDM(ctx context.Context, a *model.AnalysisResult) string {
	return g.complete(ctx, TaskOutreachDM, outreachDMPrompt(a), OutreachDMMaxTokens)
}

// RebuildPrompt fills the site-builder template with the analysis domain,
// business type and location. It makes no external call.
func (g *Generator) RebuildPrompt(a *model.AnalysisResult) string {
	raw, err := os.ReadFile(g.templatePath)
	if err != nil {
		return g.fail(TaskRebuildPrompt, eris.Wrapf(err, "generate: read template %s", g.templatePath))
	}

	r := strings.NewReplacer(
		placeholderDomain, extract.Domain(a.URL),
		placeholderBusinessType, extract.BusinessType(a.PageText),
		placeholderLocation, extract.Location(),
	)
	return r.Replace(string(raw))
}

func (g *Generator) complete(ctx context.Context, task, prompt string, maxTokens int64) string {
	if g.completer == nil {
		return g.fail(task, eris.New("generate: no completion backend configured"))
	}

	c, err := g.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return g.fail(task, err)
	}

	if g.calc != nil {
		g.calc.Log(c.Provider, c.Model, task, c.Usage)
	}
	return c.Text
}

func (g *Generator) fail(task string, err error) string {
	zap.L().Warn("generate: task failed",
		zap.String("task", task),
		zap.Error(err),
	)
	if g.onFailure != nil {
		g.onFailure(task)
	}
	return Fallback(task, err)
}
