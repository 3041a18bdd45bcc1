// Package analyzer runs one website analysis end to end: fetch, parse,
// score, extract and, optionally, generate outreach content.
package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/site-analyzer/internal/extract"
	"github.com/sells-group/site-analyzer/internal/fetcher"
	"github.com/sells-group/site-analyzer/internal/generate"
	"github.com/sells-group/site-analyzer/internal/metrics"
	"github.com/sells-group/site-analyzer/internal/model"
	"github.com/sells-group/site-analyzer/internal/page"
	"github.com/sells-group/site-analyzer/internal/scorer"
)

const errAnalyze = "analyzer: failed to analyze website"

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithGenerator enables outreach generation in Run.
func WithGenerator(g *generate.Generator) Option {
	return func(a *Analyzer) {
		a.generator = g
	}
}

// WithMetrics records analysis outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// Analyzer holds no per-analysis state; one value can serve concurrent
// callers.
type Analyzer struct {
	fetcher   fetcher.Fetcher
	scorer    *scorer.Scorer
	generator *generate.Generator
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates an Analyzer.
func New(f fetcher.Fetcher, s *scorer.Scorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher: f,
		scorer:  s,
		now:     time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze fetches and scores rawURL. A fetch failure is returned wrapped
// with the *fetcher.FetchError still reachable through errors.As.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	log := zap.L().With(zap.String("url", rawURL))

	res, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		outcome := metrics.OutcomeError
		var fe *fetcher.FetchError
		if errors.As(err, &fe) {
			outcome = metrics.OutcomeFetchError
		}
		a.metrics.ObserveAnalysis(outcome, 0, 0)
		log.Warn("analyzer: fetch failed", zap.Error(err))
		return nil, eris.Wrap(err, errAnalyze)
	}

	p, err := page.Parse(rawURL, res.Body, res.LoadSeconds())
	if err != nil {
		a.metrics.ObserveAnalysis(metrics.OutcomeError, 0, 0)
		return nil, eris.Wrap(err, errAnalyze)
	}

	scored := a.scorer.Score(p)
	info := extract.FromPage(p)

	result := &model.AnalysisResult{
		ID:           uuid.New(),
		URL:          rawURL,
		Score:        scored.Score,
		BaseScore:    scored.BaseScore,
		Penalties:    scored.Penalties,
		Report:       scored.Report,
		BusinessName: info.BusinessName,
		BusinessType: info.BusinessType,
		PageText:     info.Excerpt,
		LoadTime:     p.LoadTime,
		Checks:       scored.Checks,
		AnalyzedAt:   a.now().UTC(),
	}

	a.metrics.ObserveAnalysis(metrics.OutcomeSuccess, result.Score, result.LoadTime)
	log.Info("analyzer: analysis complete",
		zap.String("analysis_id", result.ID.String()),
		zap.Int("score", result.Score),
		zap.Int("passed_checks", result.PassedCount()),
		zap.Float64("load_time", result.LoadTime),
		zap.String("business_type", result.BusinessType),
	)
	return result, nil
}

// Run analyzes rawURL and, when a generator is configured, produces the
// outreach content. Generation never fails the run; failed tasks carry
// fallback text.
func (a *Analyzer) Run(ctx context.Context, rawURL string) (*model.Bundle, error) {
	result, err := a.Analyze(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	bundle := &model.Bundle{Analysis: *result}
	if a.generator != nil {
		bundle.Content = a.generator.All(ctx, result)
	}
	return bundle, nil
}

// Generates reports whether Run produces outreach content.
func (a *Analyzer) Generates() bool {
	return a.generator != nil
}
