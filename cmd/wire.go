package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/site-analyzer/internal/analyzer"
	"github.com/sells-group/site-analyzer/internal/config"
	"github.com/sells-group/site-analyzer/internal/cost"
	"github.com/sells-group/site-analyzer/internal/fetcher"
	"github.com/sells-group/site-analyzer/internal/generate"
	"github.com/sells-group/site-analyzer/internal/metrics"
	"github.com/sells-group/site-analyzer/internal/scorer"
)

// wiring controls which optional parts buildAnalyzer attaches.
type wiring struct {
	generate bool
	metrics  *metrics.Metrics
}

// buildAnalyzer assembles the fetch, score and (optionally) generate
// pipeline from configuration.
func buildAnalyzer(c *config.Config, w wiring) (*analyzer.Analyzer, error) {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    c.Fetch.UserAgent,
		Timeout:      time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		MaxBodyBytes: c.Fetch.MaxBodyBytes,
	})

	rules := scorer.DefaultRules()
	if c.Fetch.SlowThresholdSecs > 0 {
		rules.SlowThresholdSecs = c.Fetch.SlowThresholdSecs
	}
	if err := scorer.ValidateRules(rules); err != nil {
		return nil, eris.Wrap(err, "wire: scorer rules")
	}

	opts := []analyzer.Option{analyzer.WithMetrics(w.metrics)}
	if w.generate {
		gen, err := buildGenerator(c, w.metrics)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analyzer.WithGenerator(gen))
	}

	return analyzer.New(f, scorer.New(rules), opts...), nil
}

func buildGenerator(c *config.Config, m *metrics.Metrics) (*generate.Generator, error) {
	completer, err := generate.NewCompleter(generate.BackendConfig{
		Provider: c.Generate.Provider,
		APIKey:   c.Generate.APIKey,
		Model:    c.Generate.Model,
		BaseURL:  c.Generate.BaseURL,
		Timeout:  time.Duration(c.Generate.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, eris.Wrap(err, "wire: completer")
	}

	opts := []generate.Option{
		generate.WithCostCalculator(cost.NewCalculator(mergeRates(cost.DefaultRates(), c.Pricing))),
		generate.WithFailureHook(m.GenerationFailed),
	}
	if c.Generate.TemplatePath != "" {
		opts = append(opts, generate.WithTemplatePath(c.Generate.TemplatePath))
	}
	return generate.New(completer, opts...), nil
}

// mergeRates overlays configured prices on the built-in table.
func mergeRates(base cost.Rates, p config.PricingConfig) cost.Rates {
	out := cost.Rates{
		Anthropic: make(map[string]cost.ModelRate, len(base.Anthropic)+len(p.Anthropic)),
		OpenAI:    make(map[string]cost.ModelRate, len(base.OpenAI)+len(p.OpenAI)),
	}
	for k, v := range base.Anthropic {
		out.Anthropic[k] = v
	}
	for k, v := range base.OpenAI {
		out.OpenAI[k] = v
	}
	for k, v := range p.Anthropic {
		out.Anthropic[k] = toModelRate(v)
	}
	for k, v := range p.OpenAI {
		out.OpenAI[k] = toModelRate(v)
	}
	return out
}

func toModelRate(p config.ModelPricing) cost.ModelRate {
	return cost.ModelRate{
		Input:         p.Input,
		Output:        p.Output,
		CacheWriteMul: p.CacheWriteMul,
		CacheReadMul:  p.CacheReadMul,
	}
}
