package main

import (
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/site-analyzer/internal/config"
	"github.com/sells-group/site-analyzer/internal/model"
	"github.com/sells-group/site-analyzer/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Score a website and draft outreach content",
	Long: `Fetch a business website, score it 1-10 against the audit rubric, and
generate lead qualification, a site-builder rebuild prompt, an outreach
email and a short DM.

Examples:
  # Full analysis printed as the plain-text report
  analyze example.com

  # Markdown report saved under the default file name
  analyze https://example.com --format markdown --save

  # Score only, no API key required
  analyze example.com --skip-generate --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	addOutputFlags(f)
	f.Bool("skip-generate", false, "score only; skip the LLM generation tasks")
	f.String("api-key", "", "API key for the generation provider (overrides config)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("skip-generate")
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		cfg.Generate.APIKey = strings.TrimSpace(key)
	}

	mode := config.ModeAnalyze
	if skip {
		mode = config.ModeScore
	}
	if err := cfg.Validate(mode); err != nil {
		return err
	}

	return runReport(cmd, args[0], !skip)
}

// runReport analyzes rawURL and writes the bundle per the output flags.
func runReport(cmd *cobra.Command, rawURL string, withGenerate bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return eris.New("analyze: a website URL is required")
	}

	out, err := outputFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := buildAnalyzer(cfg, wiring{generate: withGenerate})
	if err != nil {
		return err
	}

	bundle, err := a.Run(ctx, rawURL)
	if err != nil {
		return err
	}

	return writeBundle(cmd.OutOrStdout(), bundle, out)
}

type outputOptions struct {
	format report.Format
	path   string
	save   bool
}

func addOutputFlags(f *pflag.FlagSet) {
	f.String("format", string(report.FormatText), "output format: "+formatList())
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save", false, "write the report to website_analysis_<site>.<ext> when --output is not set")
}

// formatList names the supported formats for help text.
func formatList() string {
	names := make([]string, len(report.Formats))
	for i, f := range report.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func outputFromFlags(cmd *cobra.Command) (outputOptions, error) {
	formatName, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return outputOptions{}, err
	}
	return outputOptions{format: format, path: path, save: save}, nil
}

// writeBundle renders b to stdout, or to a file when a path is set or
// --save asks for the default name.
func writeBundle(stdout io.Writer, b *model.Bundle, out outputOptions) error {
	path := out.path
	if path == "" && out.save {
		path = report.FilenameFor(b.Analysis.URL, out.format)
	}
	if path == "" {
		return report.Render(stdout, b, out.format)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "analyze: create output file %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := report.Render(f, b, out.format); err != nil {
		return err
	}
	zap.L().Info("report written",
		zap.String("path", path),
		zap.String("format", string(out.format)),
		zap.Int("score", b.Analysis.Score),
	)
	return nil
}
