package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/site-analyzer/internal/config"
)

var scoreCmd = &cobra.Command{
	Use:   "score <url>",
	Short: "Score a website without generating outreach content",
	Long: `Fetch a business website and score it 1-10 against the audit rubric.
No API key is needed.

Examples:
  score example.com
  score https://example.com --format yaml --output example.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeScore); err != nil {
			return err
		}
		return runReport(cmd, args[0], false)
	},
}

func init() {
	addOutputFlags(scoreCmd.Flags())
	rootCmd.AddCommand(scoreCmd)
}
