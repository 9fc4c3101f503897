package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/policywatch/internal/host"
	"github.com/spf13/cobra"
)

var (
	analyzeCompany bool
	analyzeAsk     []string
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Score a privacy policy or a company's data practices",
	Long: `Analyze opens the page in a widget, extracts its policy text and asks the
analysis service for a risk score. Pages that are not policies are analyzed
as company sites. When the service is unavailable a built-in estimate is
shown instead.

Follow-up questions can be asked about the analyzed platform with --ask.

Example:
  policywatch analyze https://www.tiktok.com/legal/page/eea/privacy-policy/en
  policywatch analyze https://www.spotify.com --ask "Do they sell my data?"
  policywatch analyze https://www.facebook.com/privacy/policy --company --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeCompany, "company", false, "analyze the site's company instead of the page")
	analyzeCmd.Flags().StringArrayVar(&analyzeAsk, "ask", nil, "follow-up question (repeatable)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	if jsonOut || analyzeCompany {
		return analyzeReport(ctx, cmd, a, rawURL)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", rawURL)
	}
	page, err := a.fetcher.Load(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	w := a.newWidget(host.NewConsole(cmd.OutOrStdout()))
	if err := w.Open(page); err != nil {
		return err
	}
	if err := w.Analyze(ctx); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	for _, q := range analyzeAsk {
		if err := w.Ask(ctx, q); err != nil {
			return fmt.Errorf("ask: %w", err)
		}
	}
	return nil
}

func analyzeReport(ctx context.Context, cmd *cobra.Command, a *app, rawURL string) error {
	report, err := a.newPipeline().AnalyzeURL(ctx, rawURL, analyzeCompany)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), report)
	}
	fmt.Fprint(cmd.OutOrStdout(), reportView(report, a.cfg.Backend.FullAnalysisURL))

	for _, q := range analyzeAsk {
		fmt.Fprintf(cmd.OutOrStdout(), "\n  Q: %s\n  A: %s\n", q, a.client.Ask(ctx, q, report.Platform))
	}
	return nil
}
