package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/ppiankov/policywatch/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	batchOutput  string
	batchTimeout time.Duration
	batchCompany bool
)

type batchFile struct {
	Stats worker.Stats  `json:"stats"`
	Items []worker.Item `json:"items"`
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, "#" comments allowed, "-" for
stdin) and analyzes them concurrently. Requests to the same host are paced
by concurrency.requests_per_second.

Example:
  policywatch batch urls.txt
  policywatch batch urls.txt --concurrency 8 --output results.json
  cat urls.txt | policywatch batch - --company`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().Float64("rps", 0, "requests per second per host (default from config)")
	batchCmd.Flags().String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write all results as JSON to this file")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().BoolVar(&batchCompany, "company", false, "analyze every URL as a company site")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("concurrency.requests_per_second", batchCmd.Flags().Lookup("rps"))
	_ = viper.BindPFlag("http.http_proxy", batchCmd.Flags().Lookup("http-proxy"))
	_ = viper.BindPFlag("http.https_proxy", batchCmd.Flags().Lookup("https-proxy"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls, err := worker.ReadURLsFromFile(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	cc := a.cfg.Concurrency
	fmt.Fprintf(os.Stderr, "\n%s\n  policywatch batch\n%s\n\n", rule, rule)
	fmt.Fprintf(os.Stderr, "  Input:     %s (%d URLs)\n", args[0], len(urls))
	fmt.Fprintf(os.Stderr, "  Workers:   %d\n", cc.Workers)
	fmt.Fprintf(os.Stderr, "  Rate:      %.1f req/s per host\n", cc.RequestsPerSecond)
	fmt.Fprintf(os.Stderr, "  Backend:   %s\n\n", a.cfg.Backend.BaseURL)

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	batch := worker.NewBatch(a.newPipeline(), cc.Workers,
		worker.WithLimiter(worker.NewLimiter(cc.RequestsPerSecond, cc.BurstSize)),
		worker.WithForceCompany(batchCompany),
		worker.WithBatchLogger(a.logger.Named("batch")),
	)

	items, runErr := batch.Run(ctx, urls, func(it worker.Item) {
		if it.Err() != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", it.URL, it.Err())
			return
		}
		r := it.Report
		marker := ""
		if r.Result.Source == model.SourceFallback {
			marker = " [estimate]"
		}
		fmt.Fprintf(os.Stderr, "✓ %s  %d/100 %s%s\n", it.URL, r.Result.Score, r.Band, marker)
	})

	stats := worker.Summarize(items)
	if batchOutput != "" {
		if err := writeJSONFile(batchOutput, batchFile{Stats: stats, Items: items}); err != nil {
			return err
		}
	}

	if jsonOut {
		if err := printJSON(cmd.OutOrStdout(), batchFile{Stats: stats, Items: items}); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n%s\n  Batch Complete\n%s\n\n", rule, rule)
		fmt.Fprintf(out, "  Total:          %d URLs\n", stats.Total)
		fmt.Fprintf(out, "  Succeeded:      %d\n", stats.Succeeded)
		fmt.Fprintf(out, "  Failed:         %d\n", stats.Failed)
		fmt.Fprintf(out, "  Privacy pages:  %d\n", stats.PrivacyPages)
		fmt.Fprintf(out, "  Estimates:      %d\n", stats.Fallbacks)
		fmt.Fprintf(out, "  Average score:  %.1f\n", stats.AverageScore)
		if batchOutput != "" {
			fmt.Fprintf(out, "  Output:         %s\n", batchOutput)
		}
		fmt.Fprintln(out)
	}

	if runErr != nil {
		return fmt.Errorf("batch interrupted: %w", runErr)
	}
	return nil
}

func writeJSONFile(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return printJSON(f, v)
}
