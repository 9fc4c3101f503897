package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ppiankov/policywatch/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyLimit int
	historyStats bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses",
	Long: `History lists analyses recorded while history.enabled is set, newest
first. With --stats it shows per-platform totals instead.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show per-platform statistics")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if historyStats {
		stats, err := store.PlatformStats(ctx)
		if err != nil {
			return err
		}
		summary, err := store.Summarize(ctx)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(out, map[string]any{"summary": summary, "platforms": stats})
		}

		fmt.Fprintf(out, "  Analyses: %d  Websites: %d  Average score: %.1f  High risk: %d\n\n",
			summary.Total, summary.UniqueWebsites, summary.AverageScore, summary.HighRisk)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PLATFORM\tCOUNT\tAVG SCORE\tLAST ANALYZED")
		for _, st := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%s\n", st.Platform, st.Count, st.AverageScore, st.LastAnalyzed.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	}

	entries, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No analyses recorded. Set history.enabled: true to start recording.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTYPE\tSCORE\tSOURCE\tWEBSITE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.AnalysisType, e.Score, e.Source, e.Website)
	}
	return tw.Flush()
}
