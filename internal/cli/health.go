package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("backend %s unhealthy: %w", a.cfg.Backend.BaseURL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ backend reachable at %s\n", a.cfg.Backend.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
