package cli

import (
	"fmt"

	"github.com/ppiankov/policywatch/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the persisted extension switches",
	Long: `The switches are shared by every context:
  autoAnalyze        mark detected policies with a badge
  showNotifications  notify when a policy is detected
  extensionEnabled   master switch for detection`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current switches",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		current, err := a.settings.Get()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), current)
		}

		values := current.AsMap()
		for _, key := range settings.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-18s %v\n", key, values[key])
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change one or more switches",
	Example: `  policywatch settings set autoAnalyze=false
  policywatch settings set showNotifications=false extensionEnabled=true`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type assignment struct {
			key   string
			value bool
		}

		// parse everything before writing anything
		assignments := make([]assignment, 0, len(args))
		for _, arg := range args {
			key, value, err := settings.ParseAssignment(arg)
			if err != nil {
				return err
			}
			assignments = append(assignments, assignment{key, value})
		}

		a, err := newApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		for _, as := range assignments {
			if err := a.settings.Set(as.key, as.value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %v\n", as.key, as.value)
		}
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write defaults for any switch not yet set",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		written, err := a.settings.InitDefaults()
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "All switches already set")
			return nil
		}
		for _, key := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s initialized\n", key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsInitCmd)
}
