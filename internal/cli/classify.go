package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/spf13/cobra"
)

var (
	classifyOffline bool
	classifyTitle   string
)

type classifyOutput struct {
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	IsPrivacyPage bool   `json:"is_privacy_page"`
	Platform      string `json:"platform"`
	Company       string `json:"company,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Report whether a page is a privacy policy and which platform it belongs to",
	Long: `Classify fetches a page and applies the privacy-page heuristics to its
URL, title and body text.

Example:
  policywatch classify https://www.facebook.com/privacy/policy
  policywatch classify https://example.com/legal --offline --title "Terms of Service"`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyOffline, "offline", false, "classify from the URL and --title only, without fetching")
	classifyCmd.Flags().StringVar(&classifyTitle, "title", "", "page title to use with --offline")
}

func runClassify(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	title, body := classifyTitle, ""

	if !classifyOffline {
		a, err := newApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.HTTP.Timeout*3)
		defer cancel()
		if title, body, err = a.fetcher.Probe(ctx, rawURL); err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
	}

	c := classify.Classify(rawURL, title, body)
	out := classifyOutput{
		URL:           rawURL,
		Title:         title,
		IsPrivacyPage: c.IsPrivacyPage,
		Platform:      c.Platform.String(),
		Company:       classify.CompanyName(rawURL),
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), out)
	}

	verdict := "✗ not a privacy page"
	if out.IsPrivacyPage {
		verdict = "✓ privacy page"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n  Platform: %s\n  Company:  %s\n", verdict, out.Platform, out.Company)
	return nil
}
