package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/policywatch/internal/messaging"
	"github.com/ppiankov/policywatch/internal/model"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <platform> <question...>",
	Short: "Ask a follow-up question about a platform's privacy practices",
	Long: `Chat sends one question to the analysis service's assistant. Unknown
platform names are sent as "Unknown".

Example:
  policywatch chat TikTok "Can I stop them from using my contacts?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	platform := model.ParsePlatform(args[0])
	question := strings.TrimSpace(strings.Join(args[1:], " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Messaging.Timeout)
	defer cancel()

	answer := messaging.NewRemoteAnalyzer(a.channel, a.logger).Ask(ctx, question, platform)
	if jsonOut {
		return printJSON(cmd.OutOrStdout(), model.ChatExchange{Question: question, Answer: answer})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Q: %s\nA: %s\n", question, answer)
	return nil
}
