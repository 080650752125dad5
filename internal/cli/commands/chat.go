package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onatvural/onboarding-demo/internal/cli/client"
	"github.com/onatvural/onboarding-demo/internal/cli/config"
	"github.com/onatvural/onboarding-demo/internal/cli/tui"
	"github.com/onatvural/onboarding-demo/internal/cli/ui"
)

// chatCmd is the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start the interactive onboarding conversation",
	Long: `Start the interactive fund onboarding conversation.

The assistant's reply streams in live and rewrites itself as it completes.
Depending on where you are in the flow you answer with free text, pick a
quick-reply button or fill the inline profile form.`,
	Example: `  # Start the conversation
  $ onboardctl chat

  # Keyboard controls:
  • Enter sends / confirms
  • ↑↓ and ←→ navigate buttons and form options
  • Esc cancels a streaming reply, or exits`,
	RunE: runChat,
}

func init() {
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'onboardctl chat' to start the conversation.")
		return fmt.Errorf("invalid arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	apiClient, err := client.NewAPIClient(cfg.Server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintChatWelcomeBanner()

	program := tui.NewChatProgram(apiClient, cfg.Name, cfg.MinDisplay())
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
