package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onatvural/onboarding-demo/internal/cli/client"
	"github.com/onatvural/onboarding-demo/internal/cli/config"
	"github.com/onatvural/onboarding-demo/internal/cli/types"
	"github.com/onatvural/onboarding-demo/internal/cli/ui"
)

// askCmd sends a one-shot question to the plain-text endpoint.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "ask a free-form question about funds",
	Long: `Ask a one-shot question outside the onboarding flow. The answer streams
as plain text straight to the terminal.`,
	Example: `  $ onboardctl ask "Likit fon nedir?"
  $ onboardctl ask Altın fonları enflasyona karşı korur mu?`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.SilenceUsage = true
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		ui.PrintError("question must not be empty")
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	messages := []types.ChatMessage{{Role: "user", Content: question}}
	textCh, errCh, err := apiClient.StreamText(ctx, messages)
	if err != nil {
		ui.PrintError("request failed: %v", err)
		return fmt.Errorf("request failed")
	}

	for textCh != nil || errCh != nil {
		select {
		case delta, ok := <-textCh:
			if !ok {
				textCh = nil
				continue
			}
			fmt.Print(delta)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				fmt.Println()
				ui.PrintError("stream failed: %v", err)
				return fmt.Errorf("stream failed")
			}
		}
	}
	fmt.Println()

	return nil
}
