package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/onatvural/onboarding-demo/internal/cli/config"
	"github.com/onatvural/onboarding-demo/internal/cli/ui"
)

// configureCmd sets up the CLI interactively.
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "configure server address and display name",
	Long: `Configure the CLI: the onboarding server address and the display name
that prefills the conversation. Settings are stored in ~/.onboardctl/config.json.`,
	Example: `  $ onboardctl configure`,
	RunE:    runConfigure,
}

func init() {
	configureCmd.SilenceUsage = true
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	questions := []*survey.Question{
		{
			Name: "server",
			Prompt: &survey.Input{
				Message: "Server address:",
				Default: cfg.Server,
			},
			Validate: survey.Required,
		},
		{
			Name: "name",
			Prompt: &survey.Input{
				Message: "Your name (optional, prefills the conversation):",
				Default: cfg.Name,
			},
		},
	}

	answers := struct {
		Server string
		Name   string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		ui.PrintError("prompt aborted: %v", err)
		return fmt.Errorf("prompt aborted")
	}

	cfg.Server = answers.Server
	cfg.Name = answers.Name
	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	path, _ := config.GetConfigPath()
	ui.PrintSuccess("configuration saved to %s", path)
	return nil
}
