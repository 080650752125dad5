package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onatvural/onboarding-demo/internal/cli/ui"
)

const version = "0.1.0"

// rootCmd is the root command.
var rootCmd = &cobra.Command{
	Use:     "onboardctl",
	Short:   "Beta Space Finans onboarding CLI",
	Version: version,
	Long: `A terminal client for the Beta Space Finans fund onboarding assistant.
The assistant walks you through a short profile conversation and recommends
investment funds matching your risk profile, streamed live into the terminal.`,
	Example: `  # Configure the server and your name
  $ onboardctl configure

  # Start the onboarding conversation
  $ onboardctl chat

  # Fill the profile form without the TUI
  $ onboardctl profile

  # Free-form questions about funds
  $ onboardctl ask "Likit fon nedir?"`,
}

// Execute executes the root command.
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(configureCmd)

	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

func formatVersion() string {
	return fmt.Sprintf("onboardctl version %s\n", version)
}
