package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/onatvural/onboarding-demo/internal/cli/client"
	"github.com/onatvural/onboarding-demo/internal/cli/config"
	"github.com/onatvural/onboarding-demo/internal/cli/flow"
	"github.com/onatvural/onboarding-demo/internal/cli/types"
	"github.com/onatvural/onboarding-demo/internal/cli/ui"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

const profileTimeout = 90 * time.Second

// profileCmd runs the profile form in plain mode: the six onboarding
// questions as survey prompts instead of the TUI, then the fund
// recommendation printed once it is final.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "fill the profile form and get fund recommendations",
	Long: `Answer the six profile questions as plain prompts and receive the fund
recommendation without entering the chat TUI. Useful over plain terminals
and for scripted walkthroughs.`,
	Example: `  $ onboardctl profile`,
	RunE:    runProfile,
}

func init() {
	profileCmd.SilenceUsage = true
}

func runProfile(cmd *cobra.Command, args []string) error {
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

	answers, err := askProfileQuestions()
	if err != nil {
		ui.PrintError("prompt aborted: %v", err)
		return fmt.Errorf("prompt aborted")
	}

	ui.PrintInfo("Cevaplarınız inceleniyor...")

	ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
	defer cancel()

	last, err := streamFinalSnapshot(ctx, apiClient, profileTranscript(cfg.Name, answers))
	if err != nil {
		ui.PrintErrorBox("Hata", "Üzgünüm, bir hata oluştu. Lütfen tekrar deneyin.")
		return err
	}

	complete, ok := last.Complete()
	if !ok || complete.Summary == nil {
		ui.PrintError("the assistant did not return a recommendation")
		return fmt.Errorf("no recommendation received")
	}

	ui.PrintSuccessBox("Risk Profiliniz: "+complete.Summary.RiskProfili, renderFunds(complete.Summary))
	return nil
}

func askProfileQuestions() (flow.FormAnswers, error) {
	var answers flow.FormAnswers
	for _, q := range flow.Questions() {
		var value string
		prompt := &survey.Select{
			Message: q.Label,
			Options: q.Options,
		}
		if err := survey.AskOne(prompt, &value, survey.WithValidator(survey.Required)); err != nil {
			return answers, err
		}
		answers.SetAnswer(q.Key, value)
	}
	if !answers.Complete() {
		return answers, fmt.Errorf("form incomplete")
	}
	return answers, nil
}

// profileTranscript frames the form answers as the conversation the server
// expects: the form message last, and the name exchange in front when a
// display name is configured.
func profileTranscript(name string, answers flow.FormAnswers) []types.ChatMessage {
	formMsg := flow.BuildMessage(answers)
	if name == "" {
		return []types.ChatMessage{{Role: "user", Content: formMsg}}
	}
	return []types.ChatMessage{
		{Role: "user", Content: "Merhaba"},
		{Role: "assistant", Content: "Hoş geldiniz! İlk olarak isminizi öğrenebilir miyim?"},
		{Role: "user", Content: name},
		{Role: "assistant", Content: "Memnun oldum! Şimdi birkaç soruyla profilinizi çıkaralım."},
		{Role: "user", Content: formMsg},
	}
}

// streamFinalSnapshot drains the snapshot stream and returns the last state
// of the turn.
func streamFinalSnapshot(ctx context.Context, apiClient *client.APIClient, messages []types.ChatMessage) (*entity.Snapshot, error) {
	snapCh, errCh, err := apiClient.StreamChat(ctx, messages)
	if err != nil {
		return nil, err
	}

	var last *entity.Snapshot
	for snapCh != nil || errCh != nil {
		select {
		case snapshot, ok := <-snapCh:
			if !ok {
				snapCh = nil
				continue
			}
			last = snapshot
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if last == nil {
		return nil, fmt.Errorf("stream ended without a snapshot")
	}
	return last, nil
}

func renderFunds(summary *entity.Summary) string {
	var b strings.Builder
	for i, fund := range summary.OnerilecekFonlar {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fund.Ad)
		if fund.EnUygun {
			b.WriteString("  ★ En Uygun")
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s • %s\n", fund.Risk, fund.Kategori))
		b.WriteString(fmt.Sprintf("Yıllık getiri: %%%.1f • Minimum: %.0f TL", fund.Getiri, fund.MinimumTutar))
		if fund.NedenUygun != "" {
			b.WriteString("\n")
			b.WriteString(fund.NedenUygun)
		}
	}
	return b.String()
}
