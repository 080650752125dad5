// Package tui is the terminal frontend of the onboarding flow. It renders
// the server's snapshot stream, replacing the assistant's message in place
// as each more complete snapshot arrives, and offers the interaction the
// current snapshot asks for: free text, quick-reply buttons or the inline
// profile form.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/onatvural/onboarding-demo/internal/cli/client"
	"github.com/onatvural/onboarding-demo/internal/cli/flow"
	"github.com/onatvural/onboarding-demo/internal/cli/types"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10

	// defaultMinProcessingDisplay keeps the analysis screen up after a form
	// submit even when results arrive faster, so the reveal never flashes.
	// Overridable via min_processing_display in ~/.onboardctl/config.json.
	defaultMinProcessingDisplay = 5 * time.Second
	loadingRotateEvery          = 1200 * time.Millisecond
)

const genericErrorText = "Üzgünüm, bir hata oluştu. Lütfen tekrar deneyin."

var loadingMessages = []string{
	"Cevaplarınız inceleniyor...",
	"Risk profiliniz hesaplanıyor...",
	"Fonlar taranıyor...",
	"Size özel öneriler hazırlanıyor...",
}

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	selectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("86")).
			Padding(0, 1)
	bestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// chatEntry is one rendered message of the transcript. An assistant entry
// carries the latest snapshot of its turn; re-rendering replaces it whole.
type chatEntry struct {
	role     string
	text     string
	snapshot *entity.Snapshot
}

// ChatProgram encapsulates the chat TUI program.
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program instance. name, when set,
// prefills the input so returning users can send their name with one key.
// minDisplay bounds the analysis screen after a form submit; zero or
// negative falls back to the default.
func NewChatProgram(apiClient *client.APIClient, name string, minDisplay time.Duration) *ChatProgram {
	return &ChatProgram{model: initialModel(apiClient, name, minDisplay)}
}

// Run starts the chat TUI program.
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type chatModel struct {
	apiClient *client.APIClient

	input       textinput.Model
	contentView viewport.Model

	// transcript is what gets posted to the server each turn.
	transcript []types.ChatMessage
	entries    []chatEntry

	phase   flow.Phase
	current *entity.Snapshot

	snapCh <-chan *entity.Snapshot
	errCh  <-chan error
	cancel context.CancelFunc

	// Button picker state.
	buttonIdx int

	// Inline form state.
	formIdx     int
	formOptIdx  int
	formAnswers flow.FormAnswers

	// Reveal gate after a form submit.
	gateActive  bool
	submittedAt time.Time
	loadingIdx  int
	minDisplay  time.Duration

	err    error
	width  int
	height int
}

func initialModel(apiClient *client.APIClient, name string, minDisplay time.Duration) chatModel {
	if minDisplay <= 0 {
		minDisplay = defaultMinProcessingDisplay
	}
	input := textinput.New()
	input.Placeholder = "Merhaba yazarak başlayın"
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""
	input.TextStyle = lipgloss.NewStyle()
	input.PromptStyle = lipgloss.NewStyle()
	if name != "" {
		input.SetValue("Merhaba, ben " + name)
	}

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	return chatModel{
		apiClient:   apiClient,
		input:       input,
		contentView: contentViewport,
		phase:       flow.PhaseIdle,
		minDisplay:  minDisplay,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

type (
	streamInitMsg struct {
		snapCh <-chan *entity.Snapshot
		errCh  <-chan error
	}
	snapshotMsg    struct{ snapshot *entity.Snapshot }
	streamErrMsg   struct{ err error }
	streamDoneMsg  struct{}
	loadingTickMsg struct{}
	revealMsg      struct{}
)

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case streamInitMsg:
		// A cancel between request start and stream init settles the turn;
		// adopting the channels now would reopen it.
		if m.cancel != nil {
			m.snapCh = msg.snapCh
			m.errCh = msg.errCh
			cmds = append(cmds, waitForSnapshot(m.snapCh, m.errCh))
		}

	case snapshotMsg:
		if m.snapCh != nil {
			m.handleSnapshot(msg.snapshot)
			cmds = append(cmds, waitForSnapshot(m.snapCh, m.errCh))
		}

	case streamErrMsg:
		m.handleStreamError(msg.err)

	case streamDoneMsg:
		cmds = append(cmds, m.handleStreamDone()...)

	case loadingTickMsg:
		if m.gateActive {
			m.loadingIdx = (m.loadingIdx + 1) % len(loadingMessages)
			m.refreshContent()
			cmds = append(cmds, loadingTick())
		}

	case revealMsg:
		if m.gateActive {
			m.reveal()
		}
	}

	if m.phase == flow.PhaseIdle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC:
		cmds = append(cmds, tea.Quit)

	case tea.KeyEsc:
		if m.phase == flow.PhaseStreaming {
			// Cancellation keeps whatever already rendered.
			m.cancelStream()
		} else {
			cmds = append(cmds, tea.Quit)
		}

	case tea.KeyEnter:
		cmds = append(cmds, m.handleEnter()...)

	case tea.KeyUp:
		switch m.phase {
		case flow.PhaseAwaitingButtons:
			m.moveButton(-1)
		case flow.PhaseAwaitingForm:
			m.moveFormOption(-1)
		default:
			m.contentView.LineUp(1)
		}

	case tea.KeyDown:
		switch m.phase {
		case flow.PhaseAwaitingButtons:
			m.moveButton(1)
		case flow.PhaseAwaitingForm:
			m.moveFormOption(1)
		default:
			m.contentView.LineDown(1)
		}

	case tea.KeyLeft:
		if m.phase == flow.PhaseAwaitingButtons {
			m.moveButton(-1)
		}

	case tea.KeyRight:
		if m.phase == flow.PhaseAwaitingButtons {
			m.moveButton(1)
		}

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

func (m *chatModel) handleEnter() []tea.Cmd {
	switch m.phase {
	case flow.PhaseIdle:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return nil
		}
		m.input.Reset()
		m.input.Placeholder = ""
		return []tea.Cmd{m.sendUserMessage(text, false)}

	case flow.PhaseAwaitingButtons:
		buttons := m.current.Buttons
		if m.buttonIdx >= len(buttons) {
			return nil
		}
		return []tea.Cmd{m.sendUserMessage(buttons[m.buttonIdx], false)}

	case flow.PhaseAwaitingForm:
		questions := flow.Questions()
		q := questions[m.formIdx]
		m.formAnswers.SetAnswer(q.Key, q.Options[m.formOptIdx])
		m.formIdx++
		m.formOptIdx = 0
		if m.formIdx < len(questions) {
			m.refreshContent()
			return nil
		}
		if !m.formAnswers.Complete() {
			// A gap means an answer got lost; restart the form rather than
			// submit a partial profile.
			m.formIdx = 0
			m.refreshContent()
			return nil
		}
		return []tea.Cmd{m.sendUserMessage(flow.BuildMessage(m.formAnswers), true)}
	}
	return nil
}

func (m *chatModel) moveButton(delta int) {
	n := len(m.current.Buttons)
	if n == 0 {
		return
	}
	m.buttonIdx = ((m.buttonIdx+delta)%n + n) % n
	m.refreshContent()
}

func (m *chatModel) moveFormOption(delta int) {
	n := len(flow.Questions()[m.formIdx].Options)
	m.formOptIdx = ((m.formOptIdx+delta)%n + n) % n
	m.refreshContent()
}

func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// sendUserMessage appends the user's turn, opens a fresh assistant entry
// and starts the stream. isForm arms the minimum-display reveal gate.
func (m *chatModel) sendUserMessage(text string, isForm bool) tea.Cmd {
	m.transcript = append(m.transcript, types.ChatMessage{Role: "user", Content: text})
	if isForm {
		m.entries = append(m.entries, chatEntry{role: "user", text: "Form gönderildi"})
		m.gateActive = true
		m.submittedAt = time.Now()
		m.loadingIdx = 0
	} else {
		m.entries = append(m.entries, chatEntry{role: "user", text: text})
	}
	m.entries = append(m.entries, chatEntry{role: "assistant"})

	m.phase = flow.PhaseStreaming
	m.current = nil
	m.err = nil
	m.buttonIdx = 0
	m.refreshContent()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	transcript := m.transcript
	cmds := []tea.Cmd{func() tea.Msg {
		snapCh, errCh, err := m.apiClient.StreamChat(ctx, transcript)
		if err != nil {
			return streamErrMsg{err: err}
		}
		return streamInitMsg{snapCh: snapCh, errCh: errCh}
	}}
	if isForm {
		cmds = append(cmds, loadingTick())
	}
	return tea.Batch(cmds...)
}

func waitForSnapshot(snapCh <-chan *entity.Snapshot, errCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case snapshot, ok := <-snapCh:
			if !ok {
				return streamDoneMsg{}
			}
			return snapshotMsg{snapshot: snapshot}
		case err, ok := <-errCh:
			if !ok {
				return streamDoneMsg{}
			}
			if err != nil {
				return streamErrMsg{err: err}
			}
			return streamDoneMsg{}
		}
	}
}

func loadingTick() tea.Cmd {
	return tea.Tick(loadingRotateEvery, func(time.Time) tea.Msg {
		return loadingTickMsg{}
	})
}

// handleSnapshot replaces the assistant's current state wholesale. While
// the reveal gate is armed the snapshot is buffered and the analysis
// screen stays up.
func (m *chatModel) handleSnapshot(snapshot *entity.Snapshot) {
	m.current = snapshot
	if !m.gateActive {
		m.setLastAssistantSnapshot(snapshot)
		m.refreshContent()
	}
}

// turnSettled reports that the in-flight turn has already been closed out.
// The stream command outstanding at cancel time still delivers one late
// message; acting on it would finish the turn twice.
func (m *chatModel) turnSettled() bool {
	return m.cancel == nil && m.snapCh == nil && m.errCh == nil
}

func (m *chatModel) handleStreamError(err error) {
	if m.turnSettled() {
		return
	}
	m.snapCh, m.errCh = nil, nil
	if err != nil && !strings.Contains(err.Error(), context.Canceled.Error()) {
		m.err = err
	}
	m.gateActive = false
	m.finishTurn()
}

func (m *chatModel) handleStreamDone() []tea.Cmd {
	if m.turnSettled() {
		return nil
	}
	m.snapCh, m.errCh = nil, nil

	if m.gateActive {
		remaining := m.minDisplay - time.Since(m.submittedAt)
		if remaining > 0 {
			return []tea.Cmd{tea.Tick(remaining, func(time.Time) tea.Msg {
				return revealMsg{}
			})}
		}
		m.reveal()
		return nil
	}

	m.finishTurn()
	return nil
}

// reveal drops the gate and shows the buffered result.
func (m *chatModel) reveal() {
	m.gateActive = false
	m.finishTurn()
}

// finishTurn closes out the in-flight turn: the assistant's final text
// joins the transcript and the next interaction phase is resolved from the
// last snapshot.
func (m *chatModel) finishTurn() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.setLastAssistantSnapshot(m.current)
	if m.current != nil {
		m.transcript = append(m.transcript, types.ChatMessage{Role: "assistant", Content: m.current.Text})
	}

	m.phase = flow.Resolve(m.current, false)
	if m.phase == flow.PhaseAwaitingForm {
		m.formIdx = 0
		m.formOptIdx = 0
		m.formAnswers = flow.FormAnswers{}
	}
	m.buttonIdx = 0
	m.refreshContent()
}

func (m *chatModel) cancelStream() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.snapCh, m.errCh = nil, nil
	m.gateActive = false
	m.finishTurn()
}

func (m *chatModel) setLastAssistantSnapshot(snapshot *entity.Snapshot) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].role == "assistant" {
			m.entries[i].snapshot = snapshot
			return
		}
	}
}

// refreshContent re-renders the whole conversation into the viewport.
func (m *chatModel) refreshContent() {
	var b strings.Builder

	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.role == "user" {
			b.WriteString(boldStyle.Render("Siz"))
			b.WriteString("\n")
			b.WriteString(e.text)
			b.WriteString("\n")
			continue
		}

		b.WriteString(accentStyle.Render("Asistan"))
		b.WriteString("\n")

		last := i == len(m.entries)-1
		if last && m.gateActive {
			b.WriteString(dimStyle.Render("⏳ " + loadingMessages[m.loadingIdx]))
			b.WriteString("\n")
			continue
		}
		m.renderSnapshot(&b, e.snapshot, last)
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(genericErrorText))
		b.WriteString("\n")
	}

	display := b.String()
	if m.width > 0 {
		display = m.wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

func (m *chatModel) renderSnapshot(b *strings.Builder, snapshot *entity.Snapshot, last bool) {
	if snapshot == nil {
		if last && m.phase == flow.PhaseStreaming {
			b.WriteString(dimStyle.Render("..."))
			b.WriteString("\n")
		}
		return
	}

	if snapshot.Text != "" {
		b.WriteString(snapshot.Text)
		b.WriteString("\n")
	}

	if last {
		switch m.phase {
		case flow.PhaseAwaitingButtons:
			m.renderButtons(b, snapshot.Buttons)
		case flow.PhaseAwaitingForm:
			m.renderForm(b)
		}
	}

	if snapshot.IsComplete && snapshot.Summary != nil {
		m.renderSummary(b, snapshot.Summary)
	}
}

func (m *chatModel) renderButtons(b *strings.Builder, buttons []string) {
	b.WriteString("\n")
	for i, label := range buttons {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == m.buttonIdx {
			b.WriteString(selectStyle.Render("▸ " + label))
		} else {
			b.WriteString(dimStyle.Render("  " + label))
		}
	}
	b.WriteString("\n")
}

func (m *chatModel) renderForm(b *strings.Builder) {
	questions := flow.Questions()
	q := questions[m.formIdx]

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Soru %d/%d", m.formIdx+1, len(questions))))
	b.WriteString("\n")
	b.WriteString(boldStyle.Render(q.Label))
	b.WriteString("\n")
	for i, opt := range q.Options {
		if i == m.formOptIdx {
			b.WriteString(selectStyle.Render("▸ " + opt))
		} else {
			b.WriteString(dimStyle.Render("  " + opt))
		}
		b.WriteString("\n")
	}
}

func (m *chatModel) renderSummary(b *strings.Builder, summary *entity.Summary) {
	b.WriteString("\n")
	b.WriteString(boldStyle.Render("Risk Profiliniz: ") + accentStyle.Render(summary.RiskProfili))
	b.WriteString("\n\n")

	for _, fund := range summary.OnerilecekFonlar {
		var card strings.Builder
		card.WriteString(boldStyle.Render(fund.Ad))
		if fund.EnUygun {
			card.WriteString("  " + bestStyle.Render("★ En Uygun"))
		}
		card.WriteString("\n")
		card.WriteString(fmt.Sprintf("%s • %s", fund.Risk, fund.Kategori))
		card.WriteString("\n")
		card.WriteString(fmt.Sprintf("Yıllık getiri: %%%.1f • Minimum: %.0f TL", fund.Getiri, fund.MinimumTutar))
		card.WriteString("\n")
		card.WriteString(dimStyle.Render(fund.Aciklama))
		if fund.NedenUygun != "" {
			card.WriteString("\n")
			card.WriteString(fund.NedenUygun)
		}
		b.WriteString(cardStyle.Render(card.String()))
		b.WriteString("\n")
	}
}

func (m *chatModel) wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.WriteString(m.wrapLine(line, maxWidth))
	}

	return result.String()
}

func (m *chatModel) wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)
		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}
		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

func (m chatModel) View() string {
	status := dimStyle.Render("Beta Space Finans • Fon Asistanı")
	switch {
	case m.gateActive:
		status += dimStyle.Render(" • analiz ediliyor...")
	case m.phase == flow.PhaseStreaming:
		status += dimStyle.Render(" • yanıtlanıyor...")
	case m.phase == flow.PhaseComplete:
		status += dimStyle.Render(" • tamamlandı")
	}

	content := m.contentView.View()

	var inputView string
	switch m.phase {
	case flow.PhaseIdle:
		inputView = promptStyle.Render("> ") + m.input.View()
	case flow.PhaseStreaming:
		inputView = dimStyle.Render("> yanıt bekleniyor...")
	case flow.PhaseAwaitingButtons, flow.PhaseAwaitingForm:
		inputView = dimStyle.Render("> seçiminizi yapın")
	case flow.PhaseComplete:
		inputView = dimStyle.Render("> görüşme tamamlandı")
	}

	var help string
	switch m.phase {
	case flow.PhaseIdle:
		help = dimStyle.Render("Enter gönder • ↑↓ kaydır • Esc çıkış")
	case flow.PhaseStreaming:
		help = dimStyle.Render("Esc iptal")
	case flow.PhaseAwaitingButtons:
		help = dimStyle.Render("←→ seç • Enter onayla")
	case flow.PhaseAwaitingForm:
		help = dimStyle.Render("↑↓ seç • Enter onayla")
	case flow.PhaseComplete:
		help = dimStyle.Render("Esc çıkış")
	}

	parts := []string{status, "", content, "", inputView}
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
