package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/onatvural/onboarding-demo/internal/config"
	"github.com/onatvural/onboarding-demo/internal/domain"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

type stubCatalog struct{}

func (c *stubCatalog) All() []entity.FundDetail {
	return []entity.FundDetail{{ID: "stub-fon", Ad: "Stub Fon", Risk: entity.RiskLow, Getiri: 10}}
}

func (c *stubCatalog) Recommend(string, bool) []entity.FundDetail {
	return c.All()
}

// stubGenerator replays a scripted chunk sequence and records the prompt
// and window it was started with.
type stubGenerator struct {
	chunks   []entity.SnapshotChunk
	startErr error
	open     bool // leave the channel open with no writer

	gotSystem   string
	gotMessages []domain.ChatMessage
}

func (g *stubGenerator) StreamObject(_ context.Context, system string, messages []domain.ChatMessage) (<-chan entity.SnapshotChunk, error) {
	g.gotSystem = system
	g.gotMessages = messages
	if g.startErr != nil {
		return nil, g.startErr
	}
	ch := make(chan entity.SnapshotChunk, len(g.chunks)+1)
	for _, c := range g.chunks {
		ch <- c
	}
	if !g.open {
		close(ch)
	}
	return ch, nil
}

func (g *stubGenerator) StreamText(context.Context, string, []domain.ChatMessage) (<-chan entity.TextChunk, error) {
	ch := make(chan entity.TextChunk, 1)
	ch <- entity.TextChunk{IsEnd: true}
	close(ch)
	return ch, nil
}

func testConfig() config.ChatConfig {
	return config.ChatConfig{
		HistoryWindow:     10,
		PacingMinInterval: 0,
		StreamIdleTimeout: time.Second,
	}
}

func newTestUsecase(gen domain.ObjectGenerator, cfg config.ChatConfig) domain.ConversationUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConversationUsecase(gen, &stubCatalog{}, cfg, logger)
}

func userTurn(content string) *domain.ConversationRequest {
	return &domain.ConversationRequest{
		Messages: []domain.ChatMessage{{Role: "user", Content: content}},
	}
}

func collect(t *testing.T, ch <-chan entity.SnapshotChunk) []entity.SnapshotChunk {
	t.Helper()
	var out []entity.SnapshotChunk
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, chunk)
		case <-time.After(5 * time.Second):
			t.Fatal("stream did not finish")
		}
	}
}

func TestStreamConversation_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  *domain.ConversationRequest
	}{
		{name: "nil request", req: nil},
		{name: "no messages", req: &domain.ConversationRequest{}},
		{
			name: "invalid role",
			req: &domain.ConversationRequest{
				Messages: []domain.ChatMessage{{Role: "system", Content: "x"}},
			},
		},
		{
			name: "last message not from user",
			req: &domain.ConversationRequest{
				Messages: []domain.ChatMessage{
					{Role: "user", Content: "Merhaba"},
					{Role: "assistant", Content: "Hoş geldiniz"},
				},
			},
		},
		{name: "oversized content", req: userTurn(strings.Repeat("a", maxMessageLength+1))},
		{
			name: "too many messages",
			req: func() *domain.ConversationRequest {
				msgs := make([]domain.ChatMessage, maxMessageCount+1)
				for i := range msgs {
					role := "user"
					if i%2 == 1 {
						role = "assistant"
					}
					msgs[i] = domain.ChatMessage{Role: role, Content: "x"}
				}
				msgs[len(msgs)-1].Role = "user"
				return &domain.ConversationRequest{Messages: msgs}
			}(),
		},
	}

	u := newTestUsecase(&stubGenerator{}, testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.StreamConversation(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !domain.IsInvalidInput(err) {
				t.Errorf("got %v, want invalid input", err)
			}
		})
	}
}

func TestStreamConversation_StartFailureIsUpstream(t *testing.T) {
	gen := &stubGenerator{startErr: errors.New("connection refused")}
	u := newTestUsecase(gen, testConfig())

	_, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !domain.IsUpstream(err) {
		t.Errorf("got %v, want upstream", err)
	}
}

func TestStreamConversation_ForwardsAndTerminates(t *testing.T) {
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{
		{Snapshot: &entity.Snapshot{Step: 0, Text: "Hoş"}},
		{Snapshot: &entity.Snapshot{Step: 0, Text: "Hoş geldiniz"}},
		{IsEnd: true},
	}}
	u := newTestUsecase(gen, testConfig())

	ch, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	chunks := collect(t, ch)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[1].Snapshot.Text != "Hoş geldiniz" {
		t.Errorf("second snapshot text = %q", chunks[1].Snapshot.Text)
	}
	if !chunks[2].IsEnd {
		t.Error("stream not terminated with IsEnd")
	}
}

func TestStreamConversation_GuardsRegressions(t *testing.T) {
	// The backend regresses step and rewrites the text mid stream; the
	// consumer must only ever see the guarded view.
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{
		{Snapshot: &entity.Snapshot{Step: 1, Text: "Harika"}},
		{Snapshot: &entity.Snapshot{Step: 0, Text: "Bambaşka bir metin"}},
		{Snapshot: &entity.Snapshot{Step: 1, Text: "Harika! Devam edelim"}},
		{IsEnd: true},
	}}
	u := newTestUsecase(gen, testConfig())

	ch, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	var prev *entity.Snapshot
	for _, chunk := range collect(t, ch) {
		if chunk.IsEnd {
			continue
		}
		s := chunk.Snapshot
		if prev != nil {
			if s.Step < prev.Step {
				t.Errorf("step regressed from %d to %d", prev.Step, s.Step)
			}
			if !strings.HasPrefix(s.Text, prev.Text) {
				t.Errorf("text %q does not extend %q", s.Text, prev.Text)
			}
		}
		prev = s
	}
	if prev == nil || prev.Text != "Harika! Devam edelim" {
		t.Errorf("final text = %+v", prev)
	}
}

func TestStreamConversation_ErrorChunkPassedThrough(t *testing.T) {
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{
		{Snapshot: &entity.Snapshot{Step: 0, Text: "Ho"}},
		{IsEnd: true, Error: "upstream disconnected"},
	}}
	u := newTestUsecase(gen, testConfig())

	ch, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	chunks := collect(t, ch)
	last := chunks[len(chunks)-1]
	if !last.IsEnd || last.Error != "upstream disconnected" {
		t.Errorf("terminal chunk = %+v", last)
	}
}

func TestStreamConversation_ClosedWithoutTerminal(t *testing.T) {
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{
		{Snapshot: &entity.Snapshot{Step: 0, Text: "Ho"}},
	}}
	u := newTestUsecase(gen, testConfig())

	ch, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	chunks := collect(t, ch)
	if len(chunks) == 0 || !chunks[len(chunks)-1].IsEnd {
		t.Errorf("missing synthesized terminal chunk: %+v", chunks)
	}
}

func TestStreamConversation_IdleTimeout(t *testing.T) {
	gen := &stubGenerator{open: true}
	cfg := testConfig()
	cfg.StreamIdleTimeout = 30 * time.Millisecond
	u := newTestUsecase(gen, cfg)

	ch, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	chunks := collect(t, ch)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !chunks[0].IsEnd || chunks[0].Error == "" {
		t.Errorf("stalled stream not aborted: %+v", chunks[0])
	}
}

// feedGenerator hands the pump a caller-controlled channel so timing of
// closes and stalls can be driven from the test.
type feedGenerator struct {
	ch chan entity.SnapshotChunk
}

func (g *feedGenerator) StreamObject(context.Context, string, []domain.ChatMessage) (<-chan entity.SnapshotChunk, error) {
	return g.ch, nil
}

func (g *feedGenerator) StreamText(context.Context, string, []domain.ChatMessage) (<-chan entity.TextChunk, error) {
	ch := make(chan entity.TextChunk)
	close(ch)
	return ch, nil
}

// fillOutput pushes enough growing snapshots through the pump to fill the
// output buffer while the consumer reads nothing.
func fillOutput(t *testing.T, gen *feedGenerator, out <-chan entity.SnapshotChunk) {
	t.Helper()
	for i := 0; i < outChanBuffer; i++ {
		gen.ch <- entity.SnapshotChunk{Snapshot: &entity.Snapshot{Step: 0, Text: strings.Repeat("a", i+1)}}
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(out) < outChanBuffer {
		if time.Now().After(deadline) {
			t.Fatal("output buffer never filled")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStreamConversation_AbandonedConsumerUnblocksOnCancel(t *testing.T) {
	gen := &feedGenerator{ch: make(chan entity.SnapshotChunk)}
	u := newTestUsecase(gen, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := u.StreamConversation(ctx, userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	// Buffer full, consumer gone, then the generator closes without a
	// terminal chunk. The synthesized end must not be forced on a dead
	// consumer once the context is canceled.
	fillOutput(t, gen, ch)
	close(gen.ch)
	time.Sleep(20 * time.Millisecond)
	cancel()

	for _, chunk := range collect(t, ch) {
		if chunk.IsEnd {
			t.Error("terminal chunk sent after cancellation")
		}
	}
}

func TestStreamConversation_IdleTimeoutWithDeadConsumer(t *testing.T) {
	gen := &feedGenerator{ch: make(chan entity.SnapshotChunk)}
	cfg := testConfig()
	cfg.StreamIdleTimeout = 30 * time.Millisecond
	u := newTestUsecase(gen, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := u.StreamConversation(ctx, userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}

	// The generator stalls with the output buffer full. The stall report
	// has nowhere to go, so cancellation must release the pump.
	fillOutput(t, gen, ch)
	time.Sleep(60 * time.Millisecond)
	cancel()

	for _, chunk := range collect(t, ch) {
		if chunk.Error != "" {
			t.Errorf("stall report sent after cancellation: %+v", chunk)
		}
	}
}

func TestStreamConversation_WindowsHistory(t *testing.T) {
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{{IsEnd: true}}}
	cfg := testConfig()
	cfg.HistoryWindow = 4
	u := newTestUsecase(gen, cfg)

	msgs := make([]domain.ChatMessage, 9)
	for i := range msgs {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs[i] = domain.ChatMessage{Role: role, Content: strings.Repeat("m", i+1)}
	}

	ch, err := u.StreamConversation(context.Background(), &domain.ConversationRequest{Messages: msgs})
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}
	collect(t, ch)

	if len(gen.gotMessages) != 4 {
		t.Fatalf("window forwarded %d messages, want 4", len(gen.gotMessages))
	}
	if gen.gotMessages[0].Content != msgs[5].Content {
		t.Errorf("window starts at %q, want %q", gen.gotMessages[0].Content, msgs[5].Content)
	}
}

func TestStreamConversation_FormSubmitInjectsCatalog(t *testing.T) {
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{{IsEnd: true}}}
	u := newTestUsecase(gen, testConfig())

	formMsg := EncodeFormMessage("1-5 yıl", "Yatırım fonu", "Hayır", "Evet", "Bekler, izlerim", "Teknoloji")
	ch, err := u.StreamConversation(context.Background(), userTurn(formMsg))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}
	collect(t, ch)

	if !strings.Contains(gen.gotSystem, "FON VERİTABANI") {
		t.Error("fund catalog not injected for form submission")
	}
	if !strings.Contains(gen.gotSystem, "stub-fon") {
		t.Error("catalog content missing from instruction")
	}
	if !strings.Contains(gen.gotSystem, "BİLİNEN CEVAPLAR") {
		t.Error("extracted answers not echoed into instruction")
	}
}

func TestStreamConversation_OpeningTurnHasNoCatalog(t *testing.T) {
	gen := &stubGenerator{chunks: []entity.SnapshotChunk{{IsEnd: true}}}
	u := newTestUsecase(gen, testConfig())

	ch, err := u.StreamConversation(context.Background(), userTurn("Merhaba"))
	if err != nil {
		t.Fatalf("StreamConversation failed: %v", err)
	}
	collect(t, ch)

	if strings.Contains(gen.gotSystem, "FON VERİTABANI") {
		t.Error("catalog injected on the opening turn")
	}
}

func TestStreamText_Validates(t *testing.T) {
	u := newTestUsecase(&stubGenerator{}, testConfig())

	_, err := u.StreamText(context.Background(), &domain.ConversationRequest{})
	if !domain.IsInvalidInput(err) {
		t.Errorf("got %v, want invalid input", err)
	}
}
