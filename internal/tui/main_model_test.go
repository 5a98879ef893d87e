package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"docchat/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

type stubGateway struct {
	release chan struct{}
}

func (g *stubGateway) FetchPersonas(ctx context.Context) (map[string]app.Persona, error) {
	return app.DefaultPersonas(), nil
}

func (g *stubGateway) UploadDocument(ctx context.Context, doc app.Document) (*app.UploadStats, error) {
	return &app.UploadStats{Filename: doc.Name, FileType: "pdf", TotalChunks: 1}, nil
}

func (g *stubGateway) SendChatQuery(ctx context.Context, query, personaKey string) (*app.ChatReply, error) {
	if g.release != nil {
		<-g.release
	}
	return &app.ChatReply{Response: "ok"}, nil
}

func newTestModel(session *app.Session) *MainModel {
	cfg := app.DefaultConfig()
	cfg.NoColor = true
	m := NewMainModel(session, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestHelpOverlayToggle(t *testing.T) {
	m := newTestModel(app.NewSession(&stubGateway{}, nil))

	if strings.Contains(m.View(), "docchat help") {
		t.Fatal("help visible before toggle")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	out := m.View()
	if !strings.Contains(out, "docchat help") {
		t.Fatalf("help overlay not shown:\n%s", out)
	}
	if !strings.Contains(out, "/upload <path>") || !strings.Contains(out, "/persona <key>") {
		t.Fatalf("help overlay missing command list:\n%s", out)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	if strings.Contains(m.View(), "docchat help") {
		t.Fatal("help still visible after second toggle")
	}
}

func TestEnterKeepsDraftWhileReplyPending(t *testing.T) {
	gw := &stubGateway{release: make(chan struct{})}
	session := app.NewSession(gw, nil)
	m := newTestModel(session)

	done := make(chan struct{})
	var once sync.Once
	releaseChat := func() { once.Do(func() { close(gw.release) }) }
	t.Cleanup(func() {
		releaseChat()
		<-done
	})

	go func() {
		defer close(done)
		_ = session.SubmitMessage(context.Background(), "first question")
	}()

	deadline := time.After(2 * time.Second)
	for !session.Snapshot().IsLoading {
		select {
		case <-deadline:
			t.Fatal("chat request never became in-flight")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Enter before the next tick refreshes the cached snapshot; the draft
	// must survive the rejection.
	m.input.SetValue("second question")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.input.Value(); got != "second question" {
		t.Fatalf("draft lost while reply pending: %q", got)
	}
	if n := len(session.Snapshot().Messages); n != 1 {
		t.Fatalf("expected 1 message while pending, got %d", n)
	}
}
