package tui

import (
	"strings"
	"testing"
	"time"

	"docchat/internal/app"
)

func TestFormatTimecode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00:01:23.456", "1:23"},
		{"01:02:03,789", "2:03"},
		{"00:00:07", "0:07"},
		{"12:34", "12:34"},
		{"45", "45"},
		{"", ""},
		{"ab:cd:ef", "ab:cd:ef"},
	}
	for _, tc := range cases {
		if got := FormatTimecode(tc.in); got != tc.want {
			t.Errorf("FormatTimecode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFirstSentence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Be warm. Use simple words.", "Be warm..."},
		{"No period here", "No period here"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FirstSentence(tc.in); got != tc.want {
			t.Errorf("FirstSentence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSourceChips(t *testing.T) {
	src := app.SourceReference{
		Text:      "Revenue grew 12%.",
		StartTime: "00:01:23.456",
		EndTime:   "00:01:45,000",
		Metadata: app.SourceMetadata{
			Page:    4,
			Section: "Financials",
			Speaker: "CFO",
		},
	}
	got := SourceChips(src)
	want := []string{"1:23 - 1:45", "Page 4", "Financials", "CFO"}
	if len(got) != len(want) {
		t.Fatalf("got %d chips, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chip %d = %q, want %q", i, got[i], want[i])
		}
	}

	if chips := SourceChips(app.SourceReference{Text: "bare excerpt"}); len(chips) != 0 {
		t.Errorf("expected no chips for bare reference, got %v", chips)
	}
}

func TestStatsDetail(t *testing.T) {
	if got := StatsDetail(nil); got != "" {
		t.Errorf("StatsDetail(nil) = %q", got)
	}
	pdf := &app.UploadStats{Filename: "report.pdf", FileType: "pdf", TotalChunks: 12}
	if got, want := StatsDetail(pdf), "pdf • 12 chunks"; got != want {
		t.Errorf("StatsDetail = %q, want %q", got, want)
	}
	vtt := &app.UploadStats{Filename: "talk.vtt", FileType: "vtt", TotalChunks: 8, TotalSubtitles: 240}
	if got, want := StatsDetail(vtt), "vtt • 8 chunks • 240 subtitles"; got != want {
		t.Errorf("StatsDetail = %q, want %q", got, want)
	}
}

func TestRenderEmptyState(t *testing.T) {
	r := NewTranscriptRenderer(NewTheme("aurora", true))
	out := r.Render(app.SessionView{}, 60)
	if !strings.Contains(out, "Ready to Chat!") {
		t.Fatalf("empty state missing headline:\n%s", out)
	}
	if !strings.Contains(out, "Upload any document") {
		t.Fatalf("empty state missing onboarding copy:\n%s", out)
	}
}

func TestRenderTranscript(t *testing.T) {
	r := NewTranscriptRenderer(NewTheme("aurora", true))
	ts := time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)
	view := app.SessionView{
		Messages: []app.Message{
			{ID: 1, Kind: app.KindUser, Content: "What is the summary?", Timestamp: ts},
			{
				ID: 2, Kind: app.KindBot, Content: "It covers Q3 revenue.",
				Persona: "Technical Expert", Emoji: "🔧", Timestamp: ts,
				Sources: []app.SourceReference{
					{Text: "Revenue grew 12%.", Metadata: app.SourceMetadata{Page: 4}},
				},
			},
			{ID: 3, Kind: app.KindError, Content: "Error: backend exploded", Timestamp: ts},
			{
				ID: 4, Kind: app.KindSystem, Content: "Loaded document: report.pdf (pdf)", Timestamp: ts,
				Stats: &app.UploadStats{Filename: "report.pdf", FileType: "pdf", TotalChunks: 12},
			},
		},
	}

	out := r.Render(view, 72)
	for _, want := range []string{
		"YOU",
		"What is the summary?",
		"Technical Expert",
		"Source References",
		"[Page 4]",
		"Revenue grew 12%.",
		"Error: backend exploded",
		"• Loaded document: report.pdf (pdf)",
		"pdf • 12 chunks",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q:\n%s", want, out)
		}
	}

	// Rendering holds no state; the same snapshot renders identically.
	if again := r.Render(view, 72); again != out {
		t.Error("render output differs across identical snapshots")
	}
}

func TestRenderBanner(t *testing.T) {
	r := NewTranscriptRenderer(NewTheme("paper", true))

	if out := r.RenderBanner(nil); out != "" {
		t.Fatalf("expected empty banner, got %q", out)
	}

	ok := &app.UploadStatus{
		Type:    app.UploadSuccess,
		Message: "✅ Successfully processed talk.vtt (8 chunks, vtt)",
		Stats:   &app.UploadStats{Filename: "talk.vtt", FileType: "vtt", TotalChunks: 8, TotalSubtitles: 240},
	}
	out := r.RenderBanner(ok)
	if !strings.Contains(out, "Successfully processed talk.vtt") {
		t.Errorf("banner missing message:\n%s", out)
	}
	if !strings.Contains(out, "File: talk.vtt | Type: vtt | Chunks: 8 | Subtitles: 240") {
		t.Errorf("banner missing stats line:\n%s", out)
	}

	fail := &app.UploadStatus{Type: app.UploadFailure, Message: "❌ Upload failed: disk full"}
	if out := r.RenderBanner(fail); !strings.Contains(out, "Upload failed: disk full") {
		t.Errorf("failure banner missing message:\n%s", out)
	}
}

func TestRenderPersonaList(t *testing.T) {
	r := NewTranscriptRenderer(NewTheme("aurora", true))
	view := app.SessionView{
		Personas:    app.DefaultPersonas(),
		PersonaKeys: []string{"creative", "friendly", "technical"},
		Selected:    "friendly",
	}

	out := r.RenderPersonaList(view, 40)
	if !strings.Contains(out, "> 😊 Friendly Assistant") {
		t.Errorf("selected persona not marked:\n%s", out)
	}
	if !strings.Contains(out, "Technical Expert") || !strings.Contains(out, "Creative Helper") {
		t.Errorf("persona list incomplete:\n%s", out)
	}

	if out := r.RenderPersonaList(app.SessionView{}, 40); !strings.Contains(out, "No personas loaded.") {
		t.Errorf("missing empty persona hint:\n%s", out)
	}
}
