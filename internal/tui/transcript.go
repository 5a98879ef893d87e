package tui

import (
	"fmt"
	"strconv"
	"strings"

	"docchat/internal/app"

	"github.com/charmbracelet/lipgloss"
)

// FormatTimecode rewrites an H:MM:SS[.mmm] timecode as minutes:seconds,
// dropping the hours field and anything after the first '.' or ',' in the
// seconds field. Strings that don't look like a timecode come back unchanged.
func FormatTimecode(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return s
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return s
	}
	seconds := parts[2]
	if i := strings.IndexAny(seconds, ".,"); i >= 0 {
		seconds = seconds[:i]
	}
	return fmt.Sprintf("%d:%s", minutes, seconds)
}

// FirstSentence truncates a persona prompt at its first period, the way the
// persona cards present it.
func FirstSentence(prompt string) string {
	if i := strings.Index(prompt, "."); i >= 0 {
		return prompt[:i] + "..."
	}
	return prompt
}

// SourceChips builds the metadata chips shown above a citation excerpt. Order
// is fixed: time range, page, section, location, speaker. Absent fields are
// skipped; the metadata is a loose bag, not a tagged union.
func SourceChips(src app.SourceReference) []string {
	var chips []string
	if src.StartTime != "" {
		chip := FormatTimecode(src.StartTime)
		if src.EndTime != "" {
			chip += " - " + FormatTimecode(src.EndTime)
		}
		chips = append(chips, chip)
	}
	if src.Metadata.Page > 0 {
		chips = append(chips, fmt.Sprintf("Page %d", src.Metadata.Page))
	}
	if src.Metadata.Section != "" {
		chips = append(chips, src.Metadata.Section)
	}
	if src.Metadata.Location != "" {
		chips = append(chips, src.Metadata.Location)
	}
	if src.Metadata.Speaker != "" {
		chips = append(chips, src.Metadata.Speaker)
	}
	return chips
}

// StatsDetail renders the one-line ingestion summary attached to system
// messages and the upload banner.
func StatsDetail(stats *app.UploadStats) string {
	if stats == nil {
		return ""
	}
	detail := fmt.Sprintf("%s • %d chunks", stats.FileType, stats.TotalChunks)
	if stats.TotalSubtitles > 0 {
		detail += fmt.Sprintf(" • %d subtitles", stats.TotalSubtitles)
	}
	return detail
}

// TranscriptRenderer turns session snapshots into terminal output. It holds
// only immutable configuration; rendering the same snapshot twice yields
// byte-identical output.
type TranscriptRenderer struct {
	theme    Theme
	markdown *MarkdownRenderer
}

func NewTranscriptRenderer(theme Theme) *TranscriptRenderer {
	return &TranscriptRenderer{theme: theme, markdown: NewMarkdownRenderer()}
}

// Render produces the full chat pane content for a snapshot.
func (r *TranscriptRenderer) Render(view app.SessionView, width int) string {
	if len(view.Messages) == 0 {
		return r.renderEmptyState(width)
	}
	var b strings.Builder
	for i, msg := range view.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.RenderMessage(msg, width))
	}
	return b.String()
}

// RenderMessage renders one transcript entry as a role header plus body.
func (r *TranscriptRenderer) RenderMessage(msg app.Message, width int) string {
	meta := r.theme.TopBarMeta.Render(msg.Timestamp.Format("15:04"))

	switch msg.Kind {
	case app.KindUser:
		head := r.theme.RoleYou.Render("YOU") + " " + meta
		body := lipgloss.NewStyle().Foreground(r.theme.TextPrimary).Width(width).Render(msg.Content)
		return head + "\n" + body

	case app.KindBot:
		label := strings.TrimSpace(msg.Emoji + " " + msg.Persona)
		if label == "" {
			label = "BOT"
		}
		head := r.theme.RoleBot.Render(label) + " " + meta
		body := r.markdown.Render(msg.Content, width)
		if block := r.renderSources(msg.Sources, width); block != "" {
			body += "\n" + block
		}
		return head + "\n" + body

	case app.KindError:
		return r.theme.RoleErr.Render(msg.Content)

	default: // system
		out := r.theme.RoleSys.Render("• " + msg.Content)
		if detail := StatsDetail(msg.Stats); detail != "" {
			out += "\n" + r.theme.PersonaHint.Render("  "+detail)
		}
		return out
	}
}

func (r *TranscriptRenderer) renderSources(sources []app.SourceReference, width int) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.theme.SourceHead.Render("Source References"))
	for _, src := range sources {
		b.WriteString("\n")
		if chips := SourceChips(src); len(chips) > 0 {
			b.WriteString(r.theme.SourceChip.Render("[" + strings.Join(chips, " | ") + "]"))
			b.WriteString("\n")
		}
		excerpt := lipgloss.NewStyle().Foreground(r.theme.TextFaint).Width(width - 2).Render(src.Text)
		b.WriteString(indentLines(excerpt, "  "))
	}
	return b.String()
}

// RenderBanner renders the upload status banner, or "" when no upload has
// been attempted yet.
func (r *TranscriptRenderer) RenderBanner(status *app.UploadStatus) string {
	if status == nil {
		return ""
	}
	style := r.theme.BannerOK
	if status.Type == app.UploadFailure {
		style = r.theme.BannerErr
	}
	out := style.Render(status.Message)
	if status.Stats != nil {
		detail := fmt.Sprintf("File: %s | Type: %s | Chunks: %d",
			status.Stats.Filename, status.Stats.FileType, status.Stats.TotalChunks)
		if status.Stats.TotalSubtitles > 0 {
			detail += fmt.Sprintf(" | Subtitles: %d", status.Stats.TotalSubtitles)
		}
		out += "\n" + r.theme.TopBarMeta.Render(detail)
	}
	return out
}

// renderEmptyState is the onboarding placeholder shown before any messages
// exist.
func (r *TranscriptRenderer) renderEmptyState(width int) string {
	title := r.theme.TopBarTitle.Render("Ready to Chat!")
	lines := []string{
		"",
		title,
		"",
		"Upload any document and start an intelligent conversation.",
		"Supports PDF, CSV, TXT, DOCX, VTT, SRT, JSON and XML.",
		"",
		r.theme.PersonaHint.Render("/upload <path> to load a document  •  Enter to send"),
	}
	body := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(body)
}

// RenderPersonaList renders the persona pane body: one card per persona in
// key order, the selected one marked.
func (r *TranscriptRenderer) RenderPersonaList(view app.SessionView, width int) string {
	if len(view.PersonaKeys) == 0 {
		return r.theme.PersonaHint.Render("No personas loaded.")
	}
	var b strings.Builder
	for i, key := range view.PersonaKeys {
		if i > 0 {
			b.WriteString("\n")
		}
		p := view.Personas[key]
		line := fmt.Sprintf("%s %s", p.Emoji, p.Name)
		if key == view.Selected {
			b.WriteString(r.theme.PersonaSel.Render("> " + line))
		} else {
			b.WriteString(r.theme.PersonaItem.Render("  " + line))
		}
		if p.Prompt != "" {
			hint := truncateRunes(FirstSentence(p.Prompt), maxInt(12, width-4))
			b.WriteString("\n" + r.theme.PersonaHint.Render("    "+hint))
		}
	}
	return b.String()
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-1]) + "…"
}
