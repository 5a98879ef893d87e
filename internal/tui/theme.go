package tui

import "github.com/charmbracelet/lipgloss"

type ThemeName string

const (
	ThemeAurora ThemeName = "aurora"
	ThemePaper  ThemeName = "paper"
)

// Theme carries every style the views need. The two named variants replace
// what used to be two separately maintained layouts in the web client; here a
// theme is a value, not a code path.
type Theme struct {
	Name ThemeName

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Accent2  lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	PaneTitleF  lipgloss.Style
	PaneDivider lipgloss.Style
	Footer      lipgloss.Style
	InputBox    lipgloss.Style
	InputBoxF   lipgloss.Style
	Spinner     lipgloss.Style

	RoleYou lipgloss.Style
	RoleBot lipgloss.Style
	RoleSys lipgloss.Style
	RoleErr lipgloss.Style

	BannerOK  lipgloss.Style
	BannerErr lipgloss.Style

	SourceHead lipgloss.Style
	SourceChip lipgloss.Style
	SourceText lipgloss.Style

	PersonaSel  lipgloss.Style
	PersonaItem lipgloss.Style
	PersonaHint lipgloss.Style
}

// NewTheme resolves a theme by name. Unknown names fall back to aurora.
func NewTheme(name string, noColor bool) Theme {
	if noColor {
		return newNoColorTheme()
	}
	switch ThemeName(name) {
	case ThemePaper:
		return newPaperTheme()
	default:
		return newAuroraTheme()
	}
}

// NextTheme cycles aurora -> paper -> aurora, mirroring the old light/dark
// toggle.
func NextTheme(t Theme, noColor bool) Theme {
	if noColor {
		return t
	}
	if t.Name == ThemeAurora {
		return newPaperTheme()
	}
	return newAuroraTheme()
}

func finishTheme(t Theme) Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.PaneTitleF = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.PaneDivider = lipgloss.NewStyle().Foreground(t.Border)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleBot = lipgloss.NewStyle().Bold(true).Foreground(t.Accent2)
	t.RoleSys = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.RoleErr = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.BannerOK = lipgloss.NewStyle().Foreground(t.Success)
	t.BannerErr = lipgloss.NewStyle().Foreground(t.Error)

	t.SourceHead = lipgloss.NewStyle().Bold(true).Foreground(t.Accent2)
	t.SourceChip = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.SourceText = lipgloss.NewStyle().Foreground(t.TextFaint)

	t.PersonaSel = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.PersonaItem = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.PersonaHint = lipgloss.NewStyle().Foreground(t.TextFaint)
	return t
}

func newAuroraTheme() Theme {
	return finishTheme(Theme{
		Name:        ThemeAurora,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#e0e0e6"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#a1a1aa"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#8d8d96"},

		Accent:   lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#db2777", Dark: "#f472b6"},
		Success:  lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#6ee7b7"},
		Error:    lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#fca5a5"},
		Border:   lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#2d2d3a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"},
	})
}

func newPaperTheme() Theme {
	return finishTheme(Theme{
		Name:        ThemePaper,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f5f5f4"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d6d3d1"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#a8a29e"},

		Accent:   lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#be185d", Dark: "#f9a8d4"},
		Success:  lipgloss.AdaptiveColor{Light: "#047857", Dark: "#6ee7b7"},
		Error:    lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#fca5a5"},
		Border:   lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#57534e"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"},
	})
}

func newNoColorTheme() Theme {
	base := lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}
	muted := lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"}
	return finishTheme(Theme{
		Name:        "no-color",
		TextPrimary: base,
		TextMuted:   muted,
		TextFaint:   muted,
		Accent:      base,
		Accent2:     base,
		Success:     base,
		Error:       base,
		Border:      muted,
		BorderHi:    base,
	})
}
