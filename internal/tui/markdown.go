package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	mdCodeBlockRe  = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	mdInlineCodeRe = regexp.MustCompile(`<code>([^<]+)</code>`)
	mdHeadingRe    = regexp.MustCompile(`<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	mdStrongRe     = regexp.MustCompile(`<strong>(.*?)</strong>`)
	mdEmRe         = regexp.MustCompile(`<em>(.*?)</em>`)
	mdListItemRe   = regexp.MustCompile(`<li>(.*?)</li>`)
	mdTagRe        = regexp.MustCompile(`<[^>]+>`)
	mdBlankRunsRe  = regexp.MustCompile(`\n{3,}`)
)

// MarkdownRenderer converts bot reply bodies to terminal text: markdown is
// rendered to HTML by goldmark, then the handful of tags we care about are
// rewritten as ANSI-styled text, with chroma highlighting fenced code.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("monokai"),
	}
}

// Render converts markdown content to terminal output wrapped at width.
// Content that fails to parse is returned as-is.
func (r *MarkdownRenderer) Render(content string, width int) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}

	out := buf.String()

	var fences []string
	out = mdCodeBlockRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdCodeBlockRe.FindStringSubmatch(m)
		code := decodeEntities(strings.TrimRight(sub[2], "\n"))
		fences = append(fences, r.highlight(code, sub[1]))
		return fmt.Sprintf("\n\x00fence:%d\x00\n", len(fences)-1)
	})

	out = mdInlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdInlineCodeRe.FindStringSubmatch(m)
		return lipgloss.NewStyle().Bold(true).Render("`" + decodeEntities(sub[1]) + "`")
	})

	out = mdHeadingRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdHeadingRe.FindStringSubmatch(m)
		text := mdTagRe.ReplaceAllString(sub[2], "")
		return lipgloss.NewStyle().Bold(true).Underline(sub[1] == "1").Render(text) + "\n"
	})

	out = mdStrongRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdStrongRe.FindStringSubmatch(m)
		return lipgloss.NewStyle().Bold(true).Render(sub[1])
	})
	out = mdEmRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdEmRe.FindStringSubmatch(m)
		return lipgloss.NewStyle().Italic(true).Render(sub[1])
	})

	out = mdListItemRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdListItemRe.FindStringSubmatch(m)
		return "  • " + mdTagRe.ReplaceAllString(sub[1], "") + "\n"
	})

	out = strings.NewReplacer("<p>", "", "</p>", "\n", "<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(out)
	out = mdTagRe.ReplaceAllString(out, "")
	out = decodeEntities(out)

	for i, fence := range fences {
		out = strings.ReplaceAll(out, fmt.Sprintf("\x00fence:%d\x00", i), fence)
	}

	out = mdBlankRunsRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)

	if width > 0 {
		out = lipgloss.NewStyle().Width(width).Render(out)
	}
	return out
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&#x60;", "`",
	"&nbsp;", " ",
)

func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
