package conv

import (
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	// no Smartypants: quotes, dashes and fractions reach the user as typed
	htmlFlags  = html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func renderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders md and keeps only the tags Telegram accepts.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(renderHTML(md)))
}

// MarkdownToPlain renders md for terminals: markup is dropped, links are
// kept inline and tables are drawn with box characters.
func MarkdownToPlain(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	text, err := html2text.FromString(string(renderHTML([]byte(md))), html2text.Options{
		PrettyTables: true,
	})
	if err != nil {
		return md
	}
	return text
}

// SplitMessage cuts text into pieces no longer than maxLen bytes, preferring
// newline and then space boundaries found past the first third of a piece.
// Pieces never end inside a UTF-8 sequence. Markup is not tracked, so split
// Markdown before rendering it.
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		} else {
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if idx := strings.LastIndexAny(text[:cut], " \t"); idx > maxLen/3 {
				cut = idx
			}
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(text)
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
