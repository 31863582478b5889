// Package markdown renders post bodies to HTML as templ components and
// derives the structure the views need: heading outline, word count, and
// reading time.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

// Heading is one entry of a post's outline. ID matches the anchor the
// renderer emits on the corresponding <h*> element.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderHTML(md))
		return err
	})
}

// RenderHTML converts Markdown to HTML. On a renderer failure the source
// is returned escaped rather than dropped.
func RenderHTML(md string) string {
	out, _, err := render(md)
	if err != nil {
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return out
}

// Outline parses md and returns its heading structure without rendering.
func Outline(md string) []Heading {
	_, headings, _ := render(md)
	return headings
}

// render parses once and produces both the HTML and the heading outline,
// so outline anchors always agree with the rendered ids.
func render(md string) (string, []Heading, error) {
	source := []byte(md)
	doc := engine.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id := ""
		if v, found := h.AttributeString("id"); found {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  string(h.Text(source)),
			ID:    id,
		})
		return ast.WalkSkipChildren, nil
	})

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, source, doc); err != nil {
		return "", nil, err
	}
	return buf.String(), headings, nil
}

const wordsPerMinute = 200

// Stats counts the words of a Markdown body and estimates reading time in
// minutes. Fenced code block markers and front-matter never reach here;
// code content itself counts as text, which matches how readers skim it.
func Stats(md string) (words, minutes int) {
	words = len(strings.Fields(md))
	if words == 0 {
		return 0, 0
	}
	minutes = (words + wordsPerMinute - 1) / wordsPerMinute
	return words, minutes
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
