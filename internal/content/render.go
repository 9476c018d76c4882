package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer turns post bodies and code snippets into HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GFM and syntax highlighting in the
// given chroma style.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = "monokai"
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(style),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Markdown renders markdown source. Raw HTML in the source is dropped.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Code renders a highlighted code block.
func (r *Renderer) Code(lang, src string) (template.HTML, error) {
	fence := "```"
	for strings.Contains(src, fence) {
		fence += "`"
	}
	return r.Markdown(fence + lang + "\n" + strings.TrimRight(src, "\n") + "\n" + fence + "\n")
}
