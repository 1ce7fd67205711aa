package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed terms.md
var termsMarkdown []byte

// Raw HTML in the markdown is escaped; WithUnsafe is not set.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Typographer),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type Page struct {
	Title    string        `json:"title"`
	Markdown string        `json:"markdown"`
	HTML     template.HTML `json:"html"`
}

// Terms holds the rendered terms and conditions the registration form refers to.
type Terms struct {
	page Page
}

func NewTerms() (*Terms, error) {
	return newTerms(termsMarkdown)
}

func newTerms(src []byte) (*Terms, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render terms: %w", err)
	}
	return &Terms{page: Page{
		Title:    title(src),
		Markdown: string(src),
		HTML:     template.HTML(buf.String()),
	}}, nil
}

func (t *Terms) Page() Page {
	return t.page
}

// title is the text of the first level-one heading.
func title(src []byte) string {
	for _, line := range bytes.Split(src, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("# ")) {
			return string(bytes.TrimSpace(line[2:]))
		}
	}
	return ""
}
