package render

import (
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

type failingMarkdown struct {
	goldmark.Markdown
}

func (failingMarkdown) Convert(source []byte, w io.Writer, opts ...parser.ParseOption) error {
	return errors.New("boom")
}

type panickingMarkdown struct {
	goldmark.Markdown
}

func (panickingMarkdown) Convert(source []byte, w io.Writer, opts ...parser.ParseOption) error {
	panic("bad extension")
}

func TestHTML_Headers(t *testing.T) {
	r := New(zerolog.Nop())

	tests := []struct {
		input    string
		expected string
	}{
		{"# Header 1", "Header 1</h1>"},
		{"## Header 2", "Header 2</h2>"},
		{"### Header 3", "Header 3</h3>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Contains(t, r.HTML(tt.input), tt.expected)
		})
	}
}

func TestHTML_Lists(t *testing.T) {
	result := New(zerolog.Nop()).HTML("- Item 1\n- Item 2")

	assert.Contains(t, result, "<ul>")
	assert.Contains(t, result, "<li>Item 1</li>")
	assert.Contains(t, result, "<li>Item 2</li>")
}

func TestHTML_Table(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |"
	result := New(zerolog.Nop()).HTML(input)

	assert.Contains(t, result, "<table>")
	assert.Contains(t, result, "<th>a</th>")
	assert.Contains(t, result, "<td>2</td>")
}

func TestHTML_FencedCodeKeepsLanguageHint(t *testing.T) {
	input := "```go\nfmt.Println(1)\n```"
	result := New(zerolog.Nop()).HTML(input)

	assert.Contains(t, result, `<code class="language-go">`)
	assert.Contains(t, result, "fmt.Println(1)")
}

func TestHTML_StripsScripts(t *testing.T) {
	input := "Hello <script>alert(1)</script> **world**"
	result := New(zerolog.Nop()).HTML(input)

	assert.NotContains(t, result, "<script>")
	assert.Contains(t, result, "<strong>world</strong>")
}

func TestHTML_FallsBackToBaseDialect(t *testing.T) {
	r := New(zerolog.Nop())
	r.extended = failingMarkdown{}

	result := r.HTML("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |")

	assert.Contains(t, result, "Title</h1>")
	assert.NotContains(t, result, "<table>")
}

func TestHTML_RecoversFromPanic(t *testing.T) {
	r := New(zerolog.Nop())
	r.extended = panickingMarkdown{}

	assert.Contains(t, r.HTML("*hi*"), "<em>hi</em>")
}

func TestHTML_LastResortEscapesSource(t *testing.T) {
	r := New(zerolog.Nop())
	r.extended = failingMarkdown{}
	r.base = failingMarkdown{}

	assert.Equal(t, "<pre>&lt;b&gt;x&lt;/b&gt;</pre>", r.HTML("<b>x</b>"))
}
