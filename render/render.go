// Package render turns markdown into sanitized HTML for previews and shared pages.
package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	extended goldmark.Markdown
	base     goldmark.Markdown
	policy   *bluemonday.Policy
	log      zerolog.Logger
}

func New(log zerolog.Logger) *Renderer {
	return &Renderer{
		extended: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // tables, strikethrough, task lists, autolinks
				extension.Footnote,
				extension.DefinitionList,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				htmlrenderer.WithUnsafe(), // raw HTML is passed through, the policy cleans it up
			),
		),
		base:   goldmark.New(),
		policy: newPolicy(),
		log:    log.With().Str("component", "render").Logger(),
	}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// fenced code keeps its language class as a highlighting hint
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#.-]+$`)).OnElements("code")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^footnote(s|-ref|-backref)$`)).OnElements("a", "div", "sup")
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^(fn|fnref)?[\w:-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|right|center)$`)).OnElements("th", "td")
	return p
}

// HTML renders content with the extended dialect, falls back to plain
// CommonMark when that fails, and as a last resort returns the escaped source.
// It never fails.
func (r *Renderer) HTML(content string) string {
	out, err := convert(r.extended, content)
	if err != nil {
		r.log.Warn().Err(err).Msg("extended markdown rendering failed, using base dialect")
		out, err = convert(r.base, content)
	}
	if err != nil {
		r.log.Warn().Err(err).Msg("base markdown rendering failed, showing source")
		return "<pre>" + html.EscapeString(content) + "</pre>"
	}
	return r.policy.Sanitize(out)
}

func convert(md goldmark.Markdown, content string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("markdown renderer panicked: %v", rec)
		}
	}()

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
