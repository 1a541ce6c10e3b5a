// Package markdown turns author-supplied text (teasers, gated content) into
// safe HTML paragraphs and strips markup from admin notes.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Formatter interface {
	// Paragraphs renders text into HTML paragraphs. Inline HTML is kept when
	// it passes the UGC policy.
	Paragraphs(text string) (string, error)
	Sanitize(htmlContent string) string
	// StripTags removes every tag and keeps the text.
	StripTags(text string) string
}

type formatter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewFormatter() Formatter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("div", "span", "p")

	return &formatter{
		md:     md,
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

func (f *formatter) Paragraphs(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := f.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to format text: %w", err)
	}
	return strings.TrimSpace(f.policy.Sanitize(buf.String())), nil
}

func (f *formatter) Sanitize(htmlContent string) string {
	return f.policy.Sanitize(htmlContent)
}

func (f *formatter) StripTags(text string) string {
	return strings.TrimSpace(f.strict.Sanitize(text))
}
