// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts article Markdown into sanitized HTML using
// goldmark and estimates reading time.
package markdown

import (
	"bytes"
	"math"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"inkpress/internal/sanitize"
)

// WordsPerMinute is the reading speed ReadingTime assumes.
const WordsPerMinute = 200

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Raw HTML is let through here and cleaned by sanitize.HTML.
		html.WithUnsafe(),
	),
)

// ToHTML converts Markdown source into sanitized HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return sanitize.HTML(buf.String()), nil
}

// ReadingTime estimates whole minutes to read source, never less than one.
func ReadingTime(source string) int {
	words := len(strings.Fields(source))
	return max(1, int(math.Ceil(float64(words)/WordsPerMinute)))
}
