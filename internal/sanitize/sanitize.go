// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize cleans user-supplied content with bluemonday policies.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy = newHTMLPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

// newHTMLPolicy extends the UGC policy with the class names and inline
// colors emitted by the syntax highlighter.
func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)).OnElements("code", "pre", "span")
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[a-z0-9\-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("span", "pre")
	return p
}

// HTML removes scripts, event handlers and anything else unsafe from
// rendered article HTML.
func HTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// Text strips every tag and returns plain text with entities decoded.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
