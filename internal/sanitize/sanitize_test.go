// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import (
	"strings"
	"testing"
)

func TestHTMLStripsScripts(t *testing.T) {
	got := HTML(`<p onclick="evil()">hi</p><script>alert(1)</script>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<p>hi</p>") {
		t.Errorf("safe markup lost: %q", got)
	}
}

func TestHTMLKeepsHighlighting(t *testing.T) {
	in := `<pre style="color:#f8f8f2"><code class="language-go"><span style="color:#66d9ef">func</span></code></pre>`
	got := HTML(in)
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code class lost: %q", got)
	}
	if !strings.Contains(got, "color") {
		t.Errorf("highlight color lost: %q", got)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain words", "plain words"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>after", "after"},
		{"fish & chips", "fish & chips"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
