// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple two words", "Hello World", "hello-world"},
		{"title with year", "Hello World 2026", "hello-world-2026"},
		{"punctuation marks", "Hello, World! How's it going?", "hello-world-hows-it-going"},
		{"ampersand and at sign", "Rock & Roll @ the Arena", "rock-roll-the-arena"},
		{"parentheses and brackets", "Version (2.0) [Beta]", "version-20-beta"},
		{"accents folded", "Café Crème Brûlée", "cafe-creme-brulee"},
		{"umlauts folded", "Über Größe", "uber-groe"},
		{"emoji stripped", "Launch 🚀 Day", "launch-day"},
		{"only unicode chars", "日本語", ""},
		{"surrounding spaces", "  padded  ", "padded"},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
		{"hyphen runs collapsed", "a -- b --- c", "a-b-c"},
		{"leading and trailing hyphens", "--edge--", "edge"},
		{"empty string", "", ""},
		{"only special characters", "!@#$%^&*()", ""},
		{"colon separated title", "Go: The Good Parts", "go-the-good-parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	for _, input := range []string{"Hello World", "Café Society", "a -- b", "Version (2.0)"} {
		once := Generate(input)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestGenerateTruncatesAtWordBoundary(t *testing.T) {
	input := strings.Repeat("word ", 100)
	got := Generate(input)
	if len(got) > MaxLength {
		t.Fatalf("length %d exceeds MaxLength", len(got))
	}
	if strings.HasSuffix(got, "-") || !strings.HasSuffix(got, "word") {
		t.Errorf("expected cut on a word boundary, got suffix %q", got[len(got)-6:])
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hello-world", true},
		{"a", true},
		{"2026", true},
		{"", false},
		{"Hello", false},
		{"-lead", false},
		{"trail-", false},
		{"double--hyphen", false},
		{"with space", false},
		{strings.Repeat("a", MaxLength+1), false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("post", 1); got != "post" {
		t.Errorf("n=1: got %q", got)
	}
	if got := WithSuffix("post", 3); got != "post-3" {
		t.Errorf("n=3: got %q", got)
	}

	long := Generate(strings.Repeat("word ", 100))
	got := WithSuffix(long, 12)
	if len(got) > MaxLength || !strings.HasSuffix(got, "-12") || !Valid(got) {
		t.Errorf("long suffix: len %d, %q", len(got), got[len(got)-8:])
	}
}
