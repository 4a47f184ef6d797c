package textclean

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/r3d91ll/spindle/pkg/errors"
)

// TestClean tests the full cleaning sequence on representative inputs.
func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain ascii is lowercased",
			raw:  "Hello World",
			want: "hello world",
		},
		{
			name: "punctuation is stripped",
			raw:  "Hello, World! How's it going?",
			want: "hello world hows it going",
		},
		{
			name: "newlines become spaces",
			raw:  "first line\nsecond line",
			want: "first line second line",
		},
		{
			name: "mojibake norwegian vowel is re-decoded",
			// "på" exported as Latin-1-mangled UTF-8.
			raw:  "pÃ¥",
			want: "på",
		},
		{
			name: "mojibake emoji survives punctuation stripping",
			// U+1F600 as four mangled Latin-1 code points.
			raw:  "hei \u00f0\u009f\u0098\u0080",
			want: "hei \U0001f600",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "punctuation only",
			raw:  "?!...",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(tt.raw)
			if err != nil {
				t.Fatalf("Clean(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestCleanErrors tests the two encoding failure modes.
func TestCleanErrors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantCode string
	}{
		{
			name:     "code point above latin-1 range",
			raw:      "日本語",
			wantCode: errors.ErrEncodingNotLatin1,
		},
		{
			name: "reinterpreted bytes are not utf-8",
			// A lone å is the byte 0xE5 after reinterpretation, which is
			// an invalid UTF-8 sequence on its own.
			raw:      "blå",
			wantCode: errors.ErrEncodingNotUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Clean(tt.raw)
			if err == nil {
				t.Fatalf("Clean(%q) expected error", tt.raw)
			}
			var perr *errors.PipelineError
			if !stderrors.As(err, &perr) {
				t.Fatalf("expected *errors.PipelineError, got %T", err)
			}
			if perr.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", perr.Code, tt.wantCode)
			}
		})
	}
}

// TestCleanIdempotent tests that cleaning already-clean ASCII text twice
// yields the same result as cleaning it once.
func TestCleanIdempotent(t *testing.T) {
	raw := "Hello, World!\nSee you."

	once, err := Clean(raw)
	if err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	twice, err := Clean(once)
	if err != nil {
		t.Fatalf("second Clean: %v", err)
	}
	if once != twice {
		t.Errorf("Clean not idempotent: %q vs %q", once, twice)
	}
}

// TestCleanProperties tests the output invariants over a spread of inputs:
// no uppercase, no ASCII punctuation, no newlines.
func TestCleanProperties(t *testing.T) {
	inputs := []string{
		"Hello!",
		"A, B; C: D.",
		"multi\nline\ntext",
		"MiXeD CaSe 123",
		"(parens) [brackets] {braces}",
		"tabs\tare kept",
	}

	for _, raw := range inputs {
		got, err := Clean(raw)
		if err != nil {
			t.Fatalf("Clean(%q): %v", raw, err)
		}
		if got != strings.ToLower(got) {
			t.Errorf("Clean(%q) = %q contains uppercase", raw, got)
		}
		if strings.ContainsAny(got, asciiPunctuation) {
			t.Errorf("Clean(%q) = %q contains punctuation", raw, got)
		}
		if strings.Contains(got, "\n") {
			t.Errorf("Clean(%q) = %q contains newline", raw, got)
		}
	}
}
