package model

import (
	"strings"
	"testing"
)

// TestCodeKnown tests membership in the enumerated indicator set.
func TestCodeKnown(t *testing.T) {
	t.Parallel()

	known := []Code{
		CodeInvalidURL, CodeIPInDomain, CodeSuspiciousTLD, CodePhishingWords,
		CodeManyHyphens, CodeManySubdomains, CodeObfuscatedJS, CodeCredentialStrings,
		CodeDataURI, CodeEmbeddedScripts, CodeRedirects, CodeClassifierPhishing,
	}
	for _, c := range known {
		if !c.Known() {
			t.Errorf("expected %q to be known", c)
		}
	}

	for _, c := range []Code{CodeMLLabel, CodeClassifierError, Code("bogus")} {
		if c.Known() {
			t.Errorf("expected %q not to be a scored indicator", c)
		}
	}
	if !CodeMLLabel.IsDetailOnly() || !CodeClassifierError.IsDetailOnly() {
		t.Error("classifier detail codes must be detail-only")
	}
}

// TestTruncate tests rune-aware truncation.
func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "abc", n: 5, want: "abc"},
		{name: "exact limit", in: "abcde", n: 5, want: "abcde"},
		{name: "ascii cut", in: "abcdef", n: 3, want: "abc"},
		{name: "devanagari cut on rune boundary", in: "नेपाली", n: 2, want: "ने"},
		{name: "zero limit", in: "abc", n: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

// TestNewMetaBoundsSnippets tests that previews never exceed MaxSnippetLength.
func TestNewMetaBoundsSnippets(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", MaxSnippetLength*3)
	meta := NewMeta("http://example.com", "title", 2, long, long)

	if len(meta.TextSnippet) != MaxSnippetLength {
		t.Errorf("expected text snippet of %d chars, got %d", MaxSnippetLength, len(meta.TextSnippet))
	}
	if len(meta.MarkupSnippet) != MaxSnippetLength {
		t.Errorf("expected markup snippet of %d chars, got %d", MaxSnippetLength, len(meta.MarkupSnippet))
	}
	if meta.RedirectCount != 2 {
		t.Errorf("expected 2 redirects, got %d", meta.RedirectCount)
	}
}

// TestAssessmentResultHelpers tests detail lookups.
func TestAssessmentResultHelpers(t *testing.T) {
	t.Parallel()

	r := &AssessmentResult{
		Details: []Detail{
			{Code: CodeCredentialStrings},
			{Code: CodeRedirects},
			{Code: CodeMLLabel},
		},
	}

	if r.IndicatorCount() != 2 {
		t.Errorf("expected 2 indicators, got %d", r.IndicatorCount())
	}
	if !r.HasDetail(CodeMLLabel) {
		t.Error("expected ml_label detail")
	}
	if r.HasDetail(CodeDataURI) {
		t.Error("did not expect data_uri detail")
	}
	codes := r.DetailCodes()
	if len(codes) != 3 || codes[1] != CodeRedirects {
		t.Errorf("unexpected codes: %v", codes)
	}
}
