package model

// MaxTextLength is the maximum number of characters of visible text kept
// from a fetched page. Longer text is truncated before any analysis runs.
const MaxTextLength = 200000

// MaxSnippetLength bounds the text and markup previews in Meta.
const MaxSnippetLength = 500

// ExtractedContent is the normalized result of fetching a single URL.
// It is produced once per assessment and never mutated afterwards.
type ExtractedContent struct {
	// FinalURL is the URL after all redirects were followed.
	FinalURL string `json:"final_url"`

	// RedirectCount is the number of redirect hops taken.
	RedirectCount int `json:"redirects"`

	// Title is the trimmed document title, empty when absent.
	Title string `json:"title"`

	// Text is the visible text with script, style and noscript removed.
	// At most MaxTextLength characters.
	Text string `json:"text"`

	// RawMarkup is the decoded response body.
	RawMarkup string `json:"-"`
}

// Truncate returns s cut to at most n characters (runes).
// Cutting on rune boundaries keeps multi-byte scripts such as Devanagari intact.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
