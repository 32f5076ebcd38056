package model

// Prediction is the top-ranked answer of the zero-shot classifier.
type Prediction struct {
	// Label is the top-ranked candidate label.
	Label string `json:"label"`

	// Score is the confidence of Label in [0, 1].
	Score float64 `json:"score"`
}

// Detail is one rendered line of the assessment explanation.
type Detail struct {
	Code    Code   `json:"code"`
	English string `json:"english"`
	Nepali  string `json:"nepali"`
}

// Meta carries bounded information about what was assessed.
type Meta struct {
	FinalURL      string `json:"final_url"`
	Title         string `json:"title"`
	RedirectCount int    `json:"redirects"`

	// TextSnippet is at most MaxSnippetLength characters of the analyzed text.
	TextSnippet string `json:"text_snippet"`

	// MarkupSnippet is at most MaxSnippetLength characters of the raw markup.
	MarkupSnippet string `json:"raw_html_snippet"`
}

// AssessmentResult is the sole output of the assessment pipeline.
// Every outcome, including invalid input and fetch failures, is expressed
// in this shape.
type AssessmentResult struct {
	Verdict Verdict  `json:"verdict"`
	English string   `json:"english"`
	Nepali  string   `json:"nepali"`
	Details []Detail `json:"details"`
	Meta    Meta     `json:"meta"`
}

// NewMeta builds a Meta with snippets bounded to MaxSnippetLength.
func NewMeta(finalURL, title string, redirects int, text, markup string) Meta {
	return Meta{
		FinalURL:      finalURL,
		Title:         title,
		RedirectCount: redirects,
		TextSnippet:   Truncate(text, MaxSnippetLength),
		MarkupSnippet: Truncate(markup, MaxSnippetLength),
	}
}

// DetailCodes returns the codes of all detail entries in order.
func (r *AssessmentResult) DetailCodes() []Code {
	codes := make([]Code, len(r.Details))
	for i, d := range r.Details {
		codes[i] = d.Code
	}
	return codes
}

// HasDetail reports whether a detail with the given code is present.
func (r *AssessmentResult) HasDetail(code Code) bool {
	for _, d := range r.Details {
		if d.Code == code {
			return true
		}
	}
	return false
}

// IndicatorCount returns the number of scored indicators in Details.
func (r *AssessmentResult) IndicatorCount() int {
	n := 0
	for _, d := range r.Details {
		if !d.Code.IsDetailOnly() {
			n++
		}
	}
	return n
}
