package heuristic

import (
	"regexp"

	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

var (
	// obfuscatedJSRegex matches dynamic code execution and redirector constructs.
	obfuscatedJSRegex = regexp.MustCompile(`(?i)(eval\s*\(|atob\s*\(|unescape\s*\(|new Function\s*\(|window\.location|document\.write|setTimeout\s*\()`)

	// credentialRegex matches vocabulary used by credential-harvesting pages.
	credentialRegex = regexp.MustCompile(`(?i)(password|passwd|pin|otp|one[-\s]*time|cvv|card number|credit card)`)

	// dataURIRegex matches embedded base64 HTML documents and data: sources.
	dataURIRegex = regexp.MustCompile(`(?i)data:text/html;base64|src=["']data:`)

	// embeddedScriptsRegex matches inline script and iframe elements.
	embeddedScriptsRegex = regexp.MustCompile(`(?i)<iframe|<script`)
)

// contentRule is a single pattern check on page content.
type contentRule struct {
	code   model.Code
	detail string
	match  func(text, markup string) bool
}

// defaultContentRules returns the content rules in their fixed evaluation order.
func defaultContentRules() []contentRule {
	return []contentRule{
		{
			code:   model.CodeObfuscatedJS,
			detail: "Obfuscated JS or redirector code",
			match: func(_, markup string) bool {
				return obfuscatedJSRegex.MatchString(markup)
			},
		},
		{
			code:   model.CodeCredentialStrings,
			detail: "Credential harvesting indicators",
			match: func(text, _ string) bool {
				// NFKC folds full-width and compatibility forms used to dodge keyword filters.
				return credentialRegex.MatchString(norm.NFKC.String(text))
			},
		},
		{
			code:   model.CodeDataURI,
			detail: "Data URI or embedded base64",
			match: func(_, markup string) bool {
				return dataURIRegex.MatchString(markup)
			},
		},
		{
			code:   model.CodeEmbeddedScripts,
			detail: "Embedded script/iframe",
			match: func(_, markup string) bool {
				return embeddedScriptsRegex.MatchString(markup)
			},
		},
	}
}

// AnalyzeContent evaluates every content rule against text and rawMarkup.
// For raw text input the caller passes the same string for both.
func (a *Analyzer) AnalyzeContent(text, rawMarkup string) []model.Indicator {
	indicators := make([]model.Indicator, 0, len(a.contentRules))
	for _, rule := range a.contentRules {
		fired := a.safeMatch(rule.code, func() bool {
			return rule.match(text, rawMarkup)
		})
		if fired {
			indicators = append(indicators, model.NewIndicator(rule.code, rule.detail))
		}
	}
	return indicators
}
