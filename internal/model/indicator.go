package model

// Code identifies a single risk indicator.
// Codes are stable identifiers used as keys in the bilingual label table,
// in JSON output and in the assessment history database.
type Code string

const (
	// CodeInvalidURL is produced when the URL fails syntactic validation.
	// It short-circuits every other URL rule.
	CodeInvalidURL Code = "invalid_url"

	// CodeIPInDomain fires when the host is a literal dotted-quad IPv4 address.
	CodeIPInDomain Code = "ip_in_domain"

	// CodeSuspiciousTLD fires when the host ends in a top-level domain that is
	// disproportionately used for abuse.
	CodeSuspiciousTLD Code = "suspicious_tld"

	// CodePhishingWords fires when the full URL contains phishing-style keywords.
	CodePhishingWords Code = "phishing_words"

	// CodeManyHyphens fires when the host contains more than two hyphens.
	CodeManyHyphens Code = "many_hyphens"

	// CodeManySubdomains fires when the host contains more than three dots.
	CodeManySubdomains Code = "many_subdomains"

	// CodeObfuscatedJS fires on dynamic code execution or redirector constructs in markup.
	CodeObfuscatedJS Code = "obfuscated_js"

	// CodeCredentialStrings fires on credential-harvesting vocabulary in visible text.
	CodeCredentialStrings Code = "credential_strings"

	// CodeDataURI fires on embedded base64 HTML data URIs or data: sources.
	CodeDataURI Code = "data_uri"

	// CodeEmbeddedScripts fires on inline script or iframe elements.
	CodeEmbeddedScripts Code = "embedded_scripts"

	// CodeRedirects fires when the fetch followed more than three redirects.
	CodeRedirects Code = "redirects"

	// CodeClassifierPhishing fires when the remote classifier returns a
	// risk-associated label with confidence above one half.
	CodeClassifierPhishing Code = "classifier_phishing"

	// CodeMLLabel is the detail-only entry describing the classifier's top label.
	// It never counts towards the score.
	CodeMLLabel Code = "ml_label"

	// CodeClassifierError is the detail-only entry recorded when the classifier
	// could not be reached or answered with an error.
	CodeClassifierError Code = "classifier_error"
)

// indicatorCodes lists every code that may appear as a scored indicator.
var indicatorCodes = map[Code]bool{
	CodeInvalidURL:         true,
	CodeIPInDomain:         true,
	CodeSuspiciousTLD:      true,
	CodePhishingWords:      true,
	CodeManyHyphens:        true,
	CodeManySubdomains:     true,
	CodeObfuscatedJS:       true,
	CodeCredentialStrings:  true,
	CodeDataURI:            true,
	CodeEmbeddedScripts:    true,
	CodeRedirects:          true,
	CodeClassifierPhishing: true,
}

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}

// Known reports whether c belongs to the fixed set of indicator codes.
// The detail-only classifier codes are not indicators and report false.
func (c Code) Known() bool {
	return indicatorCodes[c]
}

// IsDetailOnly reports whether c is a classifier detail entry that is
// rendered but never scored.
func (c Code) IsDetailOnly() bool {
	return c == CodeMLLabel || c == CodeClassifierError
}

// Indicator is a single risk signal produced by a heuristic rule or by the
// classifier. Indicators are values and are never mutated after creation.
type Indicator struct {
	// Code identifies which rule produced the indicator.
	Code Code `json:"code"`

	// Detail is a short English explanation, e.g. "Suspicious TLD".
	Detail string `json:"detail"`
}

// NewIndicator creates an Indicator.
func NewIndicator(code Code, detail string) Indicator {
	return Indicator{Code: code, Detail: detail}
}

// Codes returns the codes of the given indicators in order.
func Codes(indicators []Indicator) []Code {
	codes := make([]Code, len(indicators))
	for i, ind := range indicators {
		codes[i] = ind.Code
	}
	return codes
}
