package heuristic

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

var (
	// dottedQuadRegex matches a literal IPv4 host.
	dottedQuadRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

	// suspiciousTLDRegex matches top-level domains that are cheap or free to
	// register and heavily used for throwaway phishing domains.
	suspiciousTLDRegex = regexp.MustCompile(`(?i)\.(ru|cn|tk|ml|cf|gq)$`)

	// phishingWordsRegex matches lure vocabulary anywhere in the URL.
	phishingWordsRegex = regexp.MustCompile(`(?i)(login|signin|secure|account|verify|update|confirm|bank|paypal|amazon|freegift)`)

	// tldRegex validates the last label of a domain name.
	tldRegex = regexp.MustCompile(`^([a-z]{2,63}|xn--[a-z0-9-]{2,59})$`)
)

// hostProfile is idna.Lookup without the hyphen rule for positions 3 and 4,
// so labels like "se--cure" are checked by the label rules below.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.Transitional(false),
	idna.CheckHyphens(false),
)

// allowedSchemes are the URL schemes accepted by ValidURL.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// urlRule is a single structural check on a URL.
type urlRule struct {
	code   model.Code
	detail string
	match  func(host, rawURL string) bool
}

// defaultURLRules returns the URL rules in their fixed evaluation order.
func defaultURLRules() []urlRule {
	return []urlRule{
		{
			code:   model.CodeIPInDomain,
			detail: "IP address in risky domain",
			match: func(host, _ string) bool {
				return dottedQuadRegex.MatchString(host)
			},
		},
		{
			code:   model.CodeSuspiciousTLD,
			detail: "Suspicious TLD",
			match: func(host, _ string) bool {
				return suspiciousTLDRegex.MatchString(host)
			},
		},
		{
			code:   model.CodePhishingWords,
			detail: "Phishing-like keywords",
			match: func(_, rawURL string) bool {
				return phishingWordsRegex.MatchString(rawURL)
			},
		},
		{
			code:   model.CodeManyHyphens,
			detail: "Many hyphens in domain",
			match: func(host, _ string) bool {
				return strings.Count(host, "-") > 2
			},
		},
		{
			code:   model.CodeManySubdomains,
			detail: "Many subdomains",
			match: func(host, _ string) bool {
				return strings.Count(host, ".") > 3
			},
		},
	}
}

// AnalyzeURL evaluates every URL rule against rawURL.
// A malformed URL yields a single invalid_url indicator and nothing else.
func (a *Analyzer) AnalyzeURL(rawURL string) []model.Indicator {
	if !ValidURL(rawURL) {
		return []model.Indicator{model.NewIndicator(model.CodeInvalidURL, "URL format invalid")}
	}

	host := hostOf(rawURL)
	indicators := make([]model.Indicator, 0, len(a.urlRules))
	for _, rule := range a.urlRules {
		fired := a.safeMatch(rule.code, func() bool {
			return rule.match(host, rawURL)
		})
		if fired {
			indicators = append(indicators, model.NewIndicator(rule.code, rule.detail))
		}
	}
	return indicators
}

// hostOf returns the lowercase host of rawURL without its port.
// It returns an empty string when rawURL cannot be parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ValidURL reports whether rawURL is a well-formed absolute URL with a
// supported scheme and a plausible public host.
func ValidURL(rawURL string) bool {
	if rawURL == "" || strings.ContainsAny(rawURL, " \t\r\n") {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] || u.Opaque != "" {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	if port := u.Port(); port != "" && !validPort(port) {
		return false
	}

	// Bracketed IPv6 literals are accepted as-is.
	if strings.Contains(host, ":") {
		return net.ParseIP(host) != nil
	}
	if dottedQuadRegex.MatchString(host) {
		return net.ParseIP(host) != nil
	}
	return validDomain(host)
}

// validDomain checks a host name label by label.
func validDomain(host string) bool {
	ascii, err := hostProfile.ToASCII(strings.TrimSuffix(host, "."))
	if err != nil {
		return false
	}
	ascii = strings.ToLower(ascii)

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return tldRegex.MatchString(labels[len(labels)-1])
}

// validPort reports whether port is a decimal number in 1..65535.
func validPort(port string) bool {
	n := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
		if n > 65535 {
			return false
		}
	}
	return n > 0
}
