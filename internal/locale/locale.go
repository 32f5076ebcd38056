package locale

import "github.com/nao1215/cyberwatchdog/internal/model"

// Table maps indicator codes to translated labels.
type Table struct {
	labels map[string]string
}

// nepaliLabels is the built-in Nepali translation of every indicator code.
var nepaliLabels = map[string]string{
	string(model.CodeInvalidURL):         "अवैध URL",
	string(model.CodeRedirects):          "धेरै रिडाइरेक्टहरू (शंकास्पद)",
	string(model.CodeIPInDomain):         "डोमेनमा IP ठेगाना",
	string(model.CodeSuspiciousTLD):      "सन्दिग्ध शीर्ष-स्तर डोमेन (TLD)",
	string(model.CodePhishingWords):      "URL वा सामग्रीमा फिसिङ सम्बन्धी शब्दहरू",
	string(model.CodeManyHyphens):        "डोमेनमा धेरै हाइफनहरू",
	string(model.CodeManySubdomains):     "धेरै सब-डोमेनहरू",
	string(model.CodeObfuscatedJS):       "सन्केतित / अवहेलित JavaScript भेटियो",
	string(model.CodeCredentialStrings):  "पासवर्ड/OTP/क्रेडेन्सियल खोजिएको",
	string(model.CodeDataURI):            "डेटा URI / एम्बेडेड base64 फेला पर्‍यो",
	string(model.CodeEmbeddedScripts):    "वेब पृष्ठमा स्क्रिप्ट/iframe फेला पर्‍यो",
	string(model.CodeClassifierPhishing): "ML मोडलले फिसिङ प्रकारको संकेत दियो",
}

// New creates a Table from the given labels. The map is copied.
func New(labels map[string]string) Table {
	t := Table{labels: make(map[string]string, len(labels))}
	for k, v := range labels {
		t.labels[k] = v
	}
	return t
}

// Nepali returns the built-in Nepali table.
func Nepali() Table {
	return New(nepaliLabels)
}

// Lookup returns the label for code. Unknown codes fall back to the code itself.
func (t Table) Lookup(code model.Code) string {
	if label, ok := t.labels[string(code)]; ok && label != "" {
		return label
	}
	return string(code)
}

// has reports whether the table contains an explicit label for code.
func (t Table) has(code model.Code) bool {
	_, ok := t.labels[string(code)]
	return ok
}

// With returns a new Table with overrides applied on top of t.
// Empty override values are ignored. t itself is left unchanged.
func (t Table) With(overrides map[string]string) Table {
	merged := New(t.labels)
	for k, v := range overrides {
		if v != "" {
			merged.labels[k] = v
		}
	}
	return merged
}

// size returns the number of labels in the table.
func (t Table) size() int {
	return len(t.labels)
}
