package locale

import (
	"testing"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

func TestNepaliCoversEveryIndicator(t *testing.T) {
	t.Parallel()

	table := Nepali()
	codes := []model.Code{
		model.CodeInvalidURL, model.CodeIPInDomain, model.CodeSuspiciousTLD,
		model.CodePhishingWords, model.CodeManyHyphens, model.CodeManySubdomains,
		model.CodeObfuscatedJS, model.CodeCredentialStrings, model.CodeDataURI,
		model.CodeEmbeddedScripts, model.CodeRedirects, model.CodeClassifierPhishing,
	}
	for _, c := range codes {
		if !table.has(c) {
			t.Errorf("missing Nepali label for %q", c)
		}
		if table.Lookup(c) == string(c) {
			t.Errorf("label for %q falls back to the code", c)
		}
	}
}

func TestLookupFallsBackToCode(t *testing.T) {
	t.Parallel()

	table := Nepali()
	if got := table.Lookup(model.Code("brand_new_rule")); got != "brand_new_rule" {
		t.Errorf("expected fallback to code, got %q", got)
	}
}

func TestWithDoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	base := Nepali()
	original := base.Lookup(model.CodeDataURI)

	custom := base.With(map[string]string{
		string(model.CodeDataURI):   "custom label",
		"brand_new_rule":            "new",
		string(model.CodeRedirects): "",
	})

	if got := custom.Lookup(model.CodeDataURI); got != "custom label" {
		t.Errorf("expected override, got %q", got)
	}
	if got := custom.Lookup(model.Code("brand_new_rule")); got != "new" {
		t.Errorf("expected new label, got %q", got)
	}
	if got := custom.Lookup(model.CodeRedirects); got != base.Lookup(model.CodeRedirects) {
		t.Errorf("empty override must be ignored, got %q", got)
	}
	if got := base.Lookup(model.CodeDataURI); got != original {
		t.Errorf("base table was mutated: %q", got)
	}
	if custom.size() != base.size()+1 {
		t.Errorf("expected %d labels, got %d", base.size()+1, custom.size())
	}
}

func TestNewCopiesInput(t *testing.T) {
	t.Parallel()

	src := map[string]string{"x": "one"}
	table := New(src)
	src["x"] = "two"

	if got := table.Lookup(model.Code("x")); got != "one" {
		t.Errorf("table must not alias its input, got %q", got)
	}
}
