package model

import (
	"encoding/json"
	"fmt"
)

// Verdict is the final decision of an assessment.
type Verdict int

const (
	// VerdictInvalid means the input failed basic syntactic validation.
	VerdictInvalid Verdict = iota

	// VerdictError means acquisition or processing failed for reasons
	// unrelated to content risk.
	VerdictError

	// VerdictSafe means a fused score was computed and stayed below the threshold.
	VerdictSafe

	// VerdictUnsafe means the fused score reached the threshold.
	VerdictUnsafe
)

// String returns the lowercase wire name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictInvalid:
		return "invalid"
	case VerdictError:
		return "error"
	case VerdictSafe:
		return "safe"
	case VerdictUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// ParseVerdict converts a wire name back into a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "invalid":
		return VerdictInvalid, nil
	case "error":
		return VerdictError, nil
	case "safe":
		return VerdictSafe, nil
	case "unsafe":
		return VerdictUnsafe, nil
	default:
		return VerdictError, fmt.Errorf("unknown verdict %q", s)
	}
}

// Scored reports whether the verdict was reached by score fusion.
func (v Verdict) Scored() bool {
	return v == VerdictSafe || v == VerdictUnsafe
}

// MarshalJSON encodes the verdict as its wire name.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a wire name.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
