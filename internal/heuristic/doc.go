// Package heuristic implements the deterministic rule engine of the
// assessment pipeline.
//
// Two rule sets are provided:
//   - URL rules inspect the structure of a URL (IP-literal host, risky TLD,
//     phishing keywords, excessive hyphens and subdomains).
//   - Content rules inspect visible text and raw markup (obfuscated
//     script, credential vocabulary, data URIs, embedded script/iframe).
//
// Rules are pure, independent and additive. Every rule is evaluated, in a
// fixed order, and each one that matches contributes exactly one indicator.
// The emission order is part of the observable contract: callers and tests
// rely on it for reproducible output.
//
// A rule that panics is recovered, logged and treated as not fired, so a
// single faulty pattern can never take down an assessment.
package heuristic
