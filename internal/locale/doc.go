// Package locale provides the bilingual label table used when rendering
// assessment results.
//
// A Table is immutable: it is built once, optionally extended with
// overrides from the configuration file, and then shared read-only by any
// number of concurrent assessments. Swapping the table per test or per
// deployment never touches process-wide state.
package locale
