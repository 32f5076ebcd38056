// Package report renders assessment results.
//
// Three writers share the Writer interface:
//   - SimpleWriter: plain text for the terminal (default)
//   - JSONWriter: the AssessmentResult as JSON, for tools and the HTTP API
//   - MarkdownWriter: GitHub Flavored Markdown with alerts, tables and,
//     for batches, a verdict pie chart
//
// MultiWriter fans a result out to several writers, e.g. terminal and file.
package report
