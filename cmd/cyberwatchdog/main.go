// Package main provides the entry point for the cyberwatchdog CLI.
//
// cyberwatchdog inspects a URL or a piece of text and reports, in English
// and Nepali, whether it looks like phishing, credential harvesting or
// malware distribution.
//
// Usage:
//
//	cyberwatchdog assess <url>
//	cyberwatchdog assess --text "verify your password"
//	cyberwatchdog interactive
//	cyberwatchdog serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
