// Package main provides the entry point for the WebShepherd CLI.
//
// WebShepherd is an accessibility scanner for public web pages. It fetches
// a page, checks it against a catalogue of WCAG 2.1 AA rules, and produces
// a scored report.
//
// Usage:
//
//	webshepherd scan <url> [<url>...]
//	webshepherd stats
//
// See --help for all available options.
package main

// main is the entry point for WebShepherd.
func main() {
	Execute()
}
