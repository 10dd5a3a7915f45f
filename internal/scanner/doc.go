// Package scanner orchestrates accessibility scans: it fetches a page,
// parses it, runs the rule catalogue and reduces the findings into a
// terminal scan record. Batch scanning fans out over a bounded worker
// group while keeping result order stable.
package scanner
