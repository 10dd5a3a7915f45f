// Package htmldoc provides an immutable, query-oriented view over one
// parsed HTML document. Parsing is best effort: malformed markup is
// tolerated, and a failed primary parse falls back to a more lenient
// fragment-based strategy before giving up. The document is never mutated
// after construction and is safe for concurrent reads by all rules.
package htmldoc
