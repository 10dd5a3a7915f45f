// Package fetcher retrieves raw HTML document bytes for a URL under strict
// resource bounds: a wall-clock timeout covering the whole exchange, a
// redirect hop limit, a response size limit, and an HTML content-type gate.
// Every failure is terminal for the fetch attempt; the fetcher never
// retries and holds no state across calls.
package fetcher
