// Package rules implements the fixed WCAG 2.1 AA rule catalogue, the
// engine that executes it against one document, and the aggregation that
// reduces findings into counters and a score. Rules are stateless pure
// functions over the immutable document model; extending the catalogue
// means adding a new Rule value with a new rule code, never touching the
// engine.
package rules
