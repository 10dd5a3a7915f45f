package rules

import (
	"fmt"
	"log/slog"

	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

// EvaluationFault reports a rule that faulted (panicked) during
// evaluation. A fault is fatal to the whole scan: skipping the offending
// rule would silently produce a partial, misleadingly-scored report.
type EvaluationFault struct {
	// RuleCode identifies the faulting rule.
	RuleCode string

	// Cause is the recovered panic value.
	Cause any
}

// Error implements the error interface.
func (e *EvaluationFault) Error() string {
	return fmt.Sprintf("rule %s faulted during evaluation: %v", e.RuleCode, e.Cause)
}

// Engine executes the rule catalogue against one document.
type Engine struct {
	catalogue []Rule
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine over the given catalogue. Pass the result
// of Catalogue() for the standard rule set.
func NewEngine(catalogue []Rule, opts ...EngineOption) *Engine {
	e := &Engine{catalogue: catalogue}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Run executes every rule in catalogue order and concatenates their
// finding sequences, preserving within-rule emission order. Rules never
// short-circuit each other; a faulting rule aborts the whole run with an
// EvaluationFault.
func (e *Engine) Run(doc *htmldoc.Document) ([]model.Finding, error) {
	findings := make([]model.Finding, 0, len(e.catalogue))

	for _, rule := range e.catalogue {
		ruleFindings, err := e.evaluate(rule, doc)
		if err != nil {
			return nil, err
		}

		e.logger.Debug("rule evaluated",
			"rule", rule.Metadata().RuleCode,
			"findings", len(ruleFindings),
		)

		findings = append(findings, ruleFindings...)
	}

	return findings, nil
}

// evaluate runs one rule, converting a panic into an EvaluationFault.
func (e *Engine) evaluate(rule Rule, doc *htmldoc.Document) (findings []model.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EvaluationFault{RuleCode: rule.Metadata().RuleCode, Cause: r}
		}
	}()
	return rule.Evaluate(doc), nil
}
