package rules

import (
	"fmt"

	"github.com/webshepherd/webshepherd/internal/model"
)

// Catalogue returns the fixed, ordered rule catalogue. Catalogue order is
// explicit and test-stable: finding order in a scan record is catalogue
// order, then within-rule emission order.
//
// Registration validates every rule's taxonomy. A rule with an unknown
// principle or a duplicate primary code is a programmer error and panics
// here at construction time, never at scan time.
func Catalogue() []Rule {
	catalogue := []Rule{
		// Perceivable
		NewImageAltTextRule(),

		// Understandable (language of page)
		NewHTMLLangRule(),

		// Operable
		NewPageTitleRule(),
		NewFormLabelRule(),
		NewButtonNameRule(),
		NewLinkTextRule(),

		// Understandable (structure)
		NewHeadingHierarchyRule(),
		NewSingleH1Rule(),

		// Robust
		NewDuplicateIDRule(),
		NewARIARoleRule(),
	}

	seen := make(map[string]bool, len(catalogue))
	for _, rule := range catalogue {
		meta := rule.Metadata()
		if meta.RuleCode == "" {
			panic("rule registered without a rule code")
		}
		if !model.ValidPrinciple(meta.Principle) {
			panic(fmt.Sprintf("rule %s has invalid principle %q", meta.RuleCode, meta.Principle))
		}
		if seen[meta.RuleCode] {
			panic(fmt.Sprintf("duplicate rule code %s in catalogue", meta.RuleCode))
		}
		seen[meta.RuleCode] = true
	}

	return catalogue
}
