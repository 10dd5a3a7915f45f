package rules

import (
	"fmt"

	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

// ImageAltTextRule checks WCAG 1.1.1 Non-text Content: every img element
// must carry an alt attribute. An empty alt is acceptable because it marks
// the image as decorative; a missing alt is a violation.
type ImageAltTextRule struct {
	base
}

// NewImageAltTextRule creates the image alt text rule.
func NewImageAltTextRule() *ImageAltTextRule {
	return &ImageAltTextRule{base{Metadata{
		RuleCode:      "IMG_ALT_MISSING",
		WCAGReference: "1.1.1",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrinciplePerceivable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *ImageAltTextRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	var missing []htmldoc.Element
	for _, img := range doc.Images() {
		if !img.HasAttr("alt") {
			missing = append(missing, img)
		}
	}

	if len(missing) == 0 {
		return []model.Finding{r.pass("All images have alt attributes")}
	}

	return []model.Finding{r.finding(
		model.SeverityFail,
		fmt.Sprintf("%d images missing alt attribute", len(missing)),
		`Add descriptive alt text to all images. Use alt="" for decorative images.`,
		missing[0].Snippet(),
		len(missing),
	)}
}
