package htmldoc

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headingTags are the six HTML heading element names.
var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// formControlTags are the elements exposed by Inputs().
var formControlTags = map[string]bool{
	"input": true, "textarea": true, "select": true,
}

// Document is an immutable view over one parsed HTML document for the
// lifetime of one scan.
//
// Design decision: we use golang.org/x/net/html rather than regex or a
// heavier DOM library because it correctly handles the malformed HTML
// common on the web, provides a proper tree, and is a well-maintained
// standard library extension. View methods walk the tree on demand and
// never cache mutable state, so rules cannot couple through the document.
type Document struct {
	root *html.Node

	// degraded is true when the primary parse failed and the fallback
	// fragment strategy produced the tree. Recorded as a logged signal
	// only; never surfaced as a finding or scan failure.
	degraded bool
}

// Parse parses HTML text into a Document. Any byte sequence purporting to
// be HTML yields a best-effort tree; only a total inability to construct
// a tree is an error.
func Parse(text string, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	root, err := html.Parse(strings.NewReader(text))
	if err == nil {
		return &Document{root: root}, nil
	}

	logger.Debug("primary parse failed, using lenient fallback", "error", err)

	root, fbErr := parseFragmentFallback(text)
	if fbErr != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root, degraded: true}, nil
}

// parseFragmentFallback assembles a document tree from a body-context
// fragment parse. This is more lenient than a full document parse because
// it imposes no expectations about document structure.
func parseFragmentFallback(text string) (*html.Node, error) {
	bodyCtx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(text), bodyCtx)
	if err != nil {
		return nil, err
	}

	doc := &html.Node{Type: html.DocumentNode}
	htmlNode := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	doc.AppendChild(htmlNode)
	htmlNode.AppendChild(body)
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return doc, nil
}

// Degraded reports whether the fallback parsing strategy was used.
func (d *Document) Degraded() bool {
	return d.degraded
}

// walk visits every element node in document order.
func (d *Document) walk(visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(d.root)
}

// collect returns every element satisfying pred, in document order.
func (d *Document) collect(pred func(*html.Node) bool) []Element {
	var out []Element
	d.walk(func(n *html.Node) {
		if pred(n) {
			out = append(out, Element{node: n})
		}
	})
	return out
}

// Root returns the document's html element, if one exists.
func (d *Document) Root() (Element, bool) {
	els := d.collect(func(n *html.Node) bool { return n.Data == "html" })
	if len(els) == 0 {
		return Element{}, false
	}
	return els[0], true
}

// Title returns the trimmed text of the first title element. The second
// return distinguishes an absent title element from an empty one.
func (d *Document) Title() (string, bool) {
	els := d.collect(func(n *html.Node) bool { return n.Data == "title" })
	if len(els) == 0 {
		return "", false
	}
	return els[0].Text(), true
}

// Images returns all img elements in document order.
func (d *Document) Images() []Element {
	return d.collect(func(n *html.Node) bool { return n.Data == "img" })
}

// Links returns all anchor elements in document order.
func (d *Document) Links() []Element {
	return d.collect(func(n *html.Node) bool { return n.Data == "a" })
}

// Forms returns all form elements in document order.
func (d *Document) Forms() []Element {
	return d.collect(func(n *html.Node) bool { return n.Data == "form" })
}

// Headings returns all h1–h6 elements in document order.
func (d *Document) Headings() []Element {
	return d.collect(func(n *html.Node) bool { return headingTags[n.Data] })
}

// Inputs returns all form controls (input, textarea, select) in document
// order.
func (d *Document) Inputs() []Element {
	return d.collect(func(n *html.Node) bool { return formControlTags[n.Data] })
}

// Buttons returns all button elements plus input[type=button], in
// document order.
func (d *Document) Buttons() []Element {
	return d.collect(func(n *html.Node) bool {
		if n.Data == "button" {
			return true
		}
		if n.Data != "input" {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key == "type" && strings.EqualFold(attr.Val, "button") {
				return true
			}
		}
		return false
	})
}

// ElementsByTag returns all elements with the given tag name in document
// order.
func (d *Document) ElementsByTag(tag string) []Element {
	return d.collect(func(n *html.Node) bool { return n.Data == tag })
}

// ElementsWithAttribute returns all elements carrying the named attribute,
// whatever its value, in document order.
func (d *Document) ElementsWithAttribute(name string) []Element {
	return d.collect(func(n *html.Node) bool {
		for _, attr := range n.Attr {
			if attr.Key == name {
				return true
			}
		}
		return false
	})
}

// ElementsWithRole returns all elements whose role attribute equals the
// given role, in document order.
func (d *Document) ElementsWithRole(role string) []Element {
	return d.collect(func(n *html.Node) bool {
		for _, attr := range n.Attr {
			if attr.Key == "role" && attr.Val == role {
				return true
			}
		}
		return false
	})
}

// AllIDs returns every id attribute value in document order, duplicates
// preserved. Duplicate detection is the caller's job.
func (d *Document) AllIDs() []string {
	var ids []string
	d.walk(func(n *html.Node) {
		for _, attr := range n.Attr {
			if attr.Key == "id" {
				ids = append(ids, attr.Val)
			}
		}
	})
	return ids
}
