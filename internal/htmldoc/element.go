package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// SnippetMaxLen caps the serialized markup snippet attached to findings.
// Findings carry a representative snippet, never whole documents.
const SnippetMaxLen = 100

// Element is a read-only handle on one node of the parsed tree.
type Element struct {
	node *html.Node
}

// Tag returns the lowercase tag name.
func (e Element) Tag() string {
	return e.node.Data
}

// Attr returns the value of the named attribute and whether it is present.
// Present-but-empty and absent are distinct: an empty alt attribute is a
// deliberate decorative marker while a missing one is a violation.
func (e Element) Attr(name string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present, regardless of
// its value.
func (e Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// Text returns the trimmed concatenation of all descendant text nodes.
func (e Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.TrimSpace(sb.String())
}

// Parent returns the immediate parent element, if any. Non-element
// ancestors (the document root) yield no parent.
func (e Element) Parent() (Element, bool) {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return Element{}, false
	}
	return Element{node: p}, true
}

// Find returns the first descendant element with the given tag name in
// document order.
func (e Element) Find(tag string) (Element, bool) {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n != e.node && n.Type == html.ElementNode && n.Data == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	if found == nil {
		return Element{}, false
	}
	return Element{node: found}, true
}

// HeadingLevel returns the numeric level of a heading element (h1 → 1).
// Returns 0 for non-heading elements.
func (e Element) HeadingLevel() int {
	tag := e.Tag()
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

// Snippet returns the element serialized back to markup, truncated to
// SnippetMaxLen characters. This is the only place the document model
// round-trips to markup.
func (e Element) Snippet() string {
	var sb strings.Builder
	if err := html.Render(&sb, e.node); err != nil {
		return ""
	}
	s := sb.String()
	if len(s) > SnippetMaxLen {
		return s[:SnippetMaxLen]
	}
	return s
}
