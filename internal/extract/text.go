// Package extract produces a bounded, denoised text sample of a page.
package extract

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Text bounds, in runes, for the two call sites
const (
	InPageLimit = 3000 // in-page widget
	PopupLimit  = 5000 // popup panel and CLI
)

// ErrNoContent is returned when a document yields no readable text
var ErrNoContent = errors.New("no readable content on page")

// chromeElements never contribute to the sample
var chromeElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Iframe:   true,
	atom.Template: true,
	atom.Svg:      true,
}

// hiddenElements are never rendered, so they are left out of PageText
var hiddenElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// contentHints are tried in order; the first matching node is the sample root
var contentHints = []func(*html.Node) bool{
	isElement(atom.Main),
	func(n *html.Node) bool { return n.Type == html.ElementNode && getAttribute(n, "role") == "main" },
	isElement(atom.Article),
	func(n *html.Node) bool { return attrContains(n, "privacy") },
	func(n *html.Node) bool { return attrContains(n, "policy") },
	func(n *html.Node) bool { return attrContains(n, "content") },
	isElement(atom.Body),
}

// Extractor samples page text up to a fixed rune limit
type Extractor struct {
	limit int
}

// NewExtractor creates an extractor; non-positive limits use PopupLimit
func NewExtractor(limit int) *Extractor {
	if limit <= 0 {
		limit = PopupLimit
	}
	return &Extractor{limit: limit}
}

// Limit returns the extractor's bound in runes
func (e *Extractor) Limit() int {
	return e.limit
}

// Extract strips UI chrome, picks the most specific content container and
// returns its whitespace-collapsed text, cut hard at the limit. The cut
// does not look for a sentence boundary.
func (e *Extractor) Extract(doc *html.Node) (string, error) {
	if doc == nil {
		return "", ErrNoContent
	}

	tree := cloneTree(doc)
	removeAll(tree, func(n *html.Node) bool {
		return n.Type == html.CommentNode || (n.Type == html.ElementNode && chromeElements[n.DataAtom])
	})

	root := tree
	for _, hint := range contentHints {
		if match := findFirst(tree, hint); match != nil {
			root = match
			break
		}
	}

	text := collapseWhitespace(textContent(root))
	if text == "" && root != tree {
		// The chosen container was empty; use whatever the page has
		text = collapseWhitespace(textContent(tree))
	}
	if text == "" {
		return "", ErrNoContent
	}

	return truncate(text, e.limit), nil
}

// PageText returns every rendered text node of doc, whitespace-collapsed
// and unbounded. Chrome such as footers is kept. It feeds classification,
// which must see the whole page rather than the bounded sample.
func PageText(doc *html.Node) (string, error) {
	if doc == nil {
		return "", ErrNoContent
	}

	tree := cloneTree(doc)
	removeAll(tree, func(n *html.Node) bool {
		return n.Type == html.CommentNode || (n.Type == html.ElementNode && hiddenElements[n.DataAtom])
	})

	text := collapseWhitespace(textContent(tree))
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// ExtractHTML parses raw HTML and extracts from it
func (e *Extractor) ExtractHTML(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", ErrNoContent
	}
	doc, err := Parse(htmlContent)
	if err != nil {
		return "", err
	}
	return e.Extract(doc)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}
