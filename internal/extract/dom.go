package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML document
func Parse(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// ExtractTitle returns the trimmed text of the document's <title>
func ExtractTitle(doc *html.Node) string {
	if doc == nil {
		return ""
	}
	title := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Title
	})
	if title == nil {
		return ""
	}
	return collapseWhitespace(textContent(title))
}

// getAttribute gets an attribute value from a node
func getAttribute(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// attrContains reports whether the id or class attribute contains needle
func attrContains(n *html.Node, needle string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, key := range []string{"id", "class"} {
		if strings.Contains(strings.ToLower(getAttribute(n, key)), needle) {
			return true
		}
	}
	return false
}

// findFirst finds the first node (depth-first) matching a predicate
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// removeAll detaches every node matching the predicate
func removeAll(n *html.Node, predicate func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if predicate(c) {
			n.RemoveChild(c)
		} else {
			removeAll(c, predicate)
		}
		c = next
	}
}

// cloneTree deep-copies a node and its descendants
func cloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneTree(c))
	}
	return clone
}

// textContent concatenates all text nodes under n, separated by spaces
func textContent(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteByte(' ')
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// collapseWhitespace turns whitespace runs into single spaces and trims
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
