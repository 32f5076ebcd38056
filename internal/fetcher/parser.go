package fetcher

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// invisibleElements are subtrees that never contribute visible text.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// Document is the text extracted from an HTML page.
type Document struct {
	// Title is the trimmed <title> text, empty when there is none.
	Title string

	// Text is every visible text node, trimmed and joined by single spaces.
	Text string
}

// Parse extracts the title and visible text from HTML markup.
//
// golang.org/x/net/html is used rather than regular expressions because it
// copes with the malformed markup phishing kits routinely ship.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	parts := make([]string, 0, 64)
	titleFound := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if invisibleElements[n.Data] {
				return
			}
			if n.Data == "title" && !titleFound {
				titleFound = true
				doc.Title = strings.TrimSpace(textOf(n))
			}
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.Text = strings.Join(parts, " ")
	return doc, nil
}

// textOf concatenates all text nodes below n.
func textOf(n *html.Node) string {
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
	walk(n)
	return sb.String()
}
