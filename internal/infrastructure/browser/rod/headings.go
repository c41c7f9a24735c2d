package rod

import (
	"strings"

	"golang.org/x/net/html"
)

const maxHeadings = 20

var headingTags = map[string]bool{
	"h1": true,
	"h2": true,
	"h3": true,
	"h4": true,
}

// ExtractHeadings parses raw HTML and returns visible heading texts in
// document order: h1-h4 plus elements carrying role="heading".
func ExtractHeadings(rawHTML string) []string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var headings []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(headings) >= maxHeadings {
			return
		}
		if n.Type == html.ElementNode && isHeading(n) {
			if text := nodeText(n); text != "" {
				headings = append(headings, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return headings
}

func isHeading(n *html.Node) bool {
	if headingTags[n.Data] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "role" && attr.Val == "heading" {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
