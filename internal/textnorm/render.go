package textnorm

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Bullet marks tables that hold narrative lists rather than financial data
const Bullet = "•"

// blockElements end a line when rendered
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "tr": true, "li": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"document": true, "type": true, "page": true,
}

// RenderMarkup converts filing markup to plain text.
// Tables whose text has no bullet character are dropped as financial tables.
// Input without markup passes through as text.
func RenderMarkup(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		if !strings.Contains(s.Text(), Bullet) {
			s.Remove()
		}
	})

	var buf strings.Builder
	for _, n := range doc.Nodes {
		writeText(&buf, n)
	}
	return buf.String()
}

// Clean renders markup and normalizes the result
func Clean(markup string) string {
	return Normalize(RenderMarkup(markup))
}

// writeText appends text nodes verbatim, ending block elements with a newline
func writeText(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(buf, c)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		buf.WriteByte('\n')
	}
}
