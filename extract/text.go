package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const nbsp = "\u00a0"

// parseFragment parses an HTML fragment (typically the outer markup of a
// single container element) into a goquery document. The HTML5 parser
// never fails on malformed markup; it only errors on reader failures,
// which cannot happen for a strings.Reader, so an empty document is
// returned in that case.
func parseFragment(rawHTML string) *goquery.Document {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return goquery.NewDocumentFromNode(root)
}

// cleanText replaces non-breaking spaces with regular spaces and trims.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, nbsp, " "))
}

// nodeText returns the normalized text of the selection.
// An empty selection yields "".
func nodeText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return cleanText(sel.Text())
}

// textLines returns the visible lines of the first node in sel: every text
// node is split on line breaks, each piece is normalized and empty pieces
// are dropped. <br> separated content therefore yields one line per
// segment, as does text that carries literal newlines.
func textLines(sel *goquery.Selection) []string {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			for _, piece := range strings.Split(n.Data, "\n") {
				if line := cleanText(piece); line != "" {
					lines = append(lines, line)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(sel.Get(0))
	return lines
}

// joinedText collapses the lines of sel into a single space-separated string.
func joinedText(sel *goquery.Selection) string {
	return strings.Join(textLines(sel), " ")
}
