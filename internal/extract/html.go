package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// NormalizeText prepares agent output for sentence splitting. Agents
// sometimes emit HTML-decorated rich text; markup is parsed and reduced to
// visible text (scripts and styles skipped), and whitespace is collapsed.
// Plain text passes through with whitespace collapsed only. Never fails:
// unparseable markup degrades to the raw text.
func NormalizeText(text string) string {
	if !strings.Contains(text, "<") {
		return collapseWhitespace(text)
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return collapseWhitespace(text)
	}
	return collapseWhitespace(visibleText(doc))
}

// visibleText extracts text nodes from HTML, skipping script/style subtrees.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
