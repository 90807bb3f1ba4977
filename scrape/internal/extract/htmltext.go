package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/avis/textproc"
)

// CollectText walks an HTML fragment and returns its visible text,
// skipping script/style subtrees. Used for nested blocks (owner responses)
// where a single text span cannot be targeted.
func CollectText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	collect(doc, &sb)
	return textproc.Clean(sb.String())
}

func collect(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript:
			return
		case atom.Button:
			// Expansion controls ("More") are chrome, not content.
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, sb)
	}
}
