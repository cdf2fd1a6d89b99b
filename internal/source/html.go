package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Noscript: true,
}

// CleanHTML extracts the page title and its visible text with all runs of
// whitespace collapsed to a single space.
func CleanHTML(r io.Reader) (title string, text string, err error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Title && title == "" && n.FirstChild != nil {
				title = collapseSpaces(n.FirstChild.Data)
			}
		}
		if n.Type == html.TextNode {
			if s := collapseSpaces(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return title, strings.Join(parts, " "), nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
