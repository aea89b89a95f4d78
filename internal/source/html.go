package source

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLFormat implements Format for saved web pages, such as the FASTA view of a
// sequence database entry.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm"} }

func (f *HTMLFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return ExtractTextFromHTML(string(data))
}

// ExtractTextFromHTML returns the text of every <pre> element in s.
// Pages without <pre> fall back to all visible text, with a line break after each
// block element.
func ExtractTextFromHTML(s string) (string, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var pre []*html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
			pre = append(pre, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	var out strings.Builder
	if len(pre) == 0 {
		writeText(&out, doc)
		return out.String(), nil
	}
	for _, n := range pre {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(&out, c)
		}
		out.WriteString("\n")
	}
	return out.String(), nil
}

func writeText(out *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		out.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return
		case atom.Br:
			out.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(out, c)
	}
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		out.WriteString("\n")
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Tr, atom.Pre, atom.H1, atom.H2, atom.H3,
		atom.H4, atom.H5, atom.H6, atom.Section, atom.Article, atom.Table:
		return true
	}
	return false
}
