// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"strings"

	"github.com/CrawX/go-mail-forwarder/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var nbspReplacer = strings.NewReplacer("\u00a0", " ", "&nbsp;", " ")

// HtmlToPlainText extracts the text of the body of an html document. Line
// breaks are only produced for <br> and empty paragraphs, everything else is
// concatenated as it appears in the tree.
func HtmlToPlainText(content string, stripHistory bool) string {
	logger := log.Logger(log.LOG_MAIL)

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		logger.WithField("error", err).Warn("Could not parse html body")
		return ""
	}

	body := findBody(doc)
	if body == nil {
		logger.Warn("Could not find body node in html document")
		return ""
	}

	sb := &strings.Builder{}
	writeText(body, stripHistory, sb)
	return sb.String()
}

func findBody(doc *html.Node) *html.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || n.DataAtom != atom.Html {
			continue
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Body {
				return c
			}
		}
	}
	return nil
}

func writeText(parent *html.Node, stripHistory bool, sb *strings.Builder) {
	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(nbspReplacer.Replace(n.Data))
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Blockquote:
				if stripHistory {
					continue
				}
				writeText(n, stripHistory, sb)
			case atom.Br:
				sb.WriteString("\n")
			case atom.P:
				if isBlank(innerText(n)) {
					sb.WriteString("\n")
					continue
				}
				writeText(n, stripHistory, sb)
			case atom.Script, atom.Style, atom.Head:
			default:
				writeText(n, stripHistory, sb)
			}
		}
	}
}

func innerText(n *html.Node) string {
	sb := &strings.Builder{}
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

func isBlank(s string) bool {
	return len(strings.TrimSpace(nbspReplacer.Replace(s))) == 0
}
