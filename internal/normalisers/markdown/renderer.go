// Package markdown renders GitHub-flavoured issue bodies to ticket HTML.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// CellStyle is applied to every table cell so tables stay readable in the
// desk's agent view.
const CellStyle = "padding-left:10px;padding-right:10px;"

// Ensure Renderer implements the interface.
var _ driven.MarkdownRenderer = (*Renderer)(nil)

// escapedNewlines turns literal \r\n and \n sequences, as sometimes stored
// by issue templates, into real line breaks.
var escapedNewlines = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n")

// Renderer converts markdown to sanitised HTML. Task-list syntax is left
// as plain text and single newlines become <br>.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
			goldmark.WithRendererOptions(mdhtml.WithHardWraps(), mdhtml.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render returns the HTML for body. An empty body renders as "".
func (r *Renderer) Render(body string) (string, error) {
	if body == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(escapedNewlines.Replace(body)), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return padTableCells(r.policy.SanitizeBytes(buf.Bytes()))
}

// padTableCells sets CellStyle on every <td>.
func padTableCells(fragment []byte) (string, error) {
	if !bytes.Contains(fragment, []byte("<td")) {
		return string(fragment), nil
	}

	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), parent)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var out strings.Builder
	for _, n := range nodes {
		walk(n, func(n *html.Node) {
			if n.Type == html.ElementNode && n.DataAtom == atom.Td {
				setAttr(n, "style", CellStyle)
			}
		})
		if err := html.Render(&out, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return out.String(), nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
