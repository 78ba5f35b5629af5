package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/j-russo/chunking-visualizer/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings open
// sections; every other top-level block becomes a paragraph of body text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	out := newOutline(titleFromFilename(filename))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			out.heading(h.Level, markdownText(h, src))
			continue
		}
		out.block(markdownText(n, src))
	}

	return out.tree(), nil
}

// markdownText returns the text of a node. Leaf blocks such as code blocks
// contribute their raw lines; everything else is read from inline children.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(markdownText(c, src))
			continue
		}
		buf.Write(t.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String())
}
