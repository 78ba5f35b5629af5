package parser

import (
	"strings"

	"github.com/j-russo/chunking-visualizer/internal/doctree"
)

// outline assembles a DocTree from a flat stream of headings and text
// blocks. Text is attached to the innermost open heading.
type outline struct {
	title string
	root  *doctree.DocNode
	stack []outlineLevel
	text  strings.Builder
}

type outlineLevel struct {
	node  *doctree.DocNode
	level int
}

func newOutline(title string) *outline {
	root := &doctree.DocNode{Title: title}
	return &outline{
		title: title,
		root:  root,
		stack: []outlineLevel{{node: root, level: 0}},
	}
}

// heading opens a section at level (1 = top) under the nearest shallower one.
func (o *outline) heading(level int, title string) {
	o.flush()
	node := &doctree.DocNode{Title: title}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1].node
	parent.Children = append(parent.Children, node)
	o.stack = append(o.stack, outlineLevel{node: node, level: level})
}

// block appends a paragraph of body text to the current section.
func (o *outline) block(text string) {
	if text == "" {
		return
	}
	if o.text.Len() > 0 {
		o.text.WriteString("\n\n")
	}
	o.text.WriteString(text)
}

func (o *outline) flush() {
	t := strings.TrimSpace(o.text.String())
	o.text.Reset()
	if t == "" {
		return
	}
	top := o.stack[len(o.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// tree closes the outline. Text that appeared before the first heading is
// kept as a leading untitled node.
func (o *outline) tree() *doctree.DocTree {
	o.flush()
	tree := &doctree.DocTree{Title: o.title, Children: o.root.Children}
	if o.root.Text != "" {
		tree.Children = append([]*doctree.DocNode{{Text: o.root.Text}}, tree.Children...)
	}
	return tree
}
