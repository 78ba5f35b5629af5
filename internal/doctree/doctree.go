package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Text flattens the tree into plain text for chunking. Headings and text
// blocks are emitted in document order, separated by blank lines, so the
// outline survives as paragraph boundaries.
func (t *DocTree) Text() string {
	var blocks []string
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if s := strings.TrimSpace(n.Title); s != "" {
				blocks = append(blocks, s)
			}
			if s := strings.TrimSpace(n.Text); s != "" {
				blocks = append(blocks, s)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return strings.Join(blocks, "\n\n")
}

// Sections counts the nodes carrying a heading.
func (t *DocTree) Sections() int {
	count := 0
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				count++
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return count
}
