package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/j-russo/chunking-visualizer/internal/doctree"
)

// TextParser handles plain text files. Blank lines separate paragraphs and
// each paragraph becomes an untitled node.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	var para []string
	emit := func() {
		if len(para) > 0 {
			tree.Children = append(tree.Children, &doctree.DocNode{Text: strings.Join(para, "\n")})
			para = para[:0]
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			emit()
			continue
		}
		para = append(para, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	emit()

	return tree, nil
}
