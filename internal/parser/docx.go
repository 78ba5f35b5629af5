package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/j-russo/chunking-visualizer/internal/doctree"
)

// DOCXParser handles .docx files. Paragraphs styled Heading1-6 open sections.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReaderAt with a known size.
	f, size, err := spool(r, "chunkviz-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer f.close()

	doc, err := docx.Parse(f.File, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := newOutline(titleFromFilename(filename))
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			out.heading(level, text)
			continue
		}
		out.block(text)
	}

	return out.tree(), nil
}

// docxHeadingLevel maps "Heading1" or "heading 1" style ids to a level.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if len(style) != len("heading1") || !strings.HasPrefix(style, "heading") {
		return 0
	}
	if d := style[len(style)-1]; d >= '1' && d <= '6' {
		return int(d - '0')
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
