package parser

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/j-russo/chunking-visualizer/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Each page becomes a titled node. It tries the
// Go library first, then falls back to pdftotext if enabled and installed.
type PDFParser struct {
	FallbackPdftotext bool
}

const pdftotextTimeout = 60 * time.Second

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	f, size, err := spool(r, "chunkviz-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer f.close()

	pages, err := extractPDFPages(f, size)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(f.Name())
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  page,
			Page:  i + 1,
		})
	}
	return tree, nil
}

func extractPDFPages(f io.ReaderAt, size int64) ([]string, error) {
	reader, err := pdflib.NewReader(f, size)
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// extractPdftotext shells out to poppler's pdftotext, which separates pages
// with form feeds.
func extractPdftotext(path string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pdftotextTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(string(out), "\f"), nil
}
