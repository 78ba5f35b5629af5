package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/j-russo/chunking-visualizer/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tunes parser construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Detect returns a filename whose extension selects a parser for data. A
// supported extension wins; otherwise the content is sniffed and the
// detected extension is appended.
func Detect(filename string, data []byte) (string, error) {
	if IsSupportedExtension(filename) {
		return filename, nil
	}
	mt := mimetype.Detect(data)
	ext := mt.Extension()
	if !SupportedExtensions[ext] {
		return "", fmt.Errorf("unsupported content type: %s", mt.String())
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext, nil
}

// ParseBytes detects the document type of data and parses it.
func ParseBytes(data []byte, filename string, opts Options) (*doctree.DocTree, error) {
	name, err := Detect(filename, data)
	if err != nil {
		return nil, err
	}
	p, err := ForFile(name, opts)
	if err != nil {
		return nil, err
	}
	tree, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return tree, nil
}

func titleFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
