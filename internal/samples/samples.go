// Package samples holds the built-in documents offered for experimentation.
package samples

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/*.txt
var files embed.FS

// Default is the sample shown when no text has been supplied.
const Default = "construction-spec"

// Sample is a named built-in document.
type Sample struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

var titles = map[string]string{
	"construction-spec": "Construction specification (Section 09 91 00 - Painting)",
	"drawing-notes":     "Drawing general notes",
}

// List returns all samples without their text, sorted by name.
func List() []Sample {
	names := make([]string, 0, len(titles))
	for name := range titles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Sample, 0, len(names))
	for _, name := range names {
		out = append(out, Sample{Name: name, Title: titles[name]})
	}
	return out
}

// Get returns the named sample including its text.
func Get(name string) (Sample, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	title, ok := titles[name]
	if !ok {
		return Sample{}, fmt.Errorf("unknown sample %q", name)
	}
	data, err := files.ReadFile("data/" + name + ".txt")
	if err != nil {
		return Sample{}, fmt.Errorf("read sample %s: %w", name, err)
	}
	return Sample{Name: name, Title: title, Text: string(data)}, nil
}
