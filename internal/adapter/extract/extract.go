// Package extract turns corpus files into plain text for indexing.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docqa/internal/port"
)

// ErrUnsupported is returned for file types no extractor handles.
var ErrUnsupported = errors.New("unsupported file type")

var (
	_ port.TextExtractor = (*ByExtension)(nil)
	_ port.TextExtractor = Plain{}
	_ port.TextExtractor = Docx{}
	_ port.TextExtractor = HTML{}
)

// ByExtension dispatches on the lower-cased file extension.
type ByExtension struct {
	extractors map[string]port.TextExtractor
}

// NewByExtension returns the default set: .docx, .html/.htm, .txt and .md.
func NewByExtension() *ByExtension {
	return &ByExtension{
		extractors: map[string]port.TextExtractor{
			".docx": Docx{},
			".html": HTML{},
			".htm":  HTML{},
			".txt":  Plain{},
			".md":   Plain{},
		},
	}
}

// Register adds or replaces the extractor for ext (including the dot).
func (e *ByExtension) Register(ext string, x port.TextExtractor) {
	e.extractors[strings.ToLower(ext)] = x
}

func (e *ByExtension) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	x, ok := e.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return x.Extract(path)
}

// Plain returns the file content as is.
type Plain struct{}

func (Plain) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
