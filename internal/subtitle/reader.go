package subtitle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abadojack/whatlanggo"
)

// DefaultReader is the default subtitle file reader
type DefaultReader struct {
	path string
}

// NewReader creates a new subtitle file reader
func NewReader(
	path string,
) Reader {
	return &DefaultReader{
		path: path,
	}
}

// Read reads and parses a subtitle file. The format is detected from the
// content first, falling back to the file extension; files that match
// neither are rejected.
func (r *DefaultReader) Read() (*Document, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file does not exist: %s", r.path)
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	content := string(raw)

	format := Detect(content)
	if format == FormatUnknown {
		format = DetectByExtension(filepath.Ext(r.path))
	}
	if format == FormatUnknown {
		return nil, fmt.Errorf("unrecognized subtitle format: %s", r.path)
	}

	doc, err := Parse(content, format)
	if err != nil {
		return nil, err
	}

	if doc.Meta.Language == "" {
		doc.Meta.Language = detectLanguage(doc.Entries)
	}

	return doc, nil
}

// detectLanguage picks the dominant language across entry texts.
func detectLanguage(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	langMap := make(map[string]int)
	for _, entry := range entries {
		lang := whatlanggo.DetectLang(entry.Text).Iso6391()
		if lang == "" {
			continue
		}
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	return topLang
}
