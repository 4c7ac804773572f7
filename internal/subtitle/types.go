package subtitle

import (
	"fmt"
	"time"
)

// Format identifies a supported subtitle file format.
type Format string

const (
	FormatUnknown Format = ""
	FormatSRT     Format = "srt"
	FormatVTT     Format = "vtt"
	FormatASS     Format = "ass"
	FormatSSA     Format = "ssa"
)

// Reader is the interface for reading subtitle files
type Reader interface {
	Read() (*Document, error)
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, doc *Document) error
}

// Entry represents a single subtitle cue. Start and End are the canonical
// times; the textual timestamps of each format are derived from them at
// serialize time. Entries keep display order, which is not necessarily
// time order.
type Entry struct {
	Index          int
	Start          time.Duration
	End            time.Duration
	Text           string
	TranslatedText string

	// ASS/SSA only
	Style   string
	Actor   string
	MarginL int
	MarginR int
	MarginV int
	Effect  string
}

// OutputText returns the translated text when present, the original
// otherwise. This is the single substitution point for every serializer.
func (e Entry) OutputText() string {
	if e.TranslatedText != "" {
		return e.TranslatedText
	}
	return e.Text
}

// Style is one ASS/SSA style row, keyed by the field names of the
// section's Format line. Values are passed through verbatim.
type Style struct {
	Name   string
	Fields map[string]string
}

// ScriptInfoField preserves one [Script Info] key/value in file order.
type ScriptInfoField struct {
	Key   string
	Value string
}

// Metadata carries document-level information. StyleFormat and Styles are
// only populated for ASS/SSA input.
type Metadata struct {
	Title       string
	Author      string
	Language    string
	StyleFormat []string
	Styles      []Style
	ScriptInfo  []ScriptInfoField
}

// Document is the normalized in-memory form every parser produces and
// every serializer consumes.
type Document struct {
	Format  Format
	Entries []Entry
	Meta    Metadata
}

// Issue flags an entry that violates a document invariant. Issues are
// reported, never auto-fixed.
type Issue struct {
	EntryIndex int
	Message    string
}

// Validate reports entries whose start time is after their end time.
func (d *Document) Validate() []Issue {
	var issues []Issue
	for i, entry := range d.Entries {
		if entry.Start > entry.End {
			issues = append(issues, Issue{
				EntryIndex: i,
				Message:    fmt.Sprintf("entry %d: start %v after end %v", i, entry.Start, entry.End),
			})
		}
	}
	return issues
}

// Parse dispatches to the parser for the given format. Callers should run
// Detect first or know the format out of band; invoking the wrong parser
// yields a best-effort (possibly empty) document, not an error.
func Parse(content string, format Format) (*Document, error) {
	switch format {
	case FormatSRT:
		return ParseSRT(content), nil
	case FormatVTT:
		return ParseVTT(content), nil
	case FormatASS, FormatSSA:
		return ParseASS(content), nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %q", format)
	}
}

// Serialize dispatches to the serializer for the document's format.
func Serialize(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	switch doc.Format {
	case FormatSRT:
		return SerializeSRT(doc), nil
	case FormatVTT:
		return SerializeVTT(doc), nil
	case FormatASS, FormatSSA:
		return SerializeASS(doc), nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %q", doc.Format)
	}
}
