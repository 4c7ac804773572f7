package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultWriter is the default subtitle file writer
type DefaultWriter struct{}

// NewWriter creates a new subtitle file writer
func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write serializes the document and writes it to path, creating parent
// directories as needed.
func (w *DefaultWriter) Write(path string, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("subtitle document is empty")
	}

	content, err := Serialize(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}
