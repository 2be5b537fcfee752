// Package pipeline provides output writers for the crawled document tree.
package pipeline

import (
	"fmt"

	"github.com/gutenworks/gutencrawl/models"
)

// DualWriter outputs to both JSON and text formats simultaneously
type DualWriter struct {
	jsonWriter *JSONWriter
	textWriter *TextWriter
}

// NewDualWriter creates a new dual writer for both JSON and text output
func NewDualWriter(jsonFilename, textFilename string) (*DualWriter, error) {
	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON writer: %w", err)
	}

	textWriter, err := NewTextWriter(textFilename)
	if err != nil {
		jsonWriter.Close()
		return nil, fmt.Errorf("failed to create text writer: %w", err)
	}

	return &DualWriter{
		jsonWriter: jsonWriter,
		textWriter: textWriter,
	}, nil
}

// Write writes the book to both JSON and text formats
func (dw *DualWriter) Write(book *models.Book) error {
	if err := dw.jsonWriter.Write(book); err != nil {
		return fmt.Errorf("JSON write failed: %w", err)
	}

	if err := dw.textWriter.Write(book); err != nil {
		return fmt.Errorf("text write failed: %w", err)
	}

	return nil
}

// Close closes both writers
func (dw *DualWriter) Close() error {
	var errs []error

	if err := dw.jsonWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("JSON close failed: %w", err))
	}

	if err := dw.textWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("text close failed: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}

	return nil
}

// Validate validates both output files
func (dw *DualWriter) Validate() error {
	var errs []error

	if err := dw.jsonWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("JSON validation failed: %w", err))
	}

	if err := dw.textWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("text validation failed: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}

	return nil
}
