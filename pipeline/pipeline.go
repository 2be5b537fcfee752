package pipeline

import (
	"fmt"

	"github.com/gutenworks/gutencrawl/models"
	"github.com/gutenworks/gutencrawl/parser"
)

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(book *models.Book) error
	Close() error
	Validate() error
}

// Deliver checks the assembled book and hands it to the writer. The
// caller remains responsible for Validate and Close on the writer.
func Deliver(book *models.Book, writer OutputWriter) error {
	if err := parser.ValidateBook(book); err != nil {
		return fmt.Errorf("validate book: %w", err)
	}
	if err := writer.Write(book); err != nil {
		return fmt.Errorf("write book: %w", err)
	}
	return nil
}
