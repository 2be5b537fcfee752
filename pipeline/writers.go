package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gutenworks/gutencrawl/models"
)

// JSONWriter writes the book as a single indented JSON document.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	encoder := json.NewEncoder(buffer)
	encoder.SetIndent("", "  ")
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: encoder,
	}, nil
}

// Write encodes the whole document tree.
func (jw *JSONWriter) Write(book *models.Book) error {
	if err := jw.encoder.Encode(book); err != nil {
		return fmt.Errorf("encode book: %w", err)
	}
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

// TextWriter renders the book as a plain text reading copy. Headings are
// framed with equals signs, one more per nesting level.
type TextWriter struct {
	file   *os.File
	writer *bufio.Writer
}

// NewTextWriter initialises the text writer.
func NewTextWriter(filename string) (*TextWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create text file: %w", err)
	}

	return &TextWriter{
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Write renders the title block and every chapter in reading order.
func (tw *TextWriter) Write(book *models.Book) error {
	title := book.Title
	if book.Year != "" {
		title = fmt.Sprintf("%s (%s)", book.Title, book.Year)
	}
	if _, err := fmt.Fprintf(tw.writer, "%s\n%s\n", title, book.Author); err != nil {
		return fmt.Errorf("write title block: %w", err)
	}

	for _, chapter := range book.Chapters {
		if err := tw.writeChapter(chapter, 0); err != nil {
			return err
		}
	}

	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("flush text writer: %w", err)
	}
	return nil
}

func (tw *TextWriter) writeChapter(chapter *models.Chapter, depth int) error {
	marker := strings.Repeat("=", depth+3)
	if _, err := fmt.Fprintf(tw.writer, "\n%s %s %s\n", marker, chapter.Name, marker); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}
	if chapter.Subtitle != "" {
		if _, err := fmt.Fprintln(tw.writer, chapter.Subtitle); err != nil {
			return fmt.Errorf("write subtitle: %w", err)
		}
	}

	for _, paragraph := range chapter.Paragraphs {
		for _, block := range paragraph.Blocks {
			if _, err := fmt.Fprintf(tw.writer, "\n%s\n", block); err != nil {
				return fmt.Errorf("write block: %w", err)
			}
		}
	}

	for _, sub := range chapter.Subchapters {
		if err := tw.writeChapter(sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (tw *TextWriter) Close() error {
	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("flush text writer: %w", err)
	}
	return tw.file.Close()
}

// Validate ensures the text file has data.
func (tw *TextWriter) Validate() error {
	info, err := tw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat text file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("text file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
