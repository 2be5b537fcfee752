package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gutenworks/gutencrawl/models"
)

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "book.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}

	if err := writer.Write(sampleBook()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}

	var decoded models.Book
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json document: %v", err)
	}
	if decoded.Title != "Effi Briest" || decoded.Year != "1896" {
		t.Fatalf("decoded header = %q (%q)", decoded.Title, decoded.Year)
	}
	if len(decoded.Chapters) != 2 {
		t.Fatalf("chapters = %d, want 2", len(decoded.Chapters))
	}
	if got := decoded.Chapters[1].Subchapters[0].Name; got != "Der Anfang" {
		t.Fatalf("subchapter name = %q", got)
	}
	if got := decoded.Chapters[1].Paragraphs[0].Blocks[0]; got != "In Front des Herrenhauses." {
		t.Fatalf("first block = %q", got)
	}

	content := string(data)
	if !strings.Contains(content, "\n  \"url\"") {
		t.Fatalf("document is not indented")
	}
	if strings.Contains(content, "Prev") || strings.Contains(content, "Parent") {
		t.Fatalf("sibling links leaked into json output")
	}
}

func TestJSONWriterValidateEmptyFile(t *testing.T) {
	dir := t.TempDir()

	writer, err := NewJSONWriter(filepath.Join(dir, "book.json"))
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	defer writer.Close()

	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation error for empty file")
	}
}

func TestTextWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")

	writer, err := NewTextWriter(path)
	if err != nil {
		t.Fatalf("create text writer: %v", err)
	}

	if err := writer.Write(sampleBook()); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate text: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close text: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "Effi Briest (1896)\nTheodor Fontane\n") {
		t.Fatalf("unexpected title block:\n%s", content)
	}
	if !strings.Contains(content, "\n=== Backtext ===\n") {
		t.Fatalf("missing backtext heading:\n%s", content)
	}
	if !strings.Contains(content, "\n=== Erstes Kapitel ===\nIn Hohen-Cremmen\n") {
		t.Fatalf("missing chapter heading with subtitle:\n%s", content)
	}
	if !strings.Contains(content, "\n==== Der Anfang ====\n") {
		t.Fatalf("missing nested heading:\n%s", content)
	}
	if !strings.Contains(content, "\nIn Front des Herrenhauses.\n") {
		t.Fatalf("missing text block:\n%s", content)
	}
	if strings.Index(content, "Erstes Kapitel") > strings.Index(content, "Der Anfang") {
		t.Fatalf("subchapter rendered before its chapter:\n%s", content)
	}
}

func TestTextWriterOmitsMissingYear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")

	writer, err := NewTextWriter(path)
	if err != nil {
		t.Fatalf("create text writer: %v", err)
	}

	book := sampleBook()
	book.Year = ""
	if err := writer.Write(book); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close text: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if !strings.HasPrefix(string(data), "Effi Briest\nTheodor Fontane\n") {
		t.Fatalf("unexpected title block:\n%s", data)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "book.json")
	textPath := filepath.Join(dir, "book.txt")

	writer, err := NewDualWriter(jsonPath, textPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}

	if err := writer.Write(sampleBook()); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
	if info, err := os.Stat(textPath); err != nil || info.Size() == 0 {
		t.Fatalf("text file missing or empty")
	}
}
