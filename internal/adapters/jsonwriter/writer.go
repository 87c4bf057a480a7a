package jsonwriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"listing-ingest-service/internal/core/domain"
)

// Writer streams accepted records into a per-source output file as a
// pretty-printed JSON array, appending incrementally so the file is valid
// JSON after every completed Append. A crash mid-run leaves an unterminated
// array; downstream tooling re-runs to completion rather than repairing it.
type Writer struct {
	file  *os.File
	count int
}

// New creates the output folder if needed, truncates the file and opens the
// array.
func New(folder, filename string) (*Writer, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", folder, err)
	}

	path := filepath.Join(folder, filename)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if _, err := file.WriteString("["); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open output array: %w", err)
	}

	return &Writer{file: file}, nil
}

// Append writes one record, comma-separated from the previous one. Unicode
// and slashes stay unescaped.
func (w *Writer) Append(listing *domain.Listing) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(listing); err != nil {
		return fmt.Errorf("failed to encode listing %s: %w", listing.ListingID, err)
	}

	prefix := "\n"
	if w.count > 0 {
		prefix = ",\n"
	}

	// Encode appends a trailing newline; drop it.
	entry := bytes.TrimRight(buf.Bytes(), "\n")
	if _, err := w.file.WriteString(prefix); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}
	if _, err := w.file.Write(entry); err != nil {
		return fmt.Errorf("failed to write listing %s: %w", listing.ListingID, err)
	}

	w.count++
	return nil
}

// Close terminates the array.
func (w *Writer) Close() error {
	if _, err := w.file.WriteString("\n]"); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to close output array: %w", err)
	}
	return w.file.Close()
}

// Count reports how many records were written.
func (w *Writer) Count() int {
	return w.count
}
