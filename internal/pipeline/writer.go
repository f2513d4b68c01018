package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/edgarscan/internal/model"
)

// ItemWriter persists extracted item text under a root directory laid out as
// <form>/<cik>/<stem>_<item>.txt
type ItemWriter struct {
	root string
}

// NewItemWriter creates a writer rooted at dir
func NewItemWriter(dir string) *ItemWriter {
	return &ItemWriter{root: dir}
}

// Address returns the root-relative address of an item of a filing
func (w *ItemWriter) Address(filing model.Filing, item string) string {
	return filepath.ToSlash(filepath.Join(
		string(filing.Form),
		filing.CIK(),
		filing.Stem()+"_"+item+".txt",
	))
}

// Write stores item text and returns its root-relative address
func (w *ItemWriter) Write(filing model.Filing, item string, text string) (string, error) {
	address := w.Address(filing, item)
	path := filepath.Join(w.root, filepath.FromSlash(address))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create item directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write item: %w", err)
	}
	return address, nil
}

// Read loads item text by its root-relative address
func (w *ItemWriter) Read(address string) (string, error) {
	data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(address)))
	if err != nil {
		return "", fmt.Errorf("read item: %w", err)
	}
	return string(data), nil
}
