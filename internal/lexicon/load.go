package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile loads a lexicon, choosing the format by extension:
//   - .yaml/.yml: a "phrases" list (optional "name")
//   - .csv: one phrase per row, read from the given column, no header row
//   - anything else: one phrase per line, '#' starts a comment line
func LoadFile(path string, column int) (*Lexicon, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var (
		entries []string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var n string
		n, entries, err = loadYAML(path)
		if n != "" {
			name = n
		}
	case ".csv":
		entries, err = loadCSV(path, column)
	default:
		entries, err = loadLines(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load lexicon %s: %w", path, err)
	}

	return New(name, entries), nil
}

func loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}

func loadYAML(path string) (string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var doc struct {
		Name    string   `yaml:"name"`
		Phrases []string `yaml:"phrases"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", nil, err
	}
	return doc.Name, doc.Phrases, nil
}

func loadCSV(path string, column int) ([]string, error) {
	if column < 0 {
		return nil, fmt.Errorf("invalid column %d", column)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var entries []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if column < len(record) {
			entries = append(entries, record[column])
		}
	}
	return entries, nil
}
