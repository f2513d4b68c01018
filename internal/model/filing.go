package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormType is the declared type of a filing's primary sub-document
type FormType string

const (
	Form10K FormType = "10-K" // Annual report
	Form10Q FormType = "10-Q" // Quarterly report
	Form8K  FormType = "8-K"  // Current (event) report
)

// FormTypes lists the supported form types in a stable order
var FormTypes = []FormType{Form10K, Form10Q, Form8K}

// ParseFormType converts user input such as "10k" or "10-K" to a FormType
func ParseFormType(s string) (FormType, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "10K":
		return Form10K, nil
	case "10Q":
		return Form10Q, nil
	case "8K":
		return Form8K, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedForm, s)
}

// Filing is one row of the input index
type Filing struct {
	ID      string   `json:"id"`            // Unique document identifier (CIK, accession number, ...)
	Address string   `json:"address"`       // File path or http(s) URL of the raw filing body
	Form    FormType `json:"form"`          // Form type to extract
	Row     []string `json:"row,omitempty"` // Original index row, carried through to the output

	// Items maps item names to previously persisted item addresses (count mode)
	Items map[string]string `json:"items,omitempty"`
}

// Stem returns the file name of the filing without directory and extension
func (f Filing) Stem() string {
	base := filepath.Base(strings.TrimRight(f.Address, "/"))
	if idx := strings.Index(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

// CIK returns the filer key used to group extracted items on disk.
// EDGAR full-text file names start with the CIK followed by an underscore.
func (f Filing) CIK() string {
	stem := f.Stem()
	if idx := strings.Index(stem, "_"); idx > 0 {
		return stem[:idx]
	}
	if f.ID != "" {
		return f.ID
	}
	return stem
}
