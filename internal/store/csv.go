package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/edgarscan/internal/model"
)

// AddressSuffix marks index columns holding persisted item addresses
const AddressSuffix = "_adrs"

// Index is a tabular list of filings with its header row
type Index struct {
	Header  []string
	Filings []model.Filing
}

// IndexOptions select the index columns holding the document id and address
type IndexOptions struct {
	IDColumn   string
	PathColumn string
	Form       model.FormType
}

// ReadIndex reads a CSV index with a header row. Columns named
// <item>_adrs are read into Filing.Items.
func ReadIndex(path string, opts IndexOptions) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: index %s is empty", model.ErrInvalidConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	idCol := columnIndex(header, opts.IDColumn)
	pathCol := columnIndex(header, opts.PathColumn)
	if pathCol < 0 {
		return nil, fmt.Errorf("%w: index has no %q column", model.ErrInvalidConfig, opts.PathColumn)
	}

	itemCols := make(map[string]int)
	for i, name := range header {
		if item, ok := strings.CutSuffix(name, AddressSuffix); ok && item != "" {
			itemCols[item] = i
		}
	}

	index := &Index{Header: header}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read index line %d: %w", line, err)
		}

		filing := model.Filing{
			Address: field(record, pathCol),
			Form:    opts.Form,
			Row:     padRow(record, len(header)),
		}
		if idCol >= 0 {
			filing.ID = field(record, idCol)
		}
		if filing.ID == "" {
			filing.ID = filing.Stem()
		}
		if len(itemCols) > 0 {
			filing.Items = make(map[string]string, len(itemCols))
			for item, col := range itemCols {
				filing.Items[item] = field(record, col)
			}
		}
		index.Filings = append(index.Filings, filing)
	}

	return index, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func padRow(record []string, width int) []string {
	row := make([]string, max(width, len(record)))
	copy(row, record)
	return row
}

// ResultColumns returns the output header: the input header followed by the
// per-item columns of results. Existing columns of the same name are reused.
func ResultColumns(header []string, results []*model.FilingResult, counted bool) []string {
	columns := append([]string(nil), header...)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	extracted := extractedResults(results)
	for _, item := range itemNames(results) {
		add(item + "_found")
		add(item + AddressSuffix)
		if len(extracted) > 0 {
			add(item + "_strategy")
		}
		for _, name := range model.FlagNames {
			add(item + "_" + name)
		}
		if counted {
			for _, name := range model.IndicatorNames {
				add(item + "_" + name)
			}
		}
	}
	if anyForm(extracted, model.Form8K) {
		add("any_exhibit_991")
	}
	add("error")
	return columns
}

// itemNames lists item names in order of first appearance
func itemNames(results []*model.FilingResult) []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range results {
		for _, it := range r.Items {
			if !seen[it.Name] {
				seen[it.Name] = true
				names = append(names, it.Name)
			}
		}
	}
	return names
}

// extractedResults drops recounted results, which own no extraction columns
func extractedResults(results []*model.FilingResult) []*model.FilingResult {
	var out []*model.FilingResult
	for _, r := range results {
		if !r.Recounted {
			out = append(out, r)
		}
	}
	return out
}

func anyForm(results []*model.FilingResult, form model.FormType) bool {
	for _, r := range results {
		if r.Filing.Form == form {
			return true
		}
	}
	return false
}

// ResultRow renders one result under columns. Values are paired with
// columns by name.
func ResultRow(columns []string, header []string, r *model.FilingResult) []string {
	values := make(map[string]string)
	for i, name := range header {
		if i < len(r.Filing.Row) {
			values[name] = r.Filing.Row[i]
		}
	}

	for _, it := range r.Items {
		values[it.Name+"_found"] = boolDigit(it.Found)
		values[it.Name+AddressSuffix] = it.Address
		if !r.Recounted {
			values[it.Name+"_strategy"] = it.Strategy.String()
		}
		for _, f := range it.Flags.Fields() {
			values[it.Name+"_"+f.Name] = f.Value
		}
		if it.Indicators != nil {
			for _, f := range it.Indicators.Fields() {
				values[it.Name+"_"+f.Name] = f.Value
			}
		}
	}
	if r.Filing.Form == model.Form8K && !r.Recounted {
		values["any_exhibit_991"] = boolDigit(r.AnyExhibit991)
	}
	if r.Err != nil {
		values["error"] = r.Err.Error()
	}

	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = values[c]
	}
	return row
}

// WriteResults writes results as CSV: the input columns of each filing
// followed by its item columns, one row per result in the given order.
func WriteResults(path string, header []string, results []*model.FilingResult, counted bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := writeResults(file, header, results, counted); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func writeResults(w io.Writer, header []string, results []*model.FilingResult, counted bool) error {
	columns := ResultColumns(header, results, counted)

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write(ResultRow(columns, header, r)); err != nil {
			return fmt.Errorf("write row %s: %w", r.Filing.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ListHeader is the header used for filings read from a plain address list
var ListHeader = []string{"id", "address"}

// ListRows fills Filing.Row for filings that came from a plain address list
func ListRows(filings []model.Filing) {
	for i := range filings {
		filings[i].Row = []string{filings[i].ID, filings[i].Address}
	}
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
