// Package input loads company lists for batch enrichment from CSV and XLSX
// files. Columns are matched by header name; rows without any identifier are
// skipped with a warning rather than failing the whole file.
package input

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
)

// columnAliases maps header names to input fields.
var columnAliases = map[string]string{
	"domain":       "domain",
	"website":      "domain",
	"url":          "domain",
	"name":         "name",
	"company":      "name",
	"company_name": "name",
	"linkedin":     "linkedin",
	"linkedin_url": "linkedin",
}

// LoadFile reads company inputs from a CSV or XLSX file, dispatching on the
// file extension.
func LoadFile(path string) ([]model.EnrichmentInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "input: open csv")
		}
		defer f.Close() //nolint:errcheck
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, eris.Errorf("input: unsupported file type %q", filepath.Ext(path))
	}
}

// LoadCSV reads inputs from CSV data with a header row.
func LoadCSV(r io.Reader) ([]model.EnrichmentInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("input: empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "input: read csv header")
	}
	cols := mapColumns(header)
	if len(cols) == 0 {
		return nil, eris.New("input: no recognized columns (expected domain, name, or linkedin_url)")
	}

	var inputs []model.EnrichmentInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "input: read csv row %d", line+1)
		}
		line++
		appendRow(&inputs, cols, record, line)
	}
	return inputs, nil
}

// LoadXLSX reads inputs from the first sheet of an XLSX file with a header
// row.
func LoadXLSX(path string) ([]model.EnrichmentInput, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("input: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("input: empty xlsx sheet")
	}

	cols := mapColumns(rowToStrings(sheet.Rows[0]))
	if len(cols) == 0 {
		return nil, eris.New("input: no recognized columns (expected domain, name, or linkedin_url)")
	}

	var inputs []model.EnrichmentInput
	for i, row := range sheet.Rows[1:] {
		appendRow(&inputs, cols, rowToStrings(row), i+2)
	}
	return inputs, nil
}

// mapColumns resolves header names to field → column index.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnAliases[key]; ok {
			if _, taken := cols[field]; !taken {
				cols[field] = i
			}
		}
	}
	return cols
}

func appendRow(inputs *[]model.EnrichmentInput, cols map[string]int, record []string, line int) {
	cell := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	in := model.EnrichmentInput{
		Domain:      cell("domain"),
		Name:        cell("name"),
		LinkedInURL: cell("linkedin"),
	}
	if err := in.Validate(); err != nil {
		zap.L().Warn("input: skipping row without identifier", zap.Int("line", line))
		return
	}
	*inputs = append(*inputs, in)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
