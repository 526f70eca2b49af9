// Package dataset reads the chart tables (CSV files, optionally compressed, or
// SQL tables) into rows keyed by normalized field names.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/grouping"
)

const Separator = ','

// sampleRows bounds how many rows are inspected to infer column types.
const sampleRows = 50000

var ErrEmpty = errors.New("dataset is empty")

type ColumnType string

const (
	TypeUnknown  ColumnType = ""
	TypeDateTime ColumnType = "DateTime"
	TypeDate     ColumnType = "Date"
	TypeInt      ColumnType = "Int64"
	TypeFloat    ColumnType = "Float64"
	TypeString   ColumnType = "String"
)

// typesWeight orders types from most to least specific; a column takes the
// heaviest type seen in any of its values.
var typesWeight = []ColumnType{TypeUnknown, TypeDateTime, TypeDate, TypeInt, TypeFloat, TypeString}

func weight(t ColumnType) int {
	for i, w := range typesWeight {
		if w == t {
			return i
		}
	}
	return -1
}

// IsNumeric reports whether values of the column are coerced to float64.
func (t ColumnType) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

type Table struct {
	Headers []string
	Types   []ColumnType
	Rows    []models.Row
	// Dropped counts numeric cells that failed to parse and were removed.
	Dropped int
}

// NumericFields lists the headers whose inferred type is numeric.
func (t *Table) NumericFields() []string {
	var out []string
	for i, h := range t.Headers {
		if t.Types[i].IsNumeric() {
			out = append(out, h)
		}
	}
	return out
}

// LoadFile reads a CSV table from disk; see OpenFile for supported compressions.
func LoadFile(filePath string) (*Table, error) {
	rc, err := OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := ReadCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return t, nil
}

// ReadCSV parses a comma separated table. Short rows get missing fields,
// extra cells are ignored. Numeric columns are stored as float64.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	analysis := AnalyzeHeaders(records[0])
	if analysis == nil {
		return nil, ErrEmpty
	}
	body := records[1:]
	if analysis.FirstRowIsData {
		body = records
	}
	return buildTable(analysis.Headers, body), nil
}

// buildTable keys every record by headers, infers column types and coerces
// numeric columns.
func buildTable(headers []string, body [][]string) *Table {
	t := &Table{Headers: headers}
	t.Types = inferTypes(body, len(t.Headers))
	t.Rows = make([]models.Row, 0, len(body))
	for _, rec := range body {
		row := make(models.Row, len(t.Headers))
		for i, h := range t.Headers {
			if i >= len(rec) {
				break
			}
			row[h] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	t.Dropped = grouping.Normalize(t.Rows, t.NumericFields())
	return t
}

func inferTypes(records [][]string, width int) []ColumnType {
	types := make([]ColumnType, width)
	sawDate := make([]bool, width)
	for n, rec := range records {
		if n >= sampleRows {
			break
		}
		for i, value := range rec {
			if i >= width {
				break
			}
			t := detectType(value)
			if t == TypeDate || t == TypeDateTime {
				sawDate[i] = true
			}
			if weight(t) > weight(types[i]) {
				types[i] = t
			}
		}
	}
	for i := range types {
		// "2019" next to "2019-05-01" is a partial date, not a number
		if types[i] == TypeUnknown || (sawDate[i] && types[i].IsNumeric()) {
			types[i] = TypeString
		}
	}
	return types
}

func detectType(value string) ColumnType {
	value = strings.TrimSpace(value)
	if value == "" {
		return TypeUnknown
	}
	if _, err := time.Parse("2006-01-02 15:04:05.999999", value); err == nil {
		return TypeDateTime
	}
	if _, err := time.Parse("2006-01-02", value); err == nil {
		return TypeDate
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return TypeInt
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return TypeFloat
	}
	return TypeString
}
