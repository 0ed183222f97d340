package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/san-kum/evtdim/internal/dynamo"
)

// LoadSet reads a state-space set from a CSV file, one point per row.
// A first row that does not parse as numbers is taken as a header.
func LoadSet(path string) (*dynamo.StateSpaceSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comment = '#'
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		row, err := parseRow(record)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		rows = append(rows, row)
	}

	set, err := dynamo.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		row[j] = v
	}
	return row, nil
}

// SaveSet writes X as CSV with a x0,x1,... header.
func SaveSet(path string, X *dynamo.StateSpaceSet) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := make([]string, X.Dim())
	for j := range header {
		header[j] = fmt.Sprintf("x%d", j)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, X.Dim())
	for i := 0; i < X.Len(); i++ {
		for j, v := range X.At(i) {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
