package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadFile reads a CSV log from a filesystem path and returns the
// preprocessed table.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// Load reads CSV text from r and returns the preprocessed table. The
// first row defines the column names. A malformed stream yields no
// table, never a partially populated one.
func Load(r io.Reader) (*Table, error) {
	raw, err := parse(r)
	if err != nil {
		return nil, err
	}
	return Preprocess(raw)
}

// parse reads CSV text into a raw table: column names straight from the
// header, every cell kept as text. Rows shorter or longer than the
// header are tolerated; missing cells read as empty.
func parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parse csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv header: %w", err)
	}

	columns := make([]string, len(header))
	copy(columns, header)

	table := &Table{Columns: columns}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv line %d: %w", line, err)
		}

		cells := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				cells[col] = row[i]
			}
		}
		table.Records = append(table.Records, Record{cells: cells})
	}
	return table, nil
}
