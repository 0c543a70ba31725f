package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a raw tabular dump: a header row and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source produces the raw table the dataset is built from.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// ReadTable reads the whole table.
	ReadTable(ctx context.Context) (*Table, error)
}

// CSVSource reads a comma separated file with a header row.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a CSV source for path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Name implements Source.
func (s *CSVSource) Name() string {
	return "csv:" + s.Path
}

// ReadTable implements Source.
func (s *CSVSource) ReadTable(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ReadCSV(ctx, f)
}

// ReadCSV reads a CSV table from r. Short and long records are accepted;
// missing cells read as empty.
func ReadCSV(ctx context.Context, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Header: header}
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
