// Package input reads entity rows from delimited input files.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leadscope/practicescout/internal/scout"
)

// Column aliases accepted in the header row, matched case-insensitively.
var (
	nameColumns      = []string{"name", "practice name", "business name", "company"}
	physicianColumns = []string{"physician name", "physician", "doctor", "provider"}
	addressColumns   = []string{"address", "full address", "location"}
)

// CSVSource yields entity rows from a CSV file with a header row. Rows past
// the configured limit are never read.
type CSVSource struct {
	file    *os.File
	reader  *csv.Reader
	nameIdx int
	physIdx int
	addrIdx int
	maxRows int
	read    int
}

// OpenCSV opens the input file and validates its header. A maxRows of zero
// means unlimited.
func OpenCSV(path string, maxRows int) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		closeErr := f.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("read header: %w (close file: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	src := &CSVSource{
		file:    f,
		reader:  r,
		nameIdx: findColumn(header, nameColumns),
		physIdx: findColumn(header, physicianColumns),
		addrIdx: findColumn(header, addressColumns),
		maxRows: maxRows,
	}
	if src.nameIdx < 0 || src.addrIdx < 0 {
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("input file needs name and address columns (close file: %v)", err)
		}
		return nil, fmt.Errorf("input file needs name and address columns, got header %v", header)
	}
	return src, nil
}

// Next returns the next entity row. It returns io.EOF once the file is
// drained or the row limit is reached.
func (s *CSVSource) Next() (scout.EntityIdentity, error) {
	if s.maxRows > 0 && s.read >= s.maxRows {
		return scout.EntityIdentity{}, io.EOF
	}
	record, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return scout.EntityIdentity{}, io.EOF
		}
		return scout.EntityIdentity{}, fmt.Errorf("read row: %w", err)
	}
	s.read++
	return scout.EntityIdentity{
		Name:          field(record, s.nameIdx),
		PhysicianName: field(record, s.physIdx),
		Address:       field(record, s.addrIdx),
	}, nil
}

// Close releases the underlying file.
func (s *CSVSource) Close() error {
	return s.file.Close()
}

func findColumn(header []string, aliases []string) int {
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		for _, alias := range aliases {
			if normalized == alias {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
