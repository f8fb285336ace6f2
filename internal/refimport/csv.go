package refimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

// DefaultColumn is the identifier column looked up when the caller
// does not name one.
const DefaultColumn = "hh_id"

// CSVSource extracts raw identifier strings from a headered CSV file.
// It is the parsing collaborator in front of the Importer: it hands
// over raw field values and owns nothing beyond column location.
type CSVSource struct {
	// Column is the header name of the identifier column, matched
	// case-insensitively after trimming. Empty means DefaultColumn.
	Column string
}

// ReadFile reads identifiers from the CSV file at path.
func (s *CSVSource) ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, seekerr.New(seekerr.ErrCodeInvalidInput,
			fmt.Sprintf("cannot open identifier file %s: %v", path, err), err)
	}
	defer func() { _ = f.Close() }()

	return s.Read(f)
}

// Read extracts the identifier column from CSV data. The column must
// exist in the header row; a file with a header but no data rows is a
// validation error.
func (s *CSVSource) Read(r io.Reader) ([]string, error) {
	column := s.Column
	if column == "" {
		column = DefaultColumn
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated; the field lookup guards itself

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, seekerr.New(seekerr.ErrCodeNoRecords, "identifier file is empty", nil)
		}
		return nil, seekerr.New(seekerr.ErrCodeInvalidInput,
			fmt.Sprintf("cannot read identifier file header: %v", err), err)
	}

	idx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, seekerr.New(seekerr.ErrCodeColumnNotFound,
			fmt.Sprintf("identifier file has no %q column", column), nil)
	}

	var ids []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, seekerr.New(seekerr.ErrCodeInvalidInput,
				fmt.Sprintf("malformed identifier file: %v", err), err)
		}
		if idx >= len(record) {
			ids = append(ids, "")
			continue
		}
		ids = append(ids, record[idx])
	}

	if len(ids) == 0 {
		return nil, seekerr.New(seekerr.ErrCodeNoRecords,
			"identifier file contains no records", nil)
	}

	return ids, nil
}
