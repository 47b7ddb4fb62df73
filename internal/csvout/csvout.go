// Package csvout writes and reads the alumni import file.
package csvout

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"alumniport/internal/models"
)

// Columns is the import template header, in order.
var Columns = []string{
	"Old Registration Number",
	"Registration Number",
	"Email",
	"Phone",
	"Title Prefix",
	"First Name",
	"Middle Name",
	"Last Name",
	"Last Class",
	"Year of Leaving",
	"Start Class",
	"Start Year",
	"Batch Year",
	"Profession",
	"Company",
	"Location",
	"Bio",
	"LinkedIn URL",
	"Website URL",
	"Role",
	"Is Deceased",
	"Deceased Year",
	"Notes",
}

// ErrHeaderMismatch is returned by Read when the first record is not Columns.
var ErrHeaderMismatch = errors.New("csv header does not match the import template")

// Write emits the header followed by one record per row.
func Write(w io.Writer, rows []models.AlumniOutputRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csvout: write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("csvout: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvout: flush: %w", err)
	}
	return nil
}

// Bytes renders rows to an in-memory CSV document.
func Bytes(rows []models.AlumniOutputRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the table to a temp file next to path and renames it into
// place, so path either holds the previous content or the complete new file.
func WriteFile(path string, rows []models.AlumniOutputRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csvout: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csvout: temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := Write(tmp, rows); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("csvout: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("csvout: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("csvout: rename into %s: %w", path, err)
	}
	return nil
}

// Read parses an import file and checks its header against Columns.
func Read(r io.Reader) ([]models.AlumniOutputRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csvout: read header: %w", err)
	}
	if !equalStringSlices(headers, Columns) {
		return nil, fmt.Errorf("csvout: got %q: %w", headers, ErrHeaderMismatch)
	}

	var rows []models.AlumniOutputRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvout: line %d: %w", line, err)
		}
		row, err := models.RowFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("csvout: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string) ([]models.AlumniOutputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvout: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
