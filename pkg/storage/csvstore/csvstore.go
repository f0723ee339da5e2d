// Package csvstore reads business rows from and writes extraction results to
// CSV files.
package csvstore

import (
	"encoding/csv"
	"errors"
	"extractor/pkg/domain"
	"extractor/pkg/serrors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Required input columns.
const (
	ColumnBusinessName = "Business Name"
	ColumnWebsite      = "Website"
)

// Header returns the output CSV header, in column order.
func Header() []string {
	return []string{
		ColumnBusinessName,
		ColumnWebsite,
		"Primary Email",
		"Secondary Email",
		"Social Media",
		"Emails Found",
		"Has Contact",
	}
}

// ReadBusinesses reads business rows from a CSV with a header line.
//
// Extra columns are ignored. A missing ColumnBusinessName or ColumnWebsite
// column fails with serrors.ErrInvalidInput.
func ReadBusinesses(r io.Reader) ([]domain.Business, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, serrors.With(serrors.ErrInvalidInput, "input has no header row")
	}
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInvalidInput, err, "could not read header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range []string{ColumnBusinessName, ColumnWebsite} {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, serrors.With(serrors.ErrInvalidInput, "missing required columns: %s", strings.Join(missing, ", "))
	}

	var businesses []domain.Business
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return businesses, nil
		}
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrInvalidInput, err, "could not read row")
		}

		get := func(col string) string {
			i := index[col]
			if i >= len(rec) {
				return ""
			}

			return strings.TrimSpace(rec[i])
		}

		businesses = append(businesses, domain.Business{
			Name:    get(ColumnBusinessName),
			Website: get(ColumnWebsite),
		})
	}
}

// WriteResults writes results as a CSV with the Header() column order.
func WriteResults(w io.Writer, results []domain.ExtractionResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for _, r := range results {
		hasContact := "No"
		if r.HasContact() {
			hasContact = "Yes"
		}
		if err := cw.Write([]string{
			r.BusinessName,
			r.Website,
			r.PrimaryEmail(),
			r.SecondaryEmail(),
			r.SocialURL(),
			strconv.Itoa(r.EmailsFound()),
			hasContact,
		}); err != nil {
			return fmt.Errorf("could not write row: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadFile opens path and reads business rows from it. A missing file fails
// with serrors.ErrNotFound.
func ReadFile(path string) ([]domain.Business, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrNotFound, err, "input file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open input file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ReadBusinesses(f)
}

// WriteFile creates (or truncates) path and writes results to it.
func WriteFile(path string, results []domain.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}

	if err := WriteResults(f, results); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close output file: %w", err)
	}

	return nil
}
