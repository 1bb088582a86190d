package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/apierror"
)

// CSVProvider reads the master table from a delimited file. The first record
// is the header row and drives the RawRow keys; short records are tolerated
// (missing trailing columns simply stay absent from the row map).
type CSVProvider struct {
	Path string
	// Separador opcional; cero usa coma.
	Comma rune
}

func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

func (p *CSVProvider) Load(ctx context.Context) ([]RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, &apierror.DataUnavailableError{Fuente: p.Path, Err: err}
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return nil, &apierror.DataUnavailableError{Fuente: p.Path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	if p.Comma != 0 {
		r.Comma = p.Comma
	}

	header, err := r.Read()
	if err != nil {
		return nil, &apierror.DataUnavailableError{Fuente: p.Path, Err: err}
	}

	var rows []RawRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &apierror.DataUnavailableError{Fuente: p.Path, Err: err}
		}
		row := make(RawRow, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
