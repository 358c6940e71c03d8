package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dshills/labelcritic/internal/schema"
)

// Write encodes records as a fresh prediction report. Confidence and log loss
// are written with four decimals.
func Write(w io.Writer, records []schema.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.ReportColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ImagePath,
			r.ImageName,
			strconv.Itoa(r.TrueClass),
			strconv.Itoa(r.PredictedClass),
			strconv.FormatFloat(r.Confidence, 'f', 4, 64),
			string(r.Correctness),
			strconv.FormatFloat(r.LogLoss, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", r.ImageName, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCorrected writes the original table with two derived columns appended:
// the corrected true class taken from labels, and the correctness flag
// recomputed against it. Original rows, columns, and cell text are kept as
// loaded. labels must be index-aligned with t.Records.
func (t *Table) WriteCorrected(w io.Writer, labels []int) error {
	if len(labels) != len(t.Records) {
		return fmt.Errorf("corrected labels: have %d, want %d", len(labels), len(t.Records))
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(t.Header)+2)
	header = append(header, t.Header...)
	header = append(header, schema.ColCorrectedTrueClass, schema.ColCorrectedCorrectness)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, raw := range t.Rows {
		row := make([]string, 0, len(raw)+2)
		row = append(row, raw...)
		row = append(row,
			strconv.Itoa(labels[i]),
			string(schema.CorrectnessOf(t.Records[i].PredictedClass, labels[i])),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path, hands it to fn, and closes it on every return path.
// A close error is reported when fn itself succeeded.
func WriteFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
