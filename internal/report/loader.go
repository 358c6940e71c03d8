package report

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/labelcritic/internal/schema"
	"github.com/dshills/labelcritic/internal/schema/validate"
)

// Table holds a loaded prediction report. Header and Rows keep the raw cell
// text so a rewritten table can reproduce every original column unchanged.
type Table struct {
	Path    string
	Hash    string // "sha256:<hex>"
	Header  []string
	Rows    [][]string
	Records []schema.Record
}

// Load reads a prediction report from disk. A missing file yields an error
// wrapping fs.ErrNotExist.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	t.Path = path
	t.Hash = fmt.Sprintf("sha256:%x", sum)
	return t, nil
}

// Parse decodes a prediction report from CSV.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("report is empty: no header row")
	}

	header := all[0]
	// Tolerate a UTF-8 BOM written by spreadsheet tools.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx, err := validate.Header(header)
	if err != nil {
		return nil, err
	}

	rows := all[1:]
	records := make([]schema.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRecord(row, idx, i+1)
		if err != nil {
			return nil, err
		}
		if err := validate.Record(rec, i+1); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &Table{
		Header:  header,
		Rows:    rows,
		Records: records,
	}, nil
}

func decodeRecord(row []string, idx map[string]int, n int) (schema.Record, error) {
	cell := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	trueClass, err := parseLabel(cell(schema.ColTrueClass))
	if err != nil {
		return schema.Record{}, fmt.Errorf("row %d: %s: %w", n, schema.ColTrueClass, err)
	}
	predicted, err := parseLabel(cell(schema.ColPredictedClass))
	if err != nil {
		return schema.Record{}, fmt.Errorf("row %d: %s: %w", n, schema.ColPredictedClass, err)
	}
	confidence, err := strconv.ParseFloat(cell(schema.ColConfidence), 64)
	if err != nil {
		return schema.Record{}, fmt.Errorf("row %d: %s: %w", n, schema.ColConfidence, err)
	}
	var logLoss float64
	if s := cell(schema.ColLogLoss); s != "" {
		logLoss, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return schema.Record{}, fmt.Errorf("row %d: %s: %w", n, schema.ColLogLoss, err)
		}
	}

	return schema.Record{
		ImagePath:      cell(schema.ColImagePath),
		ImageName:      cell(schema.ColImageName),
		TrueClass:      trueClass,
		PredictedClass: predicted,
		Confidence:     confidence,
		Correctness:    schema.Correctness(cell(schema.ColCorrectness)),
		LogLoss:        logLoss,
	}, nil
}

// parseLabel accepts "0"/"1" and the "0.0"/"1.0" spelling some dataframe
// writers emit for integer columns.
func parseLabel(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid class label %q", s)
	}
	return int(f), nil
}

// TrueLabels returns the recorded true class of every row, in row order.
func (t *Table) TrueLabels() []int {
	out := make([]int, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.TrueClass
	}
	return out
}

// PredictedLabels returns the predicted class of every row, in row order.
func (t *Table) PredictedLabels() []int {
	out := make([]int, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.PredictedClass
	}
	return out
}

// Confidences returns the class-1 probability of every row, in row order.
func (t *Table) Confidences() []float64 {
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Confidence
	}
	return out
}
