package validate

import (
	"fmt"
	"math"

	"github.com/dshills/labelcritic/internal/schema"
)

// Header checks that every required report column is present and returns
// the index of each column by name.
func Header(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := idx[name]; dup {
			return nil, fmt.Errorf("header: duplicate column %q", name)
		}
		idx[name] = i
	}
	for _, name := range schema.ReportColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("header: missing required column %q", name)
		}
	}
	return idx, nil
}

// Record validates one parsed report row. row is the 1-based data row number
// used in error messages.
func Record(r schema.Record, row int) error {
	prefix := fmt.Sprintf("row %d", row)

	if r.ImagePath == "" {
		return fmt.Errorf("%s: %s is required", prefix, schema.ColImagePath)
	}
	if r.ImageName == "" {
		return fmt.Errorf("%s: %s is required", prefix, schema.ColImageName)
	}
	if !schema.IsBinaryLabel(r.TrueClass) {
		return fmt.Errorf("%s: %s %d must be 0 or 1", prefix, schema.ColTrueClass, r.TrueClass)
	}
	if !schema.IsBinaryLabel(r.PredictedClass) {
		return fmt.Errorf("%s: %s %d must be 0 or 1", prefix, schema.ColPredictedClass, r.PredictedClass)
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%s: %s %g must be within [0, 1]", prefix, schema.ColConfidence, r.Confidence)
	}
	if !schema.IsValidCorrectness(r.Correctness) {
		return fmt.Errorf("%s: %s %q must be Correct or Incorrect", prefix, schema.ColCorrectness, r.Correctness)
	}
	if want := schema.CorrectnessOf(r.PredictedClass, r.TrueClass); r.Correctness != want {
		return fmt.Errorf("%s: %s %q disagrees with labels %d/%d, want %q",
			prefix, schema.ColCorrectness, r.Correctness, r.TrueClass, r.PredictedClass, want)
	}
	return nil
}
