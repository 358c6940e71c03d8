package review

import (
	"sort"

	"github.com/dshills/labelcritic/internal/schema"
)

// Item is a read-only view of one misclassified record, ranked for review.
type Item struct {
	// Index is the record's position in the full report; corrections are
	// applied at this index.
	Index  int
	Record schema.Record
	// ConfidenceError is the probability mass the model put on the wrong
	// side of the original label. It is fixed when the queue is built.
	ConfidenceError float64
}

// ConfidenceError returns confidence for a class-0 record and
// 1 - confidence for a class-1 record.
func ConfidenceError(r schema.Record) float64 {
	if r.TrueClass == 0 {
		return r.Confidence
	}
	return 1 - r.Confidence
}

// BuildQueue selects the records flagged Incorrect and orders them by
// confidence error, most confident mistakes first. Ties keep report order.
func BuildQueue(records []schema.Record) []Item {
	var items []Item
	for i, r := range records {
		if r.Correctness != schema.Incorrect {
			continue
		}
		items = append(items, Item{
			Index:           i,
			Record:          r,
			ConfidenceError: ConfidenceError(r),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ConfidenceError > items[j].ConfidenceError
	})
	return items
}
