// Package metrics computes binary classification metrics. Class 1 is the
// positive class throughout; ratios with a zero denominator are 0.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/dshills/labelcritic/internal/schema"
)

// logLossEpsilon clamps probabilities away from 0 and 1 before taking logs.
const logLossEpsilon = 1e-15

// ConfusionMatrix counts truth/prediction pairs. Labels are fixed to [0, 1]
// so the matrix is 2x2 even when a class is absent. Labels other than 0 and
// 1 are ignored. It panics if the slices differ in length.
func ConfusionMatrix(truth, pred []int) schema.Confusion {
	mustAlign(len(truth), len(pred))
	var c schema.Confusion
	for i := range truth {
		switch {
		case truth[i] == 0 && pred[i] == 0:
			c.TN++
		case truth[i] == 0 && pred[i] == 1:
			c.FP++
		case truth[i] == 1 && pred[i] == 0:
			c.FN++
		case truth[i] == 1 && pred[i] == 1:
			c.TP++
		}
	}
	return c
}

// Accuracy is the fraction of positions where truth and pred agree.
func Accuracy(truth, pred []int) float64 {
	mustAlign(len(truth), len(pred))
	if len(truth) == 0 {
		return 0
	}
	hits := 0
	for i := range truth {
		if truth[i] == pred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}

// Precision is TP / (TP + FP).
func Precision(c schema.Confusion) float64 {
	return safeDivide(float64(c.TP), float64(c.TP+c.FP))
}

// Recall is TP / (TP + FN).
func Recall(c schema.Confusion) float64 {
	return safeDivide(float64(c.TP), float64(c.TP+c.FN))
}

// F1 is the harmonic mean of precision and recall, computed as
// 2TP / (2TP + FP + FN).
func F1(c schema.Confusion) float64 {
	return safeDivide(float64(2*c.TP), float64(2*c.TP+c.FP+c.FN))
}

// Snapshot returns accuracy and F1 of pred against truth, computed from
// scratch.
func Snapshot(truth, pred []int) (accuracy, f1 float64) {
	return Accuracy(truth, pred), F1(ConfusionMatrix(truth, pred))
}

// ROC returns the false and true positive rates for every distinct
// confidence cutoff, starting at (0, 0). ok is false when truth does not
// contain both classes, in which case the curve is undefined.
func ROC(truth []int, scores []float64) (fpr, tpr []float64, ok bool) {
	mustAlign(len(truth), len(scores))
	if !bothClasses(truth) {
		return nil, nil, false
	}

	y := make([]float64, len(scores))
	copy(y, scores)
	classes := make([]bool, len(truth))
	for i, v := range truth {
		classes[i] = v == 1
	}
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ = stat.ROC(nil, y, classes, nil)
	return fpr, tpr, true
}

// AUC is the area under the ROC curve by the trapezoidal rule.
func AUC(truth []int, scores []float64) (float64, bool) {
	fpr, tpr, ok := ROC(truth, scores)
	if !ok {
		return 0, false
	}
	return integrate.Trapezoidal(fpr, tpr), true
}

// LogLoss is the cross-entropy of one prediction: -ln(p) for class 1 and
// -ln(1-p) for class 0, with p the clamped class-1 probability.
func LogLoss(truth int, p float64) float64 {
	p = math.Max(logLossEpsilon, math.Min(1-logLossEpsilon, p))
	if truth == 1 {
		return -math.Log(p)
	}
	return -math.Log(1 - p)
}

// Summarize computes the overall performance metrics of a report.
func Summarize(truth, pred []int, scores []float64, classNames [2]string) schema.Summary {
	c := ConfusionMatrix(truth, pred)
	s := schema.Summary{
		Total:     len(truth),
		Accuracy:  Accuracy(truth, pred),
		Precision: Precision(c),
		Recall:    Recall(c),
		F1:        F1(c),
		Confusion: c,
		Classes:   classNames,
	}
	if auc, ok := AUC(truth, scores); ok {
		s.AUC = &auc
	}
	return s
}

func bothClasses(truth []int) bool {
	var pos, neg bool
	for _, v := range truth {
		switch v {
		case 0:
			neg = true
		case 1:
			pos = true
		}
	}
	return pos && neg
}

func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func mustAlign(a, b int) {
	if a != b {
		panic("metrics: input slices differ in length")
	}
}
