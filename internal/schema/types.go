package schema

// Column names of the per-image prediction report.
const (
	ColImagePath      = "Image Path"
	ColImageName      = "Image Name"
	ColTrueClass      = "True Class"
	ColPredictedClass = "Predicted Class"
	ColConfidence     = "Confidence"
	ColCorrectness    = "Correct/Incorrect"
	ColLogLoss        = "Log Loss"

	ColCorrectedTrueClass   = "Corrected True Class"
	ColCorrectedCorrectness = "Corrected Correct/Incorrect"
)

// ReportColumns is the column order written by ingest and required on load.
var ReportColumns = []string{
	ColImagePath,
	ColImageName,
	ColTrueClass,
	ColPredictedClass,
	ColConfidence,
	ColCorrectness,
	ColLogLoss,
}

// Correctness is the literal correctness flag stored in the report.
type Correctness string

const (
	Correct   Correctness = "Correct"
	Incorrect Correctness = "Incorrect"
)

// CorrectnessOf derives the flag from a predicted and a true class.
func CorrectnessOf(predicted, truth int) Correctness {
	if predicted == truth {
		return Correct
	}
	return Incorrect
}

// IsValidCorrectness reports whether c is Correct or Incorrect.
func IsValidCorrectness(c Correctness) bool {
	return c == Correct || c == Incorrect
}

// IsBinaryLabel reports whether v is 0 or 1.
func IsBinaryLabel(v int) bool {
	return v == 0 || v == 1
}

// Record is one evaluated image.
type Record struct {
	ImagePath      string      `json:"image_path"`
	ImageName      string      `json:"image_name"`
	TrueClass      int         `json:"true_class"`
	PredictedClass int         `json:"predicted_class"`
	Confidence     float64     `json:"confidence"` // probability of class 1
	Correctness    Correctness `json:"correctness"`
	LogLoss        float64     `json:"log_loss"`
}

// IsCorrect recomputes correctness from the labels rather than trusting the
// stored flag.
func (r Record) IsCorrect() bool {
	return r.PredictedClass == r.TrueClass
}

// ChangeEvent is one accepted label correction plus the metrics snapshot
// taken immediately after it.
type ChangeEvent struct {
	ImageName     string  `json:"image_name"`
	FromLabel     int     `json:"from_label"`
	ToLabel       int     `json:"to_label"`
	AccuracyAfter float64 `json:"accuracy_after"`
	F1After       float64 `json:"f1_after"`
}

// Summary holds the overall performance metrics of a report.
type Summary struct {
	Total     int       `json:"total"`
	Accuracy  float64   `json:"accuracy"`
	Precision float64   `json:"precision"`
	Recall    float64   `json:"recall"`
	F1        float64   `json:"f1"`
	AUC       *float64  `json:"auc,omitempty"` // nil when only one class is present
	Confusion Confusion `json:"confusion"`
	Classes   [2]string `json:"classes"`
}

// Confusion is a 2x2 confusion matrix with class 1 as the positive class.
type Confusion struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// Total returns the number of samples counted in the matrix.
func (c Confusion) Total() int {
	return c.TN + c.FP + c.FN + c.TP
}
