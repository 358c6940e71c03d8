package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/labelcritic/internal/metrics"
	"github.com/dshills/labelcritic/internal/profile"
	"github.com/dshills/labelcritic/internal/schema"
)

// Scores file columns. Exactly one of ColScoreConfidence or ColScoreLogit
// must be present next to the image path.
const (
	ColScoreConfidence = "Confidence"
	ColScoreLogit      = "Logit"
)

// DefaultThreshold separates class 0 from class 1 predictions.
const DefaultThreshold = 0.5

// IngestOptions controls how a scores file is turned into a report.
type IngestOptions struct {
	Profile   *profile.Profile
	Threshold float64
	// DataDir, when set, is checked for every label-map folder.
	DataDir string
	// Progress receives one line per mismatch as it is found. May be nil.
	Progress io.Writer
	// Warn receives degradations such as skipped rows. May be nil.
	Warn io.Writer
}

// IngestResult is the report built from a scores file.
type IngestResult struct {
	Records    []schema.Record
	Mismatches int
	Skipped    int
	// MissingDirs lists label-map folders absent from DataDir.
	MissingDirs []string
}

// IngestFile opens path and runs Ingest over it.
func IngestFile(path string, opts IngestOptions) (*IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scores file: %w", err)
	}
	defer f.Close()

	res, err := Ingest(f, opts)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	return res, nil
}

// Ingest reads a scores CSV and derives one report record per image whose
// parent folder belongs to the profile's label map.
func Ingest(r io.Reader, opts IngestOptions) (*IngestResult, error) {
	if opts.Profile == nil {
		return nil, fmt.Errorf("ingest: no profile")
	}
	threshold := opts.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}

	res := &IngestResult{}
	if opts.DataDir != "" {
		res.MissingDirs = checkDataDir(opts.DataDir, opts.Profile, opts.Warn)
	}

	cr := csv.NewReader(r)
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading scores CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("scores file is empty: no header row")
	}

	header := all[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	pathCol, scoreCol, isLogit, err := scoreColumns(header)
	if err != nil {
		return nil, err
	}

	for i, row := range all[1:] {
		n := i + 1
		imgPath := strings.TrimSpace(row[pathCol])
		if imgPath == "" {
			warnf(opts.Warn, "row %d: empty %s, skipping", n, schema.ColImagePath)
			res.Skipped++
			continue
		}
		folder := filepath.Base(filepath.Dir(filepath.FromSlash(imgPath)))
		truth, ok := opts.Profile.ClassOf(folder)
		if !ok {
			warnf(opts.Warn, "row %d: folder %q is not in profile %s, skipping", n, folder, opts.Profile.Name)
			res.Skipped++
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", n, header[scoreCol], err)
		}
		conf := score
		if isLogit {
			conf = sigmoid(score)
		}
		if conf < 0 || conf > 1 || math.IsNaN(conf) {
			return nil, fmt.Errorf("row %d: confidence %v outside [0, 1]", n, conf)
		}

		predicted := 0
		if conf > threshold {
			predicted = 1
		}
		rec := schema.Record{
			ImagePath:      imgPath,
			ImageName:      filepath.Base(filepath.FromSlash(imgPath)),
			TrueClass:      truth,
			PredictedClass: predicted,
			Confidence:     conf,
			Correctness:    schema.CorrectnessOf(predicted, truth),
			LogLoss:        metrics.LogLoss(truth, conf),
		}
		if !rec.IsCorrect() {
			res.Mismatches++
			if opts.Progress != nil {
				fmt.Fprintf(opts.Progress, "Mismatch #%d: '%s' was predicted as %d\n",
					res.Mismatches, rec.ImageName, predicted)
			}
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func scoreColumns(header []string) (pathCol, scoreCol int, isLogit bool, err error) {
	pathCol, scoreCol = -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case schema.ColImagePath:
			pathCol = i
		case ColScoreConfidence:
			if scoreCol >= 0 {
				return 0, 0, false, fmt.Errorf("scores file has both %s and %s columns", ColScoreConfidence, ColScoreLogit)
			}
			scoreCol = i
		case ColScoreLogit:
			if scoreCol >= 0 {
				return 0, 0, false, fmt.Errorf("scores file has both %s and %s columns", ColScoreConfidence, ColScoreLogit)
			}
			scoreCol, isLogit = i, true
		}
	}
	if pathCol < 0 {
		return 0, 0, false, fmt.Errorf("scores file is missing column %q", schema.ColImagePath)
	}
	if scoreCol < 0 {
		return 0, 0, false, fmt.Errorf("scores file needs a %q or %q column", ColScoreConfidence, ColScoreLogit)
	}
	return pathCol, scoreCol, isLogit, nil
}

func checkDataDir(dir string, p *profile.Profile, w io.Writer) []string {
	var missing []string
	for _, folder := range p.Folders() {
		full := filepath.Join(dir, folder)
		if info, err := os.Stat(full); err != nil || !info.IsDir() {
			warnf(w, "Directory not found, skipping: %s", full)
			missing = append(missing, folder)
		}
	}
	return missing
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func warnf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, "WARN: "+format+"\n", args...)
	}
}
