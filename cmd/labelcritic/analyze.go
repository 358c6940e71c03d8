package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dshills/labelcritic/internal/config"
	"github.com/dshills/labelcritic/internal/console"
	"github.com/dshills/labelcritic/internal/metrics"
	"github.com/dshills/labelcritic/internal/plot"
	"github.com/dshills/labelcritic/internal/profile"
	"github.com/dshills/labelcritic/internal/render"
	"github.com/dshills/labelcritic/internal/report"
)

// summaryFlags holds the parsed flags for the summary command.
type summaryFlags struct {
	format      string
	out         string
	profileName string
	verbose     bool
}

func runSummary(reportPath string, flags summaryFlags, con *console.Console) error {
	// --- Step 1: Validate flags ---
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}
	prof, err := profile.Get(flags.profileName)
	if err != nil {
		return codeError(exitInput, "loading profile: %s", err)
	}

	// --- Step 2: Load report ---
	logVerbose(flags.verbose, "Loading report: %s", reportPath)
	tbl, err := loadReport(reportPath, "Please run the analysis first to generate the report.", con)
	if err != nil {
		return err
	}

	// --- Step 3: Compute metrics ---
	summary := metrics.Summarize(tbl.TrueLabels(), tbl.PredictedLabels(), tbl.Confidences(), prof.ClassNames)

	// --- Step 4: Render output ---
	logVerbose(flags.verbose, "Rendering summary (format: %s)", flags.format)
	outputBytes, err := renderer.Render(&summary)
	if err != nil {
		return codeError(exitWrite, "rendering summary: %s", err)
	}

	// --- Step 5: Write output ---
	if flags.out != "" {
		if err := os.WriteFile(flags.out, outputBytes, 0o644); err != nil {
			return codeError(exitWrite, "writing output file: %s", err)
		}
		return nil
	}
	w := con.Writer()
	if _, err := w.Write(outputBytes); err != nil {
		return codeError(exitWrite, "writing output: %s", err)
	}
	// Ensure output ends with a newline for terminal friendliness.
	if len(outputBytes) > 0 && outputBytes[len(outputBytes)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

// plotFlags holds the parsed flags for the plot command.
type plotFlags struct {
	outDir      string
	profileName string
	verbose     bool
}

func runPlot(reportPath string, flags plotFlags, con *console.Console) error {
	prof, err := profile.Get(flags.profileName)
	if err != nil {
		return codeError(exitInput, "loading profile: %s", err)
	}

	con.Title("--- Starting Visualization Generation Task ---")
	tbl, err := loadReport(reportPath, "Cannot generate visualizations. Please run the analysis first.", con)
	if err != nil {
		return err
	}
	con.Printf("Successfully loaded report with %d entries.\n", len(tbl.Records))

	data := plot.Data{
		Truth:  tbl.TrueLabels(),
		Pred:   tbl.PredictedLabels(),
		Scores: tbl.Confidences(),
		Names:  prof.ClassNames,
	}
	written, err := plot.WriteAll(flags.outDir, data, os.Stderr)
	if err != nil {
		return codeError(exitWrite, "writing visualizations: %s", err)
	}
	for _, p := range written {
		logVerbose(flags.verbose, "Wrote %s", p)
	}
	con.Println()
	con.Success(fmt.Sprintf("--- All visualizations have been saved to the '%s' folder. ---", flags.outDir))
	return nil
}

// ingestFlags holds the parsed flags for the ingest command.
type ingestFlags struct {
	dataDir     string
	profileName string
	threshold   float64
	out         string
	verbose     bool
}

// fill takes unset values from cfg.
func (f *ingestFlags) fill(cfg *config.Config) {
	if f.dataDir == "" {
		f.dataDir = cfg.TestDataDir
	}
	if f.profileName == "" {
		f.profileName = cfg.Profile
	}
	if f.threshold == 0 {
		f.threshold = cfg.Threshold
	}
	if f.out == "" {
		f.out = cfg.ReportPath
	}
}

func runIngest(scoresPath string, flags ingestFlags, con *console.Console) error {
	// --- Step 1: Validate flags ---
	if flags.threshold <= 0 || flags.threshold >= 1 {
		return codeError(exitInput, "invalid flags: --threshold must be within (0, 1), got %g", flags.threshold)
	}
	prof, err := profile.Get(flags.profileName)
	if err != nil {
		return codeError(exitInput, "loading profile: %s", err)
	}
	logVerbose(flags.verbose, "Using profile %s", prof.Describe())

	// --- Step 2: Build records from scores ---
	con.Title("Starting full analysis...")
	res, err := report.IngestFile(scoresPath, report.IngestOptions{
		Profile:   prof,
		Threshold: flags.threshold,
		DataDir:   flags.dataDir,
		Progress:  con.Writer(),
		Warn:      os.Stderr,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			con.Error(fmt.Sprintf("Error: Scores file not found at '%s'.", scoresPath))
			return codeError(exitInput, "scores file not found: %s", scoresPath)
		}
		return codeError(exitInput, "%s", err)
	}
	if res.Skipped > 0 {
		logVerbose(flags.verbose, "Skipped %d row(s) outside the label map", res.Skipped)
	}
	if len(res.Records) == 0 {
		return codeError(exitInput, "no images in %s belong to profile %s", scoresPath, prof.Name)
	}

	// --- Step 3: Write report ---
	err = report.WriteFile(flags.out, func(w io.Writer) error {
		return report.Write(w, res.Records)
	})
	if err != nil {
		return codeError(exitWrite, "writing report: %s", err)
	}
	con.Println()
	con.Printf("Analysis complete. Found %d mismatches out of %d images.\n", res.Mismatches, len(res.Records))
	con.Success(fmt.Sprintf("Report saved to '%s'", flags.out))
	return nil
}
