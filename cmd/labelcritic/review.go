package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dshills/labelcritic/internal/changelog"
	"github.com/dshills/labelcritic/internal/config"
	"github.com/dshills/labelcritic/internal/console"
	"github.com/dshills/labelcritic/internal/patch"
	"github.com/dshills/labelcritic/internal/report"
	"github.com/dshills/labelcritic/internal/review"
)

const savePrompt = "Do you also want to save the new, fully corrected CSV report? (y/n): "

// reviewFlags holds the parsed flags for the review command.
type reviewFlags struct {
	logPath       string
	correctedPath string
	logFormat     string
	patchOut      string
	verbose       bool
}

// fill takes unset output paths from cfg.
func (f *reviewFlags) fill(cfg *config.Config) {
	if f.logPath == "" {
		f.logPath = cfg.ChangeLogPath
	}
	if f.correctedPath == "" {
		f.correctedPath = cfg.CorrectedReportPath
	}
}

func runReview(reportPath string, flags reviewFlags, in review.Input, con *console.Console) error {
	// --- Step 1: Validate flags ---
	logRenderer, err := changelog.NewRenderer(flags.logFormat)
	if err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	// --- Step 2: Load report ---
	con.Title("--- Interactive Label Fixer ---")
	logVerbose(flags.verbose, "Loading report: %s", reportPath)
	tbl, err := loadReport(reportPath, "Please run the analysis first to generate the report.", con)
	if err != nil {
		return err
	}
	con.Printf("Loaded report with %d entries.\n", len(tbl.Records))
	logVerbose(flags.verbose, "Report hash: %s", tbl.Hash)

	// --- Step 3: Build review queue ---
	queue := review.BuildQueue(tbl.Records)
	if len(queue) == 0 {
		con.Success("No misclassified images found in the report. Excellent!")
		return nil
	}
	con.Printf("\nFound %d misclassified images to review.\n", len(queue))

	// --- Step 4: Run the session ---
	sess := review.NewSession(tbl.Records, in, con)
	outcome, err := sess.Run(queue)
	if err != nil {
		return codeError(exitInput, "review session: %s", err)
	}
	logVerbose(flags.verbose, "Decided %d of %d queued image(s), quit=%t", outcome.Decided, outcome.Queued, outcome.Quit)
	con.Println()
	con.Rule("=")
	con.Println("Review session finished.")

	changes := sess.Changes()
	if len(changes) == 0 {
		con.Println("No changes were made.")
		return nil
	}

	// --- Step 5: Summarize and write the change log ---
	con.Println()
	con.Println("--- Summary of Changes Made ---")
	for _, line := range changelog.SummaryLines(changes) {
		con.Println(line)
	}
	logBytes, err := logRenderer.Render(changes)
	if err != nil {
		return codeError(exitWrite, "rendering change log: %s", err)
	}
	if err := os.WriteFile(flags.logPath, logBytes, 0o644); err != nil {
		con.Error(fmt.Sprintf("Error: could not save the change log: %s", err))
		return codeError(exitWrite, "writing change log: %s", err)
	}
	con.Println()
	con.Success("A detailed text log of these changes has been saved.")
	con.Printf("   Log File Path: %s\n", review.DisplayPath(flags.logPath))

	// --- Step 6: Write label patch ---
	labels := sess.Labels()
	if flags.patchOut != "" {
		logVerbose(flags.verbose, "Generating label patch → %s", flags.patchOut)
		if err := writeLabelPatch(flags.patchOut, tbl, labels); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: patch write failed: %s\n", err)
		}
	}

	// --- Step 7: Offer the corrected report ---
	con.Println(strings.Repeat("-", 35))
	save, err := review.Confirm(in, savePrompt)
	if err != nil {
		return codeError(exitInput, "reading answer: %s", err)
	}
	if !save {
		con.Println("Corrected CSV report not saved.")
		return nil
	}
	err = report.WriteFile(flags.correctedPath, func(w io.Writer) error {
		return tbl.WriteCorrected(w, labels)
	})
	if err != nil {
		con.Error(fmt.Sprintf("Error: could not save the corrected report: %s", err))
		return codeError(exitWrite, "writing corrected report: %s", err)
	}
	con.Success(fmt.Sprintf("Successfully saved corrected CSV report to '%s'", flags.correctedPath))
	return nil
}

// loadReport loads a report, turning a missing file into the operator
// diagnostic plus an input exit code.
func loadReport(path, hint string, con *console.Console) (*report.Table, error) {
	tbl, err := report.Load(path)
	if err == nil {
		return tbl, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		con.Error(fmt.Sprintf("Error: Report file not found at '%s'.", path))
		con.Muted(hint)
		return nil, codeError(exitInput, "report file not found: %s", path)
	}
	return nil, codeError(exitInput, "loading report: %s", err)
}

func writeLabelPatch(path string, tbl *report.Table, labels []int) error {
	before, err := patch.Manifest(tbl.Records, tbl.TrueLabels())
	if err != nil {
		return err
	}
	after, err := patch.Manifest(tbl.Records, labels)
	if err != nil {
		return err
	}
	diff := patch.GenerateDiff(tbl.Path, before, after)
	if diff != "" {
		got, err := patch.Apply(before, diff)
		if err != nil {
			return fmt.Errorf("verifying label patch: %w", err)
		}
		if got != after {
			return fmt.Errorf("verifying label patch: result does not match corrected labels")
		}
	}
	return os.WriteFile(path, []byte(diff), 0o644)
}
