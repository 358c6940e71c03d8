package main

import (
	"errors"
	"io"
	"strings"

	"github.com/dshills/labelcritic/internal/config"
	"github.com/dshills/labelcritic/internal/console"
	"github.com/dshills/labelcritic/internal/review"
)

const (
	menuPrompt  = "Please enter your choice (1-5): "
	pausePrompt = "\nPress Enter to return to the main menu..."
)

func displayMenu(con *console.Console) {
	con.Println()
	con.Println(strings.Repeat("=", 37))
	con.Title("  Model Analysis Interactive Menu")
	con.Println(strings.Repeat("=", 37))
	con.Println("1. Run Full Pipeline (Ingest + Summary + Visualize)")
	con.Println("2. Run Analysis Only (Generate CSV Report)")
	con.Println("3. Run Visualization Only (From existing CSV)")
	con.Println("4. Run Interactive Label Fixer")
	con.Println("5. Exit")
	con.Println(strings.Repeat("-", 37))
}

// runMenu loops over the numbered menu until the operator exits or input
// ends. A failing task is reported and the menu continues.
func runMenu(cfg *config.Config, verbose bool, in review.Input, con *console.Console) error {
	for {
		displayMenu(con)
		choice, err := in.Ask(menuPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				con.Println()
				con.Println("Exiting the application. Goodbye!")
				return nil
			}
			return codeError(exitInput, "reading menu choice: %s", err)
		}

		var taskErr error
		switch strings.TrimSpace(choice) {
		case "1":
			con.Println("\n--- Running Full Analysis and Visualization Pipeline ---")
			taskErr = runAnalysis(cfg, verbose, con, true)
		case "2":
			con.Println("\n--- Running Analysis Task Only ---")
			taskErr = runAnalysis(cfg, verbose, con, false)
		case "3":
			con.Println("\n--- Running Visualization Task Only ---")
			taskErr = runPlot(cfg.ReportPath, plotFlags{
				outDir:      cfg.VisDir,
				profileName: cfg.Profile,
				verbose:     verbose,
			}, con)
		case "4":
			con.Println("\n--- Running Interactive Fixer Task ---")
			flags := reviewFlags{logFormat: "text", verbose: verbose}
			flags.fill(cfg)
			taskErr = runReview(cfg.ReportPath, flags, in, con)
		case "5":
			con.Println("Exiting the application. Goodbye!")
			return nil
		default:
			con.Warning("Invalid choice. Please enter a number between 1 and 5.")
			if !pause(in, "Press Enter to continue...") {
				return nil
			}
			continue
		}

		if taskErr != nil {
			var ee *exitErr
			if errors.As(taskErr, &ee) {
				con.Error("Error: " + ee.msg)
			} else {
				con.Error("Error: " + taskErr.Error())
			}
		}
		if !pause(in, pausePrompt) {
			return nil
		}
	}
}

// runAnalysis builds the report from the configured scores file, prints the
// summary, and optionally writes the visualizations.
func runAnalysis(cfg *config.Config, verbose bool, con *console.Console, withPlots bool) error {
	var iflags ingestFlags
	iflags.verbose = verbose
	iflags.fill(cfg)
	if err := runIngest(cfg.ScoresPath, iflags, con); err != nil {
		return err
	}
	err := runSummary(cfg.ReportPath, summaryFlags{
		format:      "text",
		profileName: cfg.Profile,
		verbose:     verbose,
	}, con)
	if err != nil {
		return err
	}
	if !withPlots {
		return nil
	}
	return runPlot(cfg.ReportPath, plotFlags{
		outDir:      cfg.VisDir,
		profileName: cfg.Profile,
		verbose:     verbose,
	}, con)
}

// pause waits for Enter. It returns false once input has ended.
func pause(in review.Input, prompt string) bool {
	_, err := in.Ask(prompt)
	return err == nil
}
