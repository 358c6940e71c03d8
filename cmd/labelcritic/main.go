package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/labelcritic/internal/config"
	"github.com/dshills/labelcritic/internal/console"
	"github.com/dshills/labelcritic/internal/review"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// Exit codes.
const (
	exitInput = 3 // missing or malformed input, bad flags or config
	exitWrite = 4 // an output file could not be written
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	plain      bool
	verbose    bool
}

func main() {
	var g globalFlags
	root := &cobra.Command{
		Use:     "labelcritic",
		Short:   "Review and correct the labels of a binary image classifier's test set",
		Long:    "LabelCritic ranks the images a model got wrong by how confidently it got them wrong, lets an operator correct mislabeled ground truth, and tracks accuracy and F1 as labels change.",
		Version: version,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default labelcritic.yaml, or $LABELCRITIC_CONFIG)")
	pf.BoolVar(&g.plain, "plain", false, "Disable styled output")
	pf.BoolVar(&g.verbose, "verbose", false, "Print processing steps to stderr")

	root.AddCommand(
		newReviewCmd(&g),
		newSummaryCmd(&g),
		newPlotCmd(&g),
		newIngestCmd(&g),
		newMenuCmd(&g),
	)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newReviewCmd(g *globalFlags) *cobra.Command {
	var flags reviewFlags
	cmd := &cobra.Command{
		Use:   "review [report]",
		Short: "Interactively review misclassified images and correct their labels",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.verbose = g.verbose
			flags.fill(cfg)
			in, con := stdio(g)
			return runReview(reportArg(args, cfg), flags, in, con)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.logPath, "log", "", "Change log path (default from config: change_log.txt)")
	f.StringVar(&flags.correctedPath, "corrected-out", "", "Corrected report path (default from config: prediction_report_v2_corrected.csv)")
	f.StringVar(&flags.logFormat, "log-format", "text", "Change log format: text, md, or json")
	f.StringVar(&flags.patchOut, "patch-out", "", "Write a diff-match-patch patch of the label changes to this file")
	return cmd
}

func newSummaryCmd(g *globalFlags) *cobra.Command {
	var flags summaryFlags
	cmd := &cobra.Command{
		Use:   "summary [report]",
		Short: "Print overall performance metrics and the confusion matrix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.verbose = g.verbose
			if flags.profileName == "" {
				flags.profileName = cfg.Profile
			}
			_, con := stdio(g)
			return runSummary(reportArg(args, cfg), flags, con)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.format, "format", "text", "Output format: text, md, or json")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.StringVar(&flags.profileName, "profile", "", "Class profile: center or binary")
	return cmd
}

func newPlotCmd(g *globalFlags) *cobra.Command {
	var flags plotFlags
	cmd := &cobra.Command{
		Use:   "plot [report]",
		Short: "Write confusion matrix, confidence histogram and ROC curve images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.verbose = g.verbose
			if flags.outDir == "" {
				flags.outDir = cfg.VisDir
			}
			if flags.profileName == "" {
				flags.profileName = cfg.Profile
			}
			_, con := stdio(g)
			return runPlot(reportArg(args, cfg), flags, con)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.outDir, "out-dir", "", "Output directory (default from config: output_visualizations)")
	f.StringVar(&flags.profileName, "profile", "", "Class profile: center or binary")
	return cmd
}

func newIngestCmd(g *globalFlags) *cobra.Command {
	var flags ingestFlags
	cmd := &cobra.Command{
		Use:   "ingest [scores.csv]",
		Short: "Build a prediction report from a file of per-image model scores",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.verbose = g.verbose
			flags.fill(cfg)
			scores := cfg.ScoresPath
			if len(args) == 1 {
				scores = args[0]
			}
			_, con := stdio(g)
			return runIngest(scores, flags, con)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.dataDir, "data-dir", "", "Test data directory to check for label-map folders")
	f.StringVar(&flags.profileName, "profile", "", "Class profile: center or binary")
	f.Float64Var(&flags.threshold, "threshold", 0, "Decision threshold on the class-1 confidence (default from config: 0.5)")
	f.StringVar(&flags.out, "out", "", "Report output path (default from config: prediction_report.csv)")
	return cmd
}

func newMenuCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the numbered interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			in, con := stdio(g)
			return runMenu(cfg, g.verbose, in, con)
		},
	}
}

func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, codeError(exitInput, "loading config: %s", err)
	}
	if cfg.Source != "" {
		logVerbose(g.verbose, "Loaded config from %s", cfg.Source)
	}
	return cfg, nil
}

// stdio returns the shared operator input and the console. Every prompt of
// a run must go through the one LineInput so buffered stdin is not lost.
func stdio(g *globalFlags) (review.Input, *console.Console) {
	if !console.IsTerminal(os.Stdin) {
		logVerbose(g.verbose, "stdin is not a terminal; reading responses from piped input")
	}
	return review.NewLineInput(os.Stdin, os.Stdout), console.Stdout(g.plain)
}

func reportArg(args []string, cfg *config.Config) string {
	if len(args) == 1 {
		return args[0]
	}
	return cfg.ReportPath
}

// logVerbose writes an informational message to stderr when verbose mode is enabled.
func logVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
	}
}
