// Package cmd wires the aidigest commands. The root command runs a
// build; list, open, and version are subcommands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/safeguardsiliconlife/aidigest/pkg/assemble"
	"github.com/safeguardsiliconlife/aidigest/pkg/history"
	"github.com/safeguardsiliconlife/aidigest/pkg/ignore"
	"github.com/safeguardsiliconlife/aidigest/pkg/logging"
	"github.com/safeguardsiliconlife/aidigest/pkg/picker"
	"github.com/safeguardsiliconlife/aidigest/pkg/selection"
	"github.com/safeguardsiliconlife/aidigest/pkg/traverse"
)

// historyEnvVar overrides the history root directory.
const historyEnvVar = "AIDIGEST_HISTORY"

var (
	logger = zap.NewNop()

	flagOutput     string
	flagAll        bool
	flagExclude    bool
	flagHistoryDir string
	flagIgnore     []string
	flagNoDefaults bool
	flagShowFiles  bool
	flagDebug      bool
)

// RootCmd is the base command; invoked without a subcommand it runs an
// interactive build.
var RootCmd = &cobra.Command{
	Use:   "aidigest [root]",
	Short: "aidigest concatenates selected files into one annotated document",
	Long: `aidigest lets you pick files and directories from a subtree with a
fuzzy finder and concatenates the resulting file set into a single
output document with per-file markers. Each build is recorded under a
timestamped history folder for later listing and reopening.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagDebug {
			l, err := logging.Setup(true)
			if err != nil {
				return fmt.Errorf("enabling debug logging: %w", err)
			}
			logger = l
		}
		return nil
	},
	RunE: runBuild,
}

func init() {
	RootCmd.Flags().StringVarP(&flagOutput, "output", "o", "aidigest.txt", "name of the output artifact")
	RootCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "build every file under the root without picking")
	RootCmd.Flags().BoolVarP(&flagExclude, "exclude", "e", false, "pick files to exclude instead of include")
	RootCmd.Flags().StringSliceVar(&flagIgnore, "ignore", nil, "extra ignore patterns (gitignore syntax)")
	RootCmd.Flags().BoolVar(&flagNoDefaults, "no-default-ignores", false, "disable the built-in ignore patterns")
	RootCmd.Flags().BoolVar(&flagShowFiles, "show-files", false, "list the included files after the build")
	RootCmd.PersistentFlags().StringVar(&flagHistoryDir, "history-dir", "", "history root directory (default $AIDIGEST_HISTORY or the working directory)")
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// Execute runs the CLI. On failure it prints a one-line diagnostic to
// stderr and returns the error for main to map to the exit code.
func Execute(l *zap.Logger) error {
	if l != nil {
		logger = l
	}
	if err := RootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "aidigest: %v\n", err)
		return err
	}
	return nil
}

// historyRoot resolves the history root from flag, environment, or the
// working directory, in that order.
func historyRoot() string {
	if flagHistoryDir != "" {
		return flagHistoryDir
	}
	if env := os.Getenv(historyEnvVar); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// runBuild drives one full build: enumerate, pick, resolve, assemble,
// record.
func runBuild(cmd *cobra.Command, args []string) error {
	if flagAll && flagExclude {
		return errors.New("--all and --exclude are mutually exclusive")
	}
	mode := selection.ModeInclude
	switch {
	case flagAll:
		mode = selection.ModeAll
	case flagExclude:
		mode = selection.ModeExclude
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	// The picker is the one genuinely external tool; probe it before any
	// selection work so a missing install fails fast.
	p := picker.New(logger)
	if mode != selection.ModeAll {
		if err := p.Available(); err != nil {
			return err
		}
	}

	rules, err := ignore.Load(root, !flagNoDefaults, flagIgnore, logger)
	if err != nil {
		return err
	}
	walker := traverse.NewWalker(root, rules, logger)

	raw, failures, err := pickSelection(p, walker, mode, root)
	if err != nil {
		return err
	}

	resolver := selection.NewResolver(selection.NewExpander(walker, logger), logger)
	rootEntries := []selection.PathEntry{{Path: root, Kind: selection.KindDirectory}}
	files, resolveFailures := resolver.Resolve(mode, raw, rootEntries)
	failures = append(failures, resolveFailures...)
	reportFailures(failures)

	assembler := assemble.NewAssembler(logger)
	manifest, err := assembler.Assemble(files, flagOutput)
	if err != nil {
		return err
	}
	manifest.Command = strings.Join(os.Args, " ")

	tracker := history.NewTracker(historyRoot(), logger)
	record, err := tracker.Record(manifest)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("Wrote %d files to %s\n", manifest.Count, manifest.OutputPath)
	if flagShowFiles {
		fmt.Println("Files included in the output:")
		for i, f := range manifest.Files {
			fmt.Printf("%d. %s\n", i+1, f)
		}
	}
	reportArtifactSize(manifest.OutputPath)
	fmt.Printf("Recorded build at %s\n", record.Dir)
	return nil
}

// reportArtifactSize prints a rough token estimate for the artifact, or
// a size warning when it is too large to be worth estimating. Failures
// here never fail the build; the artifact is already written.
func reportArtifactSize(outputPath string) {
	info, err := os.Stat(outputPath)
	if err != nil {
		return
	}
	if info.Size() > assemble.MaxReportableSize {
		color.New(color.FgYellow).Printf(
			"Warning: output size (%.2f MB) exceeds %d MB; token estimate skipped\n",
			float64(info.Size())/1024/1024, assemble.MaxReportableSize/1024/1024)
		return
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return
	}
	fmt.Printf("Estimated token count: %d (approximate)\n", assemble.EstimateTokens(data))
}

// pickSelection runs the interactive pick for include/exclude modes. A
// cancelled picker and an empty confirmed pick both come back as an
// empty selection; the build then fails downstream as an empty
// selection, matching the original tool.
func pickSelection(p *picker.Picker, walker *traverse.Walker, mode selection.Mode, root string) (selection.RawSelection, []*selection.PathError, error) {
	if mode == selection.ModeAll {
		return nil, nil, nil
	}

	candidates, err := walker.Entries(root)
	if err != nil {
		return nil, nil, err
	}
	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}

	prompt := "include> "
	if mode == selection.ModeExclude {
		prompt = "exclude> "
	}
	picked, err := p.Pick(prompt, paths)
	if err != nil {
		return nil, nil, err
	}

	raw, failures := selection.Classify(picked)
	return raw, failures, nil
}

// reportFailures prints one line per unavailable path. These are partial
// failures; the build continues with the remaining files.
func reportFailures(failures []*selection.PathError) {
	for _, f := range failures {
		color.New(color.FgYellow).Fprintf(os.Stderr, "skipped %s: %v\n", f.Path, f.Err)
	}
}
