package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"propsort/errors"
	"propsort/internal/config"
	"propsort/internal/logging"
	"propsort/internal/model"
	"propsort/internal/processor"
	"propsort/internal/runner"
	"propsort/internal/version"
)

var (
	flagConfig    string
	flagJSON      bool
	flagVerbose   bool
	flagWrite     bool
	flagWorkers   int
	flagRecursive bool

	flagCheck    bool
	flagList     bool
	flagReport   string
	flagStdin    bool
	flagFileType string

	// exitCode is what main exits with when Execute returns no error:
	// 0 clean, 1 check-mode differences, 2 per-file errors.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "propsort [paths...]",
	Short: "Sort properties of structural entities in source files",
	Long: `propsort reorders object properties, struct fields, CSS declarations,
JSON keys, and YAML mappings according to configurable strategies, leaving
every byte outside the rewritten entities untouched.

The default run is a dry run: it reports which files would change. Use
--write to rewrite files in place, or --check to fail when anything is
unsorted.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	Version:      version.Info(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(flagJSON, flagVerbose)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("propsort {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: discovered .propsort.{yaml,toml,json})")
	pf.BoolVar(&flagJSON, "json", false, "Log in JSON")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	pf.BoolVarP(&flagWrite, "write", "w", false, "Rewrite files in place")
	pf.IntVar(&flagWorkers, "workers", 0, "Parallel workers (0 = one per CPU, capped at 8)")
	pf.BoolVar(&flagRecursive, "recursive", true, "Descend into directories")
	addOptionFlags(rootCmd)

	f := rootCmd.Flags()
	f.BoolVarP(&flagCheck, "check", "c", false, "Exit 1 if any file needs sorting")
	f.BoolVarP(&flagList, "list-different", "l", false, "Print only paths needing sorting")
	f.StringVar(&flagReport, "report", "", "Write a JSON run report to this path (- renders a table)")
	f.BoolVar(&flagStdin, "stdin", false, "Read source from stdin, write result to stdout")
	f.StringVar(&flagFileType, "file-type", "", "File type for --stdin input (typescript, css, scss, go, json, yaml, ...)")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	if flagStdin {
		if len(args) > 0 {
			return errors.New("--stdin takes no path arguments")
		}
		return runStdin(opts)
	}
	if len(args) == 0 {
		return errors.New("no paths given (or use --stdin)")
	}

	r := runner.New(runner.Config{
		Check:         flagCheck,
		Write:         flagWrite,
		ListDifferent: flagList,
		Recursive:     flagRecursive,
		Workers:       flagWorkers,
		Options:       opts,
	})
	sum, err := r.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	r.PrintResults(sum)
	r.PrintSummary(sum)

	if flagReport != "" {
		if flagReport == "-" {
			if err := sum.Report.RenderTable(); err != nil {
				return err
			}
		} else if err := sum.Report.WriteJSON(flagReport); err != nil {
			return err
		}
	}

	exitCode = r.ExitCode(sum)
	return nil
}

// resolveOptions builds the option set for this invocation: defaults, then
// the config file, then PROPSORT_* env vars, then any flags set on cmd.
func resolveOptions(cmd *cobra.Command) (model.Options, error) {
	v := config.New()
	if err := bindOptionFlags(v, cmd); err != nil {
		return model.Options{}, err
	}

	path := flagConfig
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Discover(wd)
		}
	}
	if path != "" {
		logging.Debugw("using config file", "path", path)
	}
	return config.Resolve(v, path)
}

// runStdin processes stdin and prints the result to stdout. Warnings go to
// stderr so the output stays pipeable.
func runStdin(opts model.Options) error {
	if flagFileType == "" {
		return errors.New("--file-type is required with --stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "reading stdin")
	}

	res := processor.NewWithLogger(logging.Logger).ProcessText(processor.Request{
		SourceText: string(data),
		FileType:   model.FileType(flagFileType),
		Options:    opts,
	})
	for _, w := range res.Warnings {
		logging.Warnf("%s", w)
	}
	if !res.Success {
		return errors.Newf("%s", strings.Join(res.Errors, "; "))
	}
	fmt.Print(res.ProcessedText)
	return nil
}
