package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"propsort/internal/runner"
	"propsort/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-sort files as they change",
	Long: `Watch the given files and directories and re-process every supported
file that is created or written. Events are debounced so editor save
bursts trigger a single run. Honors the same options and --write flag as
a normal run; without --write it only reports what would change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		cfg := runner.Config{
			Write:     flagWrite,
			Recursive: flagRecursive,
			Workers:   flagWorkers,
			Options:   opts,
		}

		// Process everything once before settling into watch mode.
		r := runner.New(cfg)
		sum, err := r.Run(cmd.Context(), args)
		if err != nil {
			return err
		}
		r.PrintResults(sum)
		r.PrintSummary(sum)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			pterm.Info.Println("\nStopping watch...")
			cancel()
		}()

		return watch.New(cfg).Watch(ctx, args)
	},
}
