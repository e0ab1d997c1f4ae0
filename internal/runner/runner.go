// Package runner processes batches of files in parallel and aggregates
// per-file outcomes into a run summary and report.
package runner

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"propsort/errors"
	"propsort/internal/fileutil"
	"propsort/internal/logging"
	"propsort/internal/model"
	"propsort/internal/processor"
	"propsort/internal/report"
)

// Config selects the run mode and processing options.
type Config struct {
	Check         bool
	Write         bool
	ListDifferent bool
	Recursive     bool
	Workers       int
	Options       model.Options
}

// Mode names the run mode for the report.
func (c Config) Mode() string {
	switch {
	case c.Check:
		return "check"
	case c.Write:
		return "write"
	default:
		return "dry-run"
	}
}

// FileResult is the outcome for one file. Err covers IO failures; anything
// the processor diagnosed is in Res.Errors.
type FileResult struct {
	Path     string
	FileType model.FileType
	Res      *model.Result
	Err      error
}

// Failed reports whether the file errored, on IO or in processing.
func (f FileResult) Failed() bool {
	return f.Err != nil || f.Res == nil || !f.Res.Success
}

// NeedsSort reports whether the file content differs from its sorted form.
func (f FileResult) NeedsSort() bool {
	return !f.Failed() && f.Res.Changed
}

// Summary aggregates one run. Results keep the discovery order.
type Summary struct {
	Results    []FileResult
	TotalFiles int
	Changed    int
	Unchanged  int
	Errored    int
	Entities   int
	Report     *report.Report
}

// Runner processes files with a bounded worker pool.
type Runner struct {
	cfg  Config
	proc *processor.Processor
}

// New returns a runner for cfg.
func New(cfg Config) *Runner {
	return &Runner{cfg: cfg, proc: processor.NewWithLogger(logging.Logger)}
}

// WorkerCount resolves the configured worker count: 0 means one per CPU,
// capped at 8.
func WorkerCount(n int) int {
	if n > 0 {
		return n
	}
	n = runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// Run expands paths and processes every discovered file.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	files, err := fileutil.ExpandPaths(paths, r.cfg.Recursive)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Report: report.New(r.cfg.Mode())}
	if len(files) == 0 {
		sum.Report.Finish()
		return sum, nil
	}
	logging.Debugw("run started", "files", len(files), "mode", r.cfg.Mode(), "workers", WorkerCount(r.cfg.Workers))

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(WorkerCount(r.cfg.Workers))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum.Results = results
	sum.TotalFiles = len(results)
	for _, fr := range results {
		outcome := report.FileOutcome{Path: fr.Path, FileType: string(fr.FileType)}
		if fr.Res != nil {
			outcome.Entities = fr.Res.EntitiesProcessed
			outcome.Errors = fr.Res.Errors
			outcome.Warnings = fr.Res.Warnings
			sum.Entities += fr.Res.EntitiesProcessed
		}
		switch {
		case fr.Failed():
			sum.Errored++
			outcome.Status = report.StatusError
			if fr.Err != nil {
				outcome.Errors = append(outcome.Errors, fr.Err.Error())
			}
		case fr.Res.Changed && r.cfg.Write:
			sum.Changed++
			outcome.Status = report.StatusSorted
		case fr.Res.Changed:
			sum.Changed++
			outcome.Status = report.StatusWouldSort
		default:
			sum.Unchanged++
			outcome.Status = report.StatusUnchanged
		}
		sum.Report.Add(outcome)
	}
	sum.Report.Finish()
	return sum, nil
}

func (r *Runner) processFile(path string) FileResult {
	ft, ok := fileutil.TypeOf(path)
	if !ok {
		return FileResult{Path: path, Err: errors.Newf("%v: %s", errors.ErrUnsupportedFileType, path)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, FileType: ft, Err: errors.Wrapf(err, "reading %s", path)}
	}

	res := r.proc.ProcessText(processor.Request{
		SourceText: string(data),
		FileType:   ft,
		Options:    r.cfg.Options,
	})
	fr := FileResult{Path: path, FileType: ft, Res: res}
	if !res.Success {
		logging.Debugw("processing failed", "path", path, "errors", res.Errors)
		return fr
	}

	if r.cfg.Write && res.Changed {
		fr.Err = writeBack(path, res.ProcessedText)
	}
	return fr
}

// writeBack rewrites path in place, keeping its permission bits.
func writeBack(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// PrintResults prints per-file outcome lines. In list-different mode only
// the paths needing sorting are printed, one per line on stdout.
func (r *Runner) PrintResults(sum *Summary) {
	if r.cfg.ListDifferent {
		for _, fr := range sum.Results {
			if fr.NeedsSort() {
				fmt.Println(fr.Path)
			}
		}
		return
	}

	if sum.TotalFiles == 0 {
		pterm.Warning.Println("No supported files found")
		return
	}
	pterm.Printf("Found %d file(s)\n", sum.TotalFiles)

	for _, fr := range sum.Results {
		switch {
		case fr.Err != nil:
			pterm.Error.Printf("Error processing %s: %v\n", fr.Path, fr.Err)
		case !fr.Res.Success:
			pterm.Error.Printf("Error processing %s: %s\n", fr.Path, strings.Join(fr.Res.Errors, "; "))
		case fr.Res.Changed && r.cfg.Write:
			pterm.Printf("%s Sorted %s (%d entities)\n", pterm.Green("✓"), fr.Path, fr.Res.EntitiesProcessed)
		case fr.Res.Changed:
			pterm.Printf("Would sort %s (%d entities)\n", fr.Path, fr.Res.EntitiesProcessed)
		case r.cfg.Check:
			pterm.Printf("%s No changes needed %s\n", pterm.Green("✓"), fr.Path)
		}
	}
}

// PrintSummary prints the aggregate block for multi-file runs.
func (r *Runner) PrintSummary(sum *Summary) {
	if r.cfg.ListDifferent || sum.TotalFiles <= 1 {
		return
	}

	pterm.Println("\n─────────────────────────────────────")
	pterm.Printf("Total files:    %d\n", sum.TotalFiles)
	switch {
	case r.cfg.Check:
		pterm.Printf("No changes:     %d\n", sum.Unchanged)
		if sum.Changed > 0 {
			pterm.Printf("Need sorting:   %d ❌\n", sum.Changed)
		}
	case r.cfg.Write:
		pterm.Printf("Sorted:         %d\n", sum.Changed)
		pterm.Printf("No changes:     %d\n", sum.Unchanged)
	default:
		pterm.Printf("Would sort:     %d\n", sum.Changed)
		pterm.Printf("No changes:     %d\n", sum.Unchanged)
	}
	if sum.Errored > 0 {
		pterm.Printf("Errors:         %d\n", sum.Errored)
	}
	pterm.Printf("Entities:       %d\n", sum.Entities)
}

// ExitCode maps a summary to the process exit code: 2 on any error, 1 when
// check mode found differences, 0 otherwise.
func (r *Runner) ExitCode(sum *Summary) int {
	if sum.Errored > 0 {
		return 2
	}
	if r.cfg.Check && sum.Changed > 0 {
		return 1
	}
	return 0
}
