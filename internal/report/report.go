// Package report assembles the run artifact: a unique run id, aggregate
// counts, and per-file outcomes. CI consumes the JSON form; humans get a
// rendered table.
package report

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"propsort/errors"
)

// File outcome statuses.
const (
	StatusSorted    = "sorted"
	StatusWouldSort = "would-sort"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
)

// FileOutcome records what happened to one file.
type FileOutcome struct {
	Path     string   `json:"path"`
	FileType string   `json:"fileType"`
	Status   string   `json:"status"`
	Entities int      `json:"entities"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Totals aggregates outcome counts. Changed covers both sorted and
// would-sort files.
type Totals struct {
	Files     int `json:"files"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Errors    int `json:"errors"`
	Entities  int `json:"entities"`
}

// Report is the artifact of one run. Add is not safe for concurrent use;
// the runner collects results before recording them.
type Report struct {
	RunID      string        `json:"runId"`
	Mode       string        `json:"mode"`
	StartedAt  time.Time     `json:"startedAt"`
	DurationMs int64         `json:"durationMs"`
	Totals     Totals        `json:"totals"`
	Files      []FileOutcome `json:"files"`
}

// New starts a report for one run in the given mode (check, write, dry-run).
func New(mode string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now(),
	}
}

// Add records one file outcome.
func (r *Report) Add(f FileOutcome) {
	r.Files = append(r.Files, f)
	r.Totals.Files++
	r.Totals.Entities += f.Entities
	switch f.Status {
	case StatusSorted, StatusWouldSort:
		r.Totals.Changed++
	case StatusUnchanged:
		r.Totals.Unchanged++
	case StatusError:
		r.Totals.Errors++
	}
}

// Finish stamps the run duration.
func (r *Report) Finish() {
	r.DurationMs = time.Since(r.StartedAt).Milliseconds()
}

// WriteJSON writes the report to path.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing report %s", path)
	}
	return nil
}

// RenderTable prints the per-file outcomes and a one-line footer.
func (r *Report) RenderTable() error {
	rows := pterm.TableData{{"File", "Type", "Status", "Entities"}}
	for _, f := range r.Files {
		status := f.Status
		switch f.Status {
		case StatusSorted:
			status = pterm.Green(status)
		case StatusWouldSort:
			status = pterm.Yellow(status)
		case StatusError:
			status = pterm.Red(status)
		}
		rows = append(rows, []string{f.Path, f.FileType, status, strconv.Itoa(f.Entities)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	pterm.Printf("run %s: %d files, %d changed, %d errors in %dms\n",
		r.RunID, r.Totals.Files, r.Totals.Changed, r.Totals.Errors, r.DurationMs)
	return nil
}
