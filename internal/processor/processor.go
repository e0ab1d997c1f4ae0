// Package processor orchestrates one source text through the pipeline:
// parse, sort, change detection, reconstruction. It is synchronous and
// pure; callers own file IO and parallelism. Nothing escapes ProcessText:
// every failure, including a panic anywhere in the pipeline, comes back as
// a Result with diagnostics.
package processor

import (
	"fmt"

	"go.uber.org/zap"

	"propsort/errors"
	"propsort/internal/lang/css"
	"propsort/internal/lang/golang"
	"propsort/internal/lang/jsonc"
	"propsort/internal/lang/typescript"
	"propsort/internal/lang/yamldoc"
	"propsort/internal/model"
	"propsort/internal/reconstruct"
	"propsort/internal/sorting"
)

// Request is one processing job: a source text, the language it is written
// in, and the resolved options.
type Request struct {
	SourceText string
	FileType   model.FileType
	Options    model.Options
}

// Processor runs requests.
type Processor struct {
	log *zap.SugaredLogger
}

// New returns a processor that logs nowhere.
func New() *Processor {
	return NewWithLogger(nil)
}

// NewWithLogger returns a processor emitting debug traces to log. A nil
// logger is replaced with a no-op one; diagnostics still flow through the
// Result regardless.
func NewWithLogger(log *zap.SugaredLogger) *Processor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Processor{log: log}
}

// ProcessText runs the request through parse, sort, and reconstruction.
// Already-sorted input short-circuits to the original text verbatim with a
// warning. Per-entity sorting and reconstruction failures degrade to
// diagnostics instead of aborting the batch.
func (p *Processor) ProcessText(req Request) (res *model.Result) {
	res = &model.Result{ProcessedText: req.SourceText}
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Errorw("processing panicked", "fileType", req.FileType, "panic", rec)
			res = &model.Result{
				ProcessedText: req.SourceText,
				Errors:        []string{fmt.Sprintf("Processing failed: %v", rec)},
			}
		}
	}()

	ft := req.FileType.Normalize()
	parse := parserFor(ft)
	if parse == nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%v: %s", errors.ErrUnsupportedFileType, req.FileType))
		return res
	}

	opts := withDefaults(req.Options)
	if err := opts.Validate(); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Invalid options: %v", err))
		return res
	}

	parsed := parse(req.SourceText, ft)
	res.Errors = append(res.Errors, parsed.Errors...)
	p.log.Debugw("parsed", "fileType", ft, "entities", len(parsed.Entities), "errors", len(parsed.Errors))

	if len(parsed.Entities) == 0 {
		// Stylesheets with no rules (empty or comment-only files) are
		// legitimate; everything else with nothing sortable is a failure.
		if ft.IsCSSFamily() && len(parsed.Errors) == 0 {
			res.Success = true
			res.Warnings = append(res.Warnings, "No CSS entities found; nothing to sort")
			return res
		}
		if len(res.Errors) == 0 {
			res.Errors = append(res.Errors, errors.ErrNoEntities.Error())
		}
		return res
	}

	total := 0
	for i := range parsed.Entities {
		model.AssignSeq(parsed.Entities[i].Properties)
		total += len(parsed.Entities[i].Properties)
	}
	if total == 0 {
		res.EntitiesProcessed = len(parsed.Entities)
		// Empty struct types are legal Go; empty interfaces, rules, and
		// containers mean there is nothing this tool should touch.
		if ft == model.FileTypeGo {
			res.Success = true
			res.Warnings = append(res.Warnings, errors.ErrNoProperties.Error())
			return res
		}
		res.Errors = append(res.Errors, errors.ErrNoProperties.Error())
		return res
	}

	sorted := make([]model.ParsedEntity, len(parsed.Entities))
	copy(sorted, parsed.Entities)
	for i := range sorted {
		p.sortEntity(&sorted[i], opts, res)
	}
	res.EntitiesProcessed = len(sorted)

	if orderUnchanged(sorted) {
		res.Success = true
		res.Warnings = append(res.Warnings, "Properties are already sorted")
		return res
	}

	r, err := reconstruct.ForFileType(ft, opts, req.SourceText)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	out, rerrs := reconstruct.Splice(req.SourceText, sorted, r)
	res.Errors = append(res.Errors, rerrs...)
	res.ProcessedText = out
	res.Changed = out != req.SourceText
	res.Success = true
	p.log.Debugw("reconstructed", "fileType", ft, "changed", res.Changed, "entities", res.EntitiesProcessed)
	return res
}

// sortEntity applies the options to one entity. A panic inside a strategy
// (a hostile comparator input, typically) leaves the entity in source order
// and records the failure without ending the run.
func (p *Processor) sortEntity(ent *model.ParsedEntity, opts model.Options, res *model.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Warnw("sorting panicked", "entity", ent.Name, "panic", rec)
			res.Errors = append(res.Errors, fmt.Sprintf("Sorting error: %v", rec))
		}
	}()
	sorting.Apply(ent, opts)
}

func parserFor(ft model.FileType) func(string, model.FileType) *model.ParseResult {
	switch ft {
	case model.FileTypeTypeScript:
		return typescript.Parse
	case model.FileTypeCSS, model.FileTypeSCSS, model.FileTypeSASS, model.FileTypeLESS:
		return css.Parse
	case model.FileTypeGo:
		return golang.Parse
	case model.FileTypeJSON, model.FileTypeJSONC:
		return jsonc.Parse
	case model.FileTypeYAML:
		return yamldoc.Parse
	default:
		return nil
	}
}

// withDefaults fills the enum fields a zero Options value leaves empty.
// Boolean defaults (preserveFormatting, includeComments, ...) cannot be
// told apart from deliberate false here; callers wanting the documented
// defaults start from model.DefaultOptions.
func withDefaults(opts model.Options) model.Options {
	if opts.SortOrder == "" {
		opts.SortOrder = model.SortAsc
	}
	if opts.LineEnding == "" {
		opts.LineEnding = model.LineEndingAuto
	}
	return opts
}

func orderUnchanged(ents []model.ParsedEntity) bool {
	for i := range ents {
		if !model.OrderUnchanged(ents[i].Properties) {
			return false
		}
	}
	return true
}
