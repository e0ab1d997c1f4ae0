// Package reconstruct renders sorted entities back into source text. One
// generic splice routine replaces each changed entity's line span with the
// output of a per-language renderer, walking spans in descending start-line
// order so the positions of earlier entities stay valid while later ones
// are rewritten. Entities whose property order did not change keep their
// original bytes untouched.
package reconstruct

import (
	"fmt"
	"sort"
	"strings"

	"propsort/errors"
	"propsort/internal/model"
	"propsort/internal/scan"
)

// Renderer renders one sorted entity, without a trailing line terminator.
type Renderer interface {
	Render(ent *model.ParsedEntity) (string, error)
}

// ForFileType returns the renderer for a file type. The source is consulted
// for line-ending detection when the options say auto.
func ForFileType(ft model.FileType, opts model.Options, source string) (Renderer, error) {
	lay := layoutFor(opts, source)
	switch ft.Normalize() {
	case model.FileTypeTypeScript:
		return &tsRenderer{lay: lay}, nil
	case model.FileTypeCSS, model.FileTypeSCSS, model.FileTypeLESS:
		return &cssRenderer{lay: lay}, nil
	case model.FileTypeSASS:
		return &cssRenderer{lay: lay, sass: true}, nil
	case model.FileTypeGo:
		return &goRenderer{lay: lay}, nil
	case model.FileTypeJSON, model.FileTypeJSONC:
		return &jsonRenderer{lay: lay}, nil
	case model.FileTypeYAML:
		return &yamlRenderer{lay: lay}, nil
	}
	return nil, errors.Newf("no renderer for file type %q", ft)
}

// Splice applies the sorted entities onto the original text. Only entities
// whose property order changed are re-rendered; the rest keep their bytes.
// A renderer failure degrades to a placeholder comment line in place of the
// entity and an error string in the returned slice; the batch continues.
func Splice(original string, entities []model.ParsedEntity, r Renderer) (string, []string) {
	src := []byte(original)
	index := scan.NewLineIndex(src)

	work := make([]*model.ParsedEntity, 0, len(entities))
	for i := range entities {
		if model.OrderUnchanged(entities[i].Properties) {
			continue
		}
		work = append(work, &entities[i])
	}
	sort.Slice(work, func(i, j int) bool { return work[i].StartLine > work[j].StartLine })

	text := original
	var errs []string
	prevStart := index.NumLines() + 1
	for _, ent := range work {
		// Entities that share a line cannot be spliced independently; the
		// later one keeps its original bytes.
		if ent.EndLine >= prevStart {
			errs = append(errs, fmt.Sprintf("Error reconstructing %s: entity shares a line with another entity", ent.Name))
			continue
		}
		prevStart = ent.StartLine
		span := index.LineSpan(ent.StartLine, ent.EndLine)
		rendered, err := renderSafe(r, ent)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Error reconstructing %s: %v", ent.Name, err))
			rendered = ent.Indent + "// Error reconstructing " + ent.Name + ": " + err.Error()
		}
		rendered += spanTerminator(span.Text(src))
		text = text[:span.Start] + rendered + text[span.End:]
	}
	return text, errs
}

func renderSafe(r Renderer, ent *model.ParsedEntity) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("%v", rec)
		}
	}()
	return r.Render(ent)
}

// spanTerminator returns the line terminator the original span ended with,
// so the splice never disturbs the byte that separates the entity from the
// text below it.
func spanTerminator(chunk string) string {
	if strings.HasSuffix(chunk, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(chunk, "\n") {
		return "\n"
	}
	return ""
}

// layout carries the resolved formatting decisions shared by the renderers.
type layout struct {
	ending   string
	unit     string // indent unit per nesting level; "" preserves parsed indentation
	comments bool
}

func layoutFor(opts model.Options, source string) layout {
	ending := "\n"
	switch opts.LineEnding {
	case model.LineEndingLF:
	case model.LineEndingCRLF:
		ending = "\r\n"
	default:
		ending = scan.DetectLineEnding([]byte(source))
	}
	unit := opts.IndentString()
	if unit == "" && !opts.PreserveFormatting {
		unit = scan.DetectIndentUnit([]byte(source))
	}
	return layout{
		ending:   ending,
		unit:     unit,
		comments: opts.IncludeComments,
	}
}

// indentFor returns the indentation for a property at the given depth
// inside the entity. Without a configured unit the property keeps the
// indentation it was parsed with.
func (l layout) indentFor(ent *model.ParsedEntity, p *model.ParsedProperty, depth int) string {
	if l.unit == "" {
		return p.Indent
	}
	return ent.Indent + strings.Repeat(l.unit, depth)
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}

// pushLines appends text line by line, so the final join applies one
// uniform terminator.
func pushLines(lines []string, text string) []string {
	for _, part := range strings.Split(text, "\n") {
		lines = append(lines, trimCR(part))
	}
	return lines
}

// propertyLines appends a property body at the given indentation.
// Continuation lines of multi-line bodies keep their own text verbatim;
// punctuation and inline comments land on the last line.
func propertyLines(lines []string, indent, body, punct string, inline []model.PropertyComment, withComments bool) []string {
	parts := strings.Split(body, "\n")
	for j := 0; j < len(parts)-1; j++ {
		if j == 0 {
			lines = append(lines, indent+trimCR(parts[0]))
		} else {
			lines = append(lines, trimCR(parts[j]))
		}
	}
	last := trimCR(parts[len(parts)-1])
	if len(parts) == 1 {
		last = indent + last
	}
	lines = append(lines, appendInline(last+punct, inline, withComments))
	return lines
}

// commentLines appends one comment at the given indentation. Interior lines
// of block comments keep their text; a leading "*" gutter is realigned one
// space past the indent.
func commentLines(lines []string, cm model.PropertyComment, indent string) []string {
	parts := strings.Split(cm.Raw, "\n")
	lines = append(lines, indent+trimCR(parts[0]))
	for _, part := range parts[1:] {
		t := trimCR(part)
		trimmed := strings.TrimLeft(t, " \t")
		if strings.HasPrefix(trimmed, "*") {
			lines = append(lines, indent+" "+trimmed)
		} else {
			lines = append(lines, t)
		}
	}
	return lines
}

func appendInline(line string, comments []model.PropertyComment, withComments bool) string {
	if !withComments {
		return line
	}
	for _, cm := range comments {
		line += " " + cm.Raw
	}
	return line
}

// lastLine returns the source line a property's text ends on.
func lastLine(p *model.ParsedProperty) int {
	return p.Line + strings.Count(p.FullText, "\n")
}

// splitTrailing separates a property's trailing comments into those that
// shared its final source line, rendered inline, and stranded own-line
// comments rendered below it.
func splitTrailing(p *model.ParsedProperty) (inline, ownLine []model.PropertyComment) {
	end := lastLine(p)
	for _, cm := range p.TrailingComments {
		if cm.Line == end {
			inline = append(inline, cm)
		} else {
			ownLine = append(ownLine, cm)
		}
	}
	return inline, ownLine
}

// dominantPunct returns the separator most members carry, for members that
// moved up from the last slot and have none of their own.
func dominantPunct(props []model.ParsedProperty, fallback string) string {
	semi, comma := 0, 0
	for i := range props {
		switch props[i].TrailingPunctuation {
		case ";":
			semi++
		case ",":
			comma++
		}
	}
	switch {
	case semi >= comma && semi > 0:
		return ";"
	case comma > 0:
		return ","
	}
	return fallback
}

// separatorPunct keeps each property's parsed punctuation, borrowing the
// dominant separator only when a property without one is no longer last
// and the syntax would otherwise break.
func separatorPunct(props []model.ParsedProperty, i int, dominant string) string {
	p := &props[i]
	if i == len(props)-1 || p.TrailingPunctuation != "" {
		return p.TrailingPunctuation
	}
	return dominant
}

// isSingleLine reports whether the whole entity sat on one source line and
// carries no comments, so it can be re-rendered in place without breaking
// it across lines. Minified sources parse to such entities.
func isSingleLine(ent *model.ParsedEntity) bool {
	return ent.StartLine == ent.EndLine &&
		len(ent.LeadingComments) == 0 &&
		!anyComments(ent.Properties)
}

// anyComments reports whether any property in the tree carries comments,
// which rules out single-line re-rendering.
func anyComments(props []model.ParsedProperty) bool {
	for i := range props {
		p := &props[i]
		if len(p.Comments) > 0 || len(p.TrailingComments) > 0 {
			return true
		}
		if anyComments(p.NestedProperties) {
			return true
		}
	}
	return false
}
