package reconstruct

import (
	"strings"

	"propsort/internal/model"
	"propsort/internal/scan"
)

// yamlRenderer reorders the line blocks the YAML parser partitioned a
// document into. Every property owns a contiguous run of original lines
// (head comments, the declaration, its value, foot comments), so rendering
// is pure concatenation and the output is a permutation of the document's
// own lines. Terminators are then rewritten to the layout ending, so a
// forced lf or crlf reaches rewritten documents too. Nested containers
// rebuild as their head lines followed by their reordered child blocks.
type yamlRenderer struct {
	lay layout
}

func (r *yamlRenderer) Render(ent *model.ParsedEntity) (string, error) {
	var b strings.Builder
	r.renderBlocks(&b, ent.Properties)
	out := scan.NormalizeLineEndings(b.String(), r.lay.ending)
	// Blocks carry their own terminators; the splice owns the final one.
	out = strings.TrimSuffix(out, "\n")
	return strings.TrimSuffix(out, "\r"), nil
}

func (r *yamlRenderer) renderBlocks(b *strings.Builder, props []model.ParsedProperty) {
	for i := range props {
		p := &props[i]
		if p.HasNestedObject && !model.OrderUnchanged(p.NestedProperties) {
			b.WriteString(p.Value)
			r.renderBlocks(b, p.NestedProperties)
			continue
		}
		b.WriteString(p.FullText)
		// A block cut from the file's last line has no terminator of its
		// own; it needs one when another block follows it.
		if !strings.HasSuffix(p.FullText, "\n") {
			b.WriteString(r.lay.ending)
		}
	}
}
