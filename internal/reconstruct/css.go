package reconstruct

import (
	"strings"

	"propsort/internal/model"
)

// cssRenderer rebuilds rule bodies for the CSS family. Declarations keep
// their parsed text; a declaration that moved up from the last slot gains
// the separator the rest of the body uses. Nested rules travel verbatim
// unless their own declarations were reordered. In SASS mode there are no
// braces or semicolons to emit: the selector line is reproduced verbatim
// and the body is rebuilt from the original declaration lines.
type cssRenderer struct {
	lay  layout
	sass bool
}

func (r *cssRenderer) Render(ent *model.ParsedEntity) (string, error) {
	if !r.sass && isSingleLine(ent) {
		return r.inlineEntity(ent), nil
	}
	var lines []string
	if r.lay.comments {
		for _, cm := range ent.LeadingComments {
			lines = commentLines(lines, cm, ent.Indent)
		}
	}
	lines = pushLines(lines, ent.HeaderText)
	lines = r.body(lines, ent, ent.Properties, 1)
	if ent.FooterText != "" {
		lines = pushLines(lines, ent.FooterText)
	}
	return strings.Join(lines, r.lay.ending), nil
}

// inlineEntity re-renders a rule that sat on one source line without
// breaking it across lines.
func (r *cssRenderer) inlineEntity(ent *model.ParsedEntity) string {
	var b strings.Builder
	b.WriteString(ent.HeaderText)
	b.WriteString(r.inlineBody(ent.Properties))
	b.WriteString(" ")
	b.WriteString(ent.FooterText)
	return b.String()
}

func (r *cssRenderer) inlineBody(props []model.ParsedProperty) string {
	var b strings.Builder
	for i := range props {
		p := &props[i]
		b.WriteString(" ")
		if p.IsNestedRule {
			if model.OrderUnchanged(p.NestedProperties) {
				b.WriteString(p.FullText)
			} else {
				b.WriteString(p.Value)
				b.WriteString(r.inlineBody(p.NestedProperties))
				b.WriteString(" }")
			}
			continue
		}
		b.WriteString(p.FullText)
		b.WriteString(separatorPunct(props, i, ";"))
	}
	return b.String()
}

func (r *cssRenderer) body(lines []string, ent *model.ParsedEntity, props []model.ParsedProperty, depth int) []string {
	dom := ";"
	if r.sass {
		dom = ""
	}
	for i := range props {
		p := &props[i]
		indent := r.lay.indentFor(ent, p, depth)
		if r.lay.comments {
			for _, cm := range p.Comments {
				lines = commentLines(lines, cm, indent)
			}
		}
		inline, ownLine := splitTrailing(p)

		switch {
		case p.IsNestedRule && r.sass:
			lines = pushLines(lines, p.Value)
			lines = r.body(lines, ent, p.NestedProperties, depth+1)
		case p.IsNestedRule && !model.OrderUnchanged(p.NestedProperties):
			lines = pushLines(lines, indent+p.Value)
			lines = r.body(lines, ent, p.NestedProperties, depth+1)
			lines = append(lines, appendInline(indent+"}"+p.TrailingPunctuation, inline, r.lay.comments))
		case p.IsNestedRule:
			lines = propertyLines(lines, indent, p.FullText, p.TrailingPunctuation, inline, r.lay.comments)
		default:
			lines = propertyLines(lines, indent, p.FullText, separatorPunct(props, i, dom), inline, r.lay.comments)
		}

		if r.lay.comments {
			for _, cm := range ownLine {
				lines = commentLines(lines, cm, indent)
			}
		}
	}
	return lines
}
