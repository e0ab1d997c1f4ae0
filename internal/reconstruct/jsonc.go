package reconstruct

import (
	"strings"

	"propsort/internal/model"
)

// jsonRenderer rebuilds JSON and JSONC containers. Unlike the other
// languages, comma placement is structural: every member but the last gets
// one, the last gets none, regardless of what the members carried before
// they moved. Nested containers keep their bytes unless their own member
// order changed.
type jsonRenderer struct {
	lay layout
}

func (r *jsonRenderer) Render(ent *model.ParsedEntity) (string, error) {
	if isSingleLine(ent) {
		return r.inlineEntity(ent), nil
	}
	var lines []string
	if r.lay.comments {
		for _, cm := range ent.LeadingComments {
			lines = commentLines(lines, cm, ent.Indent)
		}
	}
	lines = pushLines(lines, ent.HeaderText)
	lines = r.members(lines, ent, ent.Properties, 1)
	lines = pushLines(lines, ent.FooterText)
	return strings.Join(lines, r.lay.ending), nil
}

// inlineEntity re-renders a container that sat on one source line, the
// shape minified documents arrive in.
func (r *jsonRenderer) inlineEntity(ent *model.ParsedEntity) string {
	var b strings.Builder
	b.WriteString(ent.HeaderText)
	props := ent.Properties
	for i := range props {
		p := &props[i]
		b.WriteString(" ")
		if p.HasNestedObject && !model.OrderUnchanged(p.NestedProperties) {
			open, closing := "{", "}"
			if p.NestedIsArray {
				open, closing = "[", "]"
			}
			head := p.FullText[:len(p.FullText)-len(p.Value)]
			b.WriteString(inlineContainer(head, open, closing, p.NestedProperties))
		} else {
			b.WriteString(p.FullText)
		}
		if i < len(props)-1 {
			b.WriteString(",")
		}
	}
	b.WriteString(" ")
	b.WriteString(ent.FooterText)
	return b.String()
}

func (r *jsonRenderer) members(lines []string, ent *model.ParsedEntity, props []model.ParsedProperty, depth int) []string {
	for i := range props {
		p := &props[i]
		indent := r.lay.indentFor(ent, p, depth)
		if r.lay.comments {
			for _, cm := range p.Comments {
				lines = commentLines(lines, cm, indent)
			}
		}
		punct := ""
		if i < len(props)-1 {
			punct = ","
		}
		inline, ownLine := splitTrailing(p)

		if p.HasNestedObject && !model.OrderUnchanged(p.NestedProperties) {
			lines = r.nested(lines, ent, p, depth, indent, punct, inline)
		} else {
			lines = propertyLines(lines, indent, p.FullText, punct, inline, r.lay.comments)
		}

		if r.lay.comments {
			for _, cm := range ownLine {
				lines = commentLines(lines, cm, indent)
			}
		}
	}
	return lines
}

// nested re-renders a member whose container value was reordered. The text
// before the value is the member's own prefix (`"key": ` or nothing for an
// array element); the delimiters are re-synthesized around the rebuilt
// members. Containers that sat on one line and carry no comments stay on
// one line.
func (r *jsonRenderer) nested(lines []string, ent *model.ParsedEntity, p *model.ParsedProperty, depth int, indent, punct string, inline []model.PropertyComment) []string {
	open, closing := "{", "}"
	if p.NestedIsArray {
		open, closing = "[", "]"
	}
	head := p.FullText[:len(p.FullText)-len(p.Value)]

	if !strings.Contains(p.FullText, "\n") && !anyComments(p.NestedProperties) {
		line := indent + inlineContainer(head, open, closing, p.NestedProperties) + punct
		return append(lines, appendInline(line, inline, r.lay.comments))
	}

	lines = append(lines, indent+head+open)
	lines = r.members(lines, ent, p.NestedProperties, depth+1)
	return append(lines, appendInline(indent+closing+punct, inline, r.lay.comments))
}

func inlineContainer(head, open, closing string, props []model.ParsedProperty) string {
	var b strings.Builder
	b.WriteString(head)
	b.WriteString(open)
	for i := range props {
		p := &props[i]
		b.WriteString(" ")
		if p.HasNestedObject && !model.OrderUnchanged(p.NestedProperties) {
			co, cc := "{", "}"
			if p.NestedIsArray {
				co, cc = "[", "]"
			}
			h := p.FullText[:len(p.FullText)-len(p.Value)]
			b.WriteString(inlineContainer(h, co, cc, p.NestedProperties))
		} else {
			b.WriteString(p.FullText)
		}
		if i < len(props)-1 {
			b.WriteString(",")
		}
	}
	b.WriteString(" ")
	b.WriteString(closing)
	return b.String()
}
