package reconstruct

import (
	"strings"

	"propsort/internal/model"
)

// tsRenderer rebuilds interfaces, type aliases, and object literals. The
// header and footer lines are emitted verbatim; each member keeps its
// parsed text and punctuation. Nested object values are re-rendered only
// when their own member order changed, otherwise their bytes travel with
// the member.
type tsRenderer struct {
	lay layout
}

func (r *tsRenderer) Render(ent *model.ParsedEntity) (string, error) {
	fallback := ";"
	if ent.Type == model.EntityObject {
		fallback = ","
	}
	dom := dominantPunct(ent.Properties, fallback)

	if isSingleLine(ent) {
		return r.inlineEntity(ent, dom), nil
	}

	var lines []string
	if r.lay.comments {
		for _, cm := range ent.LeadingComments {
			lines = commentLines(lines, cm, ent.Indent)
		}
	}
	lines = pushLines(lines, ent.HeaderText)
	lines = r.members(lines, ent, ent.Properties, 1, dom)
	lines = pushLines(lines, ent.FooterText)
	return strings.Join(lines, r.lay.ending), nil
}

// inlineEntity re-renders an entity that sat on one source line without
// breaking it across lines.
func (r *tsRenderer) inlineEntity(ent *model.ParsedEntity, dom string) string {
	var b strings.Builder
	b.WriteString(ent.HeaderText)
	props := ent.Properties
	for i := range props {
		p := &props[i]
		b.WriteString(" ")
		if p.HasNestedObject && !model.OrderUnchanged(p.NestedProperties) {
			b.WriteString(inlineObject(p.Value, p.NestedProperties))
		} else {
			b.WriteString(p.FullText)
		}
		b.WriteString(separatorPunct(props, i, dom))
	}
	b.WriteString(" ")
	b.WriteString(ent.FooterText)
	return b.String()
}

func (r *tsRenderer) members(lines []string, ent *model.ParsedEntity, props []model.ParsedProperty, depth int, dom string) []string {
	for i := range props {
		p := &props[i]
		indent := r.lay.indentFor(ent, p, depth)
		if r.lay.comments {
			for _, cm := range p.Comments {
				lines = commentLines(lines, cm, indent)
			}
		}
		punct := separatorPunct(props, i, dom)
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

// nested re-renders a member whose object value was itself reordered. The
// member's Value holds the text through the opening brace; the children and
// a closing brace are rebuilt below it. Bodies that were on a single line
// and carry no comments stay on a single line.
func (r *tsRenderer) nested(lines []string, ent *model.ParsedEntity, p *model.ParsedProperty, depth int, indent, punct string, inline []model.PropertyComment) []string {
	if !strings.Contains(p.FullText, "\n") && !anyComments(p.NestedProperties) {
		line := indent + inlineObject(p.Value, p.NestedProperties) + punct
		return append(lines, appendInline(line, inline, r.lay.comments))
	}
	lines = pushLines(lines, indent+p.Value)
	lines = r.members(lines, ent, p.NestedProperties, depth+1, dominantPunct(p.NestedProperties, ","))
	closing := indent + "}" + punct
	return append(lines, appendInline(closing, inline, r.lay.comments))
}

// inlineObject joins a reordered single-line object value back onto one
// line: `key: { a: 1, b: 2 }`.
func inlineObject(head string, props []model.ParsedProperty) string {
	var b strings.Builder
	b.WriteString(head)
	for i := range props {
		p := &props[i]
		b.WriteString(" ")
		if p.HasNestedObject && !model.OrderUnchanged(p.NestedProperties) {
			b.WriteString(inlineObject(p.Value, p.NestedProperties))
		} else {
			b.WriteString(p.FullText)
		}
		b.WriteString(separatorPunct(props, i, ","))
	}
	b.WriteString(" }")
	return b.String()
}
