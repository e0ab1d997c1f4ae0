package reconstruct

import (
	"strings"

	"propsort/internal/model"
)

// goRenderer rebuilds struct bodies. Fields are emitted verbatim, tags and
// alignment included; gofmt owns column alignment, not this tool. Anonymous
// struct fields move as one unit, so there is no nested recursion here.
type goRenderer struct {
	lay layout
}

func (r *goRenderer) Render(ent *model.ParsedEntity) (string, error) {
	var lines []string
	if r.lay.comments {
		for _, cm := range ent.LeadingComments {
			lines = commentLines(lines, cm, ent.Indent)
		}
	}
	lines = pushLines(lines, ent.HeaderText)
	for i := range ent.Properties {
		p := &ent.Properties[i]
		indent := r.lay.indentFor(ent, p, 1)
		if r.lay.comments {
			for _, cm := range p.Comments {
				lines = commentLines(lines, cm, indent)
			}
		}
		inline, ownLine := splitTrailing(p)
		lines = propertyLines(lines, indent, p.FullText, "", inline, r.lay.comments)
		if r.lay.comments {
			for _, cm := range ownLine {
				lines = commentLines(lines, cm, indent)
			}
		}
	}
	lines = pushLines(lines, ent.FooterText)
	return strings.Join(lines, r.lay.ending), nil
}
