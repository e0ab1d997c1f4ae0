package scan

import (
	"strings"

	"propsort/internal/model"
)

// Context bundles the per-call scan state shared by the hand-rolled
// parsers: the original source, its comment-blanked twin, the line index,
// the extracted comments, and the single-use registry. A fresh Context per
// parse call keeps calls independent, so one parser may serve many inputs
// concurrently.
type Context struct {
	Src      []byte
	Blanked  []byte
	Index    *LineIndex
	Comments []Comment
	Reg      *Registry
}

// NewContext extracts comments per the style and assembles the scan state
// for one source buffer.
func NewContext(src []byte, style Style) *Context {
	comments, blanked := ExtractComments(src, style)
	return &Context{
		Src:      src,
		Blanked:  blanked,
		Index:    NewLineIndex(src),
		Comments: comments,
		Reg:      NewRegistry(),
	}
}

// SkipWS advances past whitespace in the blanked source, crossing comment
// regions transparently.
func (c *Context) SkipWS(i int) int {
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// LineText returns the original text of the 1-based line without its
// terminator.
func (c *Context) LineText(line int) string {
	return string(c.Src[c.Index.LineStart(line):c.Index.LineEnd(line, c.Src)])
}

// IndentAt returns the leading whitespace of the 1-based line.
func (c *Context) IndentAt(line int) string {
	return LeadingWhitespace(c.LineText(line))
}

// Leading claims and returns the comment chain documenting a declaration on
// propLine, bounded below by barrierLine (the last line of the previous
// declaration or the container opener).
func (c *Context) Leading(propLine, barrierLine int) []Comment {
	return LeadingFor(c.Comments, c.Reg, propLine, barrierLine)
}

// Trailing claims and returns the comments sitting after afterOffset on the
// given line.
func (c *Context) Trailing(line, afterOffset int) []Comment {
	return TrailingFor(c.Comments, c.Reg, line, afterOffset)
}

// AttachStrays claims the comments left unclaimed inside a parsed body
// span [from, to) and attaches each to the property it follows, as an
// own-line trailing comment. Comments preceding the first property become
// its leading comments. Comments lying inside a property's own line range
// already travel verbatim with its text and are left alone. Parsers call
// this once per body so a re-render cannot drop comments the leading and
// trailing window rules never attached.
func (c *Context) AttachStrays(props []model.ParsedProperty, from, to int) {
	if len(props) == 0 {
		return
	}
	ends := make([]int, len(props))
	for i := range props {
		ends[i] = props[i].Line + strings.Count(props[i].FullText, "\n")
	}
	for _, cm := range c.Comments {
		if cm.Span.Start < from || cm.Span.End > to || c.Reg.Claimed(cm) {
			continue
		}
		interior := false
		target := -1
		for i := range props {
			if cm.Line >= props[i].Line && cm.Line <= ends[i] {
				interior = true
				break
			}
			if ends[i] < cm.Line {
				target = i
			}
		}
		if interior {
			continue
		}
		c.Reg.Claim(cm)
		if target < 0 {
			props[0].Comments = append([]model.PropertyComment{cm.Property()}, props[0].Comments...)
			continue
		}
		p := &props[target]
		p.TrailingComments = append(p.TrailingComments, cm.Property())
	}
}

// ExtendThroughComments widens [.., from) to the end of from's line when
// the remainder holds only whitespace and unclaimed comments, claiming
// those comments so they travel verbatim with the extended text. When any
// comment in the remainder is already claimed, from is returned unchanged.
func (c *Context) ExtendThroughComments(from int) int {
	line := c.Index.LineOf(from)
	end := c.Index.LineEnd(line, c.Src)
	if from >= end {
		return from
	}
	for i := from; i < end; i++ {
		switch c.Blanked[i] {
		case ' ', '\t', '\r':
		default:
			return from
		}
	}
	var toClaim []Comment
	for _, cm := range c.Comments {
		if cm.Span.Start >= from && cm.Span.Start < end {
			if c.Reg.Claimed(cm) {
				return from
			}
			toClaim = append(toClaim, cm)
		}
	}
	for _, cm := range toClaim {
		c.Reg.Claim(cm)
	}
	return end
}
