// Package golang extracts struct type declarations from Go source. The
// scanner is token-light: it walks comment-blanked text, skips string and
// rune literals, and only descends into `type` declarations at the top
// level, so function bodies and composite literals never produce entities.
package golang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"propsort/internal/model"
	"propsort/internal/scan"
)

type context struct {
	*scan.Context
	res     *model.ParseResult
	barrier int
}

// Parse scans Go source and returns every named struct type as an entity.
func Parse(source string, fileType model.FileType) *model.ParseResult {
	res := &model.ParseResult{SourceCode: source, FileType: fileType}
	c := &context{
		Context: scan.NewContext([]byte(source), scan.StyleGo),
		res:     res,
	}
	c.parseFile()
	return res
}

func (c *context) errorf(offset int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.res.AddError(fmt.Sprintf("Parse error at line %d: %s", c.Index.LineOf(offset), msg))
}

func (c *context) parseFile() {
	depth := 0
	i := 0
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case '"', '\'':
			i = c.skipQuoted(i)
		case '`':
			i = c.skipRaw(i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			if depth == 0 && c.wordAt(i, "type") && c.atLineStart(i) {
				i = c.parseTypeDecl(i + len("type"))
				continue
			}
			i++
		}
	}
}

// atLineStart reports whether only whitespace precedes offset on its line.
func (c *context) atLineStart(i int) bool {
	start := c.Index.LineStart(c.Index.LineOf(i))
	return strings.TrimSpace(string(c.Blanked[start:i])) == ""
}

func (c *context) wordAt(i int, word string) bool {
	if i+len(word) > len(c.Blanked) || string(c.Blanked[i:i+len(word)]) != word {
		return false
	}
	if i > 0 && isIdentByte(c.Blanked[i-1]) {
		return false
	}
	return i+len(word) == len(c.Blanked) || !isIdentByte(c.Blanked[i+len(word)])
}

// parseTypeDecl handles both `type X …` and grouped `type ( … )` forms,
// building an entity for every spec whose underlying type is a struct.
func (c *context) parseTypeDecl(i int) int {
	declStart := i - len("type")
	i = c.SkipWS(i)
	if i < len(c.Blanked) && c.Blanked[i] == '(' {
		i++
		for {
			i = c.SkipWS(i)
			if i >= len(c.Blanked) {
				return i
			}
			if c.Blanked[i] == ')' {
				return i + 1
			}
			i = c.parseTypeSpec(i, i)
		}
	}
	return c.parseTypeSpec(declStart, i)
}

// parseTypeSpec parses one `Name [typeparams] struct { … }` spec.
// headerStart marks where the header line begins for capture purposes:
// the `type` keyword for single declarations, the name inside a group.
func (c *context) parseTypeSpec(headerStart, i int) int {
	nameStart := c.SkipWS(i)
	nameEnd := c.skipIdent(nameStart)
	if nameEnd == nameStart {
		return c.skipSpecTail(nameStart)
	}
	name := string(c.Src[nameStart:nameEnd])

	j := nameEnd
	if j < len(c.Blanked) && c.Blanked[j] == '[' {
		j = c.matchDelims(j, '[', ']')
	}
	j = c.SkipWS(j)
	if !c.wordAt(j, "struct") {
		return c.skipSpecTail(j)
	}
	j = c.SkipWS(j + len("struct"))
	if j >= len(c.Blanked) || c.Blanked[j] != '{' {
		return c.skipSpecTail(j)
	}
	bodyEnd := c.matchDelims(j, '{', '}')
	if bodyEnd > len(c.Blanked) {
		c.errorf(j, "unterminated struct body for %q", name)
		return bodyEnd
	}
	c.buildStruct(headerStart, name, j, bodyEnd)
	return bodyEnd
}

// skipSpecTail advances past a non-struct type spec: to the next newline
// outside any bracket nesting.
func (c *context) skipSpecTail(i int) int {
	depth := 0
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case '"', '\'':
			i = c.skipQuoted(i)
			continue
		case '`':
			i = c.skipRaw(i)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i
			}
			depth--
		case '\n':
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return i
}

func (c *context) buildStruct(headerStart int, name string, brace, bodyEnd int) {
	declLine := c.Index.LineOf(headerStart)
	leading := c.Leading(declLine, c.barrier)
	startLine := declLine
	if len(leading) > 0 {
		startLine = leading[0].Line
	}
	endLine := c.Index.LineOf(bodyEnd - 1)

	headerEnd := c.ExtendThroughComments(brace + 1)
	first, _ := utf8.DecodeRuneInString(name)
	ent := model.ParsedEntity{
		Type:            model.EntityStruct,
		Name:            name,
		Properties:      c.parseFields(brace, bodyEnd),
		StartLine:       startLine,
		EndLine:         endLine,
		LeadingComments: scan.Properties(leading),
		IsExported:      unicode.IsUpper(first),
		HeaderText:      string(c.Src[c.Index.LineStart(declLine):headerEnd]),
		FooterText:      c.footerText(bodyEnd),
		Indent:          c.IndentAt(declLine),
	}
	ent.OriginalText = c.Index.LineSpan(startLine, endLine).Text(c.Src)
	c.AttachStrays(ent.Properties, headerEnd, bodyEnd-1)
	c.res.Entities = append(c.res.Entities, ent)
	c.barrier = endLine
}

// parseFields splits a struct body into fields. A field runs to the first
// newline outside nested brackets; anonymous struct or func types may span
// several lines and stay part of one field.
func (c *context) parseFields(open, bodyEnd int) []model.ParsedProperty {
	var props []model.ParsedProperty
	barrier := c.Index.LineOf(open)
	bodyClose := bodyEnd - 1
	i := open + 1
	for {
		i = c.SkipWS(i)
		if i >= bodyClose {
			return props
		}
		start := i
		end := c.fieldEnd(start, bodyClose)
		if p, ok := c.buildField(start, end, barrier); ok {
			props = append(props, p)
			barrier = c.Index.LineOf(end - 1)
		}
		i = end
	}
}

// fieldEnd finds the exclusive end of the field starting at start: the
// content end before the first depth-zero newline, with any inline comment
// excluded.
func (c *context) fieldEnd(start, bodyClose int) int {
	depth := 0
	i := start
	for i < bodyClose {
		switch c.Blanked[i] {
		case '"', '\'':
			i = c.skipQuoted(i)
			continue
		case '`':
			i = c.skipRaw(i)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '\n':
			if depth <= 0 {
				return c.trimContent(start, i)
			}
		}
		i++
	}
	return c.trimContent(start, bodyClose)
}

// trimContent right-trims [start, end) using the blanked buffer so inline
// comments (blanked to spaces) fall outside the field span.
func (c *context) trimContent(start, end int) int {
	return start + len(strings.TrimRight(string(c.Blanked[start:end]), " \t\r\n"))
}

func (c *context) buildField(start, end, barrier int) (model.ParsedProperty, bool) {
	if end <= start {
		return model.ParsedProperty{}, false
	}
	line := c.Index.LineOf(start)
	p := model.ParsedProperty{
		Comments:         scan.Properties(c.Leading(line, barrier)),
		TrailingComments: scan.Properties(c.Trailing(c.Index.LineOf(end), end)),
		Line:             line,
		FullText:         string(c.Src[start:end]),
		Indent:           c.IndentAt(line),
	}

	tagStart, tagEnd := c.findTag(start, end)
	typeEnd := end
	if tagStart >= 0 {
		p.StructTags = string(c.Src[tagStart+1 : tagEnd-1])
		typeEnd = c.trimContent(start, tagStart)
	}

	nameEnd := c.skipIdent(start)
	rest := c.SkipWS(nameEnd)
	switch {
	case nameEnd == start || rest >= typeEnd:
		// no ident or nothing after it: embedded (possibly *pkg.Type)
		p.IsEmbedded = true
		p.Name = strings.TrimPrefix(string(c.Src[start:typeEnd]), "*")
		p.Value = string(c.Src[start:typeEnd])
	case c.Blanked[rest] == '.':
		// qualified type with nothing before it: embedded pkg.Type
		p.IsEmbedded = true
		p.Name = string(c.Src[start:typeEnd])
		p.Value = p.Name
	default:
		// the name may open a comma list; the type begins after the last name
		p.Name = string(c.Src[start:nameEnd])
		typeStart := rest
		if c.Blanked[rest] == ',' {
			typeStart = c.skipNameList(start, typeEnd)
		}
		p.Value = strings.TrimSpace(string(c.Src[typeStart:typeEnd]))
	}
	return p, true
}

// skipNameList advances past `a, b, c` style name lists and returns the
// offset where the type expression begins.
func (c *context) skipNameList(i, limit int) int {
	for {
		j := c.skipIdent(c.SkipWS(i))
		j = c.SkipWS(j)
		if j >= limit {
			return limit
		}
		if c.Blanked[j] == ',' {
			i = j + 1
			continue
		}
		return j
	}
}

// findTag locates the back-quoted tag literal inside a field, if any,
// returning its opening and one-past-closing offsets.
func (c *context) findTag(start, end int) (int, int) {
	for i := start; i < end; i++ {
		switch c.Blanked[i] {
		case '"', '\'':
			i = c.skipQuoted(i) - 1
		case '`':
			return i, c.skipRaw(i)
		}
	}
	return -1, -1
}

func (c *context) footerText(bodyEnd int) string {
	closeOffset := bodyEnd - 1
	line := c.Index.LineOf(closeOffset)
	from := c.Index.LineStart(line)
	prefix := strings.TrimSpace(string(c.Blanked[from:closeOffset]))
	endOff := c.ExtendThroughComments(bodyEnd)
	if prefix == "" {
		return string(c.Src[from:endOff])
	}
	return string(c.Src[closeOffset:endOff])
}

// matchDelims returns the offset one past the close delimiter matching the
// open one at i, or len+1 when unbalanced.
func (c *context) matchDelims(i int, open, closeByte byte) int {
	depth := 0
	for ; i < len(c.Blanked); i++ {
		switch c.Blanked[i] {
		case '"', '\'':
			i = c.skipQuoted(i) - 1
		case '`':
			i = c.skipRaw(i) - 1
		case open:
			depth++
		case closeByte:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(c.Blanked) + 1
}

// skipQuoted skips a double-quoted string or rune literal with escapes.
func (c *context) skipQuoted(i int) int {
	quote := c.Blanked[i]
	for j := i + 1; j < len(c.Blanked); j++ {
		switch c.Blanked[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(c.Blanked)
}

// skipRaw skips a back-quoted raw string; no escapes apply inside.
func (c *context) skipRaw(i int) int {
	for j := i + 1; j < len(c.Blanked); j++ {
		if c.Blanked[j] == '`' {
			return j + 1
		}
	}
	return len(c.Blanked)
}

func (c *context) skipIdent(i int) int {
	for i < len(c.Blanked) && isIdentByte(c.Blanked[i]) {
		i++
	}
	return i
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}
