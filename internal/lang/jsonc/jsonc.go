// Package jsonc parses JSON and JSONC documents (comments and trailing
// commas tolerated) into sortable entities. The scanner works on a
// comment-blanked copy of the source so every offset is valid in the
// original text; nested objects and arrays become nested properties of
// their parent rather than separate entities.
package jsonc

import (
	"fmt"
	"strconv"
	"strings"

	"propsort/internal/model"
	"propsort/internal/scan"
)

// context carries the per-call parse state. A fresh context per Parse keeps
// calls independent and safe to run concurrently.
type context struct {
	*scan.Context
	res *model.ParseResult
}

// Parse scans one document and returns its root entity. It never panics;
// malformed input degrades to errors in the result.
func Parse(source string, fileType model.FileType) *model.ParseResult {
	res := &model.ParseResult{SourceCode: source, FileType: fileType}
	c := &context{
		Context: scan.NewContext([]byte(source), scan.StyleJSON),
		res:     res,
	}
	c.parseRoot()
	return res
}

func (c *context) errorf(offset int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.res.AddError(fmt.Sprintf("Parse error at line %d: %s", c.Index.LineOf(offset), msg))
}

func (c *context) parseRoot() {
	i := c.SkipWS(0)
	if i >= len(c.Blanked) {
		c.res.AddError("Parse error: no JSON value found")
		return
	}

	var typ model.EntityType
	switch c.Blanked[i] {
	case '{':
		typ = model.EntityJSONObject
	case '[':
		typ = model.EntityJSONArray
	default:
		c.errorf(i, "top-level value must be an object or array")
		return
	}

	end := c.parseValue(i)
	if end < 0 {
		c.errorf(i, "unterminated top-level value")
		return
	}
	props, _ := c.parseMembers(i, typ == model.EntityJSONArray)

	declLine := c.Index.LineOf(i)
	leading := c.Leading(declLine, 0)
	startLine := declLine
	if len(leading) > 0 {
		startLine = leading[0].Line
	}
	endLine := c.Index.LineOf(end - 1)

	// The header stops at the delimiter itself; a comment on the open line
	// is attached to the first member instead, the same way nested
	// containers treat it.
	headerEnd := i + 1
	ent := model.ParsedEntity{
		Type:            typ,
		Name:            "root",
		Properties:      props,
		StartLine:       startLine,
		EndLine:         endLine,
		LeadingComments: scan.Properties(leading),
		HeaderText:      string(c.Src[c.Index.LineStart(declLine):headerEnd]),
		FooterText:      c.footerText(end),
		Indent:          c.IndentAt(declLine),
	}
	ent.OriginalText = c.Index.LineSpan(startLine, endLine).Text(c.Src)
	c.res.Entities = append(c.res.Entities, ent)

	if rest := c.SkipWS(end); rest < len(c.Blanked) {
		c.errorf(rest, "unexpected content after top-level value")
	}
}

// parseMembers extracts the member properties of the container opening at
// open. Recovery is lenient: a malformed member is reported and skipped so
// the remaining members still parse.
func (c *context) parseMembers(open int, isArray bool) ([]model.ParsedProperty, bool) {
	closeByte := byte('}')
	if isArray {
		closeByte = ']'
	}

	var props []model.ParsedProperty
	barrier := c.Index.LineOf(open)
	i := open + 1
	for {
		i = c.SkipWS(i)
		if i >= len(c.Blanked) {
			c.errorf(open, "unterminated %q", string(c.Blanked[open]))
			return props, false
		}
		if c.Blanked[i] == closeByte {
			c.AttachStrays(props, open+1, i)
			return props, true
		}

		var p model.ParsedProperty
		var ok bool
		if isArray {
			p, i, ok = c.parseElement(i, len(props), barrier)
		} else {
			p, i, ok = c.parsePair(i, barrier)
		}
		if !ok {
			i = c.recoverMember(i)
			continue
		}
		barrier = c.Index.LineOf(i - 1)

		i = c.SkipWS(i)
		if i < len(c.Blanked) && c.Blanked[i] == ',' {
			p.TrailingPunctuation = ","
			i++
		} else if i < len(c.Blanked) && c.Blanked[i] != closeByte {
			c.errorf(i, "expected ',' before next member")
		}
		props = append(props, p)
	}
}

// parsePair parses one `"key": value` member starting at i.
func (c *context) parsePair(i, barrier int) (model.ParsedProperty, int, bool) {
	nameStart := i
	var name string
	if c.Blanked[i] == '"' {
		end := c.scanString(i)
		name = string(c.Src[nameStart+1 : end-1])
		i = end
	} else {
		for i < len(c.Blanked) && !isStructural(c.Blanked[i]) && !isSpace(c.Blanked[i]) {
			i++
		}
		name = string(c.Src[nameStart:i])
		if name == "" {
			c.errorf(nameStart, "expected object key")
			return model.ParsedProperty{}, i, false
		}
	}

	i = c.SkipWS(i)
	if i >= len(c.Blanked) || c.Blanked[i] != ':' {
		c.errorf(nameStart, "expected ':' after key %q", name)
		return model.ParsedProperty{}, i, false
	}
	i = c.SkipWS(i + 1)
	if i >= len(c.Blanked) {
		c.errorf(nameStart, "missing value for key %q", name)
		return model.ParsedProperty{}, i, false
	}

	valStart := i
	valEnd := c.parseValue(i)
	if valEnd < 0 {
		c.errorf(valStart, "unterminated value for key %q", name)
		return model.ParsedProperty{}, len(c.Blanked), false
	}

	p := c.buildProperty(name, nameStart, valStart, valEnd, barrier)
	return p, valEnd, true
}

// parseElement parses one array element; its name is the element index.
func (c *context) parseElement(i, index, barrier int) (model.ParsedProperty, int, bool) {
	valStart := i
	valEnd := c.parseValue(i)
	if valEnd < 0 {
		c.errorf(valStart, "unterminated array element %d", index)
		return model.ParsedProperty{}, len(c.Blanked), false
	}
	p := c.buildProperty(strconv.Itoa(index), valStart, valStart, valEnd, barrier)
	return p, valEnd, true
}

func (c *context) buildProperty(name string, nameStart, valStart, valEnd, barrier int) model.ParsedProperty {
	line := c.Index.LineOf(nameStart)
	endLine := c.Index.LineOf(valEnd - 1)

	p := model.ParsedProperty{
		Name:             name,
		Value:            strings.TrimSpace(string(c.Src[valStart:valEnd])),
		Comments:         scan.Properties(c.Leading(line, barrier)),
		TrailingComments: scan.Properties(c.Trailing(endLine, valEnd)),
		Line:             line,
		FullText:         string(c.Src[nameStart:valEnd]),
		Indent:           c.IndentAt(line),
	}

	switch c.Blanked[valStart] {
	case '{':
		p.NestedProperties, _ = c.parseMembers(valStart, false)
		p.HasNestedObject = true
	case '[':
		p.NestedProperties, _ = c.parseMembers(valStart, true)
		p.HasNestedObject = true
		p.NestedIsArray = true
	}
	return p
}

// parseValue returns the offset one past the value starting at i, or -1
// when the value never terminates.
func (c *context) parseValue(i int) int {
	switch c.Blanked[i] {
	case '{':
		return c.matchBrace(i, '{', '}')
	case '[':
		return c.matchBrace(i, '[', ']')
	case '"':
		return c.scanString(i)
	default:
		for i < len(c.Blanked) && !isStructural(c.Blanked[i]) && !isSpace(c.Blanked[i]) {
			i++
		}
		return i
	}
}

func (c *context) matchBrace(i int, open, close byte) int {
	depth := 0
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case '"':
			i = c.scanString(i)
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return -1
}

// scanString returns the offset one past the closing quote. Unterminated
// strings run to end of input.
func (c *context) scanString(i int) int {
	i++
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

// recoverMember skips to the next comma or the container close so one bad
// member does not take down the rest.
func (c *context) recoverMember(i int) int {
	depth := 0
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case '"':
			i = c.scanString(i)
			continue
		case '{', '[':
			depth++
		case '}', ']':
			if depth == 0 {
				return i
			}
			depth--
		case ',':
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return i
}

// footerText captures the closing delimiter line, carrying along any
// unclaimed comment that follows the delimiter. When the delimiter shares
// its line with earlier content only the delimiter itself is kept.
func (c *context) footerText(end int) string {
	extended := c.ExtendThroughComments(end)
	closeOffset := end - 1
	lineStart := c.Index.LineStart(c.Index.LineOf(closeOffset))
	for _, b := range c.Blanked[lineStart:closeOffset] {
		if b != ' ' && b != '\t' {
			return string(c.Src[closeOffset:extended])
		}
	}
	return string(c.Src[lineStart:extended])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isStructural(b byte) bool {
	switch b {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}
