// Package css parses the CSS family (CSS, SCSS, SASS, LESS) with a
// recursive brace-depth scanner over comment-blanked source. Nested rules
// become pseudo-properties that carry their body as nested properties, so a
// rule's direct declarations sort independently of its nested children.
//
// SASS indentation syntax is first rewritten into brace form; the rewrite
// appends braces and semicolons to existing lines and never adds or removes
// a line, so every line number reported against the rewritten buffer holds
// in the original file.
package css

import (
	"fmt"
	"strings"

	"propsort/internal/model"
	"propsort/internal/scan"
)

type context struct {
	*scan.Context
	res  *model.ParseResult
	sass bool

	// original buffer when the scanner runs over a SASS rewrite; line
	// numbers agree between the two because the rewrite never adds lines.
	orig      []byte
	origIndex *scan.LineIndex
}

// Parse scans one stylesheet and returns its top-level rules as entities.
func Parse(source string, fileType model.FileType) *model.ParseResult {
	res := &model.ParseResult{SourceCode: source, FileType: fileType}

	style := scan.StyleSCSS
	if fileType == model.FileTypeCSS {
		style = scan.StyleCSS
	}
	buf := []byte(source)
	isSass := fileType == model.FileTypeSASS
	if isSass {
		buf = Rewrite(buf)
	}

	c := &context{
		Context: scan.NewContext(buf, style),
		res:     res,
		sass:    isSass,
	}
	if isSass {
		c.orig = []byte(source)
		c.origIndex = scan.NewLineIndex(c.orig)
	}
	c.parseTopLevel()
	return res
}

// origLine returns one line of the pre-rewrite SASS source without its
// terminator.
func (c *context) origLine(line int) string {
	return string(c.orig[c.origIndex.LineStart(line):c.origIndex.LineEnd(line, c.orig)])
}

func (c *context) errorf(offset int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.res.AddError(fmt.Sprintf("Parse error at line %d: %s", c.Index.LineOf(offset), msg))
}

func (c *context) parseTopLevel() {
	i := 0
	barrier := 0
	for {
		i = c.SkipWS(i)
		if i >= len(c.Blanked) {
			return
		}
		selStart := i
		brace, semi := c.nextRuleDelimiter(i)
		switch {
		case semi >= 0 && (brace < 0 || semi < brace):
			// bodyless statement (@import, @use, $var, @var)
			i = semi + 1
		case brace >= 0:
			bodyEnd := c.matchBrace(brace)
			if bodyEnd < 0 {
				c.errorf(brace, "unterminated rule body")
				return
			}
			ent := c.buildEntity(selStart, brace, bodyEnd, barrier)
			c.res.Entities = append(c.res.Entities, ent)
			barrier = ent.EndLine
			i = bodyEnd
		default:
			if strings.TrimSpace(string(c.Blanked[i:])) != "" {
				c.errorf(i, "unexpected content outside any rule")
			}
			return
		}
	}
}

// nextRuleDelimiter finds the first top-level '{' and ';' from i. A stray
// '}' ends the search.
func (c *context) nextRuleDelimiter(i int) (brace, semi int) {
	brace, semi = -1, -1
	for i < len(c.Blanked) {
		switch c.Blanked[i] {
		case '\'', '"':
			i = c.scanString(i)
			continue
		case '(':
			i = c.matchParen(i)
			continue
		case '{':
			return i, semi
		case ';':
			return brace, i
		case '}':
			return brace, semi
		}
		i++
	}
	return brace, semi
}

func (c *context) buildEntity(selStart, brace, bodyEnd, barrier int) model.ParsedEntity {
	selector := strings.TrimSpace(string(c.Src[selStart:brace]))
	declLine := c.Index.LineOf(selStart)
	leading := c.Leading(declLine, barrier)
	startLine := declLine
	if len(leading) > 0 {
		startLine = leading[0].Line
	}
	endLine := c.Index.LineOf(bodyEnd - 1)

	headerEnd := c.ExtendThroughComments(brace + 1)
	ent := model.ParsedEntity{
		Name:            selector,
		Properties:      c.parseBody(brace, bodyEnd),
		StartLine:       startLine,
		EndLine:         endLine,
		LeadingComments: scan.Properties(leading),
		HeaderText:      string(c.Src[c.Index.LineStart(declLine):headerEnd]),
		FooterText:      c.footerText(bodyEnd),
		Indent:          c.IndentAt(declLine),
	}
	ent.OriginalText = c.Index.LineSpan(startLine, endLine).Text(c.Src)
	c.AttachStrays(ent.Properties, headerEnd, bodyEnd-1)
	c.classify(&ent, selector)

	if c.sass {
		ent.HeaderText = c.origLine(declLine)
		ent.FooterText = ""
		ent.OriginalText = c.origIndex.LineSpan(startLine, endLine).Text(c.orig)
		c.stripRewrite(ent.Properties)
	}
	return ent
}

func (c *context) classify(ent *model.ParsedEntity, selector string) {
	lower := strings.ToLower(selector)
	switch {
	case strings.HasPrefix(lower, "@media"):
		ent.Type = model.EntityCSSMedia
		ent.MediaQuery = strings.TrimSpace(selector[len("@media"):])
	case strings.HasPrefix(lower, "@") && strings.Contains(lower, "keyframes"):
		ent.Type = model.EntityCSSKeyframe
	case strings.HasPrefix(lower, "@"):
		ent.Type = model.EntityCSSAtRule
	case isKeyframeSelector(lower):
		ent.Type = model.EntityCSSKeyframe
		ent.KeyframeSelector = selector
	default:
		ent.Type = model.EntityCSSRule
		ent.Specificity = Specificity(selector)
	}
}

func isKeyframeSelector(sel string) bool {
	for _, part := range strings.Split(sel, ",") {
		p := strings.TrimSpace(part)
		if p == "from" || p == "to" || strings.HasSuffix(p, "%") {
			continue
		}
		return false
	}
	return sel != ""
}

// parseBody extracts the declarations and nested rules between a matched
// brace pair. Nested bodies recurse with absolute offsets, so comment
// attachment inside them stays exact.
func (c *context) parseBody(open, bodyEnd int) []model.ParsedProperty {
	var props []model.ParsedProperty
	barrier := c.Index.LineOf(open)
	bodyClose := bodyEnd - 1 // the '}' itself
	i := open + 1
	for {
		i = c.SkipWS(i)
		if i >= bodyClose {
			return props
		}
		start := i
		brace, semi := c.nextRuleDelimiter(i)

		if brace >= 0 && brace < bodyClose && (semi < 0 || brace < semi) {
			inner := c.matchBrace(brace)
			if inner < 0 || inner > bodyEnd {
				c.errorf(brace, "unterminated nested rule")
				return props
			}
			props = append(props, c.buildNestedRule(start, brace, inner, barrier))
			barrier = c.Index.LineOf(inner - 1)
			i = inner
			continue
		}

		end := bodyClose
		punct := ""
		if semi >= 0 && semi < bodyClose {
			end = semi
			punct = ";"
		}
		if p, ok := c.buildDeclaration(start, end, punct, barrier); ok {
			props = append(props, p)
			barrier = c.Index.LineOf(end - 1)
		}
		i = end + len(punct)
	}
}

func (c *context) buildNestedRule(selStart, brace, bodyEnd, barrier int) model.ParsedProperty {
	selector := strings.TrimSpace(string(c.Src[selStart:brace]))
	line := c.Index.LineOf(selStart)
	leading := c.Leading(line, barrier)

	headerEnd := c.ExtendThroughComments(brace + 1)
	endLine := c.Index.LineOf(bodyEnd - 1)
	p := model.ParsedProperty{
		Name:             selector,
		Value:            string(c.Src[selStart:headerEnd]),
		Comments:         scan.Properties(leading),
		TrailingComments: scan.Properties(c.Trailing(endLine, bodyEnd)),
		Line:             line,
		FullText:         string(c.Src[selStart:bodyEnd]),
		Indent:           c.IndentAt(line),
		NestedProperties: c.parseBody(brace, bodyEnd),
		IsNestedRule:     true,
	}
	c.AttachStrays(p.NestedProperties, headerEnd, bodyEnd-1)
	return p
}

// buildDeclaration parses one `name: value` declaration in [start, end).
// end is exclusive and sits on the ';' or the closing '}'. Statements
// without a colon (@include, @extend) keep their whole text as the name.
func (c *context) buildDeclaration(start, end int, punct string, barrier int) (model.ParsedProperty, bool) {
	valEnd := start + len(strings.TrimRight(string(c.Src[start:end]), " \t\r\n"))
	if valEnd <= start {
		return model.ParsedProperty{}, false
	}

	name := strings.TrimSpace(string(c.Src[start:valEnd]))
	value := ""
	if colon := c.findColon(start, valEnd); colon >= 0 {
		name = strings.TrimSpace(string(c.Src[start:colon]))
		value = strings.TrimSpace(string(c.Src[colon+1 : valEnd]))
	}
	if name == "" {
		c.errorf(start, "declaration without a property name")
		return model.ParsedProperty{}, false
	}

	line := c.Index.LineOf(start)
	afterPunct := end + len(punct)
	p := model.ParsedProperty{
		Name:                name,
		Value:               value,
		Comments:            scan.Properties(c.Leading(line, barrier)),
		TrailingComments:    scan.Properties(c.Trailing(c.Index.LineOf(valEnd), afterPunct)),
		Line:                line,
		FullText:            string(c.Src[start:valEnd]),
		TrailingPunctuation: punct,
		Indent:              c.IndentAt(line),
		Important:           strings.Contains(strings.ToLower(string(c.Blanked[start:valEnd])), "!important"),
		VendorPrefix:        vendorPrefixOf(name),
	}
	return p, true
}

// findColon locates the name/value separator: the first ':' outside parens.
func (c *context) findColon(start, end int) int {
	for i := start; i < end; i++ {
		switch c.Blanked[i] {
		case '\'', '"':
			i = c.scanString(i) - 1
		case '(':
			i = c.matchParen(i) - 1
		case ':':
			return i
		}
	}
	return -1
}

func vendorPrefixOf(name string) string {
	if !strings.HasPrefix(name, "-") {
		return ""
	}
	rest := name[1:]
	j := strings.IndexByte(rest, '-')
	if j <= 0 {
		return ""
	}
	return name[:j+2]
}

// matchBrace returns the offset one past the '}' matching the '{' at open,
// or -1 when unbalanced.
func (c *context) matchBrace(open int) int {
	depth := 0
	for i := open; i < len(c.Blanked); i++ {
		switch c.Blanked[i] {
		case '\'', '"':
			i = c.scanString(i) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// matchParen returns the offset one past the ')' matching the '(' at open.
// Unbalanced input returns the end of the buffer.
func (c *context) matchParen(open int) int {
	depth := 0
	for i := open; i < len(c.Blanked); i++ {
		switch c.Blanked[i] {
		case '\'', '"':
			i = c.scanString(i) - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(c.Blanked)
}

// scanString returns the offset one past the closing quote. CSS strings end
// at an unescaped matching quote or at end of line.
func (c *context) scanString(i int) int {
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

// footerText captures the closing brace verbatim; when the brace sits on
// its own line the whole line (with indentation) is kept.
func (c *context) footerText(bodyEnd int) string {
	closeOffset := bodyEnd - 1
	line := c.Index.LineOf(closeOffset)
	from := c.Index.LineStart(line)
	prefix := strings.TrimSpace(string(c.Blanked[from:closeOffset]))
	end := c.ExtendThroughComments(bodyEnd)
	if prefix == "" {
		return string(c.Src[from:end])
	}
	return string(c.Src[closeOffset:end])
}

// stripRewrite removes the braces and semicolons the SASS rewrite appended
// so rendered output stays in indentation syntax. Nested rule text is
// re-derived from the original buffer.
func (c *context) stripRewrite(props []model.ParsedProperty) {
	for i := range props {
		p := &props[i]
		p.TrailingPunctuation = ""
		if p.IsNestedRule {
			p.Value = c.origLine(p.Line)
			p.FullText = ""
			c.stripRewrite(p.NestedProperties)
		}
	}
}
