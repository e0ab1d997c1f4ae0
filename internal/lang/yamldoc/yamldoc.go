// Package yamldoc parses YAML documents into sortable entities.
//
// Reordering YAML safely means never re-serializing values: block scalars,
// anchors, and odd quoting must survive byte for byte. The parser therefore
// partitions each document into per-property line blocks. A block owns the
// key's adjacent head comments, the key line, everything the value spans,
// and any foot comments or blank lines up to the next sibling's head
// comments. Rendering a sorted document is a permutation of those blocks,
// so the output is always a permutation of the input's lines.
package yamldoc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"propsort/internal/model"
	"propsort/internal/scan"
)

// Parse decodes every document in source and returns one entity per
// mapping or sequence root. Scalar documents and flow-style roots are
// skipped: there is nothing to reorder in the former, and the latter would
// need intra-line surgery the block model does not attempt.
func Parse(source string, fileType model.FileType) *model.ParseResult {
	res := &model.ParseResult{SourceCode: source, FileType: fileType}
	buf := []byte(source)
	c := &context{
		buf:   buf,
		index: scan.NewLineIndex(buf),
	}
	c.markers = c.findMarkers()

	dec := yaml.NewDecoder(strings.NewReader(source))
	var roots []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			res.AddError("Parse error: " + err.Error())
			break
		}
		if len(doc.Content) == 0 {
			continue
		}
		roots = append(roots, doc.Content[0])
	}

	for i, root := range roots {
		if ent := c.buildDocument(i, len(roots), root); ent != nil {
			res.Entities = append(res.Entities, *ent)
		}
	}
	return res
}

type context struct {
	buf     []byte
	index   *scan.LineIndex
	markers []int
}

// findMarkers records the lines holding document markers. A column-zero
// "---" or "..." cannot be block-scalar content, which must be indented
// past its parent, so a plain prefix test is enough.
func (c *context) findMarkers() []int {
	var out []int
	for l := 1; l <= c.index.NumLines(); l++ {
		t := c.lineText(l)
		if isMarker(t) {
			out = append(out, l)
		}
	}
	return out
}

func isMarker(line string) bool {
	for _, m := range []string{"---", "..."} {
		if line == m || strings.HasPrefix(line, m+" ") || strings.HasPrefix(line, m+"\t") {
			return true
		}
	}
	return false
}

// lineText returns the line's content without its terminator.
func (c *context) lineText(line int) string {
	start := c.index.LineStart(line)
	end := c.index.LineEnd(line, c.buf)
	if end < start {
		return ""
	}
	return string(c.buf[start:end])
}

// blockText returns the verbatim source for lines [start, end], including
// each line's terminator. The final line of the file may lack one.
func (c *context) blockText(start, end int) string {
	return c.index.LineSpan(start, end).Text(c.buf)
}

// docRange returns the line range a document may own: after the marker (or
// start of file) preceding its root, up to the line before the next marker
// (or end of file), with trailing blank lines trimmed from the tail.
func (c *context) docRange(root *yaml.Node) (int, int) {
	start, end := 1, c.index.NumLines()
	for _, m := range c.markers {
		if m < root.Line && m+1 > start {
			start = m + 1
		}
		if m >= root.Line {
			end = m - 1
			break
		}
	}
	for end > root.Line && strings.TrimSpace(c.lineText(end)) == "" {
		end--
	}
	return start, end
}

func (c *context) buildDocument(ordinal, total int, root *yaml.Node) *model.ParsedEntity {
	var typ model.EntityType
	switch root.Kind {
	case yaml.MappingNode:
		typ = model.EntityYAMLObject
	case yaml.SequenceNode:
		typ = model.EntityYAMLArray
	default:
		return nil
	}
	if root.Style&yaml.FlowStyle != 0 {
		return nil
	}

	rangeStart, rangeEnd := c.docRange(root)
	props := c.blockProperties(root, rangeStart, rangeEnd)
	if props == nil {
		return nil
	}

	startLine := rangeEnd
	if len(props) > 0 {
		startLine = props[0].Line
		if len(props[0].Comments) > 0 {
			startLine = props[0].Comments[0].Line
		}
	}

	name := "document"
	if total > 1 {
		name = "document-" + strconv.Itoa(ordinal+1)
	}
	return &model.ParsedEntity{
		Type:         typ,
		Name:         name,
		Properties:   props,
		StartLine:    startLine,
		EndLine:      rangeEnd,
		Indent:       scan.LeadingWhitespace(c.lineText(root.Line)),
		OriginalText: c.blockText(startLine, rangeEnd),
	}
}

// blockProperties builds one property per mapping pair or sequence element
// of container, carving [lowerBound, regionEnd] into consecutive blocks.
// Each property's FullText is its verbatim block; container-valued
// properties additionally carry the block's head lines in Value and their
// children in NestedProperties so nested reorders can be rendered as
// head + permuted child blocks.
func (c *context) blockProperties(container *yaml.Node, lowerBound, regionEnd int) []model.ParsedProperty {
	type item struct {
		key   *yaml.Node // nil for sequence elements
		value *yaml.Node
		first int // first source line of the declaration itself
	}

	var items []item
	switch container.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(container.Content); i += 2 {
			k, v := container.Content[i], container.Content[i+1]
			items = append(items, item{key: k, value: v, first: k.Line})
		}
	case yaml.SequenceNode:
		for _, el := range container.Content {
			items = append(items, item{value: el, first: c.elementFirstLine(el)})
		}
	}
	if len(items) == 0 {
		return nil
	}

	starts := make([]int, len(items))
	bound := lowerBound
	for i, it := range items {
		starts[i] = c.runStart(it.first, bound)
		bound = it.first + 1
	}

	props := make([]model.ParsedProperty, 0, len(items))
	for i, it := range items {
		end := regionEnd
		if i+1 < len(items) {
			end = starts[i+1] - 1
		}
		p := model.ParsedProperty{
			Line:     it.first,
			Indent:   scan.LeadingWhitespace(c.lineText(it.first)),
			FullText: c.blockText(starts[i], end),
		}
		if it.key != nil {
			p.Name = it.key.Value
			if p.Name == "" {
				p.Name = fmt.Sprintf("key-%d", i)
			}
		} else {
			p.Name = strconv.Itoa(i)
		}
		for l := starts[i]; l < it.first; l++ {
			raw := strings.TrimSpace(c.lineText(l))
			p.Comments = append(p.Comments, model.PropertyComment{
				Text: scan.CleanSingle(raw),
				Type: model.CommentSingle,
				Raw:  raw,
				Line: l,
			})
		}
		lc := it.value.LineComment
		if lc == "" && it.key != nil {
			lc = it.key.LineComment
		}
		if lc != "" {
			p.TrailingComments = append(p.TrailingComments, model.PropertyComment{
				Text: scan.CleanSingle(lc),
				Type: model.CommentSingle,
				Raw:  lc,
				Line: it.first,
			})
		}
		c.fillValue(&p, it.value, it.first, starts[i], end)
		props = append(props, p)
	}
	return props
}

// fillValue records the property's sortable value and, for block-style
// containers, its nested child blocks.
func (c *context) fillValue(p *model.ParsedProperty, value *yaml.Node, declLine, blockStart, blockEnd int) {
	switch value.Kind {
	case yaml.ScalarNode, yaml.AliasNode:
		p.Value = value.Value
		return
	case yaml.MappingNode, yaml.SequenceNode:
		if value.Style&yaml.FlowStyle != 0 {
			return
		}
		// A mapping element written "- key: v" shares the dash line with
		// its first key; permuting such children would strand the dash.
		if value.Kind == yaml.MappingNode && value.Line == declLine {
			return
		}
		children := c.blockProperties(value, declLine+1, blockEnd)
		if len(children) == 0 {
			return
		}
		headEnd := children[0].Line - 1
		if n := len(children[0].Comments); n > 0 {
			headEnd = children[0].Comments[0].Line - 1
		}
		p.NestedProperties = children
		p.HasNestedObject = true
		p.NestedIsArray = value.Kind == yaml.SequenceNode
		p.Value = c.blockText(blockStart, headEnd)
	}
}

// elementFirstLine returns the line a sequence element starts on. For the
// "-" on its own line form the node's line is the content below the dash.
func (c *context) elementFirstLine(el *yaml.Node) int {
	if l := el.Line - 1; l >= 1 && strings.TrimSpace(c.lineText(l)) == "-" {
		return l
	}
	return el.Line
}

// runStart walks upward from declLine over the adjacent comment run and
// returns its first line. Blank lines, document markers, and lines
// indented deeper than the declaration end the run: the last rule keeps
// "#" lines inside a preceding block scalar out of the next key's block.
func (c *context) runStart(declLine, lowerBound int) int {
	declIndent := scan.IndentWidth(scan.LeadingWhitespace(c.lineText(declLine)), 4)
	start := declLine
	for l := declLine - 1; l >= lowerBound; l-- {
		raw := c.lineText(l)
		t := strings.TrimSpace(raw)
		if t == "" || isMarker(t) || !strings.HasPrefix(t, "#") {
			break
		}
		if scan.IndentWidth(scan.LeadingWhitespace(raw), 4) > declIndent {
			break
		}
		start = l
	}
	return start
}
