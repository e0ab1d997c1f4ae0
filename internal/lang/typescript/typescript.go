// Package typescript parses TypeScript and JavaScript with tree-sitter and
// extracts the sortable declarations: interfaces, object literals bound to a
// single variable, and type aliases over object types. Comments are tree
// nodes here rather than scanner output, but the same single-attachment
// contract holds: each comment lands in exactly one place, tracked by byte
// offset.
package typescript

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"propsort/internal/model"
	"propsort/internal/scan"
)

var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(typescript.GetLanguage())
		return p
	},
}

type parser struct {
	content []byte
	index   *scan.LineIndex
	res     *model.ParseResult
	claimed map[uint32]bool
}

// Parse builds entities for every interface, bound object literal, and
// object type alias in the source.
func Parse(source string, fileType model.FileType) *model.ParseResult {
	res := &model.ParseResult{SourceCode: source, FileType: fileType}
	content := []byte(source)

	tsParser := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(tsParser)

	tree, err := tsParser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		res.AddError("Parse error: " + err.Error())
		return res
	}
	root := tree.RootNode()
	if root.HasError() {
		res.AddError("Parse error: source contains syntax errors")
	}

	p := &parser{
		content: content,
		index:   scan.NewLineIndex(content),
		res:     res,
		claimed: make(map[uint32]bool),
	}
	p.walk(root, false)
	return res
}

func (p *parser) text(n *sitter.Node) string {
	return string(p.content[n.StartByte():n.EndByte()])
}

func startRow(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }
func endRow(n *sitter.Node) int   { return int(n.EndPoint().Row) + 1 }

func (p *parser) indentAt(line int) string {
	start := p.index.LineStart(line)
	end := p.index.LineEnd(line, p.content)
	text := string(p.content[start:end])
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

func (p *parser) walk(node *sitter.Node, exported bool) {
	switch node.Type() {
	case "interface_declaration":
		p.addInterface(node, exported)
		return
	case "type_alias_declaration":
		if body := aliasObjectType(node); body != nil {
			p.addTypeAlias(node, body, exported)
		}
		return
	case "variable_declarator":
		if value := node.ChildByFieldName("value"); value != nil && value.Type() == "object" {
			if soleDeclarator(node) {
				p.addObject(node, value, exported)
				return
			}
		}
	case "export_statement":
		exported = true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i), exported)
	}
}

// aliasObjectType returns the object type body of `type X = { … }`, nil for
// aliases over anything else.
func aliasObjectType(node *sitter.Node) *sitter.Node {
	value := node.ChildByFieldName("value")
	if value != nil && value.Type() == "object_type" {
		return value
	}
	return nil
}

// soleDeclarator reports whether the declarator is the only one in its
// statement. Multi-declarator statements share lines, which the line-based
// splice cannot handle, so they are left alone.
func soleDeclarator(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return true
	}
	count := 0
	for i := 0; i < int(parent.ChildCount()); i++ {
		if parent.Child(i).Type() == "variable_declarator" {
			count++
		}
	}
	return count == 1
}

// anchor climbs from a declaration to the statement that owns its lines:
// through the variable declaration and any export wrapper.
func anchorOf(node *sitter.Node) *sitter.Node {
	anchor := node
	for {
		parent := anchor.Parent()
		if parent == nil {
			return anchor
		}
		switch parent.Type() {
		case "variable_declaration", "lexical_declaration", "export_statement":
			anchor = parent
		default:
			return anchor
		}
	}
}

func (p *parser) addInterface(node *sitter.Node, exported bool) {
	name := node.ChildByFieldName("name")
	body := interfaceBody(node)
	if name == nil || body == nil {
		return
	}
	p.addEntity(model.EntityInterface, p.text(name), node, body, exported)
}

// interfaceBody tolerates both grammar vintages: newer trees use
// interface_body, older ones object_type.
func interfaceBody(node *sitter.Node) *sitter.Node {
	if body := node.ChildByFieldName("body"); body != nil {
		return body
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if t := child.Type(); t == "interface_body" || t == "object_type" {
			return child
		}
	}
	return nil
}

func (p *parser) addTypeAlias(node *sitter.Node, body *sitter.Node, exported bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	p.addEntity(model.EntityTypeAlias, p.text(name), node, body, exported)
}

func (p *parser) addObject(declarator *sitter.Node, object *sitter.Node, exported bool) {
	name := declarator.ChildByFieldName("name")
	if name == nil {
		return
	}
	p.addEntity(model.EntityObject, p.text(name), declarator, object, exported)
}

func (p *parser) addEntity(kind model.EntityType, name string, decl, body *sitter.Node, exported bool) {
	anchor := anchorOf(decl)
	declLine := startRow(anchor)
	leading := p.leadingFor(anchor)
	startLine := declLine
	if len(leading) > 0 {
		startLine = leading[0].Line
	}

	// claim the brace-line comment for the header before member comment
	// attachment can take it
	header := p.headerText(anchor, body)
	props, dangling, ok := p.members(body)
	if !ok {
		p.res.AddError(fmt.Sprintf("Parse error at line %d: skipping %s: body contains syntax errors", declLine, name))
		return
	}
	ent := model.ParsedEntity{
		Type:            kind,
		Name:            name,
		Properties:      props,
		StartLine:       startLine,
		EndLine:         endRow(anchor),
		LeadingComments: leading,
		IsExported:      exported,
		HeaderText:      header,
		FooterText:      p.footerText(anchor, body, dangling),
		Indent:          p.indentAt(declLine),
	}
	ent.OriginalText = p.index.LineSpan(ent.StartLine, ent.EndLine).Text(p.content)
	p.res.Entities = append(p.res.Entities, ent)
}

// leadingFor collects the run of line-initial comment siblings directly
// above a statement, nearest first in source order and at most two lines
// apart.
func (p *parser) leadingFor(anchor *sitter.Node) []model.PropertyComment {
	var nodes []*sitter.Node
	cur := anchor
	lastRow := startRow(anchor)
	for {
		prev := cur.PrevSibling()
		if prev == nil || prev.Type() != "comment" || p.claimed[prev.StartByte()] {
			break
		}
		if !p.lineInitial(prev) || lastRow-endRow(prev) > 2 {
			break
		}
		nodes = append(nodes, prev)
		lastRow = startRow(prev)
		cur = prev
	}
	comments := make([]model.PropertyComment, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		p.claimed[nodes[i].StartByte()] = true
		comments = append(comments, p.commentOf(nodes[i]))
	}
	return comments
}

// lineInitial reports whether only whitespace precedes the node on its line.
func (p *parser) lineInitial(n *sitter.Node) bool {
	from := p.index.LineStart(startRow(n))
	return strings.TrimSpace(string(p.content[from:n.StartByte()])) == ""
}

func (p *parser) commentOf(n *sitter.Node) model.PropertyComment {
	raw := p.text(n)
	pc := model.PropertyComment{Raw: raw, Line: startRow(n)}
	if strings.HasPrefix(raw, "//") {
		pc.Type = model.CommentSingle
		pc.Text = scan.CleanSingle(raw)
	} else {
		pc.Type = model.CommentMulti
		pc.Text = scan.CleanMulti(raw)
	}
	return pc
}

// headerText captures the statement verbatim from its line start through
// the body's opening brace, extended through a same-line comment.
func (p *parser) headerText(anchor, body *sitter.Node) string {
	from := p.index.LineStart(startRow(anchor))
	openEnd := int(body.StartByte()) + 1
	if int(body.ChildCount()) > 1 {
		first := body.Child(1)
		if first.Type() == "comment" && startRow(first) == startRow(body) && !p.claimed[first.StartByte()] {
			p.claimed[first.StartByte()] = true
			openEnd = int(first.EndByte())
		}
	}
	return string(p.content[from:openEnd])
}

// footerText captures from the body's closing brace through the statement
// end, with any dangling body comments kept on their own lines above it.
func (p *parser) footerText(anchor, body *sitter.Node, dangling []*sitter.Node) string {
	closeStart := int(body.EndByte()) - 1
	line := p.index.LineOf(closeStart)
	from := p.index.LineStart(line)
	if strings.TrimSpace(string(p.content[from:closeStart])) != "" {
		from = closeStart
	}
	footer := string(p.content[from:anchor.EndByte()])

	var parts []string
	for _, c := range dangling {
		p.claimed[c.StartByte()] = true
		cFrom := p.index.LineStart(startRow(c))
		parts = append(parts, string(p.content[cFrom:c.EndByte()]))
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

// members walks a body node, pairing each member with its leading comments,
// separator, and same-line trailing comments, the separators being sibling
// tokens in the tree. Comments left pending at the close brace are returned
// as dangling so the caller can keep them. A false ok means the body holds
// syntax errors and must stay untouched.
func (p *parser) members(body *sitter.Node) (props []model.ParsedProperty, dangling []*sitter.Node, ok bool) {
	var pending []*sitter.Node

	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		child := body.Child(i)
		switch child.Type() {
		case "comment":
			if !p.claimed[child.StartByte()] {
				pending = append(pending, child)
			}
		case "{", "}", ",", ";":
			continue
		case "ERROR", "MISSING":
			return nil, nil, false
		default:
			prop, propOK := p.member(child)
			if !propOK {
				return nil, nil, false
			}
			for _, c := range pending {
				p.claimed[c.StartByte()] = true
				prop.Comments = append(prop.Comments, p.commentOf(c))
			}
			pending = nil

			j := i + 1
			for j < count {
				next := body.Child(j)
				if t := next.Type(); t == "," || t == ";" {
					if prop.TrailingPunctuation == "" {
						prop.TrailingPunctuation = t
					}
					j++
					continue
				}
				if next.Type() == "comment" && startRow(next) == endRow(child) {
					p.claimed[next.StartByte()] = true
					prop.TrailingComments = append(prop.TrailingComments, p.commentOf(next))
					j++
					continue
				}
				break
			}
			i = j - 1

			props = append(props, prop)
		}
	}
	return props, pending, true
}

func (p *parser) member(n *sitter.Node) (model.ParsedProperty, bool) {
	line := startRow(n)
	prop := model.ParsedProperty{
		Line:     line,
		Indent:   p.indentAt(line),
		FullText: p.text(n),
	}
	// some grammar vintages fold the separator into the member
	if last := len(prop.FullText) - 1; last >= 0 {
		if c := prop.FullText[last]; c == ',' || c == ';' {
			prop.TrailingPunctuation = string(c)
			prop.FullText = strings.TrimRight(prop.FullText[:last], " \t")
		}
	}

	ok := true
	switch n.Type() {
	case "pair":
		ok = p.fillPair(&prop, n)
	case "spread_element":
		prop.IsSpread = true
		prop.Name = prop.FullText
	case "shorthand_property_identifier":
		prop.Name = p.text(n)
	case "method_definition", "method_signature":
		prop.MemberKind = methodKind(n)
		if name := n.ChildByFieldName("name"); name != nil {
			prop.Name = keyText(name, p.content)
		}
	case "property_signature":
		ok = p.fillSignature(&prop, n)
	default:
		// index signatures, call signatures, mapped types: sort by the
		// first line of their text
		first := prop.FullText
		if idx := strings.IndexByte(first, '\n'); idx >= 0 {
			first = first[:idx]
		}
		prop.Name = strings.TrimSpace(first)
	}
	return prop, ok
}

func (p *parser) fillPair(prop *model.ParsedProperty, n *sitter.Node) bool {
	if key := n.ChildByFieldName("key"); key != nil {
		prop.Name = keyText(key, p.content)
	}
	value := n.ChildByFieldName("value")
	if value == nil {
		return true
	}
	prop.Value = p.text(value)
	switch value.Type() {
	case "object":
		return p.fillNested(prop, int(n.StartByte()), value)
	case "array":
		prop.NestedIsArray = true
	case "call_expression":
		prop.IsChained = isChainedCall(value)
	}
	return true
}

// fillNested recurses into a nested object or object type. The property's
// Value becomes the verbatim `key: {` header used when the nested body is
// re-rendered; dangling close-brace comments move onto the last child as
// own-line trailing comments so no re-render can drop them.
func (p *parser) fillNested(prop *model.ParsedProperty, headStart int, object *sitter.Node) bool {
	openEnd := int(object.StartByte()) + 1
	if int(object.ChildCount()) > 1 {
		first := object.Child(1)
		if first.Type() == "comment" && startRow(first) == startRow(object) && !p.claimed[first.StartByte()] {
			p.claimed[first.StartByte()] = true
			openEnd = int(first.EndByte())
		}
	}

	nested, dangling, ok := p.members(object)
	if !ok {
		return false
	}
	prop.HasNestedObject = true
	prop.NestedProperties = nested
	prop.Value = string(p.content[headStart:openEnd])

	if len(dangling) > 0 && len(nested) > 0 {
		last := &prop.NestedProperties[len(nested)-1]
		for _, c := range dangling {
			p.claimed[c.StartByte()] = true
			last.TrailingComments = append(last.TrailingComments, p.commentOf(c))
		}
	}
	return true
}

func (p *parser) fillSignature(prop *model.ParsedProperty, n *sitter.Node) bool {
	if name := n.ChildByFieldName("name"); name != nil {
		prop.Name = keyText(name, p.content)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "?" {
			prop.Optional = true
			break
		}
	}
	ann := n.ChildByFieldName("type")
	if ann == nil {
		return true
	}
	prop.Value = strings.TrimSpace(strings.TrimPrefix(p.text(ann), ":"))
	for i := 0; i < int(ann.ChildCount()); i++ {
		if typeNode := ann.Child(i); typeNode.Type() == "object_type" {
			return p.fillNested(prop, int(n.StartByte()), typeNode)
		}
	}
	return true
}

// keyText mirrors how keys compare: identifiers and computed names keep
// their text, string keys drop the quotes.
func keyText(key *sitter.Node, content []byte) string {
	text := string(content[key.StartByte():key.EndByte()])
	if key.Type() == "string" {
		return strings.Trim(text, "\"'`")
	}
	return text
}

func methodKind(n *sitter.Node) model.MemberKind {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "get":
			return model.MemberGetter
		case "set":
			return model.MemberSetter
		case "(", "property_identifier", "formal_parameters":
			return model.MemberMethod
		}
	}
	return model.MemberMethod
}

// isChainedCall reports a call whose receiver is itself a call: `a().b()`.
func isChainedCall(value *sitter.Node) bool {
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return false
	}
	obj := fn.ChildByFieldName("object")
	return obj != nil && obj.Type() == "call_expression"
}
