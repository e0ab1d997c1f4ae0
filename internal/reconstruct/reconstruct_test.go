package reconstruct

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propsort/errors"
	"propsort/internal/lang/css"
	"propsort/internal/lang/golang"
	"propsort/internal/lang/jsonc"
	"propsort/internal/lang/yamldoc"
	"propsort/internal/model"
	"propsort/internal/sorting"
)

type parseFunc func(string, model.FileType) *model.ParseResult

func sortedEntities(t *testing.T, res *model.ParseResult, opts model.Options) []model.ParsedEntity {
	t.Helper()
	require.NotNil(t, res)
	require.Empty(t, res.Errors)
	out := make([]model.ParsedEntity, len(res.Entities))
	copy(out, res.Entities)
	for i := range out {
		model.AssignSeq(out[i].Properties)
		sorting.Apply(&out[i], opts)
	}
	return out
}

func rework(t *testing.T, parse parseFunc, src string, ft model.FileType, opts model.Options) string {
	t.Helper()
	ents := sortedEntities(t, parse(src, ft), opts)
	r, err := ForFileType(ft, opts, src)
	require.NoError(t, err)
	out, errs := Splice(src, ents, r)
	require.Empty(t, errs)
	return out
}

func interfaceFixture() (string, model.ParsedEntity) {
	src := "interface User {\n  name: string;\n  email: string;\n  age: number;\n}\n"
	ent := model.ParsedEntity{
		Type:       model.EntityInterface,
		Name:       "User",
		StartLine:  1,
		EndLine:    5,
		HeaderText: "interface User {",
		FooterText: "}",
		Properties: []model.ParsedProperty{
			{Name: "name", Value: "string", FullText: "name: string", TrailingPunctuation: ";", Line: 2, Indent: "  "},
			{Name: "email", Value: "string", FullText: "email: string", TrailingPunctuation: ";", Line: 3, Indent: "  "},
			{Name: "age", Value: "number", FullText: "age: number", TrailingPunctuation: ";", Line: 4, Indent: "  "},
		},
	}
	return src, ent
}

func TestSpliceReplacesChangedEntity(t *testing.T) {
	src, ent := interfaceFixture()
	opts := model.DefaultOptions()
	model.AssignSeq(ent.Properties)
	sorting.Apply(&ent, opts)

	r, err := ForFileType(model.FileTypeTypeScript, opts, src)
	require.NoError(t, err)
	out, errs := Splice(src, []model.ParsedEntity{ent}, r)
	require.Empty(t, errs)

	want := "interface User {\n  age: number;\n  email: string;\n  name: string;\n}\n"
	assert.Equal(t, want, out)
}

func TestCommentsTravelWithProperty(t *testing.T) {
	src := "// User shape.\ninterface User {\n  // their name\n  name: string; // inline\n  age: number;\n}\n"
	ent := model.ParsedEntity{
		Type:            model.EntityInterface,
		Name:            "User",
		StartLine:       1,
		EndLine:         6,
		HeaderText:      "interface User {",
		FooterText:      "}",
		LeadingComments: []model.PropertyComment{{Raw: "// User shape.", Text: "User shape.", Line: 1}},
		Properties: []model.ParsedProperty{
			{
				Name: "name", Value: "string", FullText: "name: string",
				TrailingPunctuation: ";", Line: 4, Indent: "  ",
				Comments:         []model.PropertyComment{{Raw: "// their name", Text: "their name", Line: 3}},
				TrailingComments: []model.PropertyComment{{Raw: "// inline", Text: "inline", Line: 4}},
			},
			{Name: "age", Value: "number", FullText: "age: number", TrailingPunctuation: ";", Line: 5, Indent: "  "},
		},
	}
	opts := model.DefaultOptions()
	model.AssignSeq(ent.Properties)
	sorting.Apply(&ent, opts)

	r, err := ForFileType(model.FileTypeTypeScript, opts, src)
	require.NoError(t, err)
	out, errs := Splice(src, []model.ParsedEntity{ent}, r)
	require.Empty(t, errs)

	want := "// User shape.\ninterface User {\n  age: number;\n  // their name\n  name: string; // inline\n}\n"
	assert.Equal(t, want, out)
}

func TestNestedObjectRebuild(t *testing.T) {
	src := "const cfg = {\n  outer: {\n    b: 1,\n    a: 2,\n  },\n  alpha: true,\n};\n"
	ent := model.ParsedEntity{
		Type:       model.EntityObject,
		Name:       "cfg",
		StartLine:  1,
		EndLine:    7,
		HeaderText: "const cfg = {",
		FooterText: "};",
		Properties: []model.ParsedProperty{
			{
				Name: "outer", Value: "outer: {",
				FullText:            "outer: {\n    b: 1,\n    a: 2,\n  }",
				TrailingPunctuation: ",", Line: 2, Indent: "  ",
				HasNestedObject: true,
				NestedProperties: []model.ParsedProperty{
					{Name: "b", Value: "1", FullText: "b: 1", TrailingPunctuation: ",", Line: 3, Indent: "    "},
					{Name: "a", Value: "2", FullText: "a: 2", TrailingPunctuation: ",", Line: 4, Indent: "    "},
				},
			},
			{Name: "alpha", Value: "true", FullText: "alpha: true", TrailingPunctuation: ",", Line: 6, Indent: "  "},
		},
	}
	opts := model.DefaultOptions()
	model.AssignSeq(ent.Properties)
	sorting.Apply(&ent, opts)

	r, err := ForFileType(model.FileTypeTypeScript, opts, src)
	require.NoError(t, err)
	out, errs := Splice(src, []model.ParsedEntity{ent}, r)
	require.Empty(t, errs)

	want := "const cfg = {\n  alpha: true,\n  outer: {\n    a: 2,\n    b: 1,\n  },\n};\n"
	assert.Equal(t, want, out)
}

func TestSingleLineObjectStaysInline(t *testing.T) {
	src := "const o = { z: 1, a: 2 };\n"
	ent := model.ParsedEntity{
		Type:       model.EntityObject,
		Name:       "o",
		StartLine:  1,
		EndLine:    1,
		HeaderText: "const o = {",
		FooterText: "};",
		Properties: []model.ParsedProperty{
			{Name: "z", Value: "1", FullText: "z: 1", TrailingPunctuation: ",", Line: 1},
			{Name: "a", Value: "2", FullText: "a: 2", Line: 1},
		},
	}
	opts := model.DefaultOptions()
	model.AssignSeq(ent.Properties)
	sorting.Apply(&ent, opts)

	r, err := ForFileType(model.FileTypeTypeScript, opts, src)
	require.NoError(t, err)
	out, errs := Splice(src, []model.ParsedEntity{ent}, r)
	require.Empty(t, errs)

	assert.Equal(t, "const o = { a: 2, z: 1, };\n", out)
}

func TestRenderErrorDegradesToPlaceholder(t *testing.T) {
	src := "line1\nline2\nline3\n"
	ents := []model.ParsedEntity{{
		Name: "thing", StartLine: 1, EndLine: 2,
		Properties: shuffled(),
	}}
	out, errs := Splice(src, ents, errRenderer{})

	assert.Equal(t, "// Error reconstructing thing: boom\nline3\n", out)
	require.Len(t, errs, 1)
	assert.Equal(t, "Error reconstructing thing: boom", errs[0])
}

func TestRenderPanicDegradesToPlaceholder(t *testing.T) {
	src := "line1\nline2\n"
	ents := []model.ParsedEntity{{
		Name: "thing", StartLine: 1, EndLine: 1,
		Properties: shuffled(),
	}}
	out, errs := Splice(src, ents, panicRenderer{})

	assert.Equal(t, "// Error reconstructing thing: kaboom\nline2\n", out)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "kaboom")
}

func TestOverlappingEntitiesKeepFirst(t *testing.T) {
	src := "ab\ncd\n"
	ents := []model.ParsedEntity{
		{Name: "one", StartLine: 1, EndLine: 1, Properties: shuffled()},
		{Name: "two", StartLine: 1, EndLine: 1, Properties: shuffled()},
	}
	out, errs := Splice(src, ents, textRenderer{text: "Z"})

	assert.Equal(t, "Z\ncd\n", out)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "shares a line")
}

func TestUnchangedEntityKeepsBytes(t *testing.T) {
	src := ".b {\n  b: y;\n  a: x;\n}\n\n.a {\n  a: x;\n\n  b: y;\n}\n"
	out := rework(t, css.Parse, src, model.FileTypeCSS, model.DefaultOptions())

	want := ".b {\n  a: x;\n  b: y;\n}\n\n.a {\n  a: x;\n\n  b: y;\n}\n"
	assert.Equal(t, want, out)
}

func TestCSSCategoryOrder(t *testing.T) {
	src := ".btn {\n  z-index: 10;\n  color: red;\n  position: absolute;\n}\n"
	opts := model.DefaultOptions()
	opts.GroupByCategory = true
	out := rework(t, css.Parse, src, model.FileTypeCSS, opts)

	want := ".btn {\n  position: absolute;\n  color: red;\n  z-index: 10;\n}\n"
	assert.Equal(t, want, out)
}

func TestSCSSNestedRuleRebuild(t *testing.T) {
	src := ".card {\n  padding: 8px;\n  margin: 4px;\n  .title {\n    font-weight: bold;\n    color: blue;\n  }\n}\n"
	out := rework(t, css.Parse, src, model.FileTypeSCSS, model.DefaultOptions())

	want := ".card {\n  margin: 4px;\n  padding: 8px;\n  .title {\n    color: blue;\n    font-weight: bold;\n  }\n}\n"
	assert.Equal(t, want, out)
}

func TestSASSIndentationSyntax(t *testing.T) {
	src := "nav\n  z-index: 1\n  color: red\n"
	out := rework(t, css.Parse, src, model.FileTypeSASS, model.DefaultOptions())

	want := "nav\n  color: red\n  z-index: 1\n"
	assert.Equal(t, want, out)
}

func TestGoPreserveTagGroups(t *testing.T) {
	src := "type Account struct {\n\tID   int    `db:\"id\" json:\"id\"`\n\tName string `json:\"name\" xml:\"name\"`\n\tAge  int    `db:\"age\" json:\"age\"`\n\tBio  string `json:\"bio\" xml:\"bio\"`\n}\n"
	opts := model.DefaultOptions()
	opts.SortStructFields = model.StructFieldsPreserveTags
	out := rework(t, golang.Parse, src, model.FileTypeGo, opts)

	want := "type Account struct {\n\tAge  int    `db:\"age\" json:\"age\"`\n\tID   int    `db:\"id\" json:\"id\"`\n\tBio  string `json:\"bio\" xml:\"bio\"`\n\tName string `json:\"name\" xml:\"name\"`\n}\n"
	assert.Equal(t, want, out)
}

func TestGoFieldCommentsVerbatim(t *testing.T) {
	src := "type T struct {\n\t// B doc\n\tB int // tail\n\tA int\n}\n"
	out := rework(t, golang.Parse, src, model.FileTypeGo, model.DefaultOptions())

	want := "type T struct {\n\tA int\n\t// B doc\n\tB int // tail\n}\n"
	assert.Equal(t, want, out)
}

func TestJSONCustomKeyOrder(t *testing.T) {
	src := "{\n  \"description\": \"x\",\n  \"name\": \"demo\",\n  \"version\": \"1.0.0\",\n  \"author\": \"me\"\n}\n"
	opts := model.DefaultOptions()
	opts.CustomKeyOrder = []string{"version", "name"}
	out := rework(t, jsonc.Parse, src, model.FileTypeJSON, opts)

	want := "{\n  \"version\": \"1.0.0\",\n  \"name\": \"demo\",\n  \"author\": \"me\",\n  \"description\": \"x\"\n}\n"
	assert.Equal(t, want, out)
}

func TestJSONNumericKeysSortNumerically(t *testing.T) {
	src := "{\n  \"10\": 1,\n  \"2\": 2,\n  \"alpha\": 3\n}\n"
	out := rework(t, jsonc.Parse, src, model.FileTypeJSON, model.DefaultOptions())

	want := "{\n  \"2\": 2,\n  \"10\": 1,\n  \"alpha\": 3\n}\n"
	assert.Equal(t, want, out)
}

func TestJSONCCommentDiscipline(t *testing.T) {
	src := "{\n  // beta\n  \"b\": 1, // inline\n  \"a\": 2\n}\n"
	out := rework(t, jsonc.Parse, src, model.FileTypeJSONC, model.DefaultOptions())

	want := "{\n  \"a\": 2,\n  // beta\n  \"b\": 1 // inline\n}\n"
	assert.Equal(t, want, out)
}

func TestJSONNestedSingleLineStaysInline(t *testing.T) {
	src := "{\n  \"z\": { \"b\": 1, \"a\": 2 },\n  \"m\": 3\n}\n"
	out := rework(t, jsonc.Parse, src, model.FileTypeJSON, model.DefaultOptions())

	want := "{\n  \"m\": 3,\n  \"z\": { \"a\": 2, \"b\": 1 }\n}\n"
	assert.Equal(t, want, out)
}

func TestMinifiedJSONRootStaysInline(t *testing.T) {
	src := "{\"b\":1,\"a\":2}"
	out := rework(t, jsonc.Parse, src, model.FileTypeJSON, model.DefaultOptions())

	assert.Equal(t, "{ \"a\":2, \"b\":1 }", out)
}

func TestYAMLBlocksPermute(t *testing.T) {
	src := "# servers\nweb:\n  port: 8080\n  host: a\napi:\n  host: b\n  port: 1\n"
	out := rework(t, yamldoc.Parse, src, model.FileTypeYAML, model.DefaultOptions())

	want := "api:\n  host: b\n  port: 1\n# servers\nweb:\n  host: a\n  port: 8080\n"
	assert.Equal(t, want, out)

	// Reordering is a permutation of the document's own lines.
	gotLines := strings.Split(out, "\n")
	wantLines := strings.Split(src, "\n")
	sort.Strings(gotLines)
	sort.Strings(wantLines)
	assert.Equal(t, wantLines, gotLines)
}

func TestYAMLLastLineWithoutTerminator(t *testing.T) {
	src := "b: 1\na: 2"
	out := rework(t, yamldoc.Parse, src, model.FileTypeYAML, model.DefaultOptions())

	assert.Equal(t, "a: 2\nb: 1", out)
}

func TestCRLFPreserved(t *testing.T) {
	src := ".a {\r\n  b: y;\r\n  a: x;\r\n}\r\n"
	out := rework(t, css.Parse, src, model.FileTypeCSS, model.DefaultOptions())

	assert.Equal(t, ".a {\r\n  a: x;\r\n  b: y;\r\n}\r\n", out)
}

func TestReindentOption(t *testing.T) {
	src := ".a {\n b: y;\n a: x;\n}\n"
	opts := model.DefaultOptions()
	opts.IndentationType = model.IndentSpaces
	opts.IndentationSize = 4
	out := rework(t, css.Parse, src, model.FileTypeCSS, opts)

	assert.Equal(t, ".a {\n    a: x;\n    b: y;\n}\n", out)
}

func TestReindentFromSourceWhenNotPreserving(t *testing.T) {
	src := ".a {\n   b: y;\n  a: x;\n}\n"
	opts := model.DefaultOptions()
	opts.PreserveFormatting = false
	out := rework(t, css.Parse, src, model.FileTypeCSS, opts)

	// smallest indent run in the source is two spaces
	assert.Equal(t, ".a {\n  a: x;\n  b: y;\n}\n", out)
}

func TestYAMLForcedLineEnding(t *testing.T) {
	src := "b: 1\na: 2\nc: 3\n"
	opts := model.DefaultOptions()
	opts.LineEnding = model.LineEndingCRLF
	out := rework(t, yamldoc.Parse, src, model.FileTypeYAML, opts)

	// interior terminators follow the forced ending; the final one belongs
	// to the surrounding file and keeps its original bytes
	assert.Equal(t, "a: 2\r\nb: 1\r\nc: 3\n", out)
}

func TestCommentsDroppedWhenExcluded(t *testing.T) {
	src := ".a {\n  /* b */\n  b: y;\n  a: x;\n}\n"
	opts := model.DefaultOptions()
	opts.IncludeComments = false
	out := rework(t, css.Parse, src, model.FileTypeCSS, opts)

	assert.Equal(t, ".a {\n  a: x;\n  b: y;\n}\n", out)
}

func TestReworkIsIdempotent(t *testing.T) {
	src := ".b {\n  b: y;\n  a: x;\n}\n\n.a {\n  color: red;\n  background: blue;\n}\n"
	first := rework(t, css.Parse, src, model.FileTypeCSS, model.DefaultOptions())
	second := rework(t, css.Parse, first, model.FileTypeCSS, model.DefaultOptions())
	assert.Equal(t, first, second)
}

func shuffled() []model.ParsedProperty {
	return []model.ParsedProperty{
		{Name: "b", Seq: 1},
		{Name: "a", Seq: 0},
	}
}

type errRenderer struct{}

func (errRenderer) Render(*model.ParsedEntity) (string, error) {
	return "", errors.New("boom")
}

type panicRenderer struct{}

func (panicRenderer) Render(*model.ParsedEntity) (string, error) {
	panic("kaboom")
}

type textRenderer struct{ text string }

func (r textRenderer) Render(*model.ParsedEntity) (string, error) {
	return r.text, nil
}
