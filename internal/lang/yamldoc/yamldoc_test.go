package yamldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propsort/internal/model"
)

func TestParseMapping(t *testing.T) {
	src := `name: demo
version: 1.0.0
private: true
`
	res := Parse(src, model.FileTypeYAML)

	require.Empty(t, res.Errors)
	require.Len(t, res.Entities, 1)
	ent := res.Entities[0]
	assert.Equal(t, model.EntityYAMLObject, ent.Type)
	assert.Equal(t, "document", ent.Name)
	assert.Equal(t, 1, ent.StartLine)
	assert.Equal(t, 3, ent.EndLine)
	assert.Equal(t, src, ent.OriginalText)

	require.Len(t, ent.Properties, 3)
	assert.Equal(t, "name", ent.Properties[0].Name)
	assert.Equal(t, "demo", ent.Properties[0].Value)
	assert.Equal(t, "name: demo\n", ent.Properties[0].FullText)
	assert.Equal(t, 1, ent.Properties[0].Line)
	assert.Equal(t, "version", ent.Properties[1].Name)
	assert.Equal(t, "private", ent.Properties[2].Name)
}

// Property blocks partition the entity: concatenating them in source order
// reproduces the original text exactly. Reordering is then a permutation of
// the document's own lines.
func TestBlocksPartitionDocument(t *testing.T) {
	src := `# header comment

# about replicas
replicas: 3
image: nginx # pinned

# resources block
resources:
  limits:
    cpu: 100m
  requests:
    cpu: 50m

# trailing note on requests
storage: 10Gi
`
	res := Parse(src, model.FileTypeYAML)

	require.Empty(t, res.Errors)
	require.Len(t, res.Entities, 1)
	ent := res.Entities[0]

	var joined strings.Builder
	for _, p := range ent.Properties {
		joined.WriteString(p.FullText)
	}
	assert.Equal(t, ent.OriginalText, joined.String())
}

func TestHeadCommentTravelsWithKey(t *testing.T) {
	src := `# file header

# about b
b: 1
a: 2
`
	res := Parse(src, model.FileTypeYAML)

	require.Len(t, res.Entities, 1)
	ent := res.Entities[0]
	// The file header is separated by a blank line and stays outside the
	// entity, pinned in place.
	assert.Equal(t, 3, ent.StartLine)
	assert.Equal(t, 5, ent.EndLine)

	require.Len(t, ent.Properties, 2)
	b := ent.Properties[0]
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, "# about b\nb: 1\n", b.FullText)
	require.Len(t, b.Comments, 1)
	assert.Equal(t, "about b", b.Comments[0].Text)
	assert.Equal(t, "# about b", b.Comments[0].Raw)
	assert.Equal(t, 3, b.Comments[0].Line)

	a := ent.Properties[1]
	assert.Equal(t, "a: 2\n", a.FullText)
	assert.Empty(t, a.Comments)
}

func TestFootCommentStaysWithPrecedingBlock(t *testing.T) {
	src := `b: 1
# belongs to b

a: 2
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	require.Len(t, ent.Properties, 2)
	assert.Equal(t, "b: 1\n# belongs to b\n\n", ent.Properties[0].FullText)
	assert.Equal(t, "a: 2\n", ent.Properties[1].FullText)
	assert.Empty(t, ent.Properties[1].Comments)
}

func TestInlineComment(t *testing.T) {
	src := `key: value # note
other: 1
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	key := ent.Properties[0]
	require.Len(t, key.TrailingComments, 1)
	assert.Equal(t, "note", key.TrailingComments[0].Text)
	assert.Equal(t, "# note", key.TrailingComments[0].Raw)
	assert.Equal(t, 1, key.TrailingComments[0].Line)
}

func TestNestedMapping(t *testing.T) {
	src := `server:
  # port comment
  port: 8080
  host: localhost
logging:
  level: info
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	require.Len(t, ent.Properties, 2)

	server := ent.Properties[0]
	assert.True(t, server.HasNestedObject)
	assert.False(t, server.NestedIsArray)
	assert.Equal(t, "server:\n", server.Value)
	require.Len(t, server.NestedProperties, 2)

	port := server.NestedProperties[0]
	assert.Equal(t, "port", port.Name)
	assert.Equal(t, "8080", port.Value)
	assert.Equal(t, "  # port comment\n  port: 8080\n", port.FullText)
	require.Len(t, port.Comments, 1)
	assert.Equal(t, "port comment", port.Comments[0].Text)

	host := server.NestedProperties[1]
	assert.Equal(t, "  host: localhost\n", host.FullText)

	// Head plus child blocks reproduce the parent block.
	assert.Equal(t, server.FullText, server.Value+port.FullText+host.FullText)
}

func TestNestedSequence(t *testing.T) {
	src := `deps:
  - zlib
  - abc
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	deps := ent.Properties[0]
	assert.True(t, deps.HasNestedObject)
	assert.True(t, deps.NestedIsArray)
	assert.Equal(t, "deps:\n", deps.Value)
	require.Len(t, deps.NestedProperties, 2)
	assert.Equal(t, "0", deps.NestedProperties[0].Name)
	assert.Equal(t, "zlib", deps.NestedProperties[0].Value)
	assert.Equal(t, "  - zlib\n", deps.NestedProperties[0].FullText)
	assert.Equal(t, "1", deps.NestedProperties[1].Name)
}

func TestTopLevelSequence(t *testing.T) {
	src := `- beta
- alpha
`
	res := Parse(src, model.FileTypeYAML)

	require.Len(t, res.Entities, 1)
	ent := res.Entities[0]
	assert.Equal(t, model.EntityYAMLArray, ent.Type)
	require.Len(t, ent.Properties, 2)
	assert.Equal(t, "0", ent.Properties[0].Name)
	assert.Equal(t, "beta", ent.Properties[0].Value)
	assert.Equal(t, "1", ent.Properties[1].Name)
}

// Mapping elements written inline after the dash share its line with their
// first key, so the element stays atomic instead of exposing children whose
// reorder would strand the dash.
func TestInlineMappingElementStaysAtomic(t *testing.T) {
	src := `- name: b
  age: 1
- name: a
  age: 2
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	require.Len(t, ent.Properties, 2)
	assert.Empty(t, ent.Properties[0].NestedProperties)
	assert.Equal(t, "- name: b\n  age: 1\n", ent.Properties[0].FullText)
	assert.Equal(t, "- name: a\n  age: 2\n", ent.Properties[1].FullText)
}

func TestOwnLineDashElementRecurses(t *testing.T) {
	src := `-
  name: b
  age: 1
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	require.Len(t, ent.Properties, 1)
	el := ent.Properties[0]
	assert.Equal(t, "-\n", el.Value)
	require.Len(t, el.NestedProperties, 2)
	assert.Equal(t, "name", el.NestedProperties[0].Name)
	assert.Equal(t, "age", el.NestedProperties[1].Name)
}

func TestMultiDocument(t *testing.T) {
	src := `b: 1
a: 2
---
d: 1
c: 2
`
	res := Parse(src, model.FileTypeYAML)

	require.Len(t, res.Entities, 2)
	first, second := res.Entities[0], res.Entities[1]
	assert.Equal(t, "document-1", first.Name)
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 2, first.EndLine)
	assert.Equal(t, "document-2", second.Name)
	assert.Equal(t, 4, second.StartLine)
	assert.Equal(t, 5, second.EndLine)
	assert.Equal(t, "d", second.Properties[0].Name)
}

// A "#" line inside a block scalar is content, not a comment. The
// indentation rule keeps it out of the following key's comment run.
func TestBlockScalarContentNotStolen(t *testing.T) {
	src := `script: |
  # not a comment
  echo hi
after: 1
`
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	require.Len(t, ent.Properties, 2)
	script := ent.Properties[0]
	assert.Equal(t, "script: |\n  # not a comment\n  echo hi\n", script.FullText)
	after := ent.Properties[1]
	assert.Empty(t, after.Comments)
	assert.Equal(t, "after: 1\n", after.FullText)
}

func TestFlowRootSkipped(t *testing.T) {
	res := Parse("{a: 1, b: 2}\n", model.FileTypeYAML)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Entities)
}

func TestScalarDocumentSkipped(t *testing.T) {
	res := Parse("just a string\n", model.FileTypeYAML)
	assert.Empty(t, res.Entities)
}

func TestEmptySource(t *testing.T) {
	res := Parse("", model.FileTypeYAML)
	assert.Empty(t, res.Entities)
	assert.Empty(t, res.Errors)
}

func TestParseError(t *testing.T) {
	res := Parse("a: [1, 2\n", model.FileTypeYAML)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "Parse error:")
	assert.Empty(t, res.Entities)
}

func TestTrailingBlankLinesOutsideEntity(t *testing.T) {
	src := "b: 1\na: 2\n\n"
	res := Parse(src, model.FileTypeYAML)

	ent := res.Entities[0]
	assert.Equal(t, 2, ent.EndLine)
	assert.Equal(t, "a: 2\n", ent.Properties[1].FullText)
}
