package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propsort/internal/model"
)

func props(names ...string) []model.ParsedProperty {
	out := make([]model.ParsedProperty, len(names))
	for i, n := range names {
		out[i] = model.ParsedProperty{Name: n}
	}
	return out
}

func names(ps []model.ParsedProperty) []string {
	out := make([]string, len(ps))
	for i := range ps {
		out[i] = ps[i].Name
	}
	return out
}

func TestComparatorNumericNamesFirst(t *testing.T) {
	c := NewComparator(model.DefaultOptions())

	assert.True(t, c.Less("2", "10"))
	assert.True(t, c.Less("10", "alpha"))
	assert.True(t, c.Less("'3'", "\"20\""))
	assert.True(t, c.Less("1.5", "2"))
	assert.False(t, c.Less("beta", "100"))
}

func TestComparatorDescendingMirrors(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortOrder = model.SortDesc
	c := NewComparator(opts)

	assert.True(t, c.Less("beta", "alpha"))
	assert.True(t, c.Less("alpha", "10"))
	assert.True(t, c.Less("10", "2"))
}

func TestComparatorCaseSensitivity(t *testing.T) {
	insensitive := NewComparator(model.DefaultOptions())
	assert.True(t, insensitive.Less("apple", "Banana"))

	opts := model.DefaultOptions()
	opts.CaseSensitive = true
	sensitive := NewComparator(opts)
	assert.True(t, sensitive.Less("Banana", "apple"))
}

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"item2", "item10", -1},
		{"item10", "item2", 1},
		{"item2", "item2", 0},
		{"a1b2", "a1b10", -1},
		{"file", "file1", -1},
		{"01", "1", 1}, // same value, fewer leading zeros first
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, naturalCompare(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestAlphabeticalDefault(t *testing.T) {
	entity := &model.ParsedEntity{
		Type:       model.EntityInterface,
		Properties: props("zeta", "Alpha", "beta"),
	}
	Apply(entity, model.DefaultOptions())
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names(entity.Properties))
}

func TestCustomOrderThenAlphabetical(t *testing.T) {
	opts := model.DefaultOptions()
	opts.CustomOrder = []string{"id", "name"}

	entity := &model.ParsedEntity{
		Type:       model.EntityInterface,
		Properties: props("email", "name", "age", "id"),
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"id", "name", "age", "email"}, names(entity.Properties))
}

func TestPrioritizeRequired(t *testing.T) {
	opts := model.DefaultOptions()
	opts.PrioritizeRequired = true

	entity := &model.ParsedEntity{
		Type: model.EntityInterface,
		Properties: []model.ParsedProperty{
			{Name: "zebra", Optional: true},
			{Name: "mango"},
			{Name: "apple", Optional: true},
			{Name: "cherry"},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"cherry", "mango", "apple", "zebra"}, names(entity.Properties))
}

func TestGroupByMemberKind(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupByType = true

	entity := &model.ParsedEntity{
		Type: model.EntityInterface,
		Properties: []model.ParsedProperty{
			{Name: "plain"},
			{Name: "zGetter", MemberKind: model.MemberGetter},
			{Name: "doWork", MemberKind: model.MemberMethod},
			{Name: "aSetter", MemberKind: model.MemberSetter},
			{Name: "aGetter", MemberKind: model.MemberGetter},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"doWork", "aSetter", "aGetter", "zGetter", "plain"}, names(entity.Properties))
}

func TestSpreadPinnedAtIndex(t *testing.T) {
	entity := &model.ParsedEntity{
		Type: model.EntityObject,
		Properties: []model.ParsedProperty{
			{Name: "zeta"},
			{Name: "...defaults", IsSpread: true},
			{Name: "alpha"},
		},
	}
	Apply(entity, model.DefaultOptions())
	require.Len(t, entity.Properties, 3)
	assert.Equal(t, "alpha", entity.Properties[0].Name)
	assert.Equal(t, "...defaults", entity.Properties[1].Name)
	assert.Equal(t, "zeta", entity.Properties[2].Name)
}

func TestSpreadPinnedUnderDescending(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortOrder = model.SortDesc

	entity := &model.ParsedEntity{
		Type: model.EntityObject,
		Properties: []model.ParsedProperty{
			{Name: "alpha"},
			{Name: "...rest", IsSpread: true},
			{Name: "zeta"},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"zeta", "...rest", "alpha"}, names(entity.Properties))
}

func TestChainedCallsPinnedWhenConfigured(t *testing.T) {
	opts := model.DefaultOptions()
	opts.PreserveMethodChaining = true

	entity := &model.ParsedEntity{
		Type: model.EntityObject,
		Properties: []model.ParsedProperty{
			{Name: "zQuery", IsChained: true},
			{Name: "beta"},
			{Name: "aQuery", IsChained: true},
			{Name: "alpha"},
		},
	}
	Apply(entity, opts)
	// chained members keep index 0 and 2; the rest sort around them
	assert.Equal(t, []string{"zQuery", "alpha", "aQuery", "beta"}, names(entity.Properties))

	opts.PreserveMethodChaining = false
	entity.Properties = []model.ParsedProperty{
		{Name: "zQuery", IsChained: true},
		{Name: "beta"},
		{Name: "aQuery", IsChained: true},
		{Name: "alpha"},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"alpha", "aQuery", "beta", "zQuery"}, names(entity.Properties))
}

func TestCSSCategoryBuckets(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupByCategory = true

	entity := &model.ParsedEntity{
		Type:       model.EntityCSSRule,
		Properties: props("z-index", "color"),
	}
	Apply(entity, opts)
	// color is a typography-bucket property; z-index is uncategorized
	assert.Equal(t, []string{"color", "z-index"}, names(entity.Properties))
}

func TestCSSCategoryKeepsSourceOrderWithinBucket(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupByCategory = true

	entity := &model.ParsedEntity{
		Type:       model.EntityCSSRule,
		Properties: props("text-align", "font-size", "color", "position", "top"),
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"position", "top", "text-align", "font-size", "color"}, names(entity.Properties))
}

func TestCSSVendorPrefixGroups(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupVendorPrefixes = true

	entity := &model.ParsedEntity{
		Type: model.EntityCSSRule,
		Properties: []model.ParsedProperty{
			{Name: "transform"},
			{Name: "-o-transform", VendorPrefix: "-o-"},
			{Name: "-khtml-opacity", VendorPrefix: "-khtml-"},
			{Name: "-moz-transform", VendorPrefix: "-moz-"},
			{Name: "-webkit-transform", VendorPrefix: "-webkit-"},
			{Name: "-ms-transform", VendorPrefix: "-ms-"},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{
		"-webkit-transform", "-moz-transform", "-ms-transform",
		"-o-transform", "-khtml-opacity", "transform",
	}, names(entity.Properties))
}

func TestCSSVariablesMoveToFrontUntouched(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupVariables = true

	entity := &model.ParsedEntity{
		Type:       model.EntityCSSRule,
		Properties: props("color", "--zeta", "background", "--alpha"),
	}
	Apply(entity, opts)
	// custom properties keep their relative order at the front
	assert.Equal(t, []string{"--zeta", "--alpha", "background", "color"}, names(entity.Properties))
}

func TestCSSImportanceFirst(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortByImportance = true

	entity := &model.ParsedEntity{
		Type: model.EntityCSSRule,
		Properties: []model.ParsedProperty{
			{Name: "color"},
			{Name: "z-index", Important: true},
			{Name: "background", Important: true},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"background", "z-index", "color"}, names(entity.Properties))
}

func TestCSSNestedRulesStayAfterDeclarations(t *testing.T) {
	entity := &model.ParsedEntity{
		Type: model.EntityCSSRule,
		Properties: []model.ParsedProperty{
			{Name: "&:hover", IsNestedRule: true},
			{Name: "z-index"},
			{Name: "&:active", IsNestedRule: true},
			{Name: "color"},
		},
	}
	Apply(entity, model.DefaultOptions())
	assert.Equal(t, []string{"color", "z-index", "&:hover", "&:active"}, names(entity.Properties))
}

func TestKeyframeStepsOrderedByOffset(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortKeyframes = true

	entity := &model.ParsedEntity{
		Type: model.EntityCSSKeyframe,
		Properties: []model.ParsedProperty{
			{Name: "to", IsNestedRule: true},
			{Name: "50%", IsNestedRule: true},
			{Name: "from", IsNestedRule: true},
			{Name: "12.5%", IsNestedRule: true},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"from", "12.5%", "50%", "to"}, names(entity.Properties))
}

func TestStructFieldsBySize(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortStructFields = model.StructFieldsBySize

	entity := &model.ParsedEntity{
		Type: model.EntityStruct,
		Properties: []model.ParsedProperty{
			{Name: "Names", Value: "[]string"},
			{Name: "Active", Value: "bool"},
			{Name: "Config", Value: "CustomConfig"},
			{Name: "Label", Value: "string"},
			{Name: "Count", Value: "int32"},
			{Name: "Ptr", Value: "*Node"},
			{Name: "Pair", Value: "[2]int32"},
		},
	}
	Apply(entity, opts)
	// 1, 4, 8, 8 (array 2x4), 16, 24, then the unknown custom type
	assert.Equal(t, []string{"Active", "Count", "Pair", "Ptr", "Label", "Names", "Config"}, names(entity.Properties))
}

func TestStructFieldsBySizeTiesAlphabetical(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortStructFields = model.StructFieldsBySize

	entity := &model.ParsedEntity{
		Type: model.EntityStruct,
		Properties: []model.ParsedProperty{
			{Name: "Zulu", Value: "int64"},
			{Name: "Alpha", Value: "float64"},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"Alpha", "Zulu"}, names(entity.Properties))
}

func TestStructFieldsPreserveTagGroups(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortStructFields = model.StructFieldsPreserveTags

	entity := &model.ParsedEntity{
		Type: model.EntityStruct,
		Properties: []model.ParsedProperty{
			{Name: "Zed", Value: "string", StructTags: `json:"x" db:"y"`},
			{Name: "Mode", Value: "string"},
			{Name: "Alpha", Value: "string", StructTags: `json:"a" xml:"b"`},
			{Name: "Beta", Value: "string", StructTags: `db:"b" json:"c"`},
		},
	}
	Apply(entity, opts)
	// group "db+json" before "json+xml", untagged last, alphabetical inside
	assert.Equal(t, []string{"Beta", "Zed", "Alpha", "Mode"}, names(entity.Properties))
}

func TestGroupEmbeddedAndVisibility(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupEmbeddedFields = true
	opts.GroupByVisibility = true

	entity := &model.ParsedEntity{
		Type: model.EntityStruct,
		Properties: []model.ParsedProperty{
			{Name: "count", Value: "int"},
			{Name: "io.Reader", Value: "io.Reader", IsEmbedded: true},
			{Name: "Label", Value: "string"},
			{Name: "mu", Value: "sync.Mutex"},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"io.Reader", "Label", "count", "mu"}, names(entity.Properties))
}

func TestTagSignature(t *testing.T) {
	assert.Equal(t, "db+json", TagSignature(`json:"x" db:"y"`))
	assert.Equal(t, "json", TagSignature(`json:"a,omitempty"`))
	assert.Equal(t, "", TagSignature(""))
	assert.Equal(t, "validate+yaml", TagSignature(`yaml:"n" validate:"required"`))
}

func TestJSONCustomKeyOrder(t *testing.T) {
	opts := model.DefaultOptions()
	opts.CustomKeyOrder = []string{"version", "name"}

	entity := &model.ParsedEntity{
		Type:       model.EntityJSONObject,
		Properties: props("scripts", "name", "dependencies", "version", "author"),
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"version", "name", "author", "dependencies", "scripts"}, names(entity.Properties))
}

func TestJSONSchemaBuckets(t *testing.T) {
	opts := model.DefaultOptions()
	opts.GroupBySchema = true

	entity := &model.ParsedEntity{
		Type: model.EntityJSONObject,
		Properties: []model.ParsedProperty{
			{Name: "custom"},
			{Name: "settings", HasNestedObject: true},
			{Name: "required"},
			{Name: "default"},
			{Name: "$schema"},
			{Name: "title"},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"$schema", "title", "required", "default", "settings", "custom"}, names(entity.Properties))
}

func TestArrayOrderPreservedByDefault(t *testing.T) {
	entity := &model.ParsedEntity{
		Type:       model.EntityJSONArray,
		Properties: props("0", "1", "2"),
	}
	entity.Properties[0].Value = "zebra"
	entity.Properties[1].Value = "apple"
	entity.Properties[2].Value = "mango"

	Apply(entity, model.DefaultOptions())
	assert.Equal(t, []string{"zebra", "apple", "mango"}, []string{
		entity.Properties[0].Value, entity.Properties[1].Value, entity.Properties[2].Value,
	})
}

func TestArraySortsByValueWhenAllowed(t *testing.T) {
	opts := model.DefaultOptions()
	opts.PreserveArrayOrder = false

	entity := &model.ParsedEntity{
		Type: model.EntityJSONArray,
		Properties: []model.ParsedProperty{
			{Name: "0", Value: `"zebra"`},
			{Name: "1", Value: "10"},
			{Name: "2", Value: "2"},
			{Name: "3", Value: `"apple"`},
		},
	}
	Apply(entity, opts)
	values := make([]string, len(entity.Properties))
	for i := range entity.Properties {
		values[i] = entity.Properties[i].Value
	}
	assert.Equal(t, []string{"2", "10", `"apple"`, `"zebra"`}, values)
}

func TestNestedObjectsSortedRecursively(t *testing.T) {
	entity := &model.ParsedEntity{
		Type: model.EntityObject,
		Properties: []model.ParsedProperty{
			{
				Name:            "outerB",
				HasNestedObject: true,
				NestedProperties: []model.ParsedProperty{
					{Name: "zInner"},
					{Name: "aInner"},
				},
			},
			{Name: "outerA"},
		},
	}
	Apply(entity, model.DefaultOptions())
	assert.Equal(t, []string{"outerA", "outerB"}, names(entity.Properties))
	assert.Equal(t, []string{"aInner", "zInner"}, names(entity.Properties[1].NestedProperties))
}

func TestNestedRecursionDisabled(t *testing.T) {
	opts := model.DefaultOptions()
	opts.SortNestedObjects = false

	entity := &model.ParsedEntity{
		Type: model.EntityObject,
		Properties: []model.ParsedProperty{
			{
				Name:            "outer",
				HasNestedObject: true,
				NestedProperties: []model.ParsedProperty{
					{Name: "zInner"},
					{Name: "aInner"},
				},
			},
		},
	}
	Apply(entity, opts)
	assert.Equal(t, []string{"zInner", "aInner"}, names(entity.Properties[0].NestedProperties))
}

func TestNestedArrayElementsKeepOrderUnderRecursion(t *testing.T) {
	entity := &model.ParsedEntity{
		Type: model.EntityJSONObject,
		Properties: []model.ParsedProperty{
			{
				Name:            "list",
				HasNestedObject: true,
				NestedIsArray:   true,
				NestedProperties: []model.ParsedProperty{
					{Name: "0", Value: "z"},
					{Name: "1", Value: "a"},
				},
			},
		},
	}
	opts := model.DefaultOptions()
	opts.SortOrder = model.SortDesc
	Apply(entity, opts)
	nested := entity.Properties[0].NestedProperties
	assert.Equal(t, "z", nested[0].Value)
	assert.Equal(t, "a", nested[1].Value)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := props("zeta", "alpha")
	s := tsPipeline(model.DefaultOptions())
	out := s.Sort(in)

	assert.Equal(t, []string{"zeta", "alpha"}, names(in))
	assert.Equal(t, []string{"alpha", "zeta"}, names(out))
}

func TestTypeSizeTable(t *testing.T) {
	tests := []struct {
		typ  string
		want int
	}{
		{"bool", 1},
		{"int32", 4},
		{"*User", 8},
		{"map[string]int", 8},
		{"chan int", 8},
		{"func(int) error", 8},
		{"string", 16},
		{"[]byte", 24},
		{"[4]int32", 16},
		{"[2][2]int64", 32},
		{"time.Time", 1000 + len("time.Time")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, typeSize(tt.typ), tt.typ)
	}
}

func TestKeyframeOffsets(t *testing.T) {
	tests := []struct {
		sel  string
		want float64
		ok   bool
	}{
		{"from", 0, true},
		{"to", 100, true},
		{"50%", 50, true},
		{"12.5%", 12.5, true},
		{"oops", 0, false},
	}
	for _, tt := range tests {
		got, ok := keyframeOffset(tt.sel)
		assert.Equal(t, tt.ok, ok, tt.sel)
		if ok {
			assert.Equal(t, tt.want, got, tt.sel)
		}
	}
}
