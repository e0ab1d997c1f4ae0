package sorting

import (
	"strconv"
	"strings"

	"propsort/internal/model"
)

// cssPipeline assembles the strategy for rule bodies. Nested rules always
// follow the direct declarations and keep their source order; grouping
// levels apply to declarations. GroupByCategory replaces the trailing
// alphabetical pass with bucket order.
func cssPipeline(opts model.Options) Strategy {
	p := &pipeline{
		name:   "css-declarations",
		byName: !opts.GroupByCategory,
		cmp:    NewComparator(opts),
	}
	p.levels = append(p.levels, nestedRulesLast)
	if len(opts.CustomOrder) > 0 {
		p.levels = append(p.levels, customOrderLevel(opts.CustomOrder))
	}
	if opts.GroupVariables {
		p.levels = append(p.levels, variablesLevel)
	}
	if opts.SortByImportance {
		p.levels = append(p.levels, importanceLevel)
	}
	if opts.GroupVendorPrefixes {
		p.levels = append(p.levels, vendorLevel)
	}
	if opts.GroupByCategory {
		p.levels = append(p.levels, categoryLevel)
	}
	return p
}

// keyframePipeline orders keyframe steps by their numeric offset.
func keyframePipeline(opts model.Options) Strategy {
	return &pipeline{
		name:   "keyframe-offset",
		levels: []levelFunc{keyframeOffsetLevel},
		byName: true,
		cmp:    NewComparator(opts),
	}
}

// nestedRulesLast keeps nested rules after the declarations of their parent
// rule, in source order.
func nestedRulesLast(p model.ParsedProperty) levelKey {
	if p.IsNestedRule {
		return levelKey{Rank: 1, Terminal: true}
	}
	return levelKey{Rank: 0}
}

// variablesLevel moves custom properties to the front without reordering
// them relative to each other.
func variablesLevel(p model.ParsedProperty) levelKey {
	if strings.HasPrefix(p.Name, "--") {
		return levelKey{Rank: 0, Terminal: true}
	}
	return levelKey{Rank: 1}
}

// importanceLevel puts !important declarations ahead of normal ones.
func importanceLevel(p model.ParsedProperty) levelKey {
	if p.Important {
		return levelKey{Rank: 0}
	}
	return levelKey{Rank: 1}
}

// Canonical vendor prefix order. Unlisted prefixes follow, unprefixed
// properties come last.
var vendorRank = map[string]int{
	"-webkit-": 0,
	"-moz-":    1,
	"-ms-":     2,
	"-o-":      3,
}

func vendorLevel(p model.ParsedProperty) levelKey {
	if p.VendorPrefix == "" {
		return levelKey{Rank: 5}
	}
	if r, ok := vendorRank[p.VendorPrefix]; ok {
		return levelKey{Rank: r}
	}
	return levelKey{Rank: 4}
}

// Category buckets in emission order. Properties not listed in any bucket
// fall to the trailing uncategorized bucket; source order is kept inside
// every bucket.
const uncategorizedBucket = 11

var categoryExact = map[string]int{
	"position": 0, "top": 0, "right": 0, "bottom": 0, "left": 0, "inset": 0,
	"display": 1, "visibility": 1, "overflow": 1, "float": 1, "clear": 1, "box-sizing": 1,
	"flex": 2, "justify-content": 2, "justify-items": 2, "justify-self": 2,
	"align-content": 2, "align-items": 2, "align-self": 2, "order": 2,
	"gap": 2, "row-gap": 2, "column-gap": 2,
	"grid": 3, "place-items": 3, "place-content": 3, "place-self": 3,
	"width": 4, "height": 4, "min-width": 4, "min-height": 4,
	"max-width": 4, "max-height": 4, "margin": 4, "padding": 4,
	"border": 5, "outline": 5,
	"background": 6,
	"color":      7, "font": 7, "line-height": 7, "letter-spacing": 7,
	"word-spacing": 7, "white-space": 7, "word-break": 7, "word-wrap": 7,
	"animation":  8,
	"transition": 9,
	"transform":  10, "translate": 10, "rotate": 10, "scale": 10, "perspective": 10,
}

var categoryPrefix = []struct {
	prefix string
	bucket int
}{
	{"inset-", 0},
	{"overflow-", 1},
	{"flex-", 2},
	{"grid-", 3},
	{"margin-", 4},
	{"padding-", 4},
	{"border-", 5},
	{"outline-", 5},
	{"background-", 6},
	{"font-", 7},
	{"text-", 7},
	{"animation-", 8},
	{"transition-", 9},
	{"transform-", 10},
}

func categoryBucket(name string) int {
	name = strings.ToLower(stripVendorPrefix(name))
	if b, ok := categoryExact[name]; ok {
		return b
	}
	for _, cp := range categoryPrefix {
		if strings.HasPrefix(name, cp.prefix) {
			return cp.bucket
		}
	}
	return uncategorizedBucket
}

func categoryLevel(p model.ParsedProperty) levelKey {
	return levelKey{Rank: categoryBucket(p.Name), Terminal: true}
}

func stripVendorPrefix(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	if i := strings.Index(name[1:], "-"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// keyframeOffsetLevel ranks keyframe selectors by percentage: from is 0,
// to is 100, multi-selector steps rank by their first offset. Selectors
// that do not parse rank last and fall through to the name pass.
func keyframeOffsetLevel(p model.ParsedProperty) levelKey {
	sel := strings.TrimSpace(p.Name)
	if i := strings.IndexByte(sel, ','); i >= 0 {
		sel = strings.TrimSpace(sel[:i])
	}
	pct, ok := keyframeOffset(sel)
	if !ok {
		return levelKey{Rank: 1 << 30}
	}
	return levelKey{Rank: int(pct * 1000)}
}

func keyframeOffset(sel string) (float64, bool) {
	switch strings.ToLower(sel) {
	case "from":
		return 0, true
	case "to":
		return 100, true
	}
	s := strings.TrimSuffix(sel, "%")
	if s == sel {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
