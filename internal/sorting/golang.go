package sorting

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"propsort/internal/model"
)

// goPipeline assembles the strategy for struct fields. Embedded and
// visibility grouping apply before the configured field mode; alphabetical
// order breaks all remaining ties.
func goPipeline(opts model.Options) Strategy {
	p := &pipeline{
		name:   "struct-fields",
		byName: true,
		cmp:    NewComparator(opts),
	}
	if len(opts.CustomOrder) > 0 {
		p.levels = append(p.levels, customOrderLevel(opts.CustomOrder))
	}
	if opts.GroupEmbeddedFields {
		p.levels = append(p.levels, embeddedLevel)
	}
	if opts.GroupByVisibility {
		p.levels = append(p.levels, visibilityLevel)
	}
	switch opts.SortStructFields {
	case model.StructFieldsBySize:
		p.levels = append(p.levels, sizeLevel)
	case model.StructFieldsPreserveTags:
		p.levels = append(p.levels, tagSignatureLevel)
	}
	return p
}

func embeddedLevel(p model.ParsedProperty) levelKey {
	if p.IsEmbedded {
		return levelKey{Rank: 0}
	}
	return levelKey{Rank: 1}
}

func visibilityLevel(p model.ParsedProperty) levelKey {
	if fieldExported(p.Name) {
		return levelKey{Rank: 0}
	}
	return levelKey{Rank: 1}
}

// fieldExported checks the identifying name of a field. Embedded fields may
// be qualified (pkg.Type) or pointers (*Type); the base type name decides.
func fieldExported(name string) bool {
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func sizeLevel(p model.ParsedProperty) levelKey {
	return levelKey{Rank: typeSize(p.Value)}
}

// Word-sized and fixed-size type estimates for the by-size field mode.
var scalarSize = map[string]int{
	"bool": 1, "int8": 1, "uint8": 1, "byte": 1,
	"int16": 2, "uint16": 2,
	"int32": 4, "uint32": 4, "rune": 4, "float32": 4,
	"int64": 8, "uint64": 8, "int": 8, "uint": 8, "uintptr": 8,
	"float64": 8, "complex64": 8,
	"complex128": 16, "string": 16, "error": 16, "any": 16,
}

// typeSize estimates the in-memory size of a field type. Unknown named
// types rank after everything sized, weighted by name length so the order
// stays deterministic.
func typeSize(typ string) int {
	t := strings.TrimSpace(typ)
	switch {
	case t == "":
		return 1000
	case strings.HasPrefix(t, "*"):
		return 8
	case strings.HasPrefix(t, "[]"):
		return 24
	case strings.HasPrefix(t, "map["):
		return 8
	case strings.HasPrefix(t, "chan ") || strings.HasPrefix(t, "chan<-") || strings.HasPrefix(t, "<-chan"):
		return 8
	case t == "chan":
		return 8
	case strings.HasPrefix(t, "func("), t == "func":
		return 8
	case strings.HasPrefix(t, "interface{") || t == "interface{}":
		return 16
	case strings.HasPrefix(t, "["):
		if n, elem, ok := arrayType(t); ok {
			return n * typeSize(elem)
		}
		return 1000 + len(t)
	}
	if s, ok := scalarSize[t]; ok {
		return s
	}
	return 1000 + len(t)
}

func arrayType(t string) (int, string, bool) {
	end := strings.IndexByte(t, ']')
	if end <= 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(strings.TrimSpace(t[1:end]))
	if err != nil || n < 0 {
		return 0, "", false
	}
	return n, strings.TrimSpace(t[end+1:]), true
}

// tagSignatureLevel groups fields by the set of struct-tag keys they carry
// (`json:"x" db:"y"` and `db:"a" json:"b"` share the group "db+json").
// Groups order by signature; untagged fields form the final group.
func tagSignatureLevel(p model.ParsedProperty) levelKey {
	sig := TagSignature(p.StructTags)
	if sig == "" {
		return levelKey{Rank: 1}
	}
	return levelKey{Rank: 0, Key: sig}
}

// TagSignature extracts the tag keys from a verbatim struct-tag string and
// returns them sorted and joined with "+".
func TagSignature(tags string) string {
	keys := tagKeys(tags)
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return strings.Join(keys, "+")
}

func tagKeys(tags string) []string {
	var keys []string
	i := 0
	for i < len(tags) {
		for i < len(tags) && (tags[i] == ' ' || tags[i] == '\t') {
			i++
		}
		start := i
		for i < len(tags) && tags[i] != ':' && tags[i] != ' ' {
			i++
		}
		if i >= len(tags) || tags[i] != ':' {
			break
		}
		key := tags[start:i]
		i++ // ':'
		if i >= len(tags) || tags[i] != '"' {
			break
		}
		i++
		for i < len(tags) && tags[i] != '"' {
			if tags[i] == '\\' && i+1 < len(tags) {
				i++
			}
			i++
		}
		i++ // closing quote
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
