// Package sorting turns parsed entities into reordered ones. Strategies are
// built as pipelines of grouping levels over a shared base comparator; the
// factory assembles the pipeline for an entity from the active options.
//
// Sorting is pure: input slices are never mutated, and the same options
// always produce the same order.
package sorting

import (
	"sort"
	"strings"

	"propsort/internal/model"
)

// Strategy reorders one property slice without mutating it.
type Strategy interface {
	Sort(props []model.ParsedProperty) []model.ParsedProperty
	Name() string
}

// levelKey is one grouping decision for a property. Properties compare by
// Rank first, then Key. When two properties share a Terminal group the
// comparison ends there and source order is kept.
type levelKey struct {
	Rank     int
	Key      string
	Terminal bool
}

type levelFunc func(p model.ParsedProperty) levelKey

// pipeline implements Strategy as ranked grouping levels followed by an
// optional trailing pass over names or values.
type pipeline struct {
	name    string
	levels  []levelFunc
	byName  bool
	byValue bool
	cmp     Comparator
}

func (p *pipeline) Name() string { return p.name }

func (p *pipeline) Sort(props []model.ParsedProperty) []model.ParsedProperty {
	if len(props) < 2 {
		out := make([]model.ParsedProperty, len(props))
		copy(out, props)
		return out
	}

	keys := make([][]levelKey, len(props))
	for i := range props {
		ks := make([]levelKey, len(p.levels))
		for li, lf := range p.levels {
			ks[li] = lf(props[i])
		}
		keys[i] = ks
	}

	perm := make([]int, len(props))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(x, y int) bool {
		i, j := perm[x], perm[y]
		for li := range p.levels {
			ki, kj := keys[i][li], keys[j][li]
			if ki.Rank != kj.Rank {
				return ki.Rank < kj.Rank
			}
			if ki.Key != kj.Key {
				return ki.Key < kj.Key
			}
			if ki.Terminal {
				return false
			}
		}
		if p.byName {
			if c := p.cmp.Compare(props[i].Name, props[j].Name); c != 0 {
				return c < 0
			}
		}
		if p.byValue {
			if c := p.cmp.CompareValues(props[i].Value, props[j].Value); c != 0 {
				return c < 0
			}
		}
		return false
	})

	out := make([]model.ParsedProperty, len(props))
	for x, i := range perm {
		out[x] = props[i]
	}
	return out
}

// ForEntity assembles the strategy for one entity, or nil when the entity's
// order must be preserved (arrays under PreserveArrayOrder).
func ForEntity(entity *model.ParsedEntity, opts model.Options) Strategy {
	switch entity.Type {
	case model.EntityJSONArray, model.EntityYAMLArray:
		if opts.PreserveArrayOrder {
			return nil
		}
		return valuePipeline(opts)
	case model.EntityStruct:
		return goPipeline(opts)
	case model.EntityCSSKeyframe:
		if opts.SortKeyframes {
			return keyframePipeline(opts)
		}
		return cssPipeline(opts)
	case model.EntityCSSRule, model.EntityCSSMedia, model.EntityCSSAtRule:
		return cssPipeline(opts)
	case model.EntityJSONObject:
		return jsonPipeline(opts)
	case model.EntityYAMLObject:
		return yamlPipeline(opts)
	default:
		return tsPipeline(opts)
	}
}

// Apply sorts the entity's properties per the options, honoring pinned
// members and recursing into nested structures when SortNestedObjects is
// set. The entity's Properties slice is replaced, never mutated, so the
// parser's output stays intact for the caller's pre/post comparison.
func Apply(entity *model.ParsedEntity, opts model.Options) {
	props := make([]model.ParsedProperty, len(entity.Properties))
	copy(props, entity.Properties)
	entity.Properties = props

	s := ForEntity(entity, opts)
	if s != nil {
		entity.Properties = sortPinned(entity.Properties, s, opts)
	}
	if opts.SortNestedObjects {
		recurse(entity, entity.Properties, opts)
	}
}

// sortPinned runs the strategy over the movable properties and re-seats
// spreads (and chained calls when configured) at their original indexes.
func sortPinned(props []model.ParsedProperty, s Strategy, opts model.Options) []model.ParsedProperty {
	pinnedAt := make(map[int]model.ParsedProperty)
	movable := make([]model.ParsedProperty, 0, len(props))
	for i, p := range props {
		if isPinned(p, opts) {
			pinnedAt[i] = p
			continue
		}
		movable = append(movable, p)
	}
	if len(pinnedAt) == 0 {
		return s.Sort(props)
	}
	sorted := s.Sort(movable)
	out := make([]model.ParsedProperty, len(props))
	next := 0
	for i := range out {
		if p, ok := pinnedAt[i]; ok {
			out[i] = p
			continue
		}
		out[i] = sorted[next]
		next++
	}
	return out
}

func isPinned(p model.ParsedProperty, opts model.Options) bool {
	if p.IsSpread {
		return true
	}
	return opts.PreserveMethodChaining && p.IsChained
}

func recurse(entity *model.ParsedEntity, props []model.ParsedProperty, opts model.Options) {
	for i := range props {
		p := &props[i]
		if len(p.NestedProperties) == 0 {
			continue
		}
		nested := make([]model.ParsedProperty, len(p.NestedProperties))
		copy(nested, p.NestedProperties)
		p.NestedProperties = nested
		sub := nestedStrategy(entity, *p, opts)
		if sub != nil {
			p.NestedProperties = sortPinned(p.NestedProperties, sub, opts)
		}
		recurse(entity, p.NestedProperties, opts)
	}
}

// nestedStrategy picks the strategy for a property's nested structure.
// Array values keep element order under PreserveArrayOrder; nested
// keyframes blocks order their steps by percentage.
func nestedStrategy(entity *model.ParsedEntity, p model.ParsedProperty, opts model.Options) Strategy {
	if p.NestedIsArray {
		if opts.PreserveArrayOrder {
			return nil
		}
		return valuePipeline(opts)
	}
	if p.IsNestedRule {
		if opts.SortKeyframes && strings.HasPrefix(strings.TrimSpace(p.Name), "@keyframes") {
			return keyframePipeline(opts)
		}
		return cssPipeline(opts)
	}
	switch entity.Type {
	case model.EntityJSONObject, model.EntityJSONArray:
		return jsonPipeline(opts)
	case model.EntityYAMLObject, model.EntityYAMLArray:
		return yamlPipeline(opts)
	case model.EntityCSSRule, model.EntityCSSMedia, model.EntityCSSAtRule, model.EntityCSSKeyframe:
		return cssPipeline(opts)
	default:
		return tsPipeline(opts)
	}
}

// valuePipeline orders array elements by their literal content.
func valuePipeline(opts model.Options) Strategy {
	return &pipeline{
		name:    "element-value",
		byValue: true,
		cmp:     NewComparator(opts),
	}
}

// yamlPipeline orders mapping keys: custom order first, then names.
func yamlPipeline(opts model.Options) Strategy {
	p := &pipeline{
		name:   "yaml-keys",
		byName: true,
		cmp:    NewComparator(opts),
	}
	if len(opts.CustomOrder) > 0 {
		p.levels = append(p.levels, customOrderLevel(opts.CustomOrder))
	}
	return p
}
