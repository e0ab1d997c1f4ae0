package sorting

import (
	"propsort/internal/model"
)

// tsPipeline assembles the strategy for interfaces, object literals, and
// type aliases. Level priority: explicit custom order, then required before
// optional, then member kind, then the name pass.
func tsPipeline(opts model.Options) Strategy {
	p := &pipeline{
		name:   "member-name",
		byName: true,
		cmp:    NewComparator(opts),
	}
	if len(opts.CustomOrder) > 0 {
		p.levels = append(p.levels, customOrderLevel(opts.CustomOrder))
	}
	if opts.PrioritizeRequired {
		p.levels = append(p.levels, requiredLevel)
	}
	if opts.GroupByType {
		p.levels = append(p.levels, memberKindLevel)
	}
	return p
}

// customOrderLevel ranks listed names by list position; everything else
// shares the trailing rank and falls through to later levels.
func customOrderLevel(order []string) levelFunc {
	index := make(map[string]int, len(order))
	for i, name := range order {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return func(p model.ParsedProperty) levelKey {
		if i, ok := index[p.Name]; ok {
			return levelKey{Rank: i}
		}
		return levelKey{Rank: len(order)}
	}
}

// requiredLevel puts required members before optional ones.
func requiredLevel(p model.ParsedProperty) levelKey {
	if p.Optional {
		return levelKey{Rank: 1}
	}
	return levelKey{Rank: 0}
}

// memberKindLevel orders methods, then setters, then getters, then plain
// properties.
func memberKindLevel(p model.ParsedProperty) levelKey {
	switch p.MemberKind {
	case model.MemberMethod:
		return levelKey{Rank: 0}
	case model.MemberSetter:
		return levelKey{Rank: 1}
	case model.MemberGetter:
		return levelKey{Rank: 2}
	default:
		return levelKey{Rank: 3}
	}
}
