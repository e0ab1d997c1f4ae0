package sorting

import (
	"propsort/internal/model"
)

// jsonPipeline assembles the strategy for JSON objects: explicit key order
// first, then schema buckets, then names. CustomKeyOrder and CustomOrder
// share one mechanism; the JSON-specific option wins when both are set.
func jsonPipeline(opts model.Options) Strategy {
	p := &pipeline{
		name:   "json-keys",
		byName: true,
		cmp:    NewComparator(opts),
	}
	order := opts.CustomKeyOrder
	if len(order) == 0 {
		order = opts.CustomOrder
	}
	if len(order) > 0 {
		p.levels = append(p.levels, customOrderLevel(order))
	}
	if opts.GroupBySchema {
		p.levels = append(p.levels, schemaLevel)
	}
	return p
}

// Schema buckets: descriptive metadata, required-ish keys, optional-ish
// keys, nested values, then everything else. Name lists win over
// nestedness so "properties" stays a required-ish key even though its
// value is an object.
const (
	schemaMetadata = iota
	schemaRequired
	schemaOptional
	schemaNested
	schemaOther
)

var schemaBuckets = map[string]int{
	"$schema": schemaMetadata, "$id": schemaMetadata, "$ref": schemaMetadata,
	"$comment": schemaMetadata, "id": schemaMetadata, "name": schemaMetadata,
	"title": schemaMetadata, "version": schemaMetadata,
	"description": schemaMetadata, "type": schemaMetadata,

	"required": schemaRequired, "properties": schemaRequired,
	"definitions": schemaRequired, "$defs": schemaRequired,
	"dependencies": schemaRequired,

	"optional": schemaOptional, "default": schemaOptional,
	"examples": schemaOptional, "additionalProperties": schemaOptional,
	"patternProperties": schemaOptional,
}

func schemaLevel(p model.ParsedProperty) levelKey {
	if b, ok := schemaBuckets[p.Name]; ok {
		return levelKey{Rank: b}
	}
	if p.HasNestedObject {
		return levelKey{Rank: schemaNested}
	}
	return levelKey{Rank: schemaOther}
}
