// Package model defines the shared records that flow through the
// parse → sort → reconstruct pipeline: comments, properties, entities,
// parse results, options, and the public processing result.
package model

// CommentType distinguishes line comments from block comments.
type CommentType string

const (
	// CommentSingle is a line comment (`// …` or `# …`).
	CommentSingle CommentType = "single"
	// CommentMulti is a block comment (`/* … */`).
	CommentMulti CommentType = "multi"
)

// PropertyComment is one comment as it appeared in the source. Raw retains
// the original markers and interior formatting so reconstruction can re-emit
// the comment byte-for-byte. Instances are immutable once created and attach
// to at most one property or entity across a whole parse.
type PropertyComment struct {
	// Text is the comment content with markers stripped and trimmed.
	Text string
	// Type reports whether the comment used line or block markers.
	Type CommentType
	// Raw is the verbatim source text including markers.
	Raw string
	// Line is the 1-based line the comment starts on.
	Line int
}

// MemberKind classifies a TypeScript member by declaration form.
type MemberKind string

const (
	MemberPlain  MemberKind = ""
	MemberMethod MemberKind = "method"
	MemberGetter MemberKind = "getter"
	MemberSetter MemberKind = "setter"
)

// ParsedProperty is one member/field/declaration inside an entity.
// Properties keep declaration order until a sorter produces a new slice;
// order is never implied.
type ParsedProperty struct {
	Name  string
	Value string

	// Comments are leading comments attached to this property.
	Comments []PropertyComment
	// TrailingComments are comments after the value: on the same line, or
	// stranded own-line comments re-attached to the nearest property above.
	TrailingComments []PropertyComment

	// Optional marks TypeScript `name?:` members.
	Optional bool
	// MemberKind classifies TypeScript members for kind grouping:
	// MemberMethod, MemberGetter, MemberSetter, or MemberPlain.
	MemberKind MemberKind

	// Indent is the leading whitespace of the declaration line, verbatim,
	// so a property keeps its exact indentation wherever it moves.
	Indent string
	// Line is the 1-based line the declaration starts on (not counting
	// leading comments).
	Line int
	// Seq is the property's position in source order within its container.
	// AssignSeq fills it after parsing; reconstruction compares it against
	// the post-sort position to decide whether an entity must be re-rendered.
	Seq int
	// FullText is the declaration text from the first character of the name
	// through the end of the value: no indentation, no trailing punctuation,
	// no inline comment. Continuation lines of multi-line values keep their
	// original indentation.
	FullText string
	// TrailingPunctuation is ";" or "," or "" exactly as parsed.
	TrailingPunctuation string

	// NestedProperties holds the members of a nested object value or nested
	// CSS rule when the parser expanded it.
	NestedProperties []ParsedProperty
	// HasNestedObject reports that Value is itself a structure.
	HasNestedObject bool
	// NestedIsArray reports that the nested structure is an array, whose
	// element order is governed by PreserveArrayOrder rather than by name.
	NestedIsArray bool
	// IsNestedRule marks CSS pseudo-properties that wrap a nested rule body.
	IsNestedRule bool

	// IsSpread marks `...expr` members, which are never reordered.
	IsSpread bool
	// IsChained marks members whose value is a chained method call
	// (`a.b().c()`); pinned in place when PreserveMethodChaining is set.
	IsChained bool
	// Important marks CSS declarations carrying `!important`.
	Important bool
	// VendorPrefix is the CSS prefix ("-webkit-", …) or "".
	VendorPrefix string

	// StructTags is the verbatim Go struct tag string without back-ticks.
	StructTags string
	// IsEmbedded marks Go embedded (anonymous) fields.
	IsEmbedded bool
}

// EntityType classifies what kind of structural declaration an entity is.
type EntityType string

const (
	EntityInterface    EntityType = "interface"
	EntityObject       EntityType = "object"
	EntityTypeAlias    EntityType = "type"
	EntityCSSRule      EntityType = "css-rule"
	EntityCSSKeyframe  EntityType = "css-keyframe"
	EntityCSSMedia     EntityType = "css-media"
	EntityCSSAtRule    EntityType = "css-at-rule"
	EntityStruct       EntityType = "struct"
	EntityJSONObject   EntityType = "json-object"
	EntityJSONArray    EntityType = "json-array"
	EntityYAMLObject   EntityType = "yaml-object"
	EntityYAMLArray    EntityType = "yaml-array"
)

// ParsedEntity is one structural declaration being sorted. StartLine includes
// any leading-comment block so reconstruction can replace "comment +
// declaration" as one contiguous span.
type ParsedEntity struct {
	Type       EntityType
	Name       string
	Properties []ParsedProperty

	// StartLine/EndLine are 1-based, inclusive, and cover the leading
	// comments, the declaration, and the closing delimiter.
	StartLine int
	EndLine   int

	LeadingComments []PropertyComment
	IsExported      bool

	// OriginalText is the verbatim source of the entity span.
	OriginalText string
	// HeaderText is the declaration line(s) before the first property,
	// verbatim including indentation (e.g. `export interface User {`).
	HeaderText string
	// FooterText is the closing delimiter line verbatim including
	// indentation (e.g. `}` or `  };`).
	FooterText string
	// Indent is the leading whitespace of the declaration line.
	Indent string

	// Specificity is the simplified CSS selector weight, informational only.
	Specificity int
	// MediaQuery is the query text for css-media entities.
	MediaQuery string
	// KeyframeSelector is the selector for css-keyframe entities
	// ("from", "to", "50%").
	KeyframeSelector string
}

// FileType names the language a source text is parsed as.
type FileType string

const (
	FileTypeTypeScript FileType = "typescript"
	FileTypeJavaScript FileType = "javascript"
	FileTypeCSS        FileType = "css"
	FileTypeSCSS       FileType = "scss"
	FileTypeSASS       FileType = "sass"
	FileTypeLESS       FileType = "less"
	FileTypeGo         FileType = "go"
	FileTypeJSON       FileType = "json"
	FileTypeJSONC      FileType = "jsonc"
	FileTypeYAML       FileType = "yaml"
	FileTypeYML        FileType = "yml"
)

// IsCSSFamily reports whether the file type is parsed by the CSS parser.
func (f FileType) IsCSSFamily() bool {
	switch f {
	case FileTypeCSS, FileTypeSCSS, FileTypeSASS, FileTypeLESS:
		return true
	}
	return false
}

// Normalize folds aliases onto their canonical file type.
func (f FileType) Normalize() FileType {
	switch f {
	case FileTypeYML:
		return FileTypeYAML
	case FileTypeJavaScript:
		return FileTypeTypeScript
	}
	return f
}

// AssignSeq numbers the properties of every container in source order,
// recursively. Parsers emit properties in source order, so this runs once
// on their output before any sorting.
func AssignSeq(props []ParsedProperty) {
	for i := range props {
		props[i].Seq = i
		AssignSeq(props[i].NestedProperties)
	}
}

// OrderUnchanged reports whether every property, recursively, still sits at
// its source position.
func OrderUnchanged(props []ParsedProperty) bool {
	for i := range props {
		if props[i].Seq != i {
			return false
		}
		if !OrderUnchanged(props[i].NestedProperties) {
			return false
		}
	}
	return true
}

// ParseResult is what a parser returns: the entities it found plus any
// parse errors collected along the way. Parsers never panic outward; all
// failures become Errors entries.
type ParseResult struct {
	Entities   []ParsedEntity
	Errors     []string
	SourceCode string
	FileType   FileType
}

// AddError appends a parse error message. Errors are append-only.
func (r *ParseResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Result is the public output of processing one text: diagnostics plus the
// rewritten text when anything changed.
type Result struct {
	Success           bool
	EntitiesProcessed int
	Errors            []string
	Warnings          []string
	ProcessedText     string
	// Changed reports whether ProcessedText differs from the input.
	Changed bool
}
