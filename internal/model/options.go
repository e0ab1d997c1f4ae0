package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Line-ending modes.
const (
	LineEndingAuto = "auto"
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

// Indentation types.
const (
	IndentSpaces = "spaces"
	IndentTabs   = "tabs"
)

// Go struct-field sort modes.
const (
	StructFieldsAlphabetical = "alphabetical"
	StructFieldsBySize       = "by-size"
	StructFieldsPreserveTags = "preserve-tags"
)

// Options controls every sorter and reconstructor knob. The zero value is
// not usable directly; resolve through DefaultOptions and the config layer.
type Options struct {
	SortOrder     string   `mapstructure:"sortOrder" yaml:"sortOrder" toml:"sortOrder" json:"sortOrder"`
	CaseSensitive bool     `mapstructure:"caseSensitive" yaml:"caseSensitive" toml:"caseSensitive" json:"caseSensitive"`
	NaturalSort   bool     `mapstructure:"naturalSort" yaml:"naturalSort" toml:"naturalSort" json:"naturalSort"`
	CustomOrder   []string `mapstructure:"customOrder" yaml:"customOrder" toml:"customOrder" json:"customOrder"`

	GroupByType        bool `mapstructure:"groupByType" yaml:"groupByType" toml:"groupByType" json:"groupByType"`
	PrioritizeRequired bool `mapstructure:"prioritizeRequired" yaml:"prioritizeRequired" toml:"prioritizeRequired" json:"prioritizeRequired"`

	PreserveFormatting bool `mapstructure:"preserveFormatting" yaml:"preserveFormatting" toml:"preserveFormatting" json:"preserveFormatting"`
	IncludeComments    bool `mapstructure:"includeComments" yaml:"includeComments" toml:"includeComments" json:"includeComments"`

	// Indentation overrides detection when non-empty (the literal string to
	// indent properties with). IndentationType/IndentationSize build the
	// string when Indentation is empty and type is set; otherwise the
	// reconstructor detects indentation from the source.
	Indentation     string `mapstructure:"indentation" yaml:"indentation" toml:"indentation" json:"indentation"`
	IndentationType string `mapstructure:"indentationType" yaml:"indentationType" toml:"indentationType" json:"indentationType"`
	IndentationSize int    `mapstructure:"indentationSize" yaml:"indentationSize" toml:"indentationSize" json:"indentationSize"`

	LineEnding string `mapstructure:"lineEnding" yaml:"lineEnding" toml:"lineEnding" json:"lineEnding"`

	SortNestedObjects bool `mapstructure:"sortNestedObjects" yaml:"sortNestedObjects" toml:"sortNestedObjects" json:"sortNestedObjects"`

	// CSS family.
	SortByImportance    bool `mapstructure:"sortByImportance" yaml:"sortByImportance" toml:"sortByImportance" json:"sortByImportance"`
	GroupVendorPrefixes bool `mapstructure:"groupVendorPrefixes" yaml:"groupVendorPrefixes" toml:"groupVendorPrefixes" json:"groupVendorPrefixes"`
	GroupVariables      bool `mapstructure:"groupVariables" yaml:"groupVariables" toml:"groupVariables" json:"groupVariables"`
	GroupByCategory     bool `mapstructure:"groupByCategory" yaml:"groupByCategory" toml:"groupByCategory" json:"groupByCategory"`
	SortKeyframes       bool `mapstructure:"sortKeyframes" yaml:"sortKeyframes" toml:"sortKeyframes" json:"sortKeyframes"`

	// Go structs.
	SortStructFields    string `mapstructure:"sortStructFields" yaml:"sortStructFields" toml:"sortStructFields" json:"sortStructFields"`
	GroupEmbeddedFields bool   `mapstructure:"groupEmbeddedFields" yaml:"groupEmbeddedFields" toml:"groupEmbeddedFields" json:"groupEmbeddedFields"`
	GroupByVisibility   bool   `mapstructure:"groupByVisibility" yaml:"groupByVisibility" toml:"groupByVisibility" json:"groupByVisibility"`

	// TypeScript / JavaScript.
	PreserveMethodChaining bool `mapstructure:"preserveMethodChaining" yaml:"preserveMethodChaining" toml:"preserveMethodChaining" json:"preserveMethodChaining"`

	// JSON / JSONC.
	CustomKeyOrder     []string `mapstructure:"customKeyOrder" yaml:"customKeyOrder" toml:"customKeyOrder" json:"customKeyOrder"`
	GroupBySchema      bool     `mapstructure:"groupBySchema" yaml:"groupBySchema" toml:"groupBySchema" json:"groupBySchema"`
	PreserveArrayOrder bool     `mapstructure:"preserveArrayOrder" yaml:"preserveArrayOrder" toml:"preserveArrayOrder" json:"preserveArrayOrder"`
}

// DefaultOptions returns the option set used when the caller specifies
// nothing: ascending case-insensitive sort, formatting preserved, comments
// kept, array order preserved, nested objects sorted.
func DefaultOptions() Options {
	return Options{
		SortOrder:          SortAsc,
		CaseSensitive:      false,
		PreserveFormatting: true,
		IncludeComments:    true,
		LineEnding:         LineEndingAuto,
		SortNestedObjects:  true,
		PreserveArrayOrder: true,
	}
}

// Validate checks enum-like fields. Empty strings are allowed everywhere a
// default or detection applies.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.SortOrder, validation.Required, validation.In(SortAsc, SortDesc)),
		validation.Field(&o.LineEnding, validation.In(LineEndingAuto, LineEndingLF, LineEndingCRLF)),
		validation.Field(&o.IndentationType, validation.In(IndentSpaces, IndentTabs)),
		validation.Field(&o.IndentationSize, validation.Min(0), validation.Max(16)),
		validation.Field(&o.SortStructFields,
			validation.In(StructFieldsAlphabetical, StructFieldsBySize, StructFieldsPreserveTags)),
	)
}

// IndentString resolves the configured indentation, or "" when the
// reconstructor should detect it from the source.
func (o Options) IndentString() string {
	if o.Indentation != "" {
		return o.Indentation
	}
	if o.IndentationType == IndentTabs {
		return "\t"
	}
	if o.IndentationType == IndentSpaces {
		size := o.IndentationSize
		if size <= 0 {
			size = 2
		}
		s := ""
		for i := 0; i < size; i++ {
			s += " "
		}
		return s
	}
	return ""
}

// Descending reports whether the sort direction is descending.
func (o Options) Descending() bool {
	return o.SortOrder == SortDesc
}
