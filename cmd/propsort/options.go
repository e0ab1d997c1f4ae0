package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"propsort/errors"
)

// optionKeys maps each option flag to its config key. Flags beat env vars
// and config files once bound.
var optionKeys = map[string]string{
	"sort-order":               "sortOrder",
	"case-sensitive":           "caseSensitive",
	"natural-sort":             "naturalSort",
	"custom-order":             "customOrder",
	"group-by-type":            "groupByType",
	"prioritize-required":      "prioritizeRequired",
	"preserve-formatting":      "preserveFormatting",
	"include-comments":         "includeComments",
	"indentation":              "indentation",
	"indentation-type":         "indentationType",
	"indentation-size":         "indentationSize",
	"line-ending":              "lineEnding",
	"sort-nested-objects":      "sortNestedObjects",
	"sort-by-importance":       "sortByImportance",
	"group-vendor-prefixes":    "groupVendorPrefixes",
	"group-variables":          "groupVariables",
	"group-by-category":        "groupByCategory",
	"sort-keyframes":           "sortKeyframes",
	"sort-struct-fields":       "sortStructFields",
	"group-embedded-fields":    "groupEmbeddedFields",
	"group-by-visibility":      "groupByVisibility",
	"preserve-method-chaining": "preserveMethodChaining",
	"custom-key-order":         "customKeyOrder",
	"group-by-schema":          "groupBySchema",
	"preserve-array-order":     "preserveArrayOrder",
}

// addOptionFlags registers the sorting option flags as persistent flags so
// every subcommand accepts them.
func addOptionFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("sort-order", "", "Sort direction: asc or desc")
	f.Bool("case-sensitive", false, "Case-sensitive name comparison")
	f.Bool("natural-sort", false, "Numeric-aware name comparison")
	f.StringSlice("custom-order", nil, "Property names to place first, in order")
	f.Bool("group-by-type", false, "Group members by kind before sorting")
	f.Bool("prioritize-required", false, "Required properties before optional ones")
	f.Bool("preserve-formatting", true, "Keep original formatting where possible")
	f.Bool("include-comments", true, "Keep attached comments with their properties")
	f.String("indentation", "", "Literal indentation string override")
	f.String("indentation-type", "", "Indentation type: spaces or tabs")
	f.Int("indentation-size", 0, "Spaces per indent level")
	f.String("line-ending", "", "Line ending: auto, lf, or crlf")
	f.Bool("sort-nested-objects", true, "Recurse into nested objects")
	f.Bool("sort-by-importance", false, "CSS: !important declarations first")
	f.Bool("group-vendor-prefixes", false, "CSS: group vendor-prefixed properties")
	f.Bool("group-variables", false, "CSS: custom properties first")
	f.Bool("group-by-category", false, "CSS: group properties by category")
	f.Bool("sort-keyframes", false, "CSS: order keyframe offsets")
	f.String("sort-struct-fields", "", "Go: alphabetical, by-size, or preserve-tags")
	f.Bool("group-embedded-fields", false, "Go: embedded fields first")
	f.Bool("group-by-visibility", false, "Go: exported fields before unexported")
	f.Bool("preserve-method-chaining", false, "TS: keep chained members adjacent")
	f.StringSlice("custom-key-order", nil, "JSON: key names to place first, in order")
	f.Bool("group-by-schema", false, "JSON: schema keys like $schema first")
	f.Bool("preserve-array-order", true, "JSON: keep array element order")
}

// bindOptionFlags binds the option flags visible on cmd into v.
func bindOptionFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range optionKeys {
		pf := cmd.Flag(flag)
		if pf == nil {
			return errors.Newf("unknown option flag %q", flag)
		}
		if err := v.BindPFlag(key, pf); err != nil {
			return errors.Wrapf(err, "binding --%s", flag)
		}
	}
	return nil
}
