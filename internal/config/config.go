// Package config resolves sorting options. Precedence, lowest to highest:
// built-in defaults, a discovered or explicit config file, PROPSORT_*
// environment variables, bound CLI flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"propsort/errors"
	"propsort/internal/model"
)

// EnvPrefix is the prefix for environment overrides, e.g. PROPSORT_SORTORDER.
const EnvPrefix = "PROPSORT"

// FileNames are the config files Discover looks for, in preference order.
var FileNames = []string{".propsort.yaml", ".propsort.yml", ".propsort.toml", ".propsort.json"}

// New returns a viper instance primed with option defaults and environment
// binding. Callers bind CLI flags onto it before Resolve.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every option key. Registration also makes the keys
// visible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	def := model.DefaultOptions()
	v.SetDefault("sortOrder", def.SortOrder)
	v.SetDefault("caseSensitive", def.CaseSensitive)
	v.SetDefault("naturalSort", def.NaturalSort)
	v.SetDefault("customOrder", def.CustomOrder)
	v.SetDefault("groupByType", def.GroupByType)
	v.SetDefault("prioritizeRequired", def.PrioritizeRequired)
	v.SetDefault("preserveFormatting", def.PreserveFormatting)
	v.SetDefault("includeComments", def.IncludeComments)
	v.SetDefault("indentation", def.Indentation)
	v.SetDefault("indentationType", def.IndentationType)
	v.SetDefault("indentationSize", def.IndentationSize)
	v.SetDefault("lineEnding", def.LineEnding)
	v.SetDefault("sortNestedObjects", def.SortNestedObjects)
	v.SetDefault("sortByImportance", def.SortByImportance)
	v.SetDefault("groupVendorPrefixes", def.GroupVendorPrefixes)
	v.SetDefault("groupVariables", def.GroupVariables)
	v.SetDefault("groupByCategory", def.GroupByCategory)
	v.SetDefault("sortKeyframes", def.SortKeyframes)
	v.SetDefault("sortStructFields", def.SortStructFields)
	v.SetDefault("groupEmbeddedFields", def.GroupEmbeddedFields)
	v.SetDefault("groupByVisibility", def.GroupByVisibility)
	v.SetDefault("preserveMethodChaining", def.PreserveMethodChaining)
	v.SetDefault("customKeyOrder", def.CustomKeyOrder)
	v.SetDefault("groupBySchema", def.GroupBySchema)
	v.SetDefault("preserveArrayOrder", def.PreserveArrayOrder)
}

// Discover walks from dir toward the filesystem root and returns the first
// config file found, or "" when there is none.
func Discover(dir string) string {
	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Resolve merges the config file at path (skipped when empty) into v and
// returns the validated options.
func Resolve(v *viper.Viper, path string) (model.Options, error) {
	if path != "" {
		settings, err := fileSettings(path)
		if err != nil {
			return model.Options{}, err
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return model.Options{}, errors.Wrapf(err, "merging %s", path)
		}
	}

	var opts model.Options
	if err := v.Unmarshal(&opts); err != nil {
		return model.Options{}, errors.Wrap(err, "decoding options")
	}
	if err := opts.Validate(); err != nil {
		return model.Options{}, errors.Wrap(err, "invalid options")
	}
	return opts, nil
}

// fileSettings reads one config file. TOML is decoded with BurntSushi
// directly; YAML and JSON go through viper.
func fileSettings(path string) (map[string]interface{}, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var m map[string]interface{}
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
		return m, nil
	}

	f := viper.New()
	f.SetConfigFile(path)
	if err := f.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return f.AllSettings(), nil
}
