// Package config loads the transpiler configuration from files, environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/tscserr"
)

// EnvPrefix prefixes environment overrides, e.g. TSCS_NUMERICWIDTH=64.
const EnvPrefix = "TSCS"

// File is the configuration schema shared by tscs.yaml, .json and .toml.
type File struct {
	Input               string            `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty" mapstructure:"input"`
	Output              string            `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty" mapstructure:"output"`
	NamespaceRoot       string            `json:"namespaceRoot,omitempty" yaml:"namespaceRoot,omitempty" toml:"namespaceRoot,omitempty" mapstructure:"namespaceRoot"`
	HeaderComment       bool              `json:"headerComment" yaml:"headerComment" toml:"headerComment" mapstructure:"headerComment"`
	NumericWidth        int               `json:"numericWidth,omitempty" yaml:"numericWidth,omitempty" toml:"numericWidth,omitempty" mapstructure:"numericWidth"`
	ArrayStrategy       string            `json:"arrayStrategy,omitempty" yaml:"arrayStrategy,omitempty" toml:"arrayStrategy,omitempty" mapstructure:"arrayStrategy"`
	TypedBufferStrategy string            `json:"typedBufferStrategy,omitempty" yaml:"typedBufferStrategy,omitempty" toml:"typedBufferStrategy,omitempty" mapstructure:"typedBufferStrategy"`
	UnionStrategy       string            `json:"unionStrategy,omitempty" yaml:"unionStrategy,omitempty" toml:"unionStrategy,omitempty" mapstructure:"unionStrategy"`
	Exclude             []string          `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude"`
	PrimitiveAliases    map[string]string `json:"primitiveAliases,omitempty" yaml:"primitiveAliases,omitempty" toml:"primitiveAliases,omitempty" mapstructure:"primitiveAliases"`
}

// NewFile returns the configuration used when nothing is overridden. An
// empty Input selects the enclosing git worktree root.
func NewFile() *File {
	return &File{
		Output:              "generated",
		HeaderComment:       true,
		NumericWidth:        int(transpiler.Width32),
		ArrayStrategy:       string(transpiler.ArrayNative),
		TypedBufferStrategy: string(transpiler.BufferNative),
		UnionStrategy:       string(transpiler.UnionClassHierarchy),
	}
}

// Validate checks every enumerated value and reports the first offending key.
func (f *File) Validate() error {
	if _, err := transpiler.ParseNumericWidth(f.NumericWidth); err != nil {
		return tscserr.NewConfigError("numericWidth", err.Error())
	}
	if _, err := transpiler.ParseArrayStrategy(f.ArrayStrategy); err != nil {
		return tscserr.NewConfigError("arrayStrategy", err.Error())
	}
	if _, err := transpiler.ParseTypedBufferStrategy(f.TypedBufferStrategy); err != nil {
		return tscserr.NewConfigError("typedBufferStrategy", err.Error())
	}
	if _, err := transpiler.ParseUnionStrategy(f.UnionStrategy); err != nil {
		return tscserr.NewConfigError("unionStrategy", err.Error())
	}
	for _, pattern := range f.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return tscserr.NewConfigError("exclude", fmt.Sprintf("invalid glob %q: %v", pattern, err))
		}
	}
	known := transpiler.DefaultPrimitiveAliases(transpiler.Width32)
	keys := make([]string, 0, len(f.PrimitiveAliases))
	for k := range f.PrimitiveAliases {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, ok := known[k]; !ok {
			return tscserr.NewConfigError("primitiveAliases."+k, "unknown primitive type")
		}
		if strings.TrimSpace(f.PrimitiveAliases[k]) == "" {
			return tscserr.NewConfigError("primitiveAliases."+k, "target type must not be empty")
		}
	}
	return nil
}

// Options resolves the validated file into transpiler options.
func (f *File) Options() transpiler.Options {
	return transpiler.Options{
		InputRoot:     f.Input,
		NamespaceRoot: f.NamespaceRoot,
		HeaderComment: f.HeaderComment,
		UnionStrategy: transpiler.UnionStrategy(f.UnionStrategy),
		TypeMapping: transpiler.TypeMappingOverrides{
			PrimitiveAliases: f.PrimitiveAliases,
			NumericWidth:     transpiler.NumericWidth(f.NumericWidth),
			Arrays:           transpiler.ArrayStrategy(f.ArrayStrategy),
			TypedBuffers:     transpiler.TypedBufferStrategy(f.TypedBufferStrategy),
		},
	}
}

// Loader merges configuration files, TSCS_ environment variables and bound
// flags, in increasing priority.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := NewFile()
	v.SetDefault("input", d.Input)
	v.SetDefault("output", d.Output)
	v.SetDefault("namespaceRoot", d.NamespaceRoot)
	v.SetDefault("headerComment", d.HeaderComment)
	v.SetDefault("numericWidth", d.NumericWidth)
	v.SetDefault("arrayStrategy", d.ArrayStrategy)
	v.SetDefault("typedBufferStrategy", d.TypedBufferStrategy)
	v.SetDefault("unionStrategy", d.UnionStrategy)
	v.SetDefault("exclude", []string{})
	return &Loader{v: v}
}

// BindFlag makes a command-line flag override the configuration key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	return l.v.BindPFlag(key, flag)
}

// Load reads files in order, later files overriding earlier ones. With no
// files it looks for tscs.{yaml,json,toml} in the working directory and
// falls back to defaults when none exists.
func (l *Loader) Load(files ...string) (*File, error) {
	if len(files) == 0 {
		l.v.SetConfigName("tscs")
		l.v.AddConfigPath(".")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, tscserr.NewConfigError("", fmt.Sprintf("read %s: %v", l.v.ConfigFileUsed(), err))
			}
		}
	}
	for i, file := range files {
		l.v.SetConfigFile(file)
		var err error
		if i == 0 {
			err = l.v.ReadInConfig()
		} else {
			err = l.v.MergeInConfig()
		}
		if err != nil {
			return nil, tscserr.NewConfigError("", fmt.Sprintf("read %s: %v", file, err))
		}
	}

	cfg := NewFile()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, tscserr.NewConfigError("", fmt.Sprintf("decode configuration: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Used returns the configuration file last read, if any.
func (l *Loader) Used() string {
	return l.v.ConfigFileUsed()
}
