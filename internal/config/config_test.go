package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tscs/internal/config"
	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/tscserr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.NewLoader().Load()
	require.NoError(t, err)
	if diff := cmp.Diff(config.NewFile(), cfg, cmp.Comparer(func(a, b []string) bool { return len(a) == len(b) })); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLAndMerge(t *testing.T) {
	base := writeFile(t, "tscs.yaml", `
input: src
output: out
namespaceRoot: Game
numericWidth: 64
exclude:
  - "**/*.spec.ts"
primitiveAliases:
  bigint: System.Numerics.BigInteger
`)
	override := writeFile(t, "override.json", `{"unionStrategy": "tagged-struct", "headerComment": false}`)

	cfg, err := config.NewLoader().Load(base, override)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Input)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "Game", cfg.NamespaceRoot)
	assert.Equal(t, 64, cfg.NumericWidth)
	assert.Equal(t, "tagged-struct", cfg.UnionStrategy)
	assert.False(t, cfg.HeaderComment)
	assert.Equal(t, []string{"**/*.spec.ts"}, cfg.Exclude)
	assert.Equal(t, "System.Numerics.BigInteger", cfg.PrimitiveAliases["bigint"])

	opts := cfg.Options()
	assert.Equal(t, transpiler.UnionTaggedStruct, opts.UnionStrategy)
	assert.Equal(t, "double", opts.MappingConfig().NumberType())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("TSCS_ARRAYSTRATEGY", "list-generic")

	cfg, err := config.NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "list-generic", cfg.ArrayStrategy)
}

func TestLoad_FlagOverride(t *testing.T) {
	file := writeFile(t, "tscs.toml", `namespaceRoot = "FromFile"`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("namespace-root", "", "")
	require.NoError(t, flags.Parse([]string{"--namespace-root", "FromFlag"}))

	l := config.NewLoader()
	require.NoError(t, l.BindFlag("namespaceRoot", flags.Lookup("namespace-root")))
	cfg, err := l.Load(file)
	require.NoError(t, err)
	assert.Equal(t, "FromFlag", cfg.NamespaceRoot)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
	}{
		{name: "numeric width", content: "numericWidth: 16", key: "numericWidth"},
		{name: "array strategy", content: "arrayStrategy: linked", key: "arrayStrategy"},
		{name: "typed buffers", content: "typedBufferStrategy: heap", key: "typedBufferStrategy"},
		{name: "union strategy", content: "unionStrategy: visitor", key: "unionStrategy"},
		{name: "exclude glob", content: "exclude: ['[']", key: "exclude"},
		{name: "primitive alias", content: "primitiveAliases:\n  decimal: decimal", key: "primitiveAliases.decimal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewLoader().Load(writeFile(t, "tscs.yaml", tt.content))
			var cfgErr *tscserr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Key)
			assert.Equal(t, tscserr.TypeConfig, cfgErr.Type())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var cfgErr *tscserr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
