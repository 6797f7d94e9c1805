package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tscs/cmd/tscs/commands"
	"martianoff/tscs/tscserr"
)

const playerSrc = `export class Player {
  speed: number = 1;
  score = 0;
}
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestTranspile_FileToStdout(t *testing.T) {
	file := writeSource(t, t.TempDir(), "player.ts", playerSrc)

	stdout, stderr, err := run(t, "transpile", "--namespace-root", "Game", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "namespace Game;")
	assert.Contains(t, stdout, "class Player")
	assert.Contains(t, stderr, "player.ts:3:")
	assert.Contains(t, stderr, "warning: property score has no type annotation")
}

func TestTranspile_FileToOutputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "player.ts", playerSrc)
	out := filepath.Join(dir, "Player.cs")

	stdout, _, err := run(t, "transpile", "--no-header", "-o", out, file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "saved to "+out)

	code, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(code), "class Player")
	assert.NotContains(t, string(code), "<auto-generated")
}

func TestTranspile_TreeReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "actors/player.ts", playerSrc)
	writeSource(t, dir, "broken.ts", "let = ;\n")

	stdout, _, err := run(t, "transpile", "--level", "error", dir)
	var multi *tscserr.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 1)
	assert.Contains(t, stdout, "Transpiled 2 file(s)")
	assert.FileExists(t, filepath.Join(dir, "generated", "actors", "Player.cs"))
}

func TestTranspile_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "player.ts", playerSrc)
	cfg := writeSource(t, dir, "tscs.yaml", "output: cs\nnamespaceRoot: FromConfig\n")

	_, _, err := run(t, "transpile", "--config", cfg, dir)
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "cs", "Player.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "namespace FromConfig;")
}

func TestTranspile_InvalidFlagValue(t *testing.T) {
	file := writeSource(t, t.TempDir(), "player.ts", playerSrc)

	_, _, err := run(t, "transpile", "--union-strategy", "visitor", file)
	var cfgErr *tscserr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "unionStrategy", cfgErr.Key)
}

func TestRoot_InvalidLogging(t *testing.T) {
	_, _, err := run(t, "--level", "loud", "version")
	assert.ErrorContains(t, err, "invalid log level")

	_, _, err = run(t, "--log-format", "xml", "version")
	assert.ErrorContains(t, err, "invalid log format")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tscs version "+commands.Version)
}

func TestVersion_EachRootOwnsItsCommand(t *testing.T) {
	var first, second bytes.Buffer
	a := commands.NewRootCommand()
	a.SetOut(&first)
	b := commands.NewRootCommand()
	b.SetOut(&second)

	a.SetArgs([]string{"version"})
	require.NoError(t, a.Execute())
	assert.Contains(t, first.String(), "tscs version "+commands.Version)
	assert.Empty(t, second.String())

	b.SetArgs([]string{"version"})
	require.NoError(t, b.Execute())
	assert.Contains(t, second.String(), "tscs version "+commands.Version)
}
