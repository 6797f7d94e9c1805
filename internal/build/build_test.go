package build_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tscs/internal/build"
	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/tscserr"
)

const playerSrc = `export class Player {
  speed: number = 1;
}
`

const helperSrc = `export function add(a: number, b: number): number {
  return a + b;
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func newBuilder(t *testing.T, dir string, exclude ...string) *build.Builder {
	t.Helper()
	b, err := build.NewBuilder(&build.Config{
		InputDir:  dir,
		OutputDir: filepath.Join(dir, "generated"),
		Exclude:   exclude,
		Options:   transpiler.Options{NamespaceRoot: "Game", UnionStrategy: transpiler.UnionClassHierarchy},
		Jobs:      2,
	})
	require.NoError(t, err)
	return b
}

func TestBuild_WritesMirroredOutput(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"actors.ts":             playerSrc,
		"util/math-helpers.ts":  helperSrc,
		"types/globals.d.ts":    "declare const x: number;\n",
		"node_modules/lib/a.ts": playerSrc,
		"README.md":             "# game\n",
	})

	report, err := newBuilder(t, dir).Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, report.Err())

	paths := make([]string, len(report.Files))
	for i, f := range report.Files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"actors.ts", "util/math-helpers.ts"}, paths)

	actors, err := os.ReadFile(filepath.Join(dir, "generated", "Actors.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(actors), "namespace Game;")
	assert.Contains(t, string(actors), "class Player")

	helpers, err := os.ReadFile(filepath.Join(dir, "generated", "util", "MathHelpers.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(helpers), "namespace Game.Util;")
	assert.Contains(t, string(helpers), "class MathHelpers")
}

func TestBuild_BrokenFileDoesNotStopOthers(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"actors.ts": playerSrc,
		"broken.ts": "let = ;\n",
	})

	report, err := newBuilder(t, dir).Build(context.Background())
	require.NoError(t, err)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "broken.ts", failed[0].Path)

	var fileErr *tscserr.FileError
	require.ErrorAs(t, failed[0].Err, &fileErr)
	var syntaxErr *tscserr.SyntaxError
	assert.ErrorAs(t, failed[0].Err, &syntaxErr)

	var multi *tscserr.MultiError
	require.ErrorAs(t, report.Err(), &multi)
	assert.Len(t, multi.Errors, 1)

	assert.FileExists(t, filepath.Join(dir, "generated", "Actors.cs"))
	assert.NoFileExists(t, filepath.Join(dir, "generated", "Broken.cs"))
}

func TestBuild_Exclusions(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"actors.ts":            playerSrc,
		"actors.spec.ts":       playerSrc,
		"tools/gen.ts":         helperSrc,
		"deep/tests/a.spec.ts": playerSrc,
	})

	report, err := newBuilder(t, dir, "**/*.spec.ts", "tools").Build(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "actors.ts", report.Files[0].Path)
}

func TestBuild_SkipsOutputDirectory(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"actors.ts":           playerSrc,
		"generated/stale.ts":  helperSrc,
		".cache/leftover.tsx": playerSrc,
	})

	report, err := newBuilder(t, dir).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "actors.ts", report.Files[0].Path)
}

func TestTranspileFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"scenes/main-menu.ts": helperSrc})
	b := newBuilder(t, dir)

	res, err := b.TranspileFile(context.Background(), filepath.Join(dir, "scenes", "main-menu.ts"))
	require.NoError(t, err)
	assert.Contains(t, res.Code, "namespace Game.Scenes;")
	assert.NoFileExists(t, filepath.Join(dir, "generated", "scenes", "MainMenu.cs"))

	_, err = b.TranspileFile(context.Background(), filepath.Join(dir, "absent.ts"))
	var fileErr *tscserr.FileError
	assert.ErrorAs(t, err, &fileErr)
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	sub := filepath.Join(root, "src", "actors")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(build.FindRoot(sub))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	plain := t.TempDir()
	assert.Equal(t, plain, build.FindRoot(plain))
}

func TestWatch_RetranspilesChangedFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{"actors.ts": playerSrc})
	b := newBuilder(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make(chan build.FileResult, 16)
	done := make(chan error, 1)
	go func() { done <- b.Watch(ctx, func(r build.FileResult) { results <- r }) }()

	// The watcher registers asynchronously; keep touching the file until it reports.
	target := filepath.Join(dir, "actors.ts")
	var got build.FileResult
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case got = <-results:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(target, []byte(playerSrc), 0o644))
		case <-ctx.Done():
			t.Fatal("no result before timeout")
		}
	}

	assert.Equal(t, "actors.ts", got.Path)
	assert.NoError(t, got.Err)
	assert.FileExists(t, filepath.Join(dir, "generated", "Actors.cs"))

	cancel()
	assert.NoError(t, <-done)
}
