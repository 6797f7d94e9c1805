package tscserr_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"martianoff/tscs/tscserr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxError(t *testing.T) {
	err := tscserr.NewSyntaxError(10, 5, "unexpected token")
	assert.Equal(t, tscserr.TypeSyntax, err.Type())
	assert.Equal(t, 10, err.Line)
	assert.Equal(t, 5, err.Column)
	assert.Contains(t, err.Error(), "[SyntaxError] line 10:5 unexpected token")
}

func TestSemanticError(t *testing.T) {
	err := tscserr.NewSemanticError("unsupported declaration")
	assert.Equal(t, tscserr.TypeSemantic, err.Type())
	assert.Equal(t, "[SemanticError] unsupported declaration", err.Error())
}

func TestSemanticErrorInFile(t *testing.T) {
	err := tscserr.NewSemanticErrorInFile("player.ts", 10, 5, "class has no name")
	assert.Equal(t, "player.ts", err.FilePath)
	assert.Equal(t, "[SemanticError] player.ts:10:5 class has no name", err.Error())

	noPath := tscserr.NewSemanticErrorInFile("", 10, 5, "class has no name")
	assert.Equal(t, 10, noPath.Line)
	assert.Equal(t, "[SemanticError] line 10:5 class has no name", noPath.Error())
}

func TestConfigError(t *testing.T) {
	err := tscserr.NewConfigError("arrayStrategy", `unknown value "vector"`)
	assert.Equal(t, tscserr.TypeConfig, err.Type())
	assert.Equal(t, `[ConfigError] arrayStrategy: unknown value "vector"`, err.Error())
}

func TestFileErrorUnwraps(t *testing.T) {
	err := tscserr.NewFileError("src/a.ts", fs.ErrNotExist)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, tscserr.TypeFile, err.Type())
	assert.Contains(t, err.Error(), "src/a.ts")
}

func TestMultiError(t *testing.T) {
	e1 := tscserr.NewSyntaxError(1, 1, "error 1")
	e2 := tscserr.NewSyntaxError(2, 2, "error 2")
	multi := &tscserr.MultiError{Errors: []error{e1, e2}}

	assert.Equal(t, tscserr.TypeSyntax, multi.Type())
	errMsg := multi.Error()
	assert.True(t, strings.HasPrefix(errMsg, "2 error(s) occurred:"))
	assert.Contains(t, errMsg, "- [SyntaxError] line 1:1 error 1")
	assert.Contains(t, errMsg, "- [SyntaxError] line 2:2 error 2")

	var syntaxErr *tscserr.SyntaxError
	require.True(t, errors.As(multi, &syntaxErr))
	assert.Equal(t, 1, syntaxErr.Line)
}

func TestMultiErrorOrNil(t *testing.T) {
	var empty tscserr.MultiError
	assert.NoError(t, empty.ErrorOrNil())

	var nilMulti *tscserr.MultiError
	assert.NoError(t, nilMulti.ErrorOrNil())

	full := &tscserr.MultiError{Errors: []error{tscserr.NewSemanticError("x")}}
	assert.Error(t, full.ErrorOrNil())
}
