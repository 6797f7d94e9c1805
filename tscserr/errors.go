// Package tscserr defines the error types reported by the TypeScript to C# transpiler.
package tscserr

import (
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax   ErrorType = "SyntaxError"
	TypeSemantic ErrorType = "SemanticError"
	TypeConfig   ErrorType = "ConfigError"
	TypeFile     ErrorType = "FileError"
)

// TscsError is the interface for all transpiler errors.
type TscsError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for transpiler errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError represents an error reported by the TypeScript front-end.
type SyntaxError struct {
	BaseError
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// SemanticError represents a construct that cannot be transformed at all.
type SemanticError struct {
	BaseError
	Line     int
	Column   int
	FilePath string
}

func (e *SemanticError) Error() string {
	if e.Line > 0 {
		if e.FilePath != "" {
			return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.FilePath, e.Line, e.Column, e.Msg)
		}
		return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	BaseError
	Key string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("[%s] %s: %s", e.ErrType, e.Key, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// FileError attaches a source file path to the error that stopped its transformation.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", TypeFile, e.Path, e.Err)
}

func (e *FileError) Type() ErrorType {
	return TypeFile
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// MultiError collects multiple transpiler errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if te, ok := m.Errors[0].(TscsError); ok {
			return te.Type()
		}
	}
	return "MultiError"
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// ErrorOrNil returns nil when no errors were collected.
func (m *MultiError) ErrorOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Line:   line,
		Column: column,
	}
}

// NewSemanticError creates a new SemanticError.
func NewSemanticError(msg string) *SemanticError {
	return &SemanticError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSemantic,
		},
	}
}

// NewSemanticErrorInFile creates a SemanticError with file path, line, and column position.
// An empty path reports the position alone.
func NewSemanticErrorInFile(filePath string, line, column int, msg string) *SemanticError {
	return &SemanticError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSemantic,
		},
		Line:     line,
		Column:   column,
		FilePath: filePath,
	}
}

// NewConfigError creates a ConfigError for the given configuration key.
func NewConfigError(key, msg string) *ConfigError {
	return &ConfigError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeConfig,
		},
		Key: key,
	}
}

// NewFileError wraps err with the path of the file it belongs to.
func NewFileError(path string, err error) *FileError {
	return &FileError{Path: path, Err: err}
}
