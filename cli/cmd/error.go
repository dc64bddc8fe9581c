package cmd

import "github.com/ardnew/lala/lang"

// Error is a command error with structured logging attributes. It shares
// the representation of language errors, so a command failure and the
// script failure it wraps log the same way.
type Error = lang.Error

// NewError returns a sentinel error with the given message. Errors derived
// from it with Wrap or With match it with [errors.Is].
func NewError(msg string) *Error { return lang.NewError(msg) }

var (
	ErrJSONMarshal    = NewError("marshal JSON")
	ErrYAMLMarshal    = NewError("marshal YAML")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrScriptNotFound = NewError("script not found")
	ErrReadScript     = NewError("read script")
	ErrReadVars       = NewError("read variables")
	ErrVarAssign      = NewError("invalid variable assignment")
	ErrWatch          = NewError("watch script")
	ErrWatchSource    = NewError("only script files can be watched")
	ErrCheck          = NewError("check failed")
)
