package fsx

import "github.com/Abraxas-365/fileutil/pkg/errx"

var fsxErrors = errx.NewRegistry("FSX")

var (
	ErrEmptyInput      = fsxErrors.Register("EMPTY_INPUT", errx.TypeValidation, "Required input is empty")
	ErrInvalidArgument = fsxErrors.Register("INVALID_ARGUMENT", errx.TypeValidation, "Invalid argument")
	ErrNotFound        = fsxErrors.Register("NOT_FOUND", errx.TypeNotFound, "File or directory does not exist")
	ErrParseFailure    = fsxErrors.Register("PARSE_FAILURE", errx.TypeParse, "Content could not be parsed")
	ErrNotJSONObject   = fsxErrors.Register("NOT_JSON_OBJECT", errx.TypeValidation, "JSON object or array expected")
	ErrIOFailure       = fsxErrors.Register("IO_FAILURE", errx.TypeExternal, "Storage operation failed")
	ErrUnsupported     = fsxErrors.Register("UNSUPPORTED", errx.TypeValidation, "Operation not supported by backend")
)

// Codes lists every error code of the package
func Codes() []*errx.ErrorCode {
	return fsxErrors.Codes()
}

// EmptyInputError reports a missing required field
func EmptyInputError(field string) *errx.Error {
	return fsxErrors.New(ErrEmptyInput).WithDetail("field", field)
}

// InvalidArgumentError reports a field with an unusable value
func InvalidArgumentError(field string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(ErrInvalidArgument, cause).WithDetail("field", field)
}

// NotFoundError reports a missing file or directory
func NotFoundError(path string) *errx.Error {
	return fsxErrors.New(ErrNotFound).WithDetail("path", path)
}

// ParseError reports undecodable content at path
func ParseError(path string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(ErrParseFailure, cause).WithDetail("path", path)
}

// IOError wraps a backend failure for op on path
func IOError(op, path string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(ErrIOFailure, cause).
		WithDetail("op", op).
		WithDetail("path", path)
}

// UnsupportedError reports an operation a backend cannot perform
func UnsupportedError(op string) *errx.Error {
	return fsxErrors.New(ErrUnsupported).WithDetail("op", op)
}
