package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents unexpected failures
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents missing or malformed input
	TypeValidation Type = "VALIDATION"

	// TypeNotFound represents missing files or directories
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents a target that already exists in an incompatible form
	TypeConflict Type = "CONFLICT"

	// TypeParse represents content that could not be decoded
	TypeParse Type = "PARSE_FAILURE"

	// TypeExternal represents errors from storage backends
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// HTTPStatus returns the HTTP status suggested for the type
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return 400
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeParse:
		return 422
	case TypeExternal:
		return 502
	default:
		return 500
	}
}
