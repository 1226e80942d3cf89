package errx

// Internal creates an internal error
func Internal(message string) *Error {
	return New(message, TypeInternal)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(message, TypeValidation)
}

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

// Parse creates a parse failure error
func Parse(message string) *Error {
	return New(message, TypeParse)
}

// External creates a storage backend error
func External(message string) *Error {
	return New(message, TypeExternal)
}
