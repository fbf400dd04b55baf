package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")
	// Unauthorized is returned when the caller lacks the required role.
	Unauthorized = ErrorKind("Unauthorized")
	// InvalidState is returned when an operation is attempted against the
	// wrong lifecycle state.
	InvalidState = ErrorKind("Invalid State")
	// InvalidArgument is returned when operation parameters are malformed.
	InvalidArgument = ErrorKind("Invalid Argument")
	// Conflict is returned when an operation would violate a uniqueness or
	// exactly-once rule, e.g. a double claim.
	Conflict = ErrorKind("Conflict")
	// Unsupported is returned for unsupported configuration values.
	Unsupported        = ErrorKind("Unsupported")
	SomethingWentWrong = ErrorKind("Something went wrong")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
