package types

// ErrorKind is the domain error taxonomy for the portal pipeline.
// Classification happens once, next to the storage call; the kind is
// stable for the rest of the call chain.
type ErrorKind string

const (
	ErrKindNotFound     ErrorKind = "not_found"
	ErrKindUnauthorized ErrorKind = "unauthorized"
	ErrKindConflict     ErrorKind = "conflict"
	ErrKindValidation   ErrorKind = "validation"
	ErrKindSchema       ErrorKind = "schema"
	ErrKindForbidden    ErrorKind = "forbidden"
	ErrKindReadOnly     ErrorKind = "read_only"
)

type PortalError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PortalError) Error() string {
	return e.Message
}

func (e *PortalError) Unwrap() error {
	return e.Err
}

func NewPortalError(kind ErrorKind, message string, cause error) *PortalError {
	return &PortalError{Kind: kind, Message: message, Err: cause}
}
