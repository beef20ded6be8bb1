package recipes

import (
	"errors"
	"fmt"
)

const MissingDataDetail = "missing expected field 'data'"

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrEmptyName            = errors.New("recipe name is empty")
	ErrRecipeNotFound       = errors.New("recipe not found in gallery")
)

// FileReadError reports a recipe file that could not be read. It only aborts
// the file it refers to.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("error reading recipe file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed request or a non-2xx response. StatusCode is
// zero when no response was received.
type TransportError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	return e.Status
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError carries the message of a response with status "error".
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// ProtocolError reports a response that does not have the expected shape.
type ProtocolError struct {
	Detail string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ErrorKind names the taxonomy class of err for journaling.
func ErrorKind(err error) string {
	var (
		fileErr      *FileReadError
		transportErr *TransportError
		appErr       *ApplicationError
		protocolErr  *ProtocolError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fileErr):
		return "file_read"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &appErr):
		return "application"
	case errors.As(err, &protocolErr):
		return "protocol"
	default:
		return "unknown"
	}
}
