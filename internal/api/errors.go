package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrAuthRequired is returned by protected calls when the session holds no
// token. No request is issued in that case.
var ErrAuthRequired = errors.New("authentication required")

// RemoteError is a failed call: a non-success status, a success:false
// envelope, a malformed body or a transport failure (StatusCode 0).
// Message is what the server said, or a generic message for the operation.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 from the API, i.e. the token
// was rejected.
func IsUnauthorized(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.StatusCode == http.StatusUnauthorized
}

// Message returns the text to show a user for err: the server's message for
// remote errors, otherwise the error text itself.
func Message(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message
	}
	if errors.Is(err, ErrAuthRequired) {
		return "Please log in to continue"
	}
	return err.Error()
}
