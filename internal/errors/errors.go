package cerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidRange      = errors.New("invalid range: start date after end date")

	// ErrChannelNotUsable means the resolved channel is missing its shop
	// host or access token. Surfaced as a client error, never retried.
	ErrChannelNotUsable = errors.New("channel is missing shop host or access token")
)

// TransportError is a non-success HTTP status from the upstream API. It
// aborts the in-flight fetch; no partial-success-with-retry semantics exist.
type TransportError struct {
	Channel string
	Status  int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream returned status %d for channel %q", e.Status, e.Channel)
}

// ProtocolError is a successful HTTP response whose payload carries an
// error list. Handled the same way as a transport error.
type ProtocolError struct {
	Channel  string
	Messages []string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("upstream returned errors for channel %q: %s", e.Channel, strings.Join(e.Messages, "; "))
}

// IsUpstream reports whether err originated at the upstream API rather than
// from caller input.
func IsUpstream(err error) bool {
	var te *TransportError
	var pe *ProtocolError
	return errors.As(err, &te) || errors.As(err, &pe)
}
