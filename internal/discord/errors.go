package discord

import (
	"errors"
	"fmt"
)

// SinkErrorKind classifies webhook failures the publisher reacts to.
type SinkErrorKind int

const (
	// SinkOther covers auth, rate limit, malformed payload and transport
	// errors. The publisher keeps its live message id and retries on the
	// next change.
	SinkOther SinkErrorKind = iota
	// SinkNotFound means the target message no longer exists; the publisher
	// drops its live message id and creates fresh next time.
	SinkNotFound
)

// SinkError is a failed create/edit against the webhook.
type SinkError struct {
	Kind   SinkErrorKind
	Op     string // "create" or "edit"
	Status int    // HTTP status, 0 for transport errors
	Err    error
}

func (e *SinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("webhook %s: status %d", e.Op, e.Status)
}

func (e *SinkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a sink rejection of the not-found class.
func IsNotFound(err error) bool {
	var se *SinkError
	return errors.As(err, &se) && se.Kind == SinkNotFound
}
