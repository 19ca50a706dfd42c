package llm

import (
	"context"
	"errors"
	"net"
)

// IsTimeout reports whether err came from a deadline, a cancellation, or a
// transport-level timeout rather than an answer from the service.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
