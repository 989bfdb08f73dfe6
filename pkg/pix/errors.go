package pix

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrTimeout is returned when a provider does not answer within the
	// call bound. The in-flight request is aborted before returning.
	ErrTimeout = errors.New("PROVIDER_TIMEOUT")

	// ErrUnsupported is returned without a network call when the provider
	// cannot issue PIX charges at all.
	ErrUnsupported = errors.New("PIX_UNSUPPORTED")

	// ErrUnknownProvider is returned by ForProvider for identifiers outside
	// the registered set.
	ErrUnknownProvider = errors.New("UNKNOWN_PROVIDER")
)

// UpstreamError carries a provider's non-success HTTP answer across the
// adapter boundary as a value instead of a panic or a bare string.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream rejected with %d: %s", e.Provider, e.StatusCode, e.Body)
}

// wrapTransportErr folds transport failures into the adapter vocabulary.
// Client timeouts surface as ErrTimeout; everything else passes through.
func wrapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return err
}
