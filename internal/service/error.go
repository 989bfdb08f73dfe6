package service

import (
	"errors"

	"pixgate/pkg/pix"
)

const (
	ErrCodeNoGatewayConfigured = "NO_GATEWAY_CONFIGURED"
	ErrCodeGatewayNotFound     = "GATEWAY_NOT_FOUND"
	ErrCodePlanNotFound        = "PLAN_NOT_FOUND"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodeProviderTimeout     = "PROVIDER_TIMEOUT"
	ErrCodeUpstreamRejected    = "UPSTREAM_REJECTED"
	ErrCodeProviderUnsupported = "PROVIDER_UNSUPPORTED"
	ErrCodeOperationFailed     = "OPERATION_FAILED"
	ErrCodeMissingExternalID   = "MISSING_EXTERNAL_ID"
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// mapProviderError folds the adapter failure vocabulary into service error
// codes. Adapter failures propagate verbatim as the cause; callers decide
// whether to retry, this layer never does.
func mapProviderError(err error) error {
	switch {
	case errors.Is(err, pix.ErrTimeout):
		return NewServiceError(ErrCodeProviderTimeout, err)
	case errors.Is(err, pix.ErrUnsupported):
		return NewServiceError(ErrCodeProviderUnsupported, err)
	}
	var upstream *pix.UpstreamError
	if errors.As(err, &upstream) {
		return NewServiceError(ErrCodeUpstreamRejected, err)
	}
	return NewServiceError(ErrCodeOperationFailed, err)
}
