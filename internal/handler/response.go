package handler

import (
	"errors"
	"net/http"

	"pixgate/internal/service"

	"github.com/gin-gonic/gin"
)

var errStatusCodes = map[string]int{
	service.ErrCodeInvalidAmount:       http.StatusBadRequest,
	service.ErrCodePlanNotFound:        http.StatusNotFound,
	service.ErrCodeGatewayNotFound:     http.StatusNotFound,
	service.ErrCodeTransactionNotFound: http.StatusNotFound,
	service.ErrCodeNoGatewayConfigured: http.StatusConflict,
	service.ErrCodeMissingExternalID:   http.StatusConflict,
	service.ErrCodeProviderUnsupported: http.StatusUnprocessableEntity,
	service.ErrCodeUpstreamRejected:    http.StatusBadGateway,
	service.ErrCodeProviderTimeout:     http.StatusGatewayTimeout,
}

// respondServiceError maps a service error to one JSON error response. The
// error code is the contract; the cause stays in the logs, not the body.
func respondServiceError(c *gin.Context, err error) {
	var svcErr service.Error
	if errors.As(err, &svcErr) {
		status, ok := errStatusCodes[svcErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": svcErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
}
