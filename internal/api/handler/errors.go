package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// Business error codes.
const (
	CodeBadParam         = 10001
	CodeUnauthenticated  = 10002
	CodeForbidden        = 10003
	CodeNotFound         = 20001
	CodeValidationFailed = 20002
	CodeCapacityExceeded = 20003
	CodeStateConflict    = 20004
)

// handleServiceError maps service errors onto the response envelope by
// category. Invariant violations carry the invariant name in details and
// optimistic-lock losses are flagged retryable.
func handleServiceError(c *gin.Context, err error) {
	var inv *service.InvariantError
	if errors.As(err, &inv) {
		response.InvariantViolation(c, CodeValidationFailed, inv.Invariant, inv.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, CodeUnauthenticated, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, CodeForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		response.BadRequest(c, CodeValidationFailed, err.Error())
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, CodeCapacityExceeded, err.Error())
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.RetryableConflict(c, CodeStateConflict, err.Error())
	case errors.Is(err, service.ErrStateConflict):
		response.Conflict(c, CodeStateConflict, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

func badParam(c *gin.Context) {
	response.BadRequest(c, CodeBadParam, "invalid parameters")
}
