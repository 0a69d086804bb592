package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/internal/service"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

// Business codes carried in the response envelope.
const (
	codeBadParams         = 10001
	codeInvalidCredential = 11001
	codeInvalidToken      = 11002
	codeValidation        = 40001
	codeUnauthorized      = 40301
	codeNotOwner          = 40302
	codeNotFound          = 40401
	codeConflict          = 40901
	codeInvalidTransition = 40902
	codeMismatch          = 42201
)

// badParams binding failure, nothing reached the service.
func badParams(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, codeBadParams, "invalid parameters", err.Error())
}

// handleError maps the error taxonomy onto HTTP. Unknown errors become a 500 and are
// attached to the context for the request logger.
func handleError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, codeInvalidCredential, msg)
	case errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, codeInvalidToken, msg)
	case errors.Is(err, service.ErrFulfillmentMismatch):
		response.Unprocessable(c, codeMismatch, msg)
	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, codeValidation, msg)
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, codeNotFound, msg)
	case errors.Is(err, pkgerrors.ErrNotOwner):
		response.Forbidden(c, codeNotOwner, msg)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.Forbidden(c, codeUnauthorized, msg)
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		response.Conflict(c, codeInvalidTransition, msg)
	case pkgerrors.IsConflict(err):
		response.Conflict(c, codeConflict, msg)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
