package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/pkg/validator"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries per-field binding failures.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse acknowledges operations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

const genericServerError = "An unexpected error occurred"

// SendError aborts the request with {"error": message}.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// SendMessage replies with {"message": message}.
func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageResponse{Message: message})
}

// BindError answers a failed ShouldBind* call.
func BindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:  "Invalid request payload",
		Fields: validator.ParseError(err),
	})
}

// Fail maps a service error onto the HTTP taxonomy. Unclassified errors are
// logged in full and answered with a generic 500.
func Fail(c *gin.Context, err error) {
	var (
		ve *common.ValidationError
		ae *common.AccessDeniedError
		ne *common.NotFoundError
		ce *common.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		SendError(c, http.StatusBadRequest, ve.Message)
	case errors.As(err, &ae):
		SendError(c, http.StatusForbidden, ae.Message)
	case errors.As(err, &ne):
		SendError(c, http.StatusNotFound, ne.Error())
	case errors.As(err, &ce):
		SendError(c, http.StatusBadRequest, ce.Message)
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		SendError(c, http.StatusInternalServerError, genericServerError)
	}
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, resourceName string) {
	SendError(c, http.StatusNotFound, resourceName+" not found")
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	SendError(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access to this resource is forbidden"
	}
	SendError(c, http.StatusForbidden, message)
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request payload or parameters"
	}
	SendError(c, http.StatusBadRequest, message)
}

// InternalServerError sends the generic 500 reply.
func InternalServerError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, genericServerError)
}
