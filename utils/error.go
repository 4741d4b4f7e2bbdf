package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the JSON envelope shared by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FormatResponse builds the standard envelope.
func FormatResponse(success bool, message string, data interface{}) Response {
	return Response{Success: success, Message: message, Data: data}
}

// ValidationError signals malformed input (bad notification type, missing
// required fields, invalid ids). Surfaced as 400, never retried.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

// AuthError signals a missing, invalid or expired credential. Surfaced as
// 401; the realtime handshake treats it as a hard reject.
type AuthError struct {
	Msg string
}

func (e AuthError) Error() string { return e.Msg }

// ForbiddenError signals an operation on a resource the caller does not own.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string { return e.Msg }

// NotFoundError signals a missing resource.
type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string { return e.Msg }

// RespondError maps the error taxonomy onto HTTP status codes and writes the
// standard envelope. Unclassified errors become 500s.
func RespondError(c *gin.Context, err error) {
	var (
		validationErr ValidationError
		authErr       AuthError
		forbiddenErr  ForbiddenError
		notFoundErr   NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, FormatResponse(false, validationErr.Msg, nil))
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, FormatResponse(false, authErr.Msg, nil))
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, FormatResponse(false, forbiddenErr.Msg, nil))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, FormatResponse(false, notFoundErr.Msg, nil))
	default:
		GetLogger().Error("Unhandled request error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, FormatResponse(false, "Internal server error", nil))
	}
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, FormatResponse(false, "Internal server error", nil))
				c.Abort()
			}
		}()
		c.Next()
	}
}
