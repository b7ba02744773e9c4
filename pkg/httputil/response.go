package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/greenwell/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// RespondWithError sends an error response. Non-application errors are
// reported as internal errors without leaking their text.
func RespondWithError(c *gin.Context, err error) {
	RespondWithErrorData(c, err, nil)
}

// RespondWithErrorData sends an error response that still carries a payload,
// e.g. the session whose transition was blocked.
func RespondWithErrorData(c *gin.Context, err error, data interface{}) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.StatusCode()
		message = appErr.Message
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(statusCode, &Response{
		Status:  "error",
		Message: message,
		Data:    data,
	})
}
