package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`   // error code, see codes.go
	Message string `json:"message"` // user-facing text in the session language
}

// RespondWithError writes an ErrorResponse with the given status and code.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Respond maps err through ParseError and writes the result.
func Respond(c *gin.Context, err error, lang string) {
	info := ParseError(err, lang)
	RespondWithError(c, info.Status, info.Code, info.Message)
}

// Shorthands for frequent responses

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(i18n.English, i18n.ProfilePleaseLogin)
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(i18n.English, i18n.ErrorUnexpected)
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
