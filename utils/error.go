package utils

import (
	"errors"
	"net/http"

	"barberbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusFor maps a booking-flow error to an HTTP status.
func StatusFor(err error) int {
	var (
		ve *models.ValidationError
		le *models.LoadError
		ae *models.AuthorizationError
		se *models.SubmissionError
		re *models.ReconciliationError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ae):
		return http.StatusPaymentRequired
	case errors.As(err, &se), errors.As(err, &re):
		return http.StatusConflict
	case errors.As(err, &le):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrBusy), errors.Is(err, models.ErrDeclined):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrClosed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

// AbortWithError writes err using the flow's status mapping and the
// user-facing message.
func AbortWithError(c *gin.Context, err error) {
	JSONError(c, StatusFor(err), models.UserMessage(err), err.Error())
	c.Abort()
}
