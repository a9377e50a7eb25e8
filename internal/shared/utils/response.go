package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
)

// APIResponse is the envelope used for errors and for the few endpoints that
// do not return a service result directly.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResultResponse writes a service result as-is.
func ResultResponse(c *gin.Context, statusCode int, result any) {
	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return
	}
	if result == nil {
		result = gin.H{}
	}
	c.JSON(statusCode, result)
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, errType errors.ErrorType, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    string(errType),
			Message: message,
		},
	})
}

// ErrorResponseWithError renders err. Anything that is not an AppError is
// reported as a generic internal error without its text.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		ErrorResponse(c, http.StatusInternalServerError, errors.ErrorTypeInternal, constants.ErrMsgInternalServerError)
		return
	}

	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}
