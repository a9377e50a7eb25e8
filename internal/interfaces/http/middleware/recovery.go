package middleware

import (
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if checkBrokenConnection(recovered) {
			log.Errorw("connection broken during request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"headers", redactedHeaders(c.Request),
			"error", recovered,
			"stack", string(debug.Stack()))

		utils.ErrorResponse(c, http.StatusInternalServerError, errors.ErrorTypeInternal, constants.ErrMsgInternalServerError)
		c.Abort()
	})
}

func redactedHeaders(r *http.Request) []string {
	dump, _ := httputil.DumpRequest(r, false)
	headers := strings.Split(string(dump), "\r\n")
	for idx, header := range headers {
		name, _, found := strings.Cut(header, ":")
		if found && strings.EqualFold(name, constants.HeaderAuthorization) {
			headers[idx] = name + ": *"
		}
	}
	return headers
}

// checkBrokenConnection checks if the error is a broken connection
func checkBrokenConnection(err any) bool {
	var brokenConnections = []string{
		"connection reset by peer",
		"broken pipe",
		"connection refused",
	}

	if ne, ok := err.(*net.OpError); ok {
		if se, ok := ne.Err.(*os.SyscallError); ok {
			errStr := strings.ToLower(se.Error())
			for _, s := range brokenConnections {
				if strings.Contains(errStr, s) {
					return true
				}
			}
		}
	}
	return false
}

// ErrorHandler renders the last error attached with c.Error. Only AppErrors
// reach the client with their message.
func ErrorHandler(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if appErr := errors.GetAppError(err); appErr != nil && appErr.Code < http.StatusInternalServerError {
			log.Debugw("request failed",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err)
		} else {
			log.Errorw("handler error occurred",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", c.GetString(constants.ContextKeyRequestID),
				"error", err)
		}

		if !c.Writer.Written() {
			utils.ErrorResponseWithError(c, err)
		}
	}
}

// NotFound answers unknown routes with the error envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, errors.ErrorTypeNotFound, constants.ErrMsgRouteNotFound)
	}
}
