package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/shared/errors"
)

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, paramName string) (uint, error) {
	return ParseID(c.Param(paramName), paramName)
}

// ParseID parses a positive integer identifier; name is used in the message.
func ParseID(raw, name string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.NewValidationError(name + " is required")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewValidationError(name + " must be a positive integer")
	}
	return uint(n), nil
}
