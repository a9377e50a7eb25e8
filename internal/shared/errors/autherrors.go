package errors

import "net/http"

const (
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeAccountInactive    ErrorType = "account_inactive"
	ErrorTypeTokenInvalid       ErrorType = "token_invalid"
)

// NewInvalidCredentialsError does not say whether the email or the password was wrong.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidCredentials,
		Message: "Invalid email or password",
		Code:    http.StatusUnauthorized,
	}
}

func NewAccountInactiveError() *AppError {
	return &AppError{
		Type:    ErrorTypeAccountInactive,
		Message: "Account is deactivated",
		Code:    http.StatusUnauthorized,
	}
}

func NewTokenInvalidError(details ...string) *AppError {
	err := &AppError{
		Type:    ErrorTypeTokenInvalid,
		Message: "Invalid or expired token",
		Code:    http.StatusUnauthorized,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
