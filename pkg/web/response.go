// Package web defines common response components for the API.
package web

import (
	"github.com/go-playground/validator/v10"
)

// Error codes shared between the API and its clients.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeDuplicateEntry     = "DUPLICATE_ENTRY"
	CodeTransactionFailed  = "TRANSACTION_FAILED"
	CodeNetworkError       = "NETWORK_ERROR"
)

// ErrorBody carries a machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSONError is the error envelope returned by every handler.
type JSONError struct {
	Error ErrorBody `json:"error"`
}

// Error wraps a code and error into the common envelope.
func Error(code string, err error) JSONError {
	return JSONError{Error: ErrorBody{Code: code, Message: err.Error()}}
}

// ValidationError wraps a binding error into the common envelope.
//
// For validator errors the message names the first offending field so the
// client can surface an actionable message instead of a generic one.
func ValidationError(err error) JSONError {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		field := ve[0]
		return JSONError{Error: ErrorBody{
			Code:    CodeValidationError,
			Message: field.Field() + GetErrorMsg(field),
		}}
	}

	return JSONError{Error: ErrorBody{Code: CodeValidationError, Message: err.Error()}}
}

// GetErrorMsg maps a validator tag to a readable message suffix.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be greater or equal to " + fe.Param()
	case "max":
		return " must be less or equal to " + fe.Param()
	case "email":
		return " must be a valid email"
	case "uuid":
		return " must be a valid identifier"
	case "currency":
		return " is not supported"
	case "oneof":
		return " must be one of " + fe.Param()
	}

	return " is invalid"
}
