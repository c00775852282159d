package server

import (
	"fmt"

	"record-validate/internal/validate"
)

type AppError struct {
	Code    string            `json:"code"`
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  validate.ErrorMap `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func ValidationFailed(fields validate.ErrorMap) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Status:  422,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func UnknownRecordTypeError(name string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_RECORD_TYPE",
		Status:  404,
		Message: fmt.Sprintf("No validation rules for record type: %s", name),
	}
}

func BadRequestError(msg string) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Status:  400,
		Message: msg,
	}
}
