package failure

import (
	"errors"
	"net/http"
	"strings"
)

// FieldError describes a single rule a field failed.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

var InvalidMultipartForm = &Failure{Code: http.StatusBadRequest, Message: "request must be a multipart form"}
var MissingFormFile = &Failure{Code: http.StatusBadRequest, Message: "file is required"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// Validation returns a bad request Failure listing every failed field.
// The message joins the individual field messages.
func Validation(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}

	messages := make([]string, len(fields))
	for i, field := range fields {
		messages[i] = field.Message
	}

	return &Failure{
		Code:    http.StatusBadRequest,
		Message: strings.Join(messages, "; "),
		Fields:  fields,
	}
}

// RequestTooLarge returns a new Failure for request bodies over the accepted size.
func RequestTooLarge(msg string) error {
	return &Failure{
		Code:    http.StatusRequestEntityTooLarge,
		Message: msg,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetFields returns the field errors carried by err, if any.
func GetFields(err error) []FieldError {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Fields
	}

	return nil
}

// IsNotFound reports whether err is a not found Failure.
func IsNotFound(err error) bool {
	return GetCode(err) == http.StatusNotFound
}
