package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"todoapi/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

func registerNotBlankValidation(field val.FieldLevel) bool {
	switch value := field.Field(); value.Kind() {
	case reflect.String:
		return strings.TrimSpace(value.String()) != ""
	case reflect.Ptr:
		if value.IsNil() {
			return true
		}

		str, ok := value.Elem().Interface().(string)

		return !ok || strings.TrimSpace(str) != ""
	default:
		return !value.IsZero()
	}
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)

	err := validate.RegisterValidation("notblank", registerNotBlankValidation)
	if err != nil {
		panic(err)
	}
}

// Validate reads JSON from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. An empty body decodes as an empty object.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil && !errors.Is(err, io.EOF) {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		return fromValidatorError(err).Err()
	}

	return nil
}

func fromValidatorError(err error) Result {
	var valErrors val.ValidationErrors

	res := Result{}

	if !errors.As(err, &valErrors) {
		res.Add("", "invalid", err.Error())

		return res
	}

	for _, valErr := range valErrors {
		res.Add(valErr.Field(), valErr.Tag(), message(valErr))
	}

	return res
}
