package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/foodreggie/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is shared by every payload. Field errors are reported under the
// name the client sent, taken from the form, json or param tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return v
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json", "param"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(fld.Name)
}

// Validatable is implemented by request payloads that validate themselves,
// usually by calling Struct.
type Validatable interface {
	Validate() error
}

// Struct validates v against its `validate` struct tags.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds path params, query and body into payload, then
// validates it. payload must be a pointer to a struct.
//
// A form body whose values do not fit their fields is rebound field by
// field and yields a 400 listing each offending field, like a validation
// failure. Any other bind failure yields a 400 without field errors.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		conversionErrors := rebindForm(c, payload)
		if len(conversionErrors) == 0 {
			return errs.NewBadRequestError(bindErrorMessage, false, nil, nil, nil)
		}
		return errs.NewBadRequestError("Validation failed", true, nil,
			mergeFieldErrors(conversionErrors, payload.Validate()), nil)
	}

	if err := payload.Validate(); err != nil {
		return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors(err), nil)
	}

	return nil
}

// bindErrorMessage replaces the binder's own text, which quotes strconv
// and json internals.
const bindErrorMessage = "Invalid request payload"

// rebindForm sets every form value that converts to its field and reports
// the ones that do not. Non-form requests report nothing.
func rebindForm(c echo.Context, payload any) []errs.FieldError {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		return nil
	}

	values, err := c.FormParams()
	if err != nil {
		return nil
	}

	rv := reflect.ValueOf(payload)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	rv = rv.Elem()

	var out []errs.FieldError
	for i := 0; i < rv.NumField(); i++ {
		sf := rv.Type().Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}

		raw := values.Get(name)
		if msg := setField(rv.Field(i), raw); msg != "" {
			out = append(out, errs.FieldError{Field: name, Error: msg})
		}
	}
	return out
}

// setField converts raw into field. It returns a message when raw does not
// fit; the field is then left at its zero value.
func setField(field reflect.Value, raw string) string {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			field.SetInt(0)
			return ""
		}
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			field.SetInt(0)
			return "must be a whole number"
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		if raw == "" {
			field.SetFloat(0)
			return ""
		}
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			field.SetFloat(0)
			return "must be a number"
		}
		field.SetFloat(f)
	case reflect.Bool:
		if raw == "" {
			field.SetBool(false)
			return ""
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			field.SetBool(false)
			return "must be true or false"
		}
		field.SetBool(b)
	}
	return ""
}

// mergeFieldErrors appends the validation failures of fields that did
// convert to the conversion errors.
func mergeFieldErrors(conversion []errs.FieldError, validateErr error) []errs.FieldError {
	if validateErr == nil {
		return conversion
	}

	seen := make(map[string]bool, len(conversion))
	for _, fe := range conversion {
		seen[fe.Field] = true
	}

	out := conversion
	for _, fe := range fieldErrors(validateErr) {
		if !seen[fe.Field] {
			out = append(out, fe)
		}
	}
	return out
}

func fieldErrors(err error) []errs.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Error: err.Error()}}
	}

	out := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, errs.FieldError{
			Field: fe.Field(),
			Error: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	}

	if fe.Param() != "" {
		return fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}
