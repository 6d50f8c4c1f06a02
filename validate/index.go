package validate

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/utils"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	v.RegisterValidation("mobilephone", func(fl validator.FieldLevel) bool {
		return utils.IsValidMobilePhone(fl.Field().String())
	})
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return utils.IsValidClock(fl.Field().String())
	})
	v.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		return utils.IsValidValueOfConstant(fl.Field().String(), constants.EVENT_TYPES)
	})
	return v
}

// Struct runs the shared validator with the custom rules registered.
func Struct(s any) error {
	return validate.Struct(s)
}

// FieldErrors turns validator output into the {field, message} list of the response envelope.
func FieldErrors(err error) []utils.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []utils.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]utils.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, utils.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	// drop the root type and embedded struct names, keep json names and indexes
	parts := strings.Split(fe.Namespace(), ".")
	kept := make([]string, 0, len(parts))
	for _, p := range parts[1:] {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return "Please provide a valid email"
	case "mobilephone":
		return "Please provide a valid phone number"
	case "clock":
		return fmt.Sprintf("%s must be in HH:MM format", name)
	case "eventtype":
		return fmt.Sprintf("%s must be one of %s", name, strings.Join(constants.EVENT_TYPES, ", "))
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s item(s)", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", name, fe.Tag())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	}
	return fmt.Sprintf("%s is invalid", name)
}

func validationFailed(c *fiber.Ctx, err error) error {
	return utils.ValidationErrorResponse(c, constants.VALIDATION_FAILED, FieldErrors(err))
}

func fieldFailed(c *fiber.Ctx, field, message string) error {
	return utils.ValidationErrorResponse(c, constants.VALIDATION_FAILED, []utils.FieldError{{Field: field, Message: message}})
}

// parseBody decodes and validates the JSON body into input. When ok is false the
// error response has already been written and err must be returned as is.
func parseBody(c *fiber.Ctx, input any) (ok bool, err error) {
	if err := c.BodyParser(input); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_REQUEST_BODY, err)
	}
	trimStrings(input)
	if err := validate.Struct(input); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

func parseQuery(c *fiber.Ctx, input any) (ok bool, err error) {
	if err := c.QueryParser(input); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_QUERY, err)
	}
	trimStrings(input)
	if err := validate.Struct(input); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

// trimStrings trims every exported string and *string field of a struct pointer, including embedded structs.
func trimStrings(ptr any) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	trimValue(v.Elem())
}

func trimValue(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Pointer:
			if f.IsNil() {
				continue
			}
			if f.Elem().Kind() == reflect.String {
				f.Elem().SetString(strings.TrimSpace(f.Elem().String()))
			}
		case reflect.Struct:
			if v.Type().Field(i).Anonymous {
				trimValue(f)
			}
		}
	}
}

// ParamID checks that the route param is a UUID and stores it under inputId.
func ParamID(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(key)
		if _, err := uuid.Parse(id); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_ID, fmt.Errorf("%s: %w", key, err))
		}
		c.Locals("inputId", id)
		return c.Next()
	}
}

// ParamIDs validates several UUID params at once, storing each under its own name.
func ParamIDs(keys ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, key := range keys {
			id := c.Params(key)
			if _, err := uuid.Parse(id); err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_ID, fmt.Errorf("%s: %w", key, err))
			}
			c.Locals(key, id)
		}
		return c.Next()
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
