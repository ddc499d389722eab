package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationDetails turns binding errors into field -> messages. The second
// return value is false when err is not a validator error (e.g. malformed JSON).
func ValidationDetails(err error, req any) (map[string][]string, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}

	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := jsonFieldName(req, fe)
		out[field] = append(out[field], messageFor(fe))
	}
	return out, true
}

func messageFor(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return "Value is not allowed"
	case "dive":
		return "Invalid item"
	default:
		return fe.Error()
	}
}

// jsonFieldName maps the struct field back to its json tag when req is a
// struct (or pointer to one); nested fields keep their namespace tail.
func jsonFieldName(req any, fe validator.FieldError) string {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fe.Field()
	}

	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
	}
	return fe.Field()
}
