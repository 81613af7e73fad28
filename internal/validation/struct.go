package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON key so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		default:
			return name
		}
	})

	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}
