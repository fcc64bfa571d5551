package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagName is shared with gin's binding engine so one set of struct tags
// drives both request binding and standalone validation.
const TagName = "binding"

// New returns a validator reading `binding` tags and reporting json field names.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	RegisterValidators(v)
	return v
}

// RegisterValidators makes v report fields by their json names
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
