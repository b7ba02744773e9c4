package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/greenwell/pkg/validator"
)

// RegisterValidators teaches gin's binding engine the booking tags and makes
// it report fields by their JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}

	if err := validator.RegisterTags(v); err != nil {
		return err
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return nil
}

// BindingMessage turns a binding error into a short client message.
func BindingMessage(err error) string {
	var errs playground.ValidationErrors
	if !errors.As(err, &errs) {
		return "invalid request body"
	}

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field())
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
