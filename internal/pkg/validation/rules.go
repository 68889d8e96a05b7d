// Package validation registers the custom binding rules used by request DTOs
// and turns validator errors into field messages.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/campushub/internal/app/models"
)

var registerOnce sync.Once

// Register installs the custom rules on gin's validator. Safe to call more
// than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected binding validator engine")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn installs the custom rules on v
func RegisterOn(v *validator.Validate) error {
	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation("msgscope", func(fl validator.FieldLevel) bool {
		return models.MessageScope(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	return v.RegisterValidation("discussioncategory", func(fl validator.FieldLevel) bool {
		return models.DiscussionCategory(fl.Field().String()).IsValid()
	})
}

// FieldMessage describes a single failed field
type FieldMessage struct {
	Field   string
	Message string
}

// Describe returns one message per failed field of a validator error, or nil
// when err is not a validation error.
func Describe(err error) []FieldMessage {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldMessage, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldMessage{Field: e.Field(), Message: message(e)})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "uuid":
		return e.Field() + " must be a valid id"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "msgscope":
		return e.Field() + " must be one of: universal branch year dm"
	case "discussioncategory":
		return e.Field() + " is not a known category"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
