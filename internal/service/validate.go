package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"linecut/internal/brdoc"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return brdoc.ValidCPF(fl.Field().String())
	})
	_ = v.RegisterValidation("br_phone", func(fl validator.FieldLevel) bool {
		return brdoc.ValidPhone(fl.Field().String())
	})
	return v
}

// checkStruct validates s and turns the first failing field into the
// user-facing message registered for it. Fields missing from messages fall
// back to fallback.
func checkStruct(s any, messages map[string]string, fallback string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid(fallback)
	}
	// Dive errors look like Items[0].Quantity; match on the leaf field.
	field := verrs[0].StructNamespace()
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if msg, ok := messages[field]; ok {
		return invalid(msg)
	}
	return invalid(fallback)
}
