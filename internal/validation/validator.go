// Package validation wires go-playground/validator with the Brazilian rules
// used by lead and quote forms.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn func(string) bool) {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	must("br_phone", IsBrazilianPhone)
	must("person_name", IsPersonName)
	must("cpf", IsCPF)
	must("cnpj", IsCNPJ)

	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// Var validates a single value against a tag expression.
func Var(field any, tag string) error {
	return validate.Var(field, tag)
}

// FieldErrors maps each failing JSON field to its first message.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["_"] = err.Error()
		}
		return out
	}

	for _, e := range verrs {
		if _, ok := out[e.Field()]; !ok {
			out[e.Field()] = message(e)
		}
	}
	return out
}

// FirstError returns a single human readable line for the first failure.
func FirstError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field() + ": " + message(verrs[0])
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "br_phone":
		return "telefone inválido. Ex: (21) 98888-7777"
	case "person_name":
		return "nome inválido"
	case "cpf":
		return "CPF inválido"
	case "cnpj":
		return "CNPJ inválido"
	case "uuid", "uuid4":
		return "identificador inválido"
	case "oneof":
		return "deve ser um de: " + e.Param()
	case "min":
		if e.Kind() == reflect.String {
			return "mínimo de " + e.Param() + " caracteres"
		}
		return "deve ser no mínimo " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "máximo de " + e.Param() + " caracteres"
		}
		return "deve ser no máximo " + e.Param()
	case "gt":
		return "deve ser maior que " + e.Param()
	case "gte":
		return "deve ser maior ou igual a " + e.Param()
	case "lte":
		return "deve ser menor ou igual a " + e.Param()
	default:
		return "valor inválido"
	}
}
