// Package validate настраивает go-playground/validator для HTML-форм:
// ошибки адресуются по имени поля формы, а не по имени поля структуры.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
)

// New возвращает валидатор, который берёт имена полей из тега form.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Ошибка возможна только при пустом имени тега.
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return v
}

// maxBytes ограничивает длину строки в байтах, а не в рунах: bcrypt читает не больше 72 байт.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return len(field.String()) <= limit
}

// FieldErrors раскладывает ошибку валидации по полям формы.
//
// Ошибки другого типа попадают под ключ "_form".
func FieldErrors(err error) map[string][]string {
	out := make(map[string][]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_form"] = append(out["_form"], err.Error())
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "alphanum":
		return "Only letters and numbers are allowed."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Field cannot be longer than %s bytes.", fe.Param())
	default:
		return "Invalid value."
	}
}
