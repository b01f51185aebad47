package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "sigeu/internal/errors"
)

// CustomValidator wraps validator for Echo and reports failures in Spanish
// using the JSON field names.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	// tmin counts characters after trimming surrounding whitespace.
	_ = v.RegisterValidation("tmin", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
	})
	// maxbytes bounds the encoded length; bcrypt refuses more than 72 bytes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		max, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= max
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, message(fe))
	}
	return apperrors.New(apperrors.ErrValidation, "Datos de entrada inválidos", details...)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", field)
	case "tmin":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener como máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s debe tener como máximo %s bytes", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s es inválido", field)
}
