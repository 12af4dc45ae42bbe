package graphql

import (
	"errors"
	"regexp"
	"unicode"

	"github.com/go-playground/validator"

	"github.com/planora/planora-api/internal/apperr"
)

var personNameRe = regexp.MustCompile(`^[\p{L}' -]+$`)

// newValidator собирает валидатор с кастомными правилами: имя человека
// и стойкость пароля.
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})

	// Пароль должен содержать верхний и нижний регистр, цифру и спецсимвол.
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		var hasUpper, hasLower, hasDigit, hasSpecial bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			case unicode.IsPunct(r) || unicode.IsSymbol(r):
				hasSpecial = true
			}
		}
		return hasUpper && hasLower && hasDigit && hasSpecial
	})

	return v
}

// validate проверяет входную структуру и превращает нарушения
// в ошибку BAD_USER_INPUT с перечнем полей.
func (r *Resolver) validate(s any) error {
	if err := r.valid.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperr.FromValidationErrors(verrs)
		}
		return err
	}
	return nil
}
