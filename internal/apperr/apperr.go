// Package apperr содержит нормализованные ошибки приложения со стабильными
// кодами. Каждая ошибка, отдаваемая клиенту, несёт машинно-читаемый код
// в extensions GraphQL-ответа; внутренние детали наружу не попадают.
package apperr

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок, отдаваемые клиенту в extensions.code.
const (
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// FieldIssue описывает одно нарушение валидации конкретного поля.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error — нормализованная ошибка приложения. Реализует интерфейс
// gqlerrors.ExtendedError: Extensions попадают в GraphQL-ответ как есть.
type Error struct {
	Code    string
	Message string
	Details []FieldIssue
	cause   error
}

// Error возвращает только публичное сообщение. Текст ошибки попадает
// в GraphQL-ответ как есть, причина остаётся доступной через Unwrap.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Extensions возвращает содержимое extensions для GraphQL-ответа.
// requestId добавляется HTTP-обработчиком, не здесь.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Details) > 0 {
		ext["details"] = e.Details
	}
	return ext
}

// Validation возвращает ошибку BAD_USER_INPUT с перечнем нарушений.
func Validation(details []FieldIssue) *Error {
	return &Error{
		Code:    CodeBadUserInput,
		Message: "invalid input",
		Details: details,
	}
}

// Invalid возвращает ошибку BAD_USER_INPUT для одного поля.
func Invalid(field, message string) *Error {
	return Validation([]FieldIssue{{Field: field, Message: message}})
}

// Unauthenticated возвращает единообразную ошибку аутентификации.
// Текст одинаков для всех причин отказа.
func Unauthenticated() *Error {
	return &Error{Code: CodeUnauthenticated, Message: "authentication required"}
}

// InvalidCredentials возвращает ошибку входа. Неизвестная почта и неверный
// пароль дают одинаковый результат.
func InvalidCredentials() *Error {
	return &Error{Code: CodeUnauthenticated, Message: "invalid email or password"}
}

// Forbidden возвращает ошибку доступа к чужому ресурсу.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NotFound возвращает ошибку отсутствия ресурса.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Conflict возвращает ошибку нарушения уникальности.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Internal возвращает ошибку INTERNAL_SERVER_ERROR со скрытой причиной.
// Исходная ошибка сохраняется для логирования, но не отдаётся клиенту.
func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "internal server error",
		cause:   cause,
	}
}

// FromValidationErrors преобразует ошибки go-playground/validator
// в ошибку BAD_USER_INPUT с человеко-читаемыми сообщениями по полям.
func FromValidationErrors(errs validator.ValidationErrors) *Error {
	details := make([]FieldIssue, 0, len(errs))

	for _, err := range errs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = "is a required field"
		case "email":
			msg = "must be a valid email address"
		case "min":
			msg = fmt.Sprintf("must be at least %s characters", err.Param())
		case "max":
			msg = fmt.Sprintf("must be at most %s characters", err.Param())
		case "uuid":
			msg = "must be a valid uuid"
		case "url":
			msg = "must be a valid url"
		case "gte":
			msg = fmt.Sprintf("must be greater than or equal to %s", err.Param())
		case "personname":
			msg = "can contain only letters, spaces, hyphens and apostrophes"
		case "strongpassword":
			msg = "must contain upper and lower case letters, a digit and a special character"
		default:
			msg = "is not valid"
		}
		details = append(details, FieldIssue{Field: err.Field(), Message: msg})
	}
	return Validation(details)
}

// IsUniqueViolation сообщает, является ли ошибка нарушением уникального
// ограничения PostgreSQL (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Normalize приводит произвольную ошибку к *Error. Уже нормализованная
// ошибка возвращается как есть, нарушение уникальности становится
// конфликтом, всё остальное — внутренней ошибкой без деталей.
func Normalize(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if IsUniqueViolation(err) {
		return Conflict("resource already exists")
	}
	return Internal(err)
}
