package apperr

import (
	"errors"
	"fmt"
)

// Kind определяет категорию ошибки бизнес-логики.
type Kind int

const (
	// KindConflict - нарушено предусловие перехода состояния (заявка уже взята, неверный статус).
	KindConflict Kind = iota
	// KindNotFound - запрошенная сущность не найдена.
	KindNotFound
	// KindValidation - входные данные не прошли проверку (до обращения к базе).
	KindValidation
	// KindUnauthorized - действие недоступно для данной роли или пользователя.
	KindUnauthorized
	// KindInternal - внутренняя ошибка (недоступность хранилища и т.п.).
	KindInternal
)

// Error - типизированная ошибка уровня сервисов.
// Условные обновления, не нашедшие строку, транслируются в KindConflict
// и никогда не повторяются автоматически.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Conflict создает ошибку нарушенного предусловия.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound создает ошибку отсутствия сущности.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Validation создает ошибку проверки входных данных.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unauthorized создает ошибку недостатка прав.
func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal оборачивает низкоуровневую ошибку хранилища.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf возвращает категорию ошибки; не-типизированные ошибки считаются внутренними.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsConflict сообщает, является ли ошибка конфликтом предусловия.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsNotFound сообщает, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
