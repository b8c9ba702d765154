// Package storage описывает ошибки слоя хранения, общие для репозиториев,
// сервисов и HTTP-обработчиков.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, когда запись с указанным ключом отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey возвращается при нарушении ограничения уникальности.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = fmt.Errorf("username: %w", ErrDuplicateKey)
	// ErrEmailTaken — почта уже зарегистрирована.
	ErrEmailTaken = fmt.Errorf("email: %w", ErrDuplicateKey)
)
