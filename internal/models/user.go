// Package models содержит доменные структуры доски отзывов: пользователя,
// отзыв и формы, через которые они приходят из HTTP-запросов.
package models

// User представляет зарегистрированного пользователя.
type User struct {
	Username     string `json:"username"`   // Первичный ключ, уникален
	PasswordHash string `json:"-"`          // bcrypt-хэш пароля, наружу не отдаётся
	Email        string `json:"email"`      // Уникальная электронная почта
	FirstName    string `json:"first_name"` // Имя
	LastName     string `json:"last_name"`  // Фамилия
}

// FullName возвращает имя и фамилию через пробел.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
