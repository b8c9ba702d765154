package models

// RegisterForm — данные формы регистрации.
//
// Теги form используются при разборе application/x-www-form-urlencoded,
// теги json — при разборе JSON-тела. Длины совпадают с ограничениями колонок.
type RegisterForm struct {
	Username  string `json:"username" form:"username" validate:"required,alphanum,max=20"`
	Password  string `json:"password" form:"password" validate:"required,min=5,max=72,maxbytes=72"`
	Email     string `json:"email" form:"email" validate:"required,email,max=50"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=30"`
}

// LoginForm — данные формы входа.
type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required,max=20"`
	Password string `json:"password" form:"password" validate:"required,maxbytes=72"`
}

// FeedbackForm — данные формы создания и редактирования отзыва.
type FeedbackForm struct {
	Title   string `json:"title" form:"title" validate:"required,max=100"`
	Content string `json:"content" form:"content" validate:"required"`
}
