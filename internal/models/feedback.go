package models

// Feedback представляет отзыв, принадлежащий пользователю Username.
type Feedback struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username"`
}
