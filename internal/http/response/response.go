// Package response формирует единый JSON-конверт ответов и редиректы с flash-сообщениями.
package response

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/lib/validate"
	"github.com/magabrotheeeer/feedback-board/internal/session"
)

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Data    any             `json:"data,omitempty"`
	Flashes []session.Flash `json:"flashes,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"not found"`
}

// FormView — состояние формы: введённые значения и ошибки по полям.
type FormView struct {
	Form   string              `json:"form"`
	Values any                 `json:"values,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// OK возвращает успешный Response с данными.
func OK(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с текстом ошибки.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// Form возвращает пустую или предзаполненную форму.
func Form(name string, values any) Response {
	return OK(FormView{Form: name, Values: values})
}

// FormError возвращает форму с ошибками по полям.
func FormError(name string, values any, errs map[string][]string) Response {
	return Response{
		Status: StatusError,
		Error:  "form is invalid",
		Data:   FormView{Form: name, Values: values, Errors: errs},
	}
}

// ValidationError собирает FormError из ошибки валидатора.
func ValidationError(name string, values any, err error) Response {
	return FormError(name, values, validate.FieldErrors(err))
}

// FlashSource отдаёт накопленные flash-сообщения.
type FlashSource interface {
	Flashes(w http.ResponseWriter, r *http.Request) ([]session.Flash, error)
}

// Flasher сохраняет flash-сообщение в сессии.
type Flasher interface {
	AddFlash(w http.ResponseWriter, r *http.Request, f session.Flash) error
}

// Render забирает flash-сообщения и пишет resp со статусом status.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, src FlashSource, status int, resp Response) {
	if src != nil {
		flashes, err := src.Flashes(w, r)
		if err != nil {
			log.Warn("failed to read flashes", sl.Err(err))
		}
		resp.Flashes = append(resp.Flashes, flashes...)
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// Redirect отправляет 302 на url, предварительно сохранив flash (если он есть).
func Redirect(w http.ResponseWriter, r *http.Request, log *slog.Logger, f Flasher, url string, flash *session.Flash) {
	if flash != nil && f != nil {
		if err := f.AddFlash(w, r, *flash); err != nil {
			log.Warn("failed to store flash", sl.Err(err))
		}
	}
	http.Redirect(w, r, url, http.StatusFound)
}
