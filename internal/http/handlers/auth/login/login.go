package login

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/lib/validate"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/session"
)

const formName = "login"

type Service interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type Sessions interface {
	Login(w http.ResponseWriter, r *http.Request, username string) error
	AddFlash(w http.ResponseWriter, r *http.Request, f session.Flash) error
	Flashes(w http.ResponseWriter, r *http.Request) ([]session.Flash, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validate.New(),
	}
}

// Show godoc
// @Summary Форма входа
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Пустая форма"
// @Router /login [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	response.Render(w, r, h.log, h.sessions, http.StatusOK, response.Form(formName, nil))
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Проверяет имя и пароль, открывает сессию и перенаправляет на страницу пользователя.
// @Tags Auth
// @Accept  x-www-form-urlencoded,json
// @Produce  json
// @Param request body models.LoginForm true "Учетные данные пользователя"
// @Success 302 "Перенаправление на /users/{username}"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var form models.LoginForm
	if err := render.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	values := models.LoginForm{Username: form.Username}

	if err := h.validate.Struct(form); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Render(w, r, log, h.sessions, http.StatusUnprocessableEntity,
			response.ValidationError(formName, values, err))
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		log.Error("failed to authenticate", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if user == nil {
		log.Info("invalid credentials", slog.String("username", form.Username))
		response.Render(w, r, log, h.sessions, http.StatusUnauthorized,
			response.FormError(formName, values, map[string][]string{
				"username": {"Invalid username/password."},
			}))
		return
	}

	if err := h.sessions.Login(w, r, user.Username); err != nil {
		log.Error("failed to open session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("user logged in", slog.String("username", user.Username))
	response.Redirect(w, r, log, h.sessions, "/users/"+user.Username, &session.Flash{
		Category: session.Primary,
		Message:  fmt.Sprintf("Welcome Back, %s!", user.Username),
	})
}
