package register

import (
	"context"
	"errors"
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
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

const formName = "register"

// Service регистрирует пользователей.
type Service interface {
	Register(ctx context.Context, form models.RegisterForm) (*models.User, error)
}

// Sessions — операции с сессией, нужные обработчику.
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
// @Summary Форма регистрации
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Пустая форма"
// @Router /register [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	response.Render(w, r, h.log, h.sessions, http.StatusOK, response.Form(formName, nil))
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создает пользователя, открывает сессию и перенаправляет на его страницу.
// @Tags Auth
// @Accept  x-www-form-urlencoded,json
// @Produce  json
// @Param request body models.RegisterForm true "Данные нового пользователя"
// @Success 302 "Перенаправление на /users/{username}"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 422 {object} response.Response "Ошибка валидации или имя/email заняты"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var form models.RegisterForm
	if err := render.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	values := form
	values.Password = ""

	if err := h.validate.Struct(form); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Render(w, r, log, h.sessions, http.StatusUnprocessableEntity,
			response.ValidationError(formName, values, err))
		return
	}

	user, err := h.service.Register(r.Context(), form)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			log.Info("duplicate registration", slog.String("username", form.Username), sl.Err(err))
			response.Render(w, r, log, h.sessions, http.StatusUnprocessableEntity,
				response.FormError(formName, values, duplicateErrors(err)))
			return
		}
		log.Error("failed to register user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	if err := h.sessions.Login(w, r, user.Username); err != nil {
		log.Error("failed to open session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("user registered", slog.String("username", user.Username))
	response.Redirect(w, r, log, h.sessions, "/users/"+user.Username,
		&session.Flash{Category: session.Success, Message: "Welcome! Successfully Created Your Account!"})
}

func duplicateErrors(err error) map[string][]string {
	switch {
	case errors.Is(err, storage.ErrEmailTaken):
		return map[string][]string{"email": {"Email already registered"}}
	default:
		return map[string][]string{"username": {"Username taken. Please pick another"}}
	}
}
