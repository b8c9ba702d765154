package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/lib/validate"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/session"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

const formName = "feedback"

type UserService interface {
	Get(ctx context.Context, username string) (*models.User, error)
}

type Service interface {
	Create(ctx context.Context, title, content, username string) (*models.Feedback, error)
}

type Sessions interface {
	AddFlash(w http.ResponseWriter, r *http.Request, f session.Flash) error
	Flashes(w http.ResponseWriter, r *http.Request) ([]session.Flash, error)
}

type Handler struct {
	log      *slog.Logger
	users    UserService
	service  Service
	sessions Sessions
	validate *validator.Validate
}

func New(log *slog.Logger, users UserService, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		service:  service,
		sessions: sessions,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить отзыв
// @Description GET возвращает пустую форму, POST создает отзыв от имени текущего пользователя.
// @Tags Feedback
// @Accept  x-www-form-urlencoded,json
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Param request body models.FeedbackForm false "Заголовок и текст отзыва"
// @Success 200 {object} response.Response "Пустая форма"
// @Success 302 "Перенаправление на /users/{username} (или на /home без прав)"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{username}/feedback/add [get]
// @Router /users/{username}/feedback/add [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	current, ok := middlewarectx.UsernameFrom(r.Context())
	if !ok || current != username {
		log.Warn("permission denied", slog.String("target", username), slog.String("session_user", current))
		response.Redirect(w, r, log, h.sessions, "/home",
			&session.Flash{Category: session.Danger, Message: "You do not have permission to do this!"})
		return
	}

	if _, err := h.users.Get(r.Context(), username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found", slog.String("username", username))
			response.Render(w, r, log, h.sessions, http.StatusNotFound, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if r.Method == http.MethodGet {
		response.Render(w, r, log, h.sessions, http.StatusOK, response.Form(formName, nil))
		return
	}

	var form models.FeedbackForm
	if err := render.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(form); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Render(w, r, log, h.sessions, http.StatusUnprocessableEntity,
			response.ValidationError(formName, form, err))
		return
	}

	fb, err := h.service.Create(r.Context(), form.Title, form.Content, username)
	if err != nil {
		log.Error("failed to create feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create feedback"))
		return
	}

	log.Info("feedback created", slog.Int("id", fb.ID))
	response.Redirect(w, r, log, h.sessions, "/users/"+username, nil)
}
