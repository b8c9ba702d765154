package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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

type Service interface {
	Get(ctx context.Context, id int) (*models.Feedback, error)
	Update(ctx context.Context, id int, title, content string) error
}

type Sessions interface {
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

// ServeHTTP godoc
// @Summary Изменить отзыв
// @Description GET возвращает форму с текущими значениями, POST сохраняет изменения. Доступно только автору.
// @Tags Feedback
// @Accept  x-www-form-urlencoded,json
// @Produce  json
// @Param id path int true "ID отзыва"
// @Param request body models.FeedbackForm false "Новые заголовок и текст"
// @Success 200 {object} response.Response "Форма с текущими значениями"
// @Success 302 "Перенаправление на /users/{owner} (или на /home без прав)"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или тело запроса"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /feedback/{id}/update [get]
// @Router /feedback/{id}/update [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	current, ok := middlewarectx.UsernameFrom(r.Context())
	if !ok {
		h.deny(w, r, log, "")
		return
	}

	fb, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("feedback not found", slog.Int("id", id))
			response.Render(w, r, log, h.sessions, http.StatusNotFound, response.Error("feedback not found"))
			return
		}
		log.Error("failed to get feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if fb.Username != current {
		h.deny(w, r, log, current)
		return
	}

	if r.Method == http.MethodGet {
		response.Render(w, r, log, h.sessions, http.StatusOK, response.Form(formName, models.FeedbackForm{
			Title:   fb.Title,
			Content: fb.Content,
		}))
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

	if err := h.service.Update(r.Context(), id, form.Title, form.Content); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Render(w, r, log, h.sessions, http.StatusNotFound, response.Error("feedback not found"))
			return
		}
		log.Error("failed to update feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update feedback"))
		return
	}

	log.Info("feedback updated", slog.Int("id", id))
	response.Redirect(w, r, log, h.sessions, "/users/"+fb.Username,
		&session.Flash{Category: session.Success, Message: "Feedback successfully updated."})
}

func (h *Handler) deny(w http.ResponseWriter, r *http.Request, log *slog.Logger, current string) {
	log.Warn("permission denied", slog.String("session_user", current))
	response.Redirect(w, r, log, h.sessions, "/home",
		&session.Flash{Category: session.Danger, Message: "You do not have permission to do this!"})
}
