package home

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/models"
)

type Service interface {
	ListAll(ctx context.Context) ([]*models.Feedback, error)
}

// View — лента всех отзывов.
type View struct {
	Username string             `json:"username,omitempty"`
	Feedback []*models.Feedback `json:"feedback"`
}

type Handler struct {
	log     *slog.Logger
	service Service
	flashes response.FlashSource
}

func New(log *slog.Logger, service Service, flashes response.FlashSource) *Handler {
	return &Handler{log: log, service: service, flashes: flashes}
}

// ServeHTTP godoc
// @Summary Все отзывы
// @Tags Feedback
// @Produce  json
// @Success 200 {object} response.Response{data=View} "Список отзывов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /home [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.home"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	username, _ := middlewarectx.UsernameFrom(r.Context())
	response.Render(w, r, log, h.flashes, http.StatusOK, response.OK(View{
		Username: username,
		Feedback: list,
	}))
}
