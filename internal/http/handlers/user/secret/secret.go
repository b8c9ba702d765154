package secret

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/feedback-board/internal/http/response"
)

type Handler struct {
	log     *slog.Logger
	flashes response.FlashSource
}

func New(log *slog.Logger, flashes response.FlashSource) *Handler {
	return &Handler{log: log, flashes: flashes}
}

// ServeHTTP godoc
// @Summary Секретная страница
// @Description Доступна только вошедшему пользователю.
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response "You made it!"
// @Success 302 "Перенаправление на /login без сессии"
// @Router /secret [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.Render(w, r, h.log, h.flashes, http.StatusOK, response.OK(map[string]string{
		"message": "You made it!",
	}))
}
