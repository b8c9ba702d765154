// Package feedbackboard собирает HTTP-приложение: маршруты, зависимости и жизненный цикл сервера.
package feedbackboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/feedback/create"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/feedback/home"
	feedbackremove "github.com/magabrotheeeer/feedback-board/internal/http/handlers/feedback/remove"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/feedback/update"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/user/profile"
	userremove "github.com/magabrotheeeer/feedback-board/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/user/secret"
	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/metrics"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/session"

	_ "github.com/magabrotheeeer/feedback-board/docs"
)

// UserService — операции над пользователями, нужные маршрутам.
type UserService interface {
	Register(ctx context.Context, form models.RegisterForm) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

// FeedbackService — операции над отзывами, нужные маршрутам.
type FeedbackService interface {
	Create(ctx context.Context, title, content, username string) (*models.Feedback, error)
	ListAll(ctx context.Context) ([]*models.Feedback, error)
	ListByUser(ctx context.Context, username string) ([]*models.Feedback, error)
	Get(ctx context.Context, id int) (*models.Feedback, error)
	Update(ctx context.Context, id int, title, content string) error
	Delete(ctx context.Context, id int) error
}

// Deps — зависимости маршрутов.
type Deps struct {
	Logger   *slog.Logger
	Users    UserService
	Feedback FeedbackService
	Sessions *session.Manager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Limiter  *middlewarectx.ClientLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	log := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(d.Metrics),
		middlewarectx.LoadSession(d.Sessions, log),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("method not allowed"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusFound)
	})

	limited := r.With(middlewarectx.RateLimitMiddleware(log, d.Limiter))
	requireLogin := r.With(middlewarectx.RequireLogin(d.Sessions, log))

	// Аутентификация
	reg := register.New(log, d.Users, d.Sessions)
	r.Get("/register", reg.Show)
	limited.Post("/register", reg.ServeHTTP)

	lgn := login.New(log, d.Users, d.Sessions)
	r.Get("/login", lgn.Show)
	limited.Post("/login", lgn.ServeHTTP)

	r.Post("/logout", logout.New(log, d.Sessions).ServeHTTP)

	// Пользователи
	requireLogin.Get("/secret", secret.New(log, d.Sessions).ServeHTTP)
	requireLogin.Get("/users/{username}", profile.New(log, d.Users, d.Feedback, d.Sessions).ServeHTTP)
	r.Post("/users/{username}/delete", userremove.New(log, d.Users, d.Sessions).ServeHTTP)

	// Отзывы
	r.Get("/home", home.New(log, d.Feedback, d.Sessions).ServeHTTP)

	add := create.New(log, d.Users, d.Feedback, d.Sessions)
	r.Get("/users/{username}/feedback/add", add.ServeHTTP)
	r.Post("/users/{username}/feedback/add", add.ServeHTTP)

	upd := update.New(log, d.Feedback, d.Sessions)
	r.Get("/feedback/{id:[0-9]+}/update", upd.ServeHTTP)
	r.Post("/feedback/{id:[0-9]+}/update", upd.ServeHTTP)

	r.Post("/feedback/{id:[0-9]+}/delete", feedbackremove.New(log, d.Feedback, d.Sessions).ServeHTTP)

	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
