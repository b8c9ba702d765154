// Package handlertest собирает запросы и сессии для тестов HTTP-обработчиков.
package handlertest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/feedback-board/internal/config"
	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/session"
)

const sessionName = "session"

// NewLogger возвращает логгер, который ничего не пишет.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// NewSessions возвращает менеджер сессий поверх подписанной cookie.
func NewSessions() *session.Manager {
	cfg := config.Session{
		SecretKey: "handler-test-secret-key-0123456789",
		Name:      sessionName,
		Store:     config.SessionStoreCookie,
		MaxAge:    time.Hour,
	}
	return session.NewManager(session.NewCookieStore(cfg), cfg.Name)
}

// Form собирает запрос с телом application/x-www-form-urlencoded.
func Form(method, target string, values url.Values) *http.Request {
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "test-request")
	return req.WithContext(ctx)
}

// JSON собирает запрос с JSON-телом.
func JSON(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsUser кладёт имя пользователя в контекст, как это делает LoadSession.
func AsUser(req *http.Request, username string) *http.Request {
	if username == "" {
		return req
	}
	return req.WithContext(middlewarectx.WithUsername(req.Context(), username))
}

// WithParams добавляет параметры маршрута chi.
func WithParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// Follow возвращает GET-запрос на target с cookie из ответа rec.
// Из нескольких Set-Cookie с одним именем берётся последняя.
func Follow(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	last := make(map[string]*http.Cookie)
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := last[c.Name]; !seen {
			order = append(order, c.Name)
		}
		last[c.Name] = c
	}
	for _, name := range order {
		req.AddCookie(last[name])
	}
	return req
}

// SessionUser возвращает имя пользователя из cookie, выставленной в rec.
func SessionUser(t *testing.T, m *session.Manager, rec *httptest.ResponseRecorder) string {
	t.Helper()
	username, err := m.Username(Follow(rec, "/"))
	require.NoError(t, err)
	return username
}

// Flashes возвращает flash-сообщения из cookie, выставленной в rec.
func Flashes(t *testing.T, m *session.Manager, rec *httptest.ResponseRecorder) []session.Flash {
	t.Helper()
	flashes, err := m.Flashes(httptest.NewRecorder(), Follow(rec, "/"))
	require.NoError(t, err)
	return flashes
}
