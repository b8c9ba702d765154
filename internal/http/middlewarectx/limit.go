package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/feedback-board/internal/http/response"
)

// maxIdleClients — после этого числа клиентов полные (простаивающие) корзины вычищаются.
const maxIdleClients = 10000

// ClientLimiter держит отдельный token bucket на каждый IP клиента.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewClientLimiter создаёт ClientLimiter с rps запросов в секунду и запасом burst на клиента.
func NewClientLimiter(rps rate.Limit, burst int) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rps,
		burst:   burst,
	}
}

// Allow расходует токен из корзины клиента key.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= maxIdleClients {
			l.evictIdle()
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[key] = lim
	}
	return lim.Allow()
}

// evictIdle удаляет корзины, наполнившиеся до burst.
func (l *ClientLimiter) evictIdle() {
	for key, lim := range l.clients {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.clients, key)
		}
	}
}

// clientIP возвращает адрес клиента без порта. middleware.RealIP к этому моменту уже подставил
// X-Real-IP / X-Forwarded-For в RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware ограничивает частоту запросов с одного IP.
func RateLimitMiddleware(log *slog.Logger, limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				log.Warn("too many requests",
					slog.String("path", r.URL.Path),
					slog.String("client_ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
