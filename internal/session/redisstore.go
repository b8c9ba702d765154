package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/magabrotheeeer/feedback-board/internal/config"
)

const redisKeyPrefix = "session:"

// KV — минимальный контракт хранилища ключ-значение, которое предоставляет cache.Cache.
type KV interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// RedisStore реализует sessions.Store: в cookie лежит только подписанный
// идентификатор, значения сессии хранятся в Redis.
type RedisStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options
	kv      KV
}

var _ sessions.Store = (*RedisStore)(nil)

// NewRedisStore создаёт хранилище сессий поверх kv.
func NewRedisStore(kv KV, cfg config.Session) *RedisStore {
	codecs := securecookie.CodecsFromPairs([]byte(cfg.SecretKey))
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(int(cfg.MaxAge / time.Second))
		}
	}
	return &RedisStore{
		Codecs:  codecs,
		Options: Options(cfg),
		kv:      kv,
	}
}

// Get возвращает сессию из реестра запроса.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New создаёт сессию и, если в запросе есть cookie, загружает значения из Redis.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, errCookie := r.Cookie(name)
	if errCookie != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		return session, err
	}
	found, err := s.load(r.Context(), session)
	if err != nil {
		return session, err
	}
	session.IsNew = !found
	return session, nil
}

// Save записывает значения в Redis и выставляет cookie с идентификатором.
// MaxAge <= 0 удаляет сессию.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	const op = "session.RedisStore.Save"

	if session.Options.MaxAge <= 0 {
		if session.ID != "" {
			if err := s.kv.Invalidate(r.Context(), redisKeyPrefix+session.ID); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.save(r.Context(), session); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Rotate удаляет ключ сессии из Redis и сбрасывает её идентификатор:
// следующий Save выдаст новый.
func (s *RedisStore) Rotate(r *http.Request, session *sessions.Session) error {
	const op = "session.RedisStore.Rotate"
	if session.ID == "" {
		return nil
	}
	if err := s.kv.Invalidate(r.Context(), redisKeyPrefix+session.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	session.ID = ""
	return nil
}

func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	return s.kv.Set(ctx, redisKeyPrefix+session.ID, encoded, ttl)
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) (bool, error) {
	var encoded string
	found, err := s.kv.Get(ctx, redisKeyPrefix+session.ID, &encoded)
	if err != nil || !found {
		return false, err
	}
	if err = securecookie.DecodeMulti(session.Name(), encoded, &session.Values, s.Codecs...); err != nil {
		return false, err
	}
	return true, nil
}
