// Package session хранит состояние браузера между запросами: имя
// аутентифицированного пользователя и одноразовые flash-сообщения.
package session

import (
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/magabrotheeeer/feedback-board/internal/config"
)

const usernameKey = "username"

// Категории flash-сообщений.
const (
	Success = "success"
	Primary = "primary"
	Info    = "info"
	Danger  = "danger"
)

// Flash — одноразовое сообщение, показываемое после редиректа.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func init() {
	gob.Register(Flash{})
}

// Manager читает и изменяет сессию поверх любого sessions.Store.
type Manager struct {
	store sessions.Store
	name  string
}

// NewManager создаёт Manager для cookie с именем name.
func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

// NewCookieStore создаёт хранилище, держащее сессию в подписанной cookie.
func NewCookieStore(cfg config.Session) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = Options(cfg)
	return store
}

// Options строит параметры cookie из конфига.
func Options(cfg config.Session) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// get возвращает сессию запроса. Cookie, которую не удалось расшифровать
// (сменился ключ, истёк срок подписи), даёт новую пустую сессию.
func (m *Manager) get(r *http.Request) (*sessions.Session, error) {
	s, err := m.store.Get(r, m.name)
	if err == nil {
		return s, nil
	}
	var scErr securecookie.Error
	if s != nil && errors.As(err, &scErr) && scErr.IsDecode() {
		return s, nil
	}
	return nil, err
}

// Username возвращает имя пользователя из сессии или пустую строку.
func (m *Manager) Username(r *http.Request) (string, error) {
	const op = "session.Username"
	s, err := m.get(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	username, _ := s.Values[usernameKey].(string)
	return username, nil
}

// rotator — хранилище, умеющее выдать сессии новый идентификатор.
type rotator interface {
	Rotate(r *http.Request, s *sessions.Session) error
}

// Login запоминает пользователя в сессии. Серверная сессия при этом
// получает новый идентификатор, старый перестаёт действовать.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username string) error {
	const op = "session.Login"
	s, err := m.get(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rs, ok := m.store.(rotator); ok {
		if err = rs.Rotate(r, s); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	s.Values[usernameKey] = username
	if err = s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logout убирает пользователя из сессии; flash-сообщения сохраняются.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	const op = "session.Logout"
	s, err := m.get(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	delete(s.Values, usernameKey)
	if err = s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddFlash добавляет flash-сообщение к сессии.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, f Flash) error {
	const op = "session.AddFlash"
	s, err := m.get(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.AddFlash(f)
	if err = s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Flashes забирает накопленные flash-сообщения. Повторный вызов вернёт пустой список.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	const op = "session.Flashes"
	s, err := m.get(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	if err = s.Save(r, w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
