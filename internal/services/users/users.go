// Package services содержит бизнес-логику работы с пользователями:
// регистрацию, проверку пароля, получение и удаление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/feedback-board/internal/lib/password"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// CreateUser сохраняет пользователя. Конфликт имени или email даёт storage.ErrDuplicateKey.
	CreateUser(ctx context.Context, user models.User) error
	// GetUser возвращает пользователя или storage.ErrNotFound.
	GetUser(ctx context.Context, username string) (*models.User, error)
	// DeleteUser удаляет пользователя вместе с его отзывами.
	DeleteUser(ctx context.Context, username string) error
}

// Hasher хэширует и сверяет пароли.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Events получает уведомления о событиях учётных записей.
type Events interface {
	UserRegistered()
	UserDeleted()
	LoginFailed()
}

// Service реализует операции над пользователями.
type Service struct {
	repo   UserRepository
	hasher Hasher
	events Events
	log    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// New создаёт Service. events может быть nil.
func New(repo UserRepository, hasher Hasher, events Events, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		events: events,
		log:    log,
	}
}

// Register хэширует пароль и сохраняет нового пользователя.
func (s *Service) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	const op = "services.users.Register"

	hashed, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     form.Username,
		PasswordHash: hashed,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.events != nil {
		s.events.UserRegistered()
	}
	s.log.Info("user registered", slog.String("username", user.Username))
	return &user, nil
}

// Authenticate проверяет имя и пароль.
//
// Неизвестный пользователь и неверный пароль неразличимы: оба дают (nil, nil).
// Ошибка возвращается только при сбое хранилища.
func (s *Service) Authenticate(ctx context.Context, username, pw string) (*models.User, error) {
	const op = "services.users.Authenticate"

	user, err := s.repo.GetUser(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		// сравнение с фиктивным хэшем выравнивает время ответа
		_ = s.hasher.Compare(s.dummy(), pw)
		s.failed(username)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.hasher.Compare(user.PasswordHash, pw)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, password.ErrMismatch):
		s.failed(username)
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
}

// Get возвращает пользователя по имени.
func (s *Service) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "services.users.Get"

	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Delete удаляет пользователя. Отзывы удаляются каскадно в БД.
func (s *Service) Delete(ctx context.Context, username string) error {
	const op = "services.users.Delete"

	if err := s.repo.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.events != nil {
		s.events.UserDeleted()
	}
	s.log.Info("user deleted", slog.String("username", username))
	return nil
}

func (s *Service) failed(username string) {
	if s.events != nil {
		s.events.LoginFailed()
	}
	s.log.Info("login rejected", slog.String("username", username))
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("feedback-board-dummy-password")
		if err != nil {
			s.log.Warn("failed to build dummy hash", sl.Err(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
