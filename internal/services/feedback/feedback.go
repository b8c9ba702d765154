// Package services содержит бизнес-логику работы с отзывами.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/feedback-board/internal/models"
)

// FeedbackRepository определяет методы хранилища отзывов.
type FeedbackRepository interface {
	// CreateFeedback добавляет отзыв и возвращает его ID.
	CreateFeedback(ctx context.Context, fb models.Feedback) (int, error)
	// GetFeedback возвращает отзыв по ID.
	GetFeedback(ctx context.Context, id int) (*models.Feedback, error)
	// ListFeedback возвращает все отзывы по возрастанию ID.
	ListFeedback(ctx context.Context) ([]*models.Feedback, error)
	// ListFeedbackByUser возвращает отзывы пользователя.
	ListFeedbackByUser(ctx context.Context, username string) ([]*models.Feedback, error)
	// UpdateFeedback меняет заголовок и текст.
	UpdateFeedback(ctx context.Context, id int, title, content string) error
	// DeleteFeedback удаляет отзыв по ID.
	DeleteFeedback(ctx context.Context, id int) error
}

// Events получает уведомления об изменениях отзывов.
type Events interface {
	FeedbackCreated()
	FeedbackUpdated()
	FeedbackDeleted()
}

// Service реализует операции над отзывами. Права доступа проверяет HTTP-слой.
type Service struct {
	repo   FeedbackRepository
	events Events
	log    *slog.Logger
}

// New создаёт Service. events может быть nil.
func New(repo FeedbackRepository, events Events, log *slog.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

// Create сохраняет отзыв от имени username.
func (s *Service) Create(ctx context.Context, title, content, username string) (*models.Feedback, error) {
	const op = "services.feedback.Create"

	fb := models.Feedback{Title: title, Content: content, Username: username}
	id, err := s.repo.CreateFeedback(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fb.ID = id
	if s.events != nil {
		s.events.FeedbackCreated()
	}
	s.log.Info("feedback created", slog.Int("id", id), slog.String("username", username))
	return &fb, nil
}

// ListAll возвращает все отзывы.
func (s *Service) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	const op = "services.feedback.ListAll"

	list, err := s.repo.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListByUser возвращает отзывы одного пользователя.
func (s *Service) ListByUser(ctx context.Context, username string) ([]*models.Feedback, error) {
	const op = "services.feedback.ListByUser"

	list, err := s.repo.ListFeedbackByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает отзыв по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.Feedback, error) {
	const op = "services.feedback.Get"

	fb, err := s.repo.GetFeedback(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fb, nil
}

// Update меняет заголовок и текст отзыва.
func (s *Service) Update(ctx context.Context, id int, title, content string) error {
	const op = "services.feedback.Update"

	if err := s.repo.UpdateFeedback(ctx, id, title, content); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.events != nil {
		s.events.FeedbackUpdated()
	}
	s.log.Info("feedback updated", slog.Int("id", id))
	return nil
}

// Delete удаляет отзыв.
func (s *Service) Delete(ctx context.Context, id int) error {
	const op = "services.feedback.Delete"

	if err := s.repo.DeleteFeedback(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.events != nil {
		s.events.FeedbackDeleted()
	}
	s.log.Info("feedback deleted", slog.Int("id", id))
	return nil
}
