package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/feedback-board/internal/models"
)

// CreateFeedback вставляет отзыв и возвращает его ID.
func (s *Storage) CreateFeedback(ctx context.Context, fb models.Feedback) (int, error) {
	const op = "storage.CreateFeedback"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO feedback (title, content, username)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, fb.Title, fb.Content, fb.Username).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetFeedback возвращает отзыв по ID или storage.ErrNotFound.
func (s *Storage) GetFeedback(ctx context.Context, id int) (*models.Feedback, error) {
	const op = "storage.GetFeedback"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, content, username
			  FROM feedback
			  WHERE id = $1`
	fb := &models.Feedback{}
	if err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return fb, nil
}

// ListFeedback возвращает все отзывы.
func (s *Storage) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	const op = "storage.ListFeedback"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, title, content, username
			  FROM feedback
			  ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := scanFeedback(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListFeedbackByUser возвращает отзывы одного пользователя.
func (s *Storage) ListFeedbackByUser(ctx context.Context, username string) ([]*models.Feedback, error) {
	const op = "storage.ListFeedbackByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, title, content, username
			  FROM feedback
			  WHERE username = $1
			  ORDER BY id`, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := scanFeedback(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// UpdateFeedback меняет заголовок и текст отзыва.
func (s *Storage) UpdateFeedback(ctx context.Context, id int, title, content string) error {
	const op = "storage.UpdateFeedback"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE feedback
			  SET title = $1, content = $2
			  WHERE id = $3`, title, content, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = checkAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteFeedback удаляет отзыв по ID.
func (s *Storage) DeleteFeedback(ctx context.Context, id int) error {
	const op = "storage.DeleteFeedback"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = checkAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanFeedback(rows *sql.Rows) ([]*models.Feedback, error) {
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Feedback, 0)
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username); err != nil {
			return nil, err
		}
		result = append(result, &fb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
