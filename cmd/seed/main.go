// Package main заполняет базу демонстрационными пользователями и отзывами.
//
// Все существующие данные удаляются.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/feedback-board/internal/config"
	"github.com/magabrotheeeer/feedback-board/internal/lib/password"
	"github.com/magabrotheeeer/feedback-board/internal/migrations"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	feedbackservice "github.com/magabrotheeeer/feedback-board/internal/services/feedback"
	userservice "github.com/magabrotheeeer/feedback-board/internal/services/users"
	"github.com/magabrotheeeer/feedback-board/internal/storage/repository"
)

type post struct {
	title, content string
}

var posts = map[string]post{
	"first":  {"First Post", "I am the first post"},
	"second": {"Second Post", "I am the second post"},
	"third":  {"Third Post", "I am the third post"},
}

var order = []string{"first", "second", "third"}

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seed failed", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("seed finished")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return err
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		return err
	}
	if err = db.Reset(ctx); err != nil {
		return err
	}

	users := userservice.New(db, password.NewHasher(cfg.BcryptCost), nil, logger)
	feedback := feedbackservice.New(db, nil, logger)

	for _, name := range order {
		if _, err = users.Register(ctx, models.RegisterForm{
			Username:  name,
			Password:  name,
			Email:     name + "@gmail.com",
			FirstName: name,
			LastName:  "name",
		}); err != nil {
			return err
		}
	}
	for _, name := range order {
		p := posts[name]
		if _, err = feedback.Create(ctx, p.title, p.content, name); err != nil {
			return err
		}
	}
	return nil
}
