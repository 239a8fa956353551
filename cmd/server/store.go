package main

import (
	"context"
	"fmt"
	"log"

	"github.com/UkralStul/wordicum/internal/auth"
	"github.com/UkralStul/wordicum/internal/config"
	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
	"github.com/UkralStul/wordicum/internal/storage/gormdb"
	"github.com/UkralStul/wordicum/internal/storage/inmemory"
	"github.com/gosimple/slug"
)

const (
	storageInMemory = "in-memory"
	storagePostgres = "postgres"
	storageSQLite   = "sqlite"
)

// openStore открывает хранилище нужного типа. close всегда можно вызвать.
func openStore(cfg config.Config, kind string, debug bool) (storage.Storage, func() error, error) {
	if kind == storageInMemory {
		return inmemory.New(), func() error { return nil }, nil
	}
	store, err := openPersistent(cfg, kind, debug)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func openPersistent(cfg config.Config, kind string, debug bool) (*gormdb.Store, error) {
	switch kind {
	case storagePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set for postgres storage")
		}
		store, err := gormdb.Postgres(cfg.DatabaseURL, debug)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store, nil
	case storageSQLite:
		store, err := gormdb.SQLite(cfg.SQLitePath, debug)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.SQLitePath, err)
		}
		return store, nil
	case storageInMemory:
		return nil, fmt.Errorf("this command needs a persistent storage, use --storage postgres or sqlite")
	default:
		return nil, fmt.Errorf("unknown storage type %q", kind)
	}
}

// fillWithMockData наполняет in-memory хранилище, чтобы было что посмотреть.
func fillWithMockData(ctx context.Context, s storage.Storage, infoLog *log.Logger) error {
	hash, err := auth.HashPassword("wordicum-demo")
	if err != nil {
		return err
	}

	// 1. Оператор с доступом к админке и обычный автор
	admin, err := s.CreateUser(ctx, &domain.User{Username: "admin", PasswordHash: hash, IsStaff: true})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create admin: %w", err)
	}
	leo, err := s.CreateUser(ctx, &domain.User{Username: "leo", PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create user: %w", err)
	}

	// 2. Группа, slug генерируется из названия
	const title = "Go и веб"
	group, err := s.CreateGroup(ctx, &domain.Group{
		Title:       title,
		Slug:        slug.Make(title),
		Description: "Заметки о серверной разработке на Go.",
	})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create group: %w", err)
	}

	// 3. Посты: хватает на две страницы, один без группы
	for i := 1; i <= 12; i++ {
		_, err := s.CreatePost(ctx, &domain.Post{
			Text:     fmt.Sprintf("Тестовый пост №%d о шаблонах и пагинации.", i),
			AuthorID: leo.ID,
			GroupID:  &group.ID,
		})
		if err != nil {
			return fmt.Errorf("fillWithMockData: failed to create post %d: %w", i, err)
		}
	}
	if _, err := s.CreatePost(ctx, &domain.Post{Text: "Пост без группы.", AuthorID: admin.ID}); err != nil {
		return fmt.Errorf("fillWithMockData: failed to create post without group: %w", err)
	}

	infoLog.Printf("Mock data filled: users %q and %q (password wordicum-demo), group /group/%s/", admin.Username, leo.Username, group.Slug)
	return nil
}
