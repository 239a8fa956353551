// Package web - HTML-интерфейс блога: маршруты, обработчики и шаблоны.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/UkralStul/wordicum/internal/admin"
	"github.com/UkralStul/wordicum/internal/auth"
	"github.com/UkralStul/wordicum/internal/feed"
	"github.com/UkralStul/wordicum/internal/paginator"
	"github.com/UkralStul/wordicum/internal/storage"
)

// Config - зависимости приложения.
type Config struct {
	Store    storage.Storage
	Sessions *auth.Sessions
	Hub      *feed.Hub
	PageSize int
	InfoLog  *log.Logger
	ErrorLog *log.Logger
}

// App держит зависимости всех обработчиков.
type App struct {
	infoLog  *log.Logger
	errorLog *log.Logger
	store    storage.Storage
	sessions *auth.Sessions
	hub      *feed.Hub
	admin    admin.PostAdmin
	pageSize int
	render   renderer
	now      func() time.Time
}

// New собирает приложение и разбирает шаблоны.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("web: store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("web: sessions are required")
	}
	if cfg.Hub == nil {
		cfg.Hub = feed.NewHub()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = paginator.DefaultPerPage
	}
	if cfg.InfoLog == nil {
		cfg.InfoLog = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	}
	if cfg.ErrorLog == nil {
		cfg.ErrorLog = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
	}

	cache, err := newTemplateCache()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &App{
		infoLog:  cfg.InfoLog,
		errorLog: cfg.ErrorLog,
		store:    cfg.Store,
		sessions: cfg.Sessions,
		hub:      cfg.Hub,
		admin:    admin.NewPostAdmin(),
		pageSize: cfg.PageSize,
		render:   cache,
		now:      time.Now,
	}, nil
}

// Serve слушает addr до отмены ctx, затем дает активным запросам до 10 секунд на завершение.
func (app *App) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:     addr,
		ErrorLog: app.errorLog,
		Handler:  app.Routes(),

		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.infoLog.Printf("Starting server on http://localhost%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.infoLog.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	app.infoLog.Println("Server stopped")
	return nil
}
