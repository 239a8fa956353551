package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
)

type contextKey string

const userKey = contextKey("user")

// canonicalSlash обрабатывает путь без завершающего слэша так, будто слэш есть.
// Редиректа нет: клиент сразу получает ответ канонического маршрута.
func canonicalSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			next.ServeHTTP(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path += "/"
		if r2.URL.RawPath != "" {
			r2.URL.RawPath += "/"
		}
		next.ServeHTTP(w, r2)
	})
}

// loadUser находит пользователя по cookie сессии и кладет его в контекст.
// Битая или просроченная сессия просто означает анонима.
func (app *App) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := app.getSessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := app.sessions.Parse(token)
		if err != nil {
			app.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.store.GetUserByID(r.Context(), id)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				app.errorLog.Printf("Failed to load session user %d: %v", id, err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser - пользователь запроса или nil для анонима.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}

// requireAuth отправляет анонима на страницу входа с возвратом обратно.
func (app *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Запрещаем кэширование защищенных страниц
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

		if currentUser(r) == nil {
			app.redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireStaff пускает только операторов; остальным авторизованным - 403.
func (app *App) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

		user := currentUser(r)
		switch {
		case user == nil:
			app.redirectToLogin(w, r)
		case !user.IsStaff:
			app.Forbidden(w)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (app *App) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, loginURL+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}
