package web

import (
	"net/http"

	"github.com/UkralStul/wordicum/internal/dataloader"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes собирает роутер приложения.
func (app *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(canonicalSlash)
	r.Use(app.loadUser)
	// Лоадеры живут один запрос, поэтому их кэш не устаревает
	r.Use(func(next http.Handler) http.Handler {
		return dataloader.Middleware(app.store, next)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.NotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.ClientError(w, http.StatusMethodNotAllowed)
	})

	r.Get("/", app.index)
	r.Get("/group/{slug}/", app.groupPosts)
	r.Get("/profile/{username}/", app.profile)
	r.Get("/posts/{id}/", app.postDetail)

	// Маршруты только для авторизованных пользователей
	r.Group(func(r chi.Router) {
		r.Use(app.requireAuth)
		r.Get("/create/", app.postCreate)
		r.Post("/create/", app.postCreate)
		r.Get("/posts/{id}/edit/", app.postEdit)
		r.Post("/posts/{id}/edit/", app.postEdit)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/", app.login)
		r.Post("/login/", app.login)
		r.Get("/logout/", app.logout)
		r.Post("/logout/", app.logout)
		r.Get("/signup/", app.signup)
		r.Post("/signup/", app.signup)
	})

	r.Get("/about/author/", app.staticPage("about_author.page.html", "About the author"))
	r.Get("/about/tech/", app.staticPage("about_tech.page.html", "Technologies"))

	r.With(app.requireStaff).Get("/admin/posts/", app.adminPosts)

	r.Get("/ws/posts/", app.postFeed)
	r.Get("/healthz/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	return r
}
