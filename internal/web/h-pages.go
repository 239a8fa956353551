package web

import (
	"net/http"
	"net/url"
	"strings"
)

// staticPage отдает страницу без данных.
func (app *App) staticPage(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app.renderHTML(w, r, http.StatusOK, page, &templateData{Title: title})
	}
}

func (app *App) adminPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	dateFilter := q.Get("pub_date")

	page, err := app.postsPage(r, app.admin.Filter(query, dateFilter, app.now()))
	if err != nil {
		app.ServerError(w, err)
		return
	}

	pageQuery := url.Values{}
	if query != "" {
		pageQuery.Set("q", query)
	}
	if dateFilter != "" {
		pageQuery.Set("pub_date", dateFilter)
	}

	app.renderHTML(w, r, http.StatusOK, "admin_posts.page.html", &templateData{
		Title:     "Select post to view",
		PageObj:   page,
		PageQuery: pageQuery,
		Admin: &adminData{
			Columns:     app.admin.ListDisplay(),
			Rows:        app.admin.Rows(page.ObjectList),
			Query:       query,
			DateFilter:  dateFilter,
			DateFilters: app.admin.DateFilters(),
		},
	})
}
