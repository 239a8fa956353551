package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/UkralStul/wordicum/internal/admin"
	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/paginator"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/base.layout.html"

// templateData - контекст страницы.
type templateData struct {
	Title       string
	Path        string
	CurrentUser *domain.User
	LoggedOut   bool // запрос еще несет старую сессию, но шапка должна показывать анонима

	PageObj   *paginator.Page[*domain.Post]
	PageQuery url.Values // параметры, которые сохраняются в ссылках пагинации

	Post      *domain.Post
	Author    *domain.User
	PostCount int64
	Group     *domain.Group

	Form   any
	IsEdit bool

	Admin *adminData
}

type adminData struct {
	Columns     []string
	Rows        []admin.Row
	Query       string
	DateFilter  string
	DateFilters []admin.DateFilter
}

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 January 2006, 15:04")
	},
	// pageURL строит ссылку на страницу number, сохраняя остальные параметры запроса.
	"pageURL": func(query url.Values, number int) template.URL {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(number))
		return template.URL("?" + q.Encode())
	},
}

type renderer interface {
	Render(w io.Writer, page string, data *templateData) error
}

// templateCache - разобранные шаблоны по имени страницы.
type templateCache map[string]*template.Template

func newTemplateCache() (templateCache, error) {
	pages, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}

	cache := templateCache{}
	for _, page := range pages {
		name := path.Base(page)
		ts, err := template.New(name).Funcs(functions).ParseFS(templateFS, layoutFile, "templates/*.partial.html", page)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		cache[name] = ts
	}
	return cache, nil
}

func (c templateCache) Render(w io.Writer, page string, data *templateData) error {
	ts, ok := c[page]
	if !ok {
		return fmt.Errorf("template %s does not exist", page)
	}
	return ts.ExecuteTemplate(w, "base", data)
}

// renderHTML рендерит страницу в буфер и только потом пишет ответ,
// чтобы ошибка шаблона не оставила клиенту половину страницы.
func (app *App) renderHTML(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	if data == nil {
		data = &templateData{}
	}
	data.Path = r.URL.Path
	if data.CurrentUser == nil && !data.LoggedOut {
		data.CurrentUser = currentUser(r)
	}

	buf := new(bytes.Buffer)
	if err := app.render.Render(buf, page, data); err != nil {
		app.ServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
