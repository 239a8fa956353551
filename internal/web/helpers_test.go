package web

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/UkralStul/wordicum/internal/auth"
	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/feed"
	"github.com/UkralStul/wordicum/internal/storage/inmemory"

	"github.com/stretchr/testify/require"
)

// recorder рендерит настоящие шаблоны и запоминает контекст последней страницы.
type recorder struct {
	cache templateCache
	page  string
	data  *templateData
}

func (r *recorder) Render(w io.Writer, page string, data *templateData) error {
	r.page, r.data = page, data
	return r.cache.Render(w, page, data)
}

type testEnv struct {
	app     *App
	store   *inmemory.Store
	render  *recorder
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := inmemory.New()
	app, err := New(Config{
		Store:    store,
		Sessions: auth.NewSessions("test-secret", time.Hour),
		Hub:      feed.NewHub(),
		InfoLog:  log.New(io.Discard, "", 0),
		ErrorLog: log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)

	cache, ok := app.render.(templateCache)
	require.True(t, ok)
	rec := &recorder{cache: cache}
	app.render = rec

	return &testEnv{app: app, store: store, render: rec, handler: app.Routes()}
}

func (e *testEnv) user(t *testing.T, username string, staff bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("s3cretpass")
	require.NoError(t, err)
	u, err := e.store.CreateUser(context.Background(), &domain.User{Username: username, PasswordHash: hash, IsStaff: staff})
	require.NoError(t, err)
	return u
}

func (e *testEnv) group(t *testing.T) *domain.Group {
	t.Helper()
	g, err := e.store.CreateGroup(context.Background(), &domain.Group{
		Title:       "Test group 1",
		Slug:        "test-link",
		Description: "Test group description",
	})
	require.NoError(t, err)
	return g
}

func (e *testEnv) post(t *testing.T, author *domain.User, group *domain.Group, text string) *domain.Post {
	t.Helper()
	p := &domain.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	created, err := e.store.CreatePost(context.Background(), p)
	require.NoError(t, err)
	return created
}

// cookie - сессия пользователя, как после входа.
func (e *testEnv) cookie(t *testing.T, u *domain.User) *http.Cookie {
	t.Helper()
	token, err := e.app.sessions.Issue(u.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies)
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies)
}

func (e *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	e.render.page, e.render.data = "", nil
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}
