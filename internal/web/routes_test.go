package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticPages(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/auth/login/", "/auth/logout/", "/auth/signup/", "/about/author/", "/about/tech/"} {
		rr := env.get(path)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestCanonicalSlash(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/about/author")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "about_author.page.html", env.render.page)
	assert.Equal(t, "/about/author/", env.render.data.Path)

	rr = env.get("/about/tech?x=1")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.get("/nope/").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/posts/abc/").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/posts/0/").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rr := env.postForm("/about/author/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/create/":             "/create/",
		"/posts/1/edit/?a=b":   "/posts/1/edit/?a=b",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), in)
	}
}
