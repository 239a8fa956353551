package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/UkralStul/wordicum/internal/auth"
	"github.com/UkralStul/wordicum/internal/forms"
	"github.com/UkralStul/wordicum/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(rr interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	rr := env.postForm("/auth/signup/", url.Values{
		"username":  {"new_user"},
		"password1": {"s3cretpass"},
		"password2": {"s3cretpass"},
	})
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	user, err := env.store.GetUserByUsername(context.Background(), "new_user")
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(user.PasswordHash, "s3cretpass"))
	assert.False(t, user.IsStaff)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// с этой cookie можно писать посты
	assert.Equal(t, http.StatusOK, env.get("/create/", cookie).Code)
}

func TestSignup_Invalid(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "leo", false)

	rr := env.postForm("/auth/signup/", url.Values{
		"username":  {"leo"},
		"password1": {"s3cretpass"},
		"password2": {"s3cretpass"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	form := env.render.data.Form.(*forms.SignupForm)
	assert.Equal(t, []string{msgUsernameTaken}, form.Errors.Get("username"))
	assert.Nil(t, sessionCookie(rr))

	rr = env.postForm("/auth/signup/", url.Values{
		"username":  {"mia"},
		"password1": {"s3cretpass"},
		"password2": {"different"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, env.render.data.Form.(*forms.SignupForm).Errors.Get("password2"))
	assert.NotContains(t, rr.Body.String(), "s3cretpass")
}

func TestSignup_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t)
	pw := strings.Repeat("x", 80)

	rr := env.postForm("/auth/signup/", url.Values{
		"username":  {"longpw"},
		"password1": {pw},
		"password2": {pw},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	form := env.render.data.Form.(*forms.SignupForm)
	assert.Equal(t, []string{"Ensure this value has at most 72 bytes."}, form.Errors.Get("password1"))
	assert.Nil(t, sessionCookie(rr))

	_, err := env.store.GetUserByUsername(context.Background(), "longpw")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "leo", false)

	rr := env.get("/auth/login/?next=/create/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="/create/"`)

	rr = env.postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, env.render.data.Form.(*forms.LoginForm).Errors.Get(""))
	assert.Nil(t, sessionCookie(rr))

	rr = env.postForm("/auth/login/", url.Values{"username": {"ghost"}, "password": {"s3cretpass"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, sessionCookie(rr))

	rr = env.postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"s3cretpass"}, "next": {"/create/"}})
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/create/", rr.Header().Get("Location"))
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	rr = env.get("/", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, env.render.data.CurrentUser)
	assert.Equal(t, "leo", env.render.data.CurrentUser.Username)

	// внешний next игнорируется
	rr = env.postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"s3cretpass"}, "next": {"//evil.example"}})
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	leo := env.user(t, "leo", false)

	rr := env.postForm("/auth/logout/", nil, env.cookie(t, leo))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged_out.page.html", env.render.page)
	assert.Nil(t, env.render.data.CurrentUser)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestBrokenSessionIsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/", &http.Cookie{Name: SessionCookieName, Value: "garbage"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, env.render.data.CurrentUser)

	rr = env.get("/create/", &http.Cookie{Name: SessionCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusFound, rr.Code)
}
