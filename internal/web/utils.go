package web

import (
	"net/http"
	"strings"
)

const (
	SessionCookieName = "sessionid"
	loginURL          = "/auth/login/"
)

// setSessionCookie устанавливает cookie с токеном сессии
func (app *App) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(app.sessions.TTL().Seconds()),
		HttpOnly: true, // Защита от XSS
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie удаляет cookie сессии
func (app *App) clearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)
}

// getSessionToken получает токен сессии из cookie
func (app *App) getSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// safeNext пропускает только локальные пути, чтобы ?next= не уводил на чужой сайт.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
