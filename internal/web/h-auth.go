package web

import (
	"errors"
	"net/http"

	"github.com/UkralStul/wordicum/internal/auth"
	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/forms"
	"github.com/UkralStul/wordicum/internal/storage"
)

const (
	msgUsernameTaken   = "A user with that username already exists."
	msgPasswordTooLong = "Ensure this value has at most 72 bytes."
)

func (app *App) signup(w http.ResponseWriter, r *http.Request) {
	form := forms.NewSignupForm()
	if r.Method != http.MethodPost {
		app.renderHTML(w, r, http.StatusOK, "signup.page.html", &templateData{Title: "Sign up", Form: form})
		return
	}

	if err := r.ParseForm(); err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}
	if !form.Bind(r.PostForm) {
		app.renderHTML(w, r, http.StatusOK, "signup.page.html", &templateData{Title: "Sign up", Form: form})
		return
	}

	app.infoLog.Printf("Attempting to register user: username=%q", form.Username)

	hash, err := auth.HashPassword(form.Password1)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			form.Errors.Add("password1", msgPasswordTooLong)
			app.renderHTML(w, r, http.StatusOK, "signup.page.html", &templateData{Title: "Sign up", Form: form})
			return
		}
		app.ServerError(w, err)
		return
	}
	user, err := app.store.CreateUser(r.Context(), &domain.User{Username: form.Username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			form.Errors.Add("username", msgUsernameTaken)
			app.renderHTML(w, r, http.StatusOK, "signup.page.html", &templateData{Title: "Sign up", Form: form})
			return
		}
		app.ServerError(w, err)
		return
	}

	app.infoLog.Printf("Successfully registered user: %q (ID %d)", user.Username, user.ID)

	// Сразу авторизуем нового пользователя
	if err := app.startSession(w, user); err != nil {
		app.errorLog.Printf("Failed to create session for user %d: %v", user.ID, err)
		http.Redirect(w, r, loginURL, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *App) login(w http.ResponseWriter, r *http.Request) {
	form := forms.NewLoginForm(r.URL.Query().Get("next"))
	if r.Method != http.MethodPost {
		app.renderHTML(w, r, http.StatusOK, "login.page.html", &templateData{Title: "Log in", Form: form})
		return
	}

	if err := r.ParseForm(); err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}
	if !form.Bind(r.PostForm) {
		app.renderHTML(w, r, http.StatusOK, "login.page.html", &templateData{Title: "Log in", Form: form})
		return
	}

	user, err := app.store.GetUserByUsername(r.Context(), form.Username)
	if err == nil {
		err = auth.CheckPassword(user.PasswordHash, form.Password)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, auth.ErrInvalidCredentials) {
			app.ServerError(w, err)
			return
		}
		app.infoLog.Printf("Failed login attempt: username=%q", form.Username)
		form.Errors.Add("", "Please enter a correct username and password. Note that both fields may be case-sensitive.")
		app.renderHTML(w, r, http.StatusOK, "login.page.html", &templateData{Title: "Log in", Form: form})
		return
	}

	if err := app.startSession(w, user); err != nil {
		app.ServerError(w, err)
		return
	}
	app.infoLog.Printf("Login successful: id=%d, username=%q", user.ID, user.Username)

	http.Redirect(w, r, safeNext(form.Next), http.StatusFound)
}

// logout закрывает сессию на любой метод и показывает страницу выхода.
func (app *App) logout(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(r); user != nil {
		app.infoLog.Printf("User %q logged out", user.Username)
	}
	app.clearSessionCookie(w)

	app.renderHTML(w, r, http.StatusOK, "logged_out.page.html", &templateData{
		Title:     "Logged out",
		LoggedOut: true,
	})
}

func (app *App) startSession(w http.ResponseWriter, user *domain.User) error {
	token, err := app.sessions.Issue(user.ID)
	if err != nil {
		return err
	}
	app.setSessionCookie(w, token)
	return nil
}
