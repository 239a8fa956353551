package web

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

func (app *App) ServerError(w http.ResponseWriter, err error) {
	app.errorLog.Output(2, fmt.Sprintf("%s\n%s", err.Error(), debug.Stack()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (app *App) ClientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *App) NotFound(w http.ResponseWriter) {
	app.ClientError(w, http.StatusNotFound)
}

func (app *App) Forbidden(w http.ResponseWriter) {
	app.ClientError(w, http.StatusForbidden)
}
