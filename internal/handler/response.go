package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20 // 1MB

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a size-limited JSON body into v and reports whether the
// handler may continue. An empty body decodes as an empty object so that
// field validation produces the error message.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := render.DecodeJSON(r.Body, v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse("Request body too large"))
		return false
	}

	writeJSON(w, r, http.StatusBadRequest, errorResponse("Invalid JSON"))
	return false
}

// serverError logs err and writes the generic 500 body.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logError(r, msg, err)
	writeJSON(w, r, http.StatusInternalServerError, errorResponse("Server error"))
}

func logError(r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "request_id", chimw.GetReqID(r.Context()))
}
