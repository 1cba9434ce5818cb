package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

const msgNotFound = "Bookmark Not Found"

type errorMessage struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorMessage `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeErrorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: errorMessage{Message: msg}})
}

// serverError is the single boundary for unexpected failures. The cause is
// logged, the client only gets a generic message.
func serverError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	d.Logger.Error("request failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err),
	)
	writeErrorJSON(w, http.StatusInternalServerError, "server error")
}

// bookmarkID reads the {id} path parameter. Anything but a positive decimal
// integer is rejected.
func bookmarkID(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
