package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

const reasonInvalidBody = "invalid_body"

// ListBookmarks returns every stored bookmark, sanitized, ordered by id.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Store.GetAllBookmarks(r.Context())
		if err != nil {
			serverError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Sanitizer.Bookmarks(list))
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(r)
		if !ok {
			d.Logger.Error("bookmark not found", logger.String("id", chi.URLParam(r, "id")))
			writeErrorJSON(w, http.StatusNotFound, msgNotFound)
			return
		}

		b, err := d.Store.GetByID(r.Context(), id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			d.Logger.Error("bookmark not found", logger.Int64("id", id))
			writeErrorJSON(w, http.StatusNotFound, msgNotFound)
			return
		case err != nil:
			serverError(w, r, d, err)
			return
		}

		writeJSON(w, http.StatusOK, d.Sanitizer.Bookmark(b))
	}
}

// CreateBookmark validates the body, stores the sanitized bookmark and
// answers 201 with a Location pointing at it.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, d.MaxBodyBytes)
		}

		var c domain.Candidate
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		// An empty body is an empty candidate, reported field by field.
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			d.Metrics.RejectedTotal.WithLabelValues(reasonInvalidBody).Inc()
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				d.Logger.Error("request body too large", logger.Int64("limit", tooLarge.Limit))
				writeText(w, http.StatusBadRequest, "request body too large")
				return
			}
			d.Logger.Error("invalid JSON body", logger.Error(err))
			writeText(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		draft, err := d.Validator.Validate(d.Sanitizer.Candidate(c))
		if err != nil {
			reason, ok := domain.RejectionReason(err)
			if !ok {
				serverError(w, r, d, err)
				return
			}
			d.Metrics.RejectedTotal.WithLabelValues(reason).Inc()
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := d.Store.InsertBookmark(r.Context(), draft)
		if err != nil {
			serverError(w, r, d, err)
			return
		}

		d.Metrics.CreatedTotal.Inc()
		d.Logger.Info("bookmark created", logger.Int64("id", created.ID))
		w.Header().Set("Location", path.Join(r.URL.Path, strconv.FormatInt(created.ID, 10)))
		writeJSON(w, http.StatusCreated, d.Sanitizer.Bookmark(created))
	}
}

// DeleteBookmark looks the bookmark up, then deletes it. The two calls are
// independent; a concurrent delete in between still yields a 404.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(r)
		if !ok {
			d.Logger.Error("bookmark not found", logger.String("id", chi.URLParam(r, "id")))
			writeText(w, http.StatusNotFound, msgNotFound)
			return
		}

		if _, err := d.Store.GetByID(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				d.Logger.Error("bookmark not found", logger.Int64("id", id))
				writeText(w, http.StatusNotFound, msgNotFound)
				return
			}
			serverError(w, r, d, err)
			return
		}

		if err := d.Store.DeleteBookmark(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				d.Logger.Error("bookmark vanished before delete", logger.Int64("id", id))
				writeText(w, http.StatusNotFound, msgNotFound)
				return
			}
			serverError(w, r, d, err)
			return
		}

		d.Metrics.DeletedTotal.Inc()
		d.Logger.Info("bookmark deleted", logger.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
