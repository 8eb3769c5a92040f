package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// NewHandler exposes a Service over the HTTP contract consumed by Client.
// Authentication is the caller's concern: mount the handler behind whatever
// middleware resolves the identity and wires the matching Service.
func NewHandler(svc Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/notifications", func(w http.ResponseWriter, req *http.Request) {
		limit := 0
		if raw := req.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}

		result, err := svc.List(req.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list notifications")
			return
		}
		if result.Notifications == nil {
			result.Notifications = []notification.Remote{}
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Patch("/notifications/read", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := svc.MarkRead(req.Context(), body.IDs...); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	r.Patch("/notifications/read-all", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.MarkAllRead(req.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to mark all notifications read")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	r.Delete("/notifications/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if err := svc.Delete(req.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "notification not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete notification")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
