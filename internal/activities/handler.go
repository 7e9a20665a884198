// internal/activities/handler.go
package activities

import (
	"encoding/json"
	"net/http"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
)

// Route patterns, also used as metric labels by the HTTP middleware.
const (
	RouteList       = "GET /activities"
	RouteSignup     = "POST /activities/{activity_name}/signup"
	RouteUnregister = "POST /activities/{activity_name}/unregister"
)

type Handler struct {
	service *Service
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"component": "activities-http"})
	return &Handler{
		service: service,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
}

// Register mounts the activity routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(RouteList, h.listActivities)
	mux.HandleFunc(RouteSignup, h.signup)
	mux.HandleFunc(RouteUnregister, h.unregister)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.List(r.Context()))
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	activity, email, err := rosterParams(r)
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}

	resp, err := h.service.SignUp(r.Context(), activity, email)
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request) {
	activity, email, err := rosterParams(r)
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}

	resp, err := h.service.Unregister(r.Context(), activity, email)
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// rosterParams extracts the activity name from the path and the email from
// the query string. An empty email is accepted; a missing one is not.
func rosterParams(r *http.Request) (string, string, error) {
	query := r.URL.Query()
	if !query.Has("email") {
		return "", "", apperrors.NewMissingParameterError("email")
	}
	return r.PathValue("activity_name"), query.Get("email"), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{
			"error": err,
		})
	}
}
