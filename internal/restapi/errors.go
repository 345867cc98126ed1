package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
	"happydash.dev/internal/models"
)

// errorResponse is the envelope for failures; it never carries data.
type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) sendError(w http.ResponseWriter, status int, text string) {
	setJSONResponseType(&w)
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     2,
	})
	if err != nil {
		api.logger().Error("failed to encode error response", "error", err, "status", status)
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	api.sendError(w, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		Code        int                 `json:"code"`
		CurrentTime int64               `json:"currentTime"`
		Text        string              `json:"text"`
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		Code:        http.StatusBadRequest,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "invalid request parameters",
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.logger().Error("failed to encode validation error response", "error", err)
	}
}

// viewErrorResponse maps errors from building a view onto a response.
// Bad parameters that slipped past validation are the caller's fault.
func (api *RestAPI) viewErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, happiness.ErrUnknownIndicator):
		api.validationErrorResponse(w, r, map[string][]string{"indicator": {err.Error()}})
	case errors.Is(err, happiness.ErrUnknownRegion):
		api.validationErrorResponse(w, r, map[string][]string{"region": {err.Error()}})
	case errors.Is(err, happiness.ErrInvalidOrder):
		api.validationErrorResponse(w, r, map[string][]string{"order": {err.Error()}})
	case errors.Is(err, happiness.ErrInvalidLimit):
		api.validationErrorResponse(w, r, map[string][]string{"n": {err.Error()}})
	case errors.Is(err, happiness.ErrInvalidScope):
		api.validationErrorResponse(w, r, map[string][]string{"scope": {err.Error()}})
	default:
		api.serverErrorResponse(w, r, err)
	}
}
