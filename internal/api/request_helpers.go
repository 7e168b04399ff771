package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/nutri-api/internal/api/shared"
)

// flowNameParam is the chi URL parameter holding a flow name.
const flowNameParam = "name"

// getFlowName extracts the flow name from the URL path.
func getFlowName(r *http.Request) string {
	return chi.URLParam(r, flowNameParam)
}

// parseLimit reads the optional limit query parameter. A missing value
// yields 0, which the journal maps to its default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// handleAPIError writes the status and safe message for err and logs the
// redacted details.
func handleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// decodeBody decodes the JSON body into v, writing a 400 response and
// returning false when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := shared.DecodeJSON(w, r, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, shared.ErrEmptyBody):
		handleAPIError(w, r, err)
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
	}
	return false
}
