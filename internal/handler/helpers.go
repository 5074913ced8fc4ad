package handler

import (
	"errors"
	"net/http"
	"strings"

	"lmscontent/internal/domain"
	"lmscontent/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resourceType": conflictErr.ResourceType,
			"resourceId":   conflictErr.ResourceID,
		})
	case errors.As(err, &maxBytesErr):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrTransport):
		httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, "content store unavailable", map[string]interface{}{
			"retryable": true,
		})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HandleCreateConflict handles conflicts during creation by returning the existing resource with 409
// If the error is a ConflictError, it calls fetchFn to retrieve the existing resource
func HandleCreateConflict[T any](w http.ResponseWriter, err error, fetchFn func(id string) (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
		existing, fetchErr := fetchFn(conflictErr.ResourceID)
		if fetchErr != nil {
			handleError(w, err)
			return
		}

		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, err)
}

// partialResponse is the 207 body for a mutation where some phases completed.
type partialResponse[T any] struct {
	Result    *T       `json:"result"`
	Operation string   `json:"operation"`
	Completed []string `json:"completed"`
	Failed    []string `json:"failed"`
	Detail    string   `json:"detail"`
}

// respondPartial writes a 207 when err is a partial failure that still
// produced a result. It reports whether a response was written.
func respondPartial[T any](w http.ResponseWriter, result *T, err error) bool {
	var partial *domain.PartialFailureError
	if result == nil || !errors.As(err, &partial) {
		return false
	}
	httputil.RespondJSON(w, http.StatusMultiStatus, partialResponse[T]{
		Result:    result,
		Operation: partial.Operation,
		Completed: orEmpty(partial.Completed),
		Failed:    orEmpty(partial.Failed),
		Detail:    partial.Error(),
	})
	return true
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// PathParam returns a trimmed path value, writing a 400 when it is empty.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return v, true
}
