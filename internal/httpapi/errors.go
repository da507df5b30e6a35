package httpapi

import (
	"encoding/json"
	"net/http"

	"schedd/internal/registry"
	"schedd/internal/scheduler"
	"schedd/pkg/types"
)

// statusFor maps scheduler/registry errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case scheduler.IsNotFound(err):
		return http.StatusNotFound
	case scheduler.IsProtected(err), registry.IsDuplicateID(err):
		return http.StatusConflict
	case registry.IsCycleDetected(err), registry.IsInvalidDescriptor(err):
		return http.StatusUnprocessableEntity
	case scheduler.IsInsufficientMemory(err):
		return http.StatusInsufficientStorage
	case scheduler.IsTimeout(err):
		return http.StatusGatewayTimeout
	case scheduler.IsLoadFailed(err), scheduler.IsInvokeFailed(err), scheduler.IsAllBackendsFailed(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeServeError attaches fallback attempts to chain-exhausted errors so
// callers see the per-backend failure reasons.
func writeServeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if attempts := scheduler.AttemptsOf(err); attempts != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(struct {
			Error    string               `json:"error"`
			Code     int                  `json:"code"`
			Attempts []types.ServeAttempt `json:"attempts"`
		}{Error: err.Error(), Code: status, Attempts: attempts})
		return
	}
	writeJSONError(w, status, err.Error())
}
