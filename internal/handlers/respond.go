package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"chorestar/internal/service"
	"chorestar/internal/validation"
)

// errorResponse is the JSON body for all error replies
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondWithError sends a JSON error to the client and logs the underlying
// error server-side. userMsg is what the client sees; internal detail never
// leaves the process.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondServiceError maps a service-layer error onto the HTTP error
// vocabulary. Unknown errors become an opaque 500 with the detail logged.
func respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
		return
	}

	switch {
	case errors.Is(err, service.ErrChildNotFound),
		errors.Is(err, service.ErrChoreNotFound),
		errors.Is(err, service.ErrRoutineNotFound),
		errors.Is(err, service.ErrInviteNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrInviteGone):
		respondWithError(w, http.StatusGone, err.Error(), "", nil)
	case errors.Is(err, service.ErrPinMismatch),
		errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error(), "", nil)
	case errors.Is(err, service.ErrPinLocked):
		respondWithError(w, http.StatusLocked, err.Error(), "", nil)
	case errors.Is(err, service.ErrEmailMismatch),
		errors.Is(err, service.ErrNotFamilyOwner):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	case errors.Is(err, service.ErrSelfInvite):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", logMsg, err)
	}
}

// decodeJSON parses a request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
