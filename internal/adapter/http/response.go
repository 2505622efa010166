package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
)

// Error codes sent to the shell.
const (
	CodeInvalidParams  = "E_INVALID_PARAMS"
	CodeNotFound       = "E_NOT_FOUND"
	CodeUnableToLoad   = "E_UNABLE_TO_LOAD"
	CodeUnableToSave   = "E_UNABLE_TO_SAVE"
	CodeUnableToDelete = "E_UNABLE_TO_DELETE"
	CodeUnsupported    = "E_UNSUPPORTED_MEDIA"
	CodeDuplicate      = "E_DUPLICATE"
	CodeTooLarge       = "E_TOO_LARGE"
	CodeRateLimited    = "E_RATE_LIMITED"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: apiError{Code: code, Message: message}})
}

// writeServiceError maps library and façade errors onto a status and code.
// fallback is the code used for failures of the backing library itself.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUnrecognizedParam),
		errors.Is(err, domain.ErrInvalidParam),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidChange):
		writeError(w, http.StatusBadRequest, CodeInvalidParams, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAlbumNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrUnsupportedMedia):
		writeError(w, http.StatusUnsupportedMediaType, CodeUnsupported, err.Error())
	case errors.Is(err, domain.ErrDuplicateAsset):
		writeError(w, http.StatusConflict, CodeDuplicate, err.Error())
	default:
		logger.Error.Printf("%s: %v", fallback, err)
		writeError(w, http.StatusInternalServerError, fallback, "the media library failed")
	}
}

// decodeJSON reads a request body of at most 1MB into v, rejecting unknown
// fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidParams, "invalid request body: "+err.Error())
		return false
	}
	return true
}
