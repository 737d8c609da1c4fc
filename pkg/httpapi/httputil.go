package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/gesture"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, code, message string) {
	writeJSON(w, logger, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// editStatus maps session errors onto HTTP statuses. Ignored drops are not
// errors for the caller; they report applied=false instead.
func editStatus(err error) (int, string) {
	switch {
	case errors.Is(err, metaform.ErrOutOfRange):
		return http.StatusUnprocessableEntity, "OUT_OF_RANGE"
	case errors.Is(err, gesture.ErrUnclassified):
		return http.StatusUnprocessableEntity, "UNCLASSIFIED"
	case errors.Is(err, editor.ErrNoSelection):
		return http.StatusConflict, "NO_SELECTION"
	case errors.Is(err, editor.ErrNotLoaded):
		return http.StatusConflict, "NOT_LOADED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
