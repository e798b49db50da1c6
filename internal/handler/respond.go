package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kiwari-pos/orderengine/internal/apperr"
	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("encode JSON response")
	}
}

// writeError maps a service error to its HTTP status. Internal errors are
// logged and replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, op string, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)
	if kind == apperr.KindInternal {
		log.WithFields(logrus.Fields{
			"op":         op,
			"request_id": chimw.GetReqID(r.Context()),
		}).WithError(err).Error("request failed")
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	if kind == apperr.KindUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, map[string]string{"error": clientMessage(err)})
}

// clientMessage returns the text shown to API clients. Driver errors wrapped
// under a domain error are not exposed.
func clientMessage(err error) string {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return "service temporarily unavailable"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ae.Msg
	}
	return err.Error()
}

func statusForKind(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
