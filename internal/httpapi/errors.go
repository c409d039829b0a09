package httpapi

import (
	"errors"
	"net/http"

	"github.com/ospencer/debttrack/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	toJSON(w, status, errorResponse{Error: msg})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg) }
func notFound(w http.ResponseWriter, msg string)   { writeErr(w, http.StatusNotFound, msg) }
func unavailable(w http.ResponseWriter) {
	writeErr(w, http.StatusServiceUnavailable, "database unavailable")
}

// storeErr maps service/storage errors to HTTP statuses: invalid to 400,
// not_found to 404, unavailable to 503, anything else to 500 logged with a
// generic message.
func (s *Server) storeErr(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, errs.ErrInvalid):
		badRequest(w, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		notFound(w, generic+": not found")
	case errors.Is(err, errs.ErrUnavailable):
		unavailable(w)
	default:
		s.log.Error(generic, "err", err)
		writeErr(w, http.StatusInternalServerError, generic)
	}
}
