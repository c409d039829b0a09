package httpapi

import (
	"context"
	"net/http"
)

// health handles GET /health. It always answers 200; the database flag is
// false when no relational backend is configured or its ping fails.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	database := false
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		database = s.db.Ready(ctx) == nil
		cancel()
	}
	toJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: database})
}
