package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const ctxKeyPostFriend ctxKey = "validatedPostFriend"
const ctxKeyPostDebt ctxKey = "validatedPostDebt"
const ctxKeyPatchDebt ctxKey = "validatedPatchDebt"

// readyTimeout bounds the per-request database ping in the readiness gate.
const readyTimeout = 800 * time.Millisecond

// requireReady turns an unreachable database into a uniform 503 before any
// handler runs. Servers without a database (db == nil) are never gated.
func (s *Server) requireReady() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.db != nil {
				ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
				err := s.db.Ready(ctx)
				cancel()
				if err != nil {
					s.log.Warn("database unreachable", "err", err)
					unavailable(w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// validatePostFriend decodes and validates the POST /friends body and stores
// the typed request in the context for the handler.
func (s *Server) validatePostFriend() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req postFriendRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				badRequest(w, "name is required")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostFriend, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePostDebt decodes and validates the POST /debts body.
func (s *Server) validatePostDebt() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req postDebtRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if req.Amount == nil {
				badRequest(w, "amount is required")
				return
			}
			if err := s.debtSvc.ValidateInput(toDebtInput(req)); err != nil {
				badRequest(w, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostDebt, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePatchDebt decodes the PATCH /debts/{id} body; isPaid is the only
// patchable field and must be present.
func (s *Server) validatePatchDebt() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req patchDebtRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if req.IsPaid == nil {
				badRequest(w, "isPaid is required")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPatchDebt, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
