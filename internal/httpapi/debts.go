package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

// listDebts handles GET /debts?friendId=. With no filter it returns all
// debts, otherwise only those where the friend is creditor or debtor,
// newest first.
func (s *Server) listDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.debtSvc.List(r.Context(), r.URL.Query().Get("friendId"))
	if err != nil {
		s.storeErr(w, err, "failed to fetch debts")
		return
	}
	toJSON(w, http.StatusOK, toDebtResponses(debts))
}

// postDebt handles POST /debts. The body is decoded and validated by
// middleware.
func (s *Server) postDebt(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostDebt).(postDebtRequest)
	d, err := s.debtSvc.Create(r.Context(), toDebtInput(req))
	if err != nil {
		s.storeErr(w, err, "failed to create debt")
		return
	}
	toJSON(w, http.StatusCreated, toDebtResponse(d))
}

// patchDebt handles PATCH /debts/{id}; isPaid is the only patchable field,
// and paidAt follows it.
func (s *Server) patchDebt(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPatchDebt).(patchDebtRequest)
	d, err := s.debtSvc.SetPaid(r.Context(), chi.URLParam(r, "id"), *req.IsPaid)
	if err != nil {
		s.storeErr(w, err, "failed to update debt")
		return
	}
	toJSON(w, http.StatusOK, toDebtResponse(d))
}

// deleteDebt handles DELETE /debts/{id}.
func (s *Server) deleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.debtSvc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeErr(w, err, "failed to delete debt")
		return
	}
	toJSON(w, http.StatusOK, successResponse{Success: true})
}
