package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

// listFriends handles GET /friends.
func (s *Server) listFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.friendSvc.List(r.Context())
	if err != nil {
		s.storeErr(w, err, "failed to fetch friends")
		return
	}
	toJSON(w, http.StatusOK, toFriendResponses(friends))
}

// postFriend handles POST /friends. The body is decoded and validated by
// middleware.
func (s *Server) postFriend(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPostFriend).(postFriendRequest)
	f, err := s.friendSvc.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		s.storeErr(w, err, "failed to create friend")
		return
	}
	toJSON(w, http.StatusCreated, toFriendResponse(f))
}

// getFriend handles GET /friends/{id}.
func (s *Server) getFriend(w http.ResponseWriter, r *http.Request) {
	f, err := s.friendSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeErr(w, err, "failed to fetch friend")
		return
	}
	toJSON(w, http.StatusOK, toFriendResponse(f))
}

// deleteFriend handles DELETE /friends/{id}, cascading debt deletion first.
func (s *Server) deleteFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.friendSvc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeErr(w, err, "failed to delete friend")
		return
	}
	toJSON(w, http.StatusOK, successResponse{Success: true})
}
