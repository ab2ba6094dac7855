package api

import (
	"net/http"

	"github.com/jdholdren/chirp/internal/chirp"
	cherrs "github.com/jdholdren/chirp/internal/errors"
)

type FollowReq struct {
	ID     chirp.UserID `json:"id"`
	Follow chirp.UserID `json:"follow"`
}

func (req FollowReq) Validate() error {
	if req.ID == 0 {
		return cherrs.E("id is required", http.StatusBadRequest)
	}
	if req.Follow == 0 {
		return cherrs.E("follow is required", http.StatusBadRequest)
	}

	return nil
}

type UnfollowReq struct {
	ID       chirp.UserID `json:"id"`
	Unfollow chirp.UserID `json:"unfollow"`
}

func (req UnfollowReq) Validate() error {
	if req.ID == 0 {
		return cherrs.E("id is required", http.StatusBadRequest)
	}
	if req.Unfollow == 0 {
		return cherrs.E("unfollow is required", http.StatusBadRequest)
	}

	return nil
}

// FollowListResp echoes the user's follow set after a mutation, mirroring
// what the sign-up-era API returned.
type FollowListResp struct {
	UserID    chirp.UserID   `json:"user_id"`
	Following []chirp.UserID `json:"following"`
}

func (s *Server) postFollow(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeValid[FollowReq](r.Body)
	if err != nil {
		return err
	}

	if err := s.svc.Follow(ctx, body.ID, body.Follow); err != nil {
		return err
	}

	return s.writeFollowList(w, r, body.ID)
}

func (s *Server) postUnfollow(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeValid[UnfollowReq](r.Body)
	if err != nil {
		return err
	}

	if err := s.svc.Unfollow(ctx, body.ID, body.Unfollow); err != nil {
		return err
	}

	return s.writeFollowList(w, r, body.ID)
}

func (s *Server) writeFollowList(w http.ResponseWriter, r *http.Request, user chirp.UserID) error {
	following, err := s.svc.Following(r.Context(), user)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, FollowListResp{
		UserID:    user,
		Following: following,
	})
}
