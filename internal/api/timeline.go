package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jdholdren/chirp/internal/chirp"
	cherrs "github.com/jdholdren/chirp/internal/errors"
)

type TimelineResp struct {
	UserID     chirp.UserID   `json:"user_id"`
	Timeline   []TweetResp    `json:"timeline"`
	Pagination paginationMeta `json:"pagination"`
}

func (s *Server) getTimeline(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := strconv.ParseInt(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		return cherrs.E("user id must be an integer", http.StatusBadRequest)
	}

	limit, offset := parsePaginationParams(r, 20, 100) // default=20, max=100

	tweets, err := s.svc.Timeline(ctx, chirp.UserID(userID))
	if err != nil {
		return err
	}

	// The service hands back the whole timeline, newest first; the window is
	// applied here since offset paging is purely a transport concern.
	total := len(tweets)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	items := make([]TweetResp, 0, end-offset)
	for _, tw := range tweets[offset:end] {
		items = append(items, apiTweet(tw))
	}

	return writeJSON(w, http.StatusOK, TimelineResp{
		UserID:     chirp.UserID(userID),
		Timeline:   items,
		Pagination: calculatePaginationMeta(limit, offset, total),
	})
}
