package api

import (
	"net/http"
	"strings"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/microcosm-cc/bluemonday"

	"github.com/jdholdren/chirp/internal/chirp"
	cherrs "github.com/jdholdren/chirp/internal/errors"
)

type PostTweetReq struct {
	ID    chirp.UserID `json:"id"`
	Tweet string       `json:"tweet"`
}

func (req PostTweetReq) Validate() error {
	if req.ID == 0 {
		return cherrs.E("id is required", http.StatusBadRequest)
	}
	if req.Tweet == "" {
		return cherrs.E("tweet is required", http.StatusBadRequest)
	}

	return nil
}

type TweetResp struct {
	Seq       int64        `json:"seq"`
	UserID    chirp.UserID `json:"user_id"`
	Tweet     string       `json:"tweet"`
	CreatedAt time.Time    `json:"created_at"`
}

func apiTweet(tw chirp.Tweet) TweetResp {
	return TweetResp{
		Seq:       tw.Seq,
		UserID:    tw.Author,
		Tweet:     tw.Text,
		CreatedAt: tw.CreatedAt,
	}
}

var stripPolicy = bluemonday.StrictPolicy()

// Removes all html tags from the tweet text. Tweets are plain text; anything
// that looks like markup gets stripped rather than stored.
func stripMarkup(s string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(s))
}

func (s *Server) postTweet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeValid[PostTweetReq](r.Body)
	if err != nil {
		return err
	}

	text := stripMarkup(body.Tweet)
	if s.profanityFilter && goaway.IsProfane(text) {
		return cherrs.E("profanity detected in tweet", http.StatusUnprocessableEntity)
	}

	tw, err := s.svc.Post(ctx, body.ID, text)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, apiTweet(tw))
}
