package api

import (
	"net/http"
	"time"

	"github.com/jdholdren/chirp/internal/chirp"
	cherrs "github.com/jdholdren/chirp/internal/errors"
)

type SignUpReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Profile string `json:"profile"`
}

func (req SignUpReq) Validate() error {
	var details []cherrs.Detail
	if req.Name == "" {
		details = append(details, cherrs.Detail{Field: "name", Error: "is required"})
	}
	if req.Email == "" {
		details = append(details, cherrs.Detail{Field: "email", Error: "is required"})
	}
	if len(details) > 0 {
		return cherrs.E("missing required fields", details, http.StatusBadRequest)
	}

	return nil
}

type UserResp struct {
	ID        chirp.UserID `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Profile   string       `json:"profile"`
	CreatedAt time.Time    `json:"created_at"`
}

func apiUser(usr chirp.User) UserResp {
	return UserResp{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		Profile:   usr.Profile,
		CreatedAt: usr.CreatedAt,
	}
}

func (s *Server) postSignUp(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeValid[SignUpReq](r.Body)
	if err != nil {
		return err
	}

	// The profile is the only free-form field stored verbatim, so scrub any
	// markup out of it before it reaches the directory.
	profile, err := s.profileSanitizer.SanitizeString(body.Profile)
	if err != nil {
		return cherrs.E(err, http.StatusBadRequest, cherrs.Detail{Field: "profile", Error: "could not be sanitized"})
	}

	usr, err := s.svc.Register(ctx, chirp.NewUser{
		Name:    body.Name,
		Email:   body.Email,
		Profile: profile,
	})
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, apiUser(usr))
}
