// Package api is the HTTP surface over the feed service. It owns request
// decoding, input hygiene, and mapping core error kinds to status codes;
// the semantics all live in the feed package.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sym01/htmlsanitizer"

	"github.com/jdholdren/chirp/internal/chirp"
	cherrs "github.com/jdholdren/chirp/internal/errors"
	"github.com/jdholdren/chirp/internal/feed"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("error encoding json response: %s", err)
	}

	return nil
}

// validator is a surface that can validate itself and return an error
// if something is wrong.
type validator interface {
	Validate() error
}

// decodeValid decodes a request and then validates it.
func decodeValid[V validator](r io.Reader) (V, error) {
	var v V
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return v, cherrs.E(fmt.Errorf("error decoding request: %w", err), http.StatusBadRequest)
	}
	if err := v.Validate(); err != nil {
		return v, err
	}

	return v, nil
}

// HandlerFuncE is a modified type of [http.HandlerFunc] that returns an error.
type HandlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	// Either it's already a structured error, or coerce the core error kind
	// into one.
	sErr := &cherrs.Error{}
	if !errors.As(err, &sErr) {
		sErr = coerceErr(err)
	}

	if err := writeJSON(w, sErr.Status, sErr); err != nil {
		slog.Error("error writing response", "error", err)
	}
}

// coerceErr maps the domain sentinels onto transport statuses. The original
// behavior is preserved: referencing an unknown user in a mutation or
// timeline read is a 400, not a 404.
func coerceErr(err error) *cherrs.Error {
	switch {
	case errors.Is(err, chirp.ErrNotFound):
		return cherrs.E(err, http.StatusNotFound)
	case errors.Is(err, chirp.ErrUnknownUser),
		errors.Is(err, chirp.ErrTextTooLong),
		errors.Is(err, chirp.ErrInvalidInput):
		return cherrs.E(err, http.StatusBadRequest)
	default:
		slog.Error("unhandled error", "err", err)
		return cherrs.E(http.StatusInternalServerError, "internal server error")
	}
}

// errRouter is a newtype around a mux router that allows attaching handlers that return errors.
type errRouter struct {
	*mux.Router
}

func (r errRouter) HandleFuncE(path string, f HandlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

type (
	// Server handles the five feed operations plus a liveness ping.
	Server struct {
		*http.Server

		svc              *feed.Service
		profileSanitizer *htmlsanitizer.HTMLSanitizer
		profanityFilter  bool
	}

	ServerConfig struct {
		Port       int
		CorsOrigin string

		// Reject tweets containing profanity with a 422.
		ProfanityFilter bool
	}
)

func NewServer(config ServerConfig, svc *feed.Service) *Server {
	r := errRouter{Router: mux.NewRouter()}

	srvr := Server{
		svc:              svc,
		profileSanitizer: htmlsanitizer.NewHTMLSanitizer(),
		profanityFilter:  config.ProfanityFilter,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(requestIDMiddleware, accessLogMiddleware)
	r.HandleFuncE("/ping", srvr.getPing).Methods(http.MethodGet)

	// Account creation
	r.HandleFuncE("/api/sign-up", srvr.postSignUp).Methods(http.MethodPost)

	// Posting
	r.HandleFuncE("/api/tweet", srvr.postTweet).Methods(http.MethodPost)

	// Follow graph mutations
	r.HandleFuncE("/api/follow", srvr.postFollow).Methods(http.MethodPost)
	r.HandleFuncE("/api/unfollow", srvr.postUnfollow).Methods(http.MethodPost)

	// Timeline view
	r.HandleFuncE("/api/users/{userID}/timeline", srvr.getTimeline).Methods(http.MethodGet)

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}

func (s *Server) getPing(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte("pong"))

	return err
}
