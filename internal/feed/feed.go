// Package feed is the core of the backend: it orchestrates the user
// directory, follow graph, and tweet log behind the five use-case
// operations, and owns timeline aggregation.
package feed

import (
	"context"
	"fmt"

	"github.com/jdholdren/chirp/internal/chirp"
)

// Service wires the three stores together and enforces the cross-entity
// invariants: every referenced ID must name a registered user before a
// mutation or read goes through. The stores themselves stay single-concern.
type Service struct {
	users  chirp.UserDirectory
	graph  chirp.FollowGraph
	tweets chirp.TweetStore

	timelines TimelineSource
	mat       *Materializer // nil unless fan-out-on-write is enabled
}

// Option configures a [Service].
type Option func(*Service) error

// WithMaterializer switches timeline reads to the fan-out-on-write cache
// with the given bound on materialized users.
func WithMaterializer(size int) Option {
	return func(s *Service) error {
		mat, err := NewMaterializer(NewAggregator(s.graph, s.tweets), s.graph, size)
		if err != nil {
			return err
		}
		s.mat = mat
		s.timelines = mat

		return nil
	}
}

func New(users chirp.UserDirectory, graph chirp.FollowGraph, tweets chirp.TweetStore, opts ...Option) (*Service, error) {
	s := &Service{
		users:     users,
		graph:     graph,
		tweets:    tweets,
		timelines: NewAggregator(graph, tweets),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Register creates a new user and returns the stored record with its
// assigned ID.
func (s *Service) Register(ctx context.Context, nu chirp.NewUser) (chirp.User, error) {
	if err := nu.Validate(); err != nil {
		return chirp.User{}, err
	}

	usr, err := s.users.Register(ctx, nu)
	if err != nil {
		return chirp.User{}, fmt.Errorf("error registering user: %w", err)
	}

	return usr, nil
}

// User looks up a single user record.
func (s *Service) User(ctx context.Context, id chirp.UserID) (chirp.User, error) {
	return s.users.User(ctx, id)
}

// Post appends a tweet authored by the given user.
func (s *Service) Post(ctx context.Context, author chirp.UserID, text string) (chirp.Tweet, error) {
	if err := s.ensureUsers(ctx, author); err != nil {
		return chirp.Tweet{}, err
	}

	tw, err := s.tweets.Append(ctx, author, text)
	if err != nil {
		return chirp.Tweet{}, err
	}

	if s.mat != nil {
		if err := s.mat.Push(ctx, tw); err != nil {
			return chirp.Tweet{}, fmt.Errorf("error fanning out tweet: %w", err)
		}
	}

	return tw, nil
}

// Follow adds follower -> followee to the graph. Following someone already
// followed is a no-op.
func (s *Service) Follow(ctx context.Context, follower, followee chirp.UserID) error {
	if err := s.ensureUsers(ctx, follower, followee); err != nil {
		return err
	}

	if err := s.graph.Follow(ctx, follower, followee); err != nil {
		return fmt.Errorf("error adding follow edge: %w", err)
	}

	if s.mat != nil {
		s.mat.Evict(follower)
	}

	return nil
}

// Unfollow removes the edge. Unfollowing someone not followed is a no-op.
func (s *Service) Unfollow(ctx context.Context, follower, followee chirp.UserID) error {
	if err := s.ensureUsers(ctx, follower, followee); err != nil {
		return err
	}

	if err := s.graph.Unfollow(ctx, follower, followee); err != nil {
		return fmt.Errorf("error removing follow edge: %w", err)
	}

	if s.mat != nil {
		s.mat.Evict(follower)
	}

	return nil
}

// Following returns the set of users the given user follows.
func (s *Service) Following(ctx context.Context, user chirp.UserID) ([]chirp.UserID, error) {
	if err := s.ensureUsers(ctx, user); err != nil {
		return nil, err
	}

	return s.graph.Followees(ctx, user)
}

// Timeline returns the user's timeline, most recent post first. A user who
// follows nobody and has posted nothing gets an empty timeline, not an error.
func (s *Service) Timeline(ctx context.Context, user chirp.UserID) ([]chirp.Tweet, error) {
	if err := s.ensureUsers(ctx, user); err != nil {
		return nil, err
	}

	return s.timelines.Timeline(ctx, user)
}

// ensureUsers gates an operation on every referenced ID being registered.
func (s *Service) ensureUsers(ctx context.Context, ids ...chirp.UserID) error {
	for _, id := range ids {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("error checking user %d: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("user %d: %w", id, chirp.ErrUnknownUser)
		}
	}

	return nil
}
