package feed

import (
	"context"
	"fmt"

	"github.com/jdholdren/chirp/internal/chirp"
)

// TimelineSource is anything that can answer "what should this user see".
// The baseline implementation is [Aggregator]; [Materializer] is the cached
// substitute with identical observable behavior.
type TimelineSource interface {
	Timeline(ctx context.Context, user chirp.UserID) ([]chirp.Tweet, error)
}

var _ TimelineSource = Aggregator{}

// Aggregator computes timelines fan-out-on-read: every request recomputes the
// relevant author set from the follow graph and filters the tweet log by it.
// Nothing is materialized, so reads are always consistent with the latest
// follow and post mutations at the cost of scanning the corpus per read.
//
// Timelines are ordered most-recent-first (descending sequence).
type Aggregator struct {
	graph  chirp.FollowGraph
	tweets chirp.TweetStore
}

func NewAggregator(graph chirp.FollowGraph, tweets chirp.TweetStore) Aggregator {
	return Aggregator{
		graph:  graph,
		tweets: tweets,
	}
}

// Timeline returns the posts authored by the user or anyone they follow.
// The caller is responsible for checking that the user exists.
func (a Aggregator) Timeline(ctx context.Context, user chirp.UserID) ([]chirp.Tweet, error) {
	followees, err := a.graph.Followees(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error fetching followees: %w", err)
	}

	// The ego is always part of their own timeline. The graph never includes
	// it, so it gets added here.
	relevant := append(followees, user)

	tweets, err := a.tweets.AllByAuthors(ctx, relevant)
	if err != nil {
		return nil, fmt.Errorf("error fetching tweets: %w", err)
	}

	return tweets, nil
}
