package feed

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jdholdren/chirp/internal/chirp"
)

var _ TimelineSource = (*Materializer)(nil)

// Materializer is the fan-out-on-write counterpart to [Aggregator]: it keeps
// a bounded cache of per-user timelines and pushes each new post into every
// cached follower timeline at write time. Misses and evicted entries fall
// back to a fresh fan-out-on-read computation, so the observable content and
// ordering are identical to the aggregator's at every point.
//
// The service calls [Materializer.Push] after each post and
// [Materializer.Evict] after each follow-set change; that keeps the cache
// from ever serving a stale view.
type Materializer struct {
	agg   Aggregator
	graph chirp.FollowGraph

	// The mutex covers both the cache and the recompute-then-admit path in
	// Timeline, so a concurrent Push can't slip a post between the two.
	mu    sync.Mutex
	cache *lru.Cache[chirp.UserID, []chirp.Tweet]
}

func NewMaterializer(agg Aggregator, graph chirp.FollowGraph, size int) (*Materializer, error) {
	cache, err := lru.New[chirp.UserID, []chirp.Tweet](size)
	if err != nil {
		return nil, fmt.Errorf("error creating timeline cache: %w", err)
	}

	return &Materializer{
		agg:   agg,
		graph: graph,
		cache: cache,
	}, nil
}

// Timeline returns the cached timeline, filling the cache from the aggregator
// on a miss.
func (m *Materializer) Timeline(ctx context.Context, user chirp.UserID) ([]chirp.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tl, ok := m.cache.Get(user); ok {
		return slices.Clone(tl), nil
	}

	tl, err := m.agg.Timeline(ctx, user)
	if err != nil {
		return nil, err
	}
	m.cache.Add(user, tl)

	return slices.Clone(tl), nil
}

// Push prepends a freshly posted tweet to every materialized timeline it
// belongs in: the author's own and each follower's. Users without a cached
// entry are skipped; they'll recompute on their next read.
func (m *Materializer) Push(ctx context.Context, tw chirp.Tweet) error {
	followers, err := m.graph.Followers(ctx, tw.Author)
	if err != nil {
		return fmt.Errorf("error fetching followers: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range append(followers, tw.Author) {
		tl, ok := m.cache.Peek(user)
		if !ok {
			continue
		}
		m.cache.Add(user, insertBySeq(tl, tw))
	}

	return nil
}

// insertBySeq places a tweet at its sequence position in a descending list.
// If the sequence is already present the list is returned unchanged: a read
// racing the post may have materialized the tweet before the push arrives.
func insertBySeq(tl []chirp.Tweet, tw chirp.Tweet) []chirp.Tweet {
	i := sort.Search(len(tl), func(i int) bool { return tl[i].Seq <= tw.Seq })
	if i < len(tl) && tl[i].Seq == tw.Seq {
		return tl
	}

	return slices.Insert(slices.Clone(tl), i, tw)
}

// Evict drops a user's materialized timeline. Called when their follow set
// changes, since the cached view no longer reflects the relevant author set.
func (m *Materializer) Evict(user chirp.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Remove(user)
}
