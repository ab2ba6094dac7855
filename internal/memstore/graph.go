package memstore

import (
	"context"
	"sync"

	"github.com/jdholdren/chirp/internal/chirp"
)

var _ chirp.FollowGraph = (*Graph)(nil)

// Graph is the in-memory follow graph. Both edge directions are indexed so
// followee lookups (timeline reads) and follower lookups (fan-out pushes)
// are each a single map access.
type Graph struct {
	mu        sync.RWMutex
	following map[chirp.UserID]map[chirp.UserID]struct{}
	followers map[chirp.UserID]map[chirp.UserID]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		following: make(map[chirp.UserID]map[chirp.UserID]struct{}),
		followers: make(map[chirp.UserID]map[chirp.UserID]struct{}),
	}
}

func (g *Graph) Follow(ctx context.Context, follower, followee chirp.UserID) error {
	// A user is always in their own timeline; a literal self-edge would leak
	// into Followees, so it's dropped here.
	if follower == followee {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	addEdge(g.following, follower, followee)
	addEdge(g.followers, followee, follower)

	return nil
}

func (g *Graph) Unfollow(ctx context.Context, follower, followee chirp.UserID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Deleting from a nil or missing set is harmless, which gives unfollow
	// its no-op semantics for free.
	delete(g.following[follower], followee)
	delete(g.followers[followee], follower)

	return nil
}

func (g *Graph) Followees(ctx context.Context, user chirp.UserID) ([]chirp.UserID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return edgeSet(g.following, user), nil
}

func (g *Graph) Followers(ctx context.Context, user chirp.UserID) ([]chirp.UserID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return edgeSet(g.followers, user), nil
}

func addEdge(index map[chirp.UserID]map[chirp.UserID]struct{}, from, to chirp.UserID) {
	set, ok := index[from]
	if !ok {
		set = make(map[chirp.UserID]struct{})
		index[from] = set
	}
	set[to] = struct{}{}
}

func edgeSet(index map[chirp.UserID]map[chirp.UserID]struct{}, from chirp.UserID) []chirp.UserID {
	ids := make([]chirp.UserID, 0, len(index[from]))
	for id := range index[from] {
		ids = append(ids, id)
	}

	return ids
}
