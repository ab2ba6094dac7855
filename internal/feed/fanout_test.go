package feed_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/chirp/internal/chirp"
	"github.com/jdholdren/chirp/internal/feed"
	"github.com/jdholdren/chirp/internal/memstore"
)

func TestMaterializedTimelineMatchesBaseline(t *testing.T) {
	svc := newTestService(t, feed.WithMaterializer(128))
	ctx := context.Background()

	alice := register(t, svc, "Alice")
	bob := register(t, svc, "Bob")

	_, err := svc.Post(ctx, bob.ID, "hi")
	require.NoError(t, err)

	// Prime the cache while Alice follows nobody.
	tl, err := svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tl)

	// The follow must be visible immediately, not on some later refresh.
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	tl, err = svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tl, 1)
	assert.Equal(t, "hi", tl[0].Text)

	// A new post lands in the already-cached timeline.
	_, err = svc.Post(ctx, bob.ID, "hi again")
	require.NoError(t, err)
	tl, err = svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tl, 2)
	assert.Equal(t, "hi again", tl[0].Text)

	// And the unfollow takes effect on the very next read.
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	tl, err = svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tl)
}

// The key property of the fan-out-on-write substitute: at every observation
// point, every cached timeline equals a fresh fan-out-on-read computation
// over the same stores.
func TestMaterializerEquivalence(t *testing.T) {
	const (
		userCount = 8
		steps     = 1000
	)

	var (
		users  = memstore.NewUsers()
		graph  = memstore.NewGraph()
		tweets = memstore.NewTweets()
	)
	svc, err := feed.New(users, graph, tweets, feed.WithMaterializer(4)) // small, to force evictions
	require.NoError(t, err)

	baseline := feed.NewAggregator(graph, tweets)
	ctx := context.Background()

	registered := make([]chirp.UserID, 0, userCount)
	for i := 0; i < userCount; i++ {
		usr, err := svc.Register(ctx, chirp.NewUser{Name: "u", Email: "u@example.com"})
		require.NoError(t, err)
		registered = append(registered, usr.ID)
	}

	rng := rand.New(rand.NewSource(1))
	pick := func() chirp.UserID {
		return registered[rng.Intn(len(registered))]
	}

	for step := 0; step < steps; step++ {
		switch rng.Intn(4) {
		case 0:
			_, err := svc.Post(ctx, pick(), "post")
			require.NoError(t, err)
		case 1:
			require.NoError(t, svc.Follow(ctx, pick(), pick()))
		case 2:
			require.NoError(t, svc.Unfollow(ctx, pick(), pick()))
		case 3:
			observed := pick()

			cached, err := svc.Timeline(ctx, observed)
			require.NoError(t, err)
			fresh, err := baseline.Timeline(ctx, observed)
			require.NoError(t, err)

			assert.Equal(t, fresh, cached, "divergence at step %d for user %d", step, observed)
		}
	}
}

// Timelines handed out by the materializer are copies; mutating one must not
// corrupt the cached entry.
func TestMaterializerReturnsCopies(t *testing.T) {
	svc := newTestService(t, feed.WithMaterializer(16))
	ctx := context.Background()

	alice := register(t, svc, "Alice")
	_, err := svc.Post(ctx, alice.ID, "original")
	require.NoError(t, err)

	tl, err := svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tl, 1)
	tl[0].Text = "tampered"

	tl, err = svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", tl[0].Text)
}
