package feed_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/chirp/internal/chirp"
	"github.com/jdholdren/chirp/internal/feed"
	"github.com/jdholdren/chirp/internal/memstore"
)

func newTestService(t *testing.T, opts ...feed.Option) *feed.Service {
	t.Helper()

	svc, err := feed.New(memstore.NewUsers(), memstore.NewGraph(), memstore.NewTweets(), opts...)
	require.NoError(t, err)

	return svc
}

func register(t *testing.T, svc *feed.Service, name string) chirp.User {
	t.Helper()

	usr, err := svc.Register(context.Background(), chirp.NewUser{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)

	return usr
}

// The walkthrough scenario: Bob posts, Alice sees nothing until she follows
// him, and nothing again once she unfollows.
func TestFollowUnfollowTimeline(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "Alice")
	bob := register(t, svc, "Bob")

	_, err := svc.Post(ctx, bob.ID, "hi")
	require.NoError(t, err)

	tl, err := svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tl)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	tl, err = svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tl, 1)
	assert.Equal(t, bob.ID, tl[0].Author)
	assert.Equal(t, "hi", tl[0].Text)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	tl, err = svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tl)
}

func TestOwnPostsAlwaysVisible(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "Alice")

	posted, err := svc.Post(ctx, alice.ID, "my first tweet")
	require.NoError(t, err)

	tl, err := svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tl, 1)
	assert.Equal(t, posted, tl[0])
}

func TestTimelineNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "Alice")
	bob := register(t, svc, "Bob")
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	for _, text := range []string{"one", "two", "three"} {
		author := alice.ID
		if text == "two" {
			author = bob.ID
		}
		_, err := svc.Post(ctx, author, text)
		require.NoError(t, err)
	}

	tl, err := svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tl, 3)
	assert.Equal(t, "three", tl[0].Text)
	assert.Equal(t, "two", tl[1].Text)
	assert.Equal(t, "one", tl[2].Text)
}

func TestEmptyTimelineIsNotAnError(t *testing.T) {
	svc := newTestService(t)

	alice := register(t, svc, "Alice")

	tl, err := svc.Timeline(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tl)
}

func TestPostByUnknownUserAppendsNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "Alice")

	_, err := svc.Post(ctx, 99, "ghost post")
	assert.ErrorIs(t, err, chirp.ErrUnknownUser)

	// Nothing leaked into anyone's view.
	tl, err := svc.Timeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tl)
}

func TestFollowUnknownUserLeavesGraphUnchanged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "Alice")

	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, 99), chirp.ErrUnknownUser)
	assert.ErrorIs(t, svc.Follow(ctx, 99, alice.ID), chirp.ErrUnknownUser)
	assert.ErrorIs(t, svc.Unfollow(ctx, alice.ID, 99), chirp.ErrUnknownUser)

	following, err := svc.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestTimelineForUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Timeline(context.Background(), 42)
	assert.ErrorIs(t, err, chirp.ErrUnknownUser)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), chirp.NewUser{Email: "x@example.com"})
	assert.ErrorIs(t, err, chirp.ErrInvalidInput)
}

// Readers and writers on disjoint users shouldn't trip the race detector or
// deadlock against each other.
func TestConcurrentPostsAndReads(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "Alice")
	bob := register(t, svc, "Bob")
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Post(ctx, bob.ID, "ping")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Timeline(ctx, alice.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tl, err := svc.Timeline(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, tl, 20)
}
