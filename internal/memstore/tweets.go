package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jdholdren/chirp/internal/chirp"
)

var _ chirp.TweetStore = (*Tweets)(nil)

// Tweets is the in-memory tweet log. The slice is append-only; sequence
// numbers are just the append position, which makes the global ordering
// trivially monotonic.
type Tweets struct {
	mu  sync.RWMutex
	log []chirp.Tweet
}

func NewTweets() *Tweets {
	return &Tweets{}
}

func (t *Tweets) Append(ctx context.Context, author chirp.UserID, text string) (chirp.Tweet, error) {
	if n := utf8.RuneCountInString(text); n > chirp.MaxTweetLength {
		return chirp.Tweet{}, fmt.Errorf("tweet is %d characters: %w", n, chirp.ErrTextTooLong)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tw := chirp.Tweet{
		Seq:       int64(len(t.log)) + 1,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	t.log = append(t.log, tw)

	return tw, nil
}

// How many log entries to scan between cancellation checks.
const scanCheckEvery = 1024

func (t *Tweets) AllByAuthors(ctx context.Context, authors []chirp.UserID) ([]chirp.Tweet, error) {
	if len(authors) == 0 {
		return []chirp.Tweet{}, nil
	}

	wanted := make(map[chirp.UserID]struct{}, len(authors))
	for _, id := range authors {
		wanted[id] = struct{}{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	// Walk the log newest to oldest so the result comes out most-recent-first
	// without a sort.
	matches := []chirp.Tweet{}
	for i := len(t.log) - 1; i >= 0; i-- {
		if (len(t.log)-i)%scanCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if _, ok := wanted[t.log[i].Author]; ok {
			matches = append(matches, t.log[i])
		}
	}

	return matches, nil
}
