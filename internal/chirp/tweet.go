package chirp

import (
	"context"
	"time"
)

type (
	// Tweet is a single authored post. Tweets are immutable and permanent:
	// append is the only mutation the store supports.
	Tweet struct {
		Seq       int64
		Author    UserID
		Text      string
		CreatedAt time.Time
	}

	// TweetStore is the append-only log of posts. Sequence numbers are
	// assigned monotonically across all authors, so they double as the
	// global ordering for timelines.
	TweetStore interface {
		// Append stores a new tweet under the next sequence number and
		// returns the stored record. Fails with [ErrTextTooLong] when the
		// text exceeds [MaxTweetLength]. Author existence is the service
		// layer's check, not the store's.
		Append(ctx context.Context, author UserID, text string) (Tweet, error)

		// AllByAuthors returns every tweet whose author is in the given
		// set, newest first. A nil or empty set yields an empty result.
		AllByAuthors(ctx context.Context, authors []UserID) ([]Tweet, error)
	}
)
