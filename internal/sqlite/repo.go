// Package sqlite backs the chirp stores with a sqlite database. It is the
// durable alternative to the in-memory store; the service layer only ever
// sees the store contracts.
package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"

	"github.com/jdholdren/chirp/internal/chirp"
)

// Ensure Repo implements all three store contracts.
var (
	_ chirp.UserDirectory = (*Repo)(nil)
	_ chirp.FollowGraph   = (*Repo)(nil)
	_ chirp.TweetStore    = (*Repo)(nil)
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}

// Sqlite result codes worth retrying: the database or a table is locked by
// another writer.
const (
	codeBusy   = 5
	codeLocked = 6
)

// withRetry runs a write with Fibonacci backoff while the database is busy.
// Sqlite allows one writer at a time, so concurrent mutations surface as
// transient busy errors rather than blocking.
func (r Repo) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(5, retry.NewFibonacci(25*time.Millisecond))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) {
			if code := sqliteErr.Code(); code == codeBusy || code == codeLocked {
				return retry.RetryableError(err)
			}
		}

		return err
	})
}
