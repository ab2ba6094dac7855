package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jdholdren/chirp/internal/chirp"
)

func (r Repo) Follow(ctx context.Context, follower, followee chirp.UserID) error {
	// Self-edges never make it into the table; the timeline aggregation adds
	// the ego on its own.
	if follower == followee {
		return nil
	}

	// The primary key on (user_id, follow_user_id) plus OR IGNORE gives the
	// edge its set semantics: re-following is a no-op.
	const q = `INSERT OR IGNORE INTO users_follow_list (user_id, follow_user_id, created_at)
	VALUES (?, ?, ?);`

	err := r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, q, follower, followee, time.Now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("error inserting follow edge: %w", err)
	}

	return nil
}

func (r Repo) Unfollow(ctx context.Context, follower, followee chirp.UserID) error {
	const q = `DELETE FROM users_follow_list WHERE user_id = ? AND follow_user_id = ?;`

	err := r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, q, follower, followee)
		return err
	})
	if err != nil {
		return fmt.Errorf("error deleting follow edge: %w", err)
	}

	return nil
}

func (r Repo) Followees(ctx context.Context, user chirp.UserID) ([]chirp.UserID, error) {
	const q = `SELECT follow_user_id FROM users_follow_list WHERE user_id = ?;`

	var ids []chirp.UserID
	if err := r.db.SelectContext(ctx, &ids, q, user); err != nil {
		return nil, fmt.Errorf("error selecting followees: %w", err)
	}

	return ids, nil
}

func (r Repo) Followers(ctx context.Context, user chirp.UserID) ([]chirp.UserID, error) {
	const q = `SELECT user_id FROM users_follow_list WHERE follow_user_id = ?;`

	var ids []chirp.UserID
	if err := r.db.SelectContext(ctx, &ids, q, user); err != nil {
		return nil, fmt.Errorf("error selecting followers: %w", err)
	}

	return ids, nil
}
