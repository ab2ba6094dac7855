package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jdholdren/chirp/internal/chirp"
)

// Row shape for the users table. Timestamps are stored as unix seconds so
// scanning stays driver-agnostic.
type userRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Profile   string `db:"profile"`
	CreatedAt int64  `db:"created_at"`
}

func (row userRow) user() chirp.User {
	return chirp.User{
		ID:        chirp.UserID(row.ID),
		Name:      row.Name,
		Email:     row.Email,
		Profile:   row.Profile,
		CreatedAt: time.Unix(row.CreatedAt, 0).UTC(),
	}
}

func (r Repo) Register(ctx context.Context, nu chirp.NewUser) (chirp.User, error) {
	if err := nu.Validate(); err != nil {
		return chirp.User{}, err
	}

	const q = `INSERT INTO users (name, email, profile, created_at)
	VALUES (?, ?, ?, ?);`

	// Sequential IDs come from the autoincrement column, which sqlite hands
	// out under its own write lock.
	var id int64
	err := r.withRetry(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, q, nu.Name, nu.Email, nu.Profile, time.Now().Unix())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()

		return err
	})
	if err != nil {
		return chirp.User{}, fmt.Errorf("error inserting user: %w", err)
	}

	return r.User(ctx, chirp.UserID(id))
}

func (r Repo) User(ctx context.Context, id chirp.UserID) (chirp.User, error) {
	const q = `SELECT * FROM users WHERE id = ?;`

	var row userRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return chirp.User{}, chirp.ErrNotFound
	}
	if err != nil {
		return chirp.User{}, fmt.Errorf("error fetching user: %w", err)
	}

	return row.user(), nil
}

func (r Repo) Exists(ctx context.Context, id chirp.UserID) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE id = ?;`

	var count int
	if err := r.db.GetContext(ctx, &count, q, id); err != nil {
		return false, fmt.Errorf("error checking user: %w", err)
	}

	return count > 0, nil
}
