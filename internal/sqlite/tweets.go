package sqlite

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"

	"github.com/jdholdren/chirp/internal/chirp"
)

type tweetRow struct {
	Seq       int64  `db:"seq"`
	UserID    int64  `db:"user_id"`
	Tweet     string `db:"tweet"`
	CreatedAt int64  `db:"created_at"`
}

func (row tweetRow) tweet() chirp.Tweet {
	return chirp.Tweet{
		Seq:       row.Seq,
		Author:    chirp.UserID(row.UserID),
		Text:      row.Tweet,
		CreatedAt: time.Unix(row.CreatedAt, 0).UTC(),
	}
}

func (r Repo) Append(ctx context.Context, author chirp.UserID, text string) (chirp.Tweet, error) {
	if n := utf8.RuneCountInString(text); n > chirp.MaxTweetLength {
		return chirp.Tweet{}, fmt.Errorf("tweet is %d characters: %w", n, chirp.ErrTextTooLong)
	}

	const q = `INSERT INTO tweets (user_id, tweet, created_at) VALUES (?, ?, ?);`

	var seq int64
	err := r.withRetry(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, q, author, text, time.Now().Unix())
		if err != nil {
			return err
		}
		seq, err = res.LastInsertId()

		return err
	})
	if err != nil {
		return chirp.Tweet{}, fmt.Errorf("error inserting tweet: %w", err)
	}

	return r.tweet(ctx, seq)
}

func (r Repo) tweet(ctx context.Context, seq int64) (chirp.Tweet, error) {
	const q = `SELECT * FROM tweets WHERE seq = ?;`

	var row tweetRow
	if err := r.db.GetContext(ctx, &row, q, seq); err != nil {
		return chirp.Tweet{}, fmt.Errorf("error fetching tweet: %w", err)
	}

	return row.tweet(), nil
}

func (r Repo) AllByAuthors(ctx context.Context, authors []chirp.UserID) ([]chirp.Tweet, error) {
	if len(authors) == 0 {
		return []chirp.Tweet{}, nil
	}

	query, args, err := sq.Select("*").
		From("tweets").
		Where(sq.Eq{"user_id": authors}).
		OrderBy("seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %w", err)
	}

	var rows []tweetRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error selecting tweets: %w", err)
	}

	tweets := make([]chirp.Tweet, 0, len(rows))
	for _, row := range rows {
		tweets = append(tweets, row.tweet())
	}

	return tweets, nil
}
