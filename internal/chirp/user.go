package chirp

import (
	"context"
	"fmt"
	"time"
)

type (
	// User is a registered account. The record itself is immutable once
	// created; follow relationships live in the [FollowGraph], not here.
	User struct {
		ID        UserID
		Name      string
		Email     string
		Profile   string
		CreatedAt time.Time
	}

	// NewUser holds the fields supplied at sign-up.
	NewUser struct {
		Name    string
		Email   string
		Profile string
	}

	// UserDirectory owns user records and the ID sequence. Existence checks
	// against it gate every other operation in the system.
	UserDirectory interface {
		// Register stores a new user under the next sequential ID and
		// returns the stored record. Concurrent calls never produce
		// duplicate IDs.
		Register(ctx context.Context, nu NewUser) (User, error)

		// User returns the record for an ID, or [ErrNotFound].
		User(ctx context.Context, id UserID) (User, error)

		// Exists reports whether the ID has been registered.
		Exists(ctx context.Context, id UserID) (bool, error)
	}
)

// Validate checks the required sign-up fields.
func (nu NewUser) Validate() error {
	if nu.Name == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	if nu.Email == "" {
		return fmt.Errorf("email is required: %w", ErrInvalidInput)
	}

	return nil
}
