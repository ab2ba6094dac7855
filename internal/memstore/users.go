// Package memstore implements the chirp store contracts with plain in-memory
// structures. Each store guards its own state with a single RWMutex, so
// operations on different stores never block each other, and every instance
// is fully isolated: tests construct a fresh one per case.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jdholdren/chirp/internal/chirp"
)

// Ensure Users implements the directory contract.
var _ chirp.UserDirectory = (*Users)(nil)

// Users is the in-memory user directory.
type Users struct {
	mu     sync.RWMutex
	byID   map[chirp.UserID]chirp.User
	nextID chirp.UserID
}

func NewUsers() *Users {
	return &Users{
		byID:   make(map[chirp.UserID]chirp.User),
		nextID: 1,
	}
}

func (u *Users) Register(ctx context.Context, nu chirp.NewUser) (chirp.User, error) {
	if err := nu.Validate(); err != nil {
		return chirp.User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// ID assignment and insertion happen under the same lock, so concurrent
	// registrations are linearizable and never share an ID.
	usr := chirp.User{
		ID:        u.nextID,
		Name:      nu.Name,
		Email:     nu.Email,
		Profile:   nu.Profile,
		CreatedAt: time.Now().UTC(),
	}
	u.byID[usr.ID] = usr
	u.nextID++

	return usr, nil
}

func (u *Users) User(ctx context.Context, id chirp.UserID) (chirp.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	usr, ok := u.byID[id]
	if !ok {
		return chirp.User{}, chirp.ErrNotFound
	}

	return usr, nil
}

func (u *Users) Exists(ctx context.Context, id chirp.UserID) (bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	_, ok := u.byID[id]
	return ok, nil
}
