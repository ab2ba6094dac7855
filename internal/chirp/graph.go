package chirp

import "context"

// FollowGraph owns the directed follow edges between users. The graph only
// answers "who is followed"; it deliberately does not know that a user always
// sees their own posts. That rule belongs to the timeline aggregation, which
// keeps the two concerns independently testable.
//
// The graph stores edges, nothing else: endpoint existence is enforced by the
// service layer against the [UserDirectory] before any mutation reaches here.
type FollowGraph interface {
	// Follow inserts the follower -> followee edge. Inserting an edge that
	// already exists is a no-op.
	Follow(ctx context.Context, follower, followee UserID) error

	// Unfollow removes the edge if present. Removing a missing edge is a
	// no-op, not an error.
	Unfollow(ctx context.Context, follower, followee UserID) error

	// Followees returns the set of users the given user follows. The user
	// itself is never part of the result.
	Followees(ctx context.Context, user UserID) ([]UserID, error)

	// Followers returns the reverse edge set: everyone following the given
	// user. Used to push new posts into materialized timelines.
	Followers(ctx context.Context, user UserID) ([]UserID, error)
}
