// Package repository defines the storage contracts the services depend on.
// Implementations live in the postgres and sqlite subpackages.
//
// Lookups of missing rows return model.ErrUserNotFound or
// model.ErrPresentNotFound. Driver and connection failures are wrapped with
// model.ErrStoreUnavailable.
package repository

import (
	"context"

	"go-wishlist/internal/model"
)

type UserRepository interface {
	// Create inserts u and sets u.ID. A taken name yields
	// model.ErrUserAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int64) (model.User, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (model.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	// FindFriend returns friendID only if it is in userID's friend list.
	FindFriend(ctx context.Context, userID int64, friendID int64) (model.User, error)
	// UpdateProfile writes the profile columns of u and leaves the
	// relationship lists alone.
	UpdateProfile(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id int64) error
	// WithRelationTx runs fn in one transaction. Returning an error from fn
	// rolls everything back.
	WithRelationTx(ctx context.Context, fn func(tx RelationTx) error) error
	Ping(ctx context.Context) error
}

// RelationTx is the view of the store inside a relationship mutation.
type RelationTx interface {
	// LockUser loads the user and holds it until the transaction ends, so
	// concurrent mutations of the same user are serialised.
	LockUser(ctx context.Context, id int64) (model.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	PresentExists(ctx context.Context, id int64) (bool, error)
	// SaveRelations persists u.FriendIDs and u.PresentIDs.
	SaveRelations(ctx context.Context, u model.User) error
}

type PresentRepository interface {
	Create(ctx context.Context, p *model.Present) error
	FindByID(ctx context.Context, id int64) (model.Present, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Present, error)
	Update(ctx context.Context, p model.Present) error
	Delete(ctx context.Context, id int64) error
}
