package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-wishlist/internal/model"
)

func TestAddFriend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("self reference is rejected before touching the store", func(t *testing.T) {
		t.Parallel()
		repo := new(mockUserRepository)
		svc := NewUserService(repo, 0)

		err := svc.AddFriend(ctx, 7, 7)

		require.ErrorIs(t, err, model.ErrSelfReference)
		repo.AssertNotCalled(t, "WithRelationTx", mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		friend := env.seedUser(t, "Bob")

		err := env.userSvc.AddFriend(ctx, 999, friend)
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("missing friend", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.seedUser(t, "Alice")

		err := env.userSvc.AddFriend(ctx, user, 999)
		require.ErrorIs(t, err, model.ErrUserNotFound)

		profile, err := env.userSvc.GetProfile(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, profile.FriendIDs)
	})

	t.Run("adding twice keeps a single entry", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		alice := env.seedUser(t, "Alice")
		bob := env.seedUser(t, "Bob")

		require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))
		require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))

		profile, err := env.userSvc.GetProfile(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []int64{bob}, profile.FriendIDs)
	})

	t.Run("friendship is one-directional", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		alice := env.seedUser(t, "Alice")
		bob := env.seedUser(t, "Bob")

		require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))

		view, err := env.userSvc.GetFriend(ctx, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, model.FriendView{Name: "Bob", LastName: "Test"}, view)

		_, err = env.userSvc.GetFriend(ctx, bob, alice)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestAddFriendConcurrentUpdatesAreNotLost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.seedUser(t, "Owner")
	friends := make([]int64, 0, 20)
	for i := range 20 {
		friends = append(friends, env.seedUser(t, fmt.Sprintf("Friend %d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(friends))
	for _, id := range friends {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- env.userSvc.AddFriend(ctx, owner, id)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	profile, err := env.userSvc.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.ElementsMatch(t, friends, profile.FriendIDs)
}

func TestRemoveFriend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.seedUser(t, "Alice")
	bob := env.seedUser(t, "Bob")

	require.ErrorIs(t, env.userSvc.RemoveFriend(ctx, alice, bob), model.ErrFriendNotFound)

	require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))
	require.NoError(t, env.userSvc.RemoveFriend(ctx, alice, bob))

	_, err := env.userSvc.GetFriend(ctx, alice, bob)
	require.ErrorIs(t, err, model.ErrFriendNotFound)
}

func TestAddPresent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown present", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.seedUser(t, "Alice")

		require.ErrorIs(t, env.userSvc.AddPresent(ctx, user, 42), model.ErrPresentNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		present := env.seedPresent(t, "Bike")

		require.ErrorIs(t, env.userSvc.AddPresent(ctx, 999, present), model.ErrUserNotFound)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.seedUser(t, "Alice")
		present := env.seedPresent(t, "Bike")

		require.NoError(t, env.userSvc.AddPresent(ctx, user, present))
		require.NoError(t, env.userSvc.AddPresent(ctx, user, present))

		profile, err := env.userSvc.GetProfile(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []int64{present}, profile.PresentIDs)
	})
}

func TestRemovePresent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	user := env.seedUser(t, "Alice")
	present := env.seedPresent(t, "Bike")

	require.ErrorIs(t, env.userSvc.RemovePresent(ctx, user, present), model.ErrPresentNotFound)

	require.NoError(t, env.userSvc.AddPresent(ctx, user, present))
	require.NoError(t, env.userSvc.RemovePresent(ctx, user, present))
	require.ErrorIs(t, env.userSvc.RemovePresent(ctx, user, present), model.ErrPresentNotFound)

	profile, err := env.userSvc.GetProfile(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, profile.PresentIDs)
}

func TestRelationStoreFailuresPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	unavailable := fmt.Errorf("begin: %w: %w", model.ErrStoreUnavailable, errors.New("connection refused"))

	t.Run("transaction cannot start", func(t *testing.T) {
		t.Parallel()
		repo := new(mockUserRepository)
		repo.On("WithRelationTx", mock.Anything).Return(nil, unavailable)
		svc := NewUserService(repo, 0)

		err := svc.AddFriend(ctx, 1, 2)
		require.ErrorIs(t, err, model.ErrStoreUnavailable)
		require.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("save fails after the set changed", func(t *testing.T) {
		t.Parallel()
		tx := new(mockRelationTx)
		tx.On("LockUser", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
		tx.On("PresentExists", mock.Anything, int64(5)).Return(true, nil)
		tx.On("SaveRelations", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.PresentIDs.Contains(5)
		})).Return(unavailable)

		repo := new(mockUserRepository)
		repo.On("WithRelationTx", mock.Anything).Return(tx, nil)
		svc := NewUserService(repo, 0)

		err := svc.AddPresent(ctx, 1, 5)
		require.ErrorIs(t, err, model.ErrStoreUnavailable)
		tx.AssertExpectations(t)
	})

	t.Run("friend lookup fails", func(t *testing.T) {
		t.Parallel()
		repo := new(mockUserRepository)
		repo.On("FindFriend", mock.Anything, int64(1), int64(2)).Return(model.User{}, unavailable)
		svc := NewUserService(repo, 0)

		_, err := svc.GetFriend(ctx, 1, 2)
		require.ErrorIs(t, err, model.ErrStoreUnavailable)
	})
}

func TestListFriends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.seedUser(t, "Alice")
	bob := env.seedUser(t, "Bob")
	carol := env.seedUser(t, "Carol")

	friends, err := env.userSvc.ListFriends(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, friends)
	assert.Empty(t, friends)

	require.NoError(t, env.userSvc.AddFriend(ctx, alice, carol))
	require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))

	friends, err = env.userSvc.ListFriends(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.FriendView{
		{Name: "Bob", LastName: "Test"},
		{Name: "Carol", LastName: "Test"},
	}, friends)

	_, err = env.userSvc.ListFriends(ctx, 999)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.seedUser(t, "Alice")
	bob := env.seedUser(t, "Bob")
	present := env.seedPresent(t, "Bike")
	require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))
	require.NoError(t, env.userSvc.AddPresent(ctx, alice, present))

	birthday := model.Date(time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC))
	view, err := env.userSvc.UpdateProfile(ctx, alice, model.UpdateProfileRequest{
		Name:     "Alicia",
		LastName: "Smith",
		Birthday: &birthday,
		URL:      "/images/alicia.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", view.Name)

	profile, err := env.userSvc.GetProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Smith", profile.LastName)
	assert.Equal(t, "/images/alicia.png", profile.URL)
	require.NotNil(t, profile.Birthday)
	assert.Equal(t, "1990-05-17", profile.Birthday.Time().Format("2006-01-02"))
	assert.Equal(t, []int64{bob}, profile.FriendIDs)
	assert.Equal(t, []int64{present}, profile.PresentIDs)

	t.Run("name taken by another user", func(t *testing.T) {
		_, err := env.userSvc.UpdateProfile(ctx, alice, model.UpdateProfileRequest{Name: "bob", LastName: "Smith"})
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := env.userSvc.UpdateProfile(ctx, alice, model.UpdateProfileRequest{Name: "", LastName: "Smith"})
		require.Error(t, err)
	})
}

func TestDeleteUserDetachesFromFriendLists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.seedUser(t, "Alice")
	bob := env.seedUser(t, "Bob")
	carol := env.seedUser(t, "Carol")
	require.NoError(t, env.userSvc.AddFriend(ctx, alice, bob))
	require.NoError(t, env.userSvc.AddFriend(ctx, alice, carol))

	require.NoError(t, env.userSvc.Delete(ctx, bob))
	require.ErrorIs(t, env.userSvc.Delete(ctx, bob), model.ErrUserNotFound)

	profile, err := env.userSvc.GetProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []int64{carol}, profile.FriendIDs)
}
