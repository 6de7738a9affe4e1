package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
)

// UserService owns profiles and the friend and present relationships of a
// user. Friendship is one-directional: adding B to A's list says nothing
// about B's list.
type UserService struct {
	users    repository.UserRepository
	hashCost int
}

func NewUserService(users repository.UserRepository, hashCost int) *UserService {
	return &UserService{users: users, hashCost: hashCost}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (model.UserView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.UserView{}, err
	}
	return model.NewUserView(user), nil
}

// UpdateProfile rewrites the profile fields. Friend and present lists are
// left exactly as stored.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (model.UserView, error) {
	if err := req.Validate(); err != nil {
		return model.UserView{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.UserView{}, err
	}

	user.Name = req.Name
	user.LastName = req.LastName
	user.Birthday = req.Birthday.TimePtr()
	user.URL = req.URL
	if req.Password != "" {
		hash, err := hashPassword(req.Password, s.hashCost)
		if err != nil {
			return model.UserView{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return model.UserView{}, err
	}

	slog.Info("user profile updated", "user_id", userID)
	return model.NewUserView(user), nil
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	slog.Warn("user deleted", "user_id", userID)
	return nil
}

// AddFriend puts friendID into userID's friend list. Adding an existing
// friend succeeds without writing.
func (s *UserService) AddFriend(ctx context.Context, userID int64, friendID int64) error {
	if userID == friendID {
		return model.ErrSelfReference
	}

	return s.users.WithRelationTx(ctx, func(tx repository.RelationTx) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}

		exists, err := tx.UserExists(ctx, friendID)
		if err != nil {
			return err
		}
		if !exists {
			slog.Warn("friend to add does not exist", "user_id", userID, "friend_id", friendID)
			return model.ErrUserNotFound
		}

		if !user.FriendIDs.Add(friendID) {
			slog.Debug("friend already in list", "user_id", userID, "friend_id", friendID)
			return nil
		}

		if err := tx.SaveRelations(ctx, user); err != nil {
			return err
		}
		slog.Info("friend added", "user_id", userID, "friend_id", friendID)
		return nil
	})
}

// RemoveFriend is the inverse of AddFriend. A missing membership is
// model.ErrFriendNotFound.
func (s *UserService) RemoveFriend(ctx context.Context, userID int64, friendID int64) error {
	return s.users.WithRelationTx(ctx, func(tx repository.RelationTx) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}

		if !user.FriendIDs.Remove(friendID) {
			return model.ErrFriendNotFound
		}

		if err := tx.SaveRelations(ctx, user); err != nil {
			return err
		}
		slog.Info("friend removed", "user_id", userID, "friend_id", friendID)
		return nil
	})
}

func (s *UserService) AddPresent(ctx context.Context, userID int64, presentID int64) error {
	return s.users.WithRelationTx(ctx, func(tx repository.RelationTx) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}

		exists, err := tx.PresentExists(ctx, presentID)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrPresentNotFound
		}

		if !user.PresentIDs.Add(presentID) {
			slog.Debug("present already in list", "user_id", userID, "present_id", presentID)
			return nil
		}

		if err := tx.SaveRelations(ctx, user); err != nil {
			return err
		}
		slog.Info("present added", "user_id", userID, "present_id", presentID)
		return nil
	})
}

func (s *UserService) RemovePresent(ctx context.Context, userID int64, presentID int64) error {
	return s.users.WithRelationTx(ctx, func(tx repository.RelationTx) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}

		if !user.PresentIDs.Remove(presentID) {
			slog.Warn("present not in list", "user_id", userID, "present_id", presentID)
			return model.ErrPresentNotFound
		}

		if err := tx.SaveRelations(ctx, user); err != nil {
			return err
		}
		slog.Info("present removed", "user_id", userID, "present_id", presentID)
		return nil
	})
}

// GetFriend returns friendID's public view, but only when friendID is in
// userID's friend list.
func (s *UserService) GetFriend(ctx context.Context, userID int64, friendID int64) (model.FriendView, error) {
	friend, err := s.users.FindFriend(ctx, userID, friendID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			slog.Warn("friend not found", "user_id", userID, "friend_id", friendID)
		}
		return model.FriendView{}, err
	}
	return model.NewFriendView(friend), nil
}

func (s *UserService) ListFriends(ctx context.Context, userID int64) ([]model.FriendView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.users.FindByIDs(ctx, user.FriendIDs.Slice())
	if err != nil {
		return nil, fmt.Errorf("load friends of %d: %w", userID, err)
	}
	return model.NewFriendViews(friends), nil
}

func hashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
