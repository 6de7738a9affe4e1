package service

import (
	"context"
	"log/slog"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
)

type PresentService struct {
	presents  repository.PresentRepository
	users     repository.UserRepository
	relations *UserService
}

func NewPresentService(presents repository.PresentRepository, users repository.UserRepository, relations *UserService) *PresentService {
	return &PresentService{presents: presents, users: users, relations: relations}
}

// Create stores the present and puts it on the caller's wishlist. If the
// attach fails the stored present is removed again.
func (s *PresentService) Create(ctx context.Context, userID int64, req model.CreatePresentRequest) (model.PresentDetail, error) {
	if err := req.Validate(); err != nil {
		return model.PresentDetail{}, err
	}

	present := req.ToPresent()
	if err := s.presents.Create(ctx, &present); err != nil {
		return model.PresentDetail{}, err
	}

	if err := s.relations.AddPresent(ctx, userID, present.ID); err != nil {
		if delErr := s.presents.Delete(ctx, present.ID); delErr != nil {
			slog.Error("failed to remove orphan present", "present_id", present.ID, "error", delErr)
		}
		return model.PresentDetail{}, err
	}

	slog.Info("present created", "user_id", userID, "present_id", present.ID)
	return model.NewPresentDetail(present), nil
}

func (s *PresentService) Get(ctx context.Context, presentID int64) (model.PresentDetail, error) {
	present, err := s.presents.FindByID(ctx, presentID)
	if err != nil {
		return model.PresentDetail{}, err
	}
	return model.NewPresentDetail(present), nil
}

func (s *PresentService) ListForUser(ctx context.Context, userID int64) ([]model.PresentSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	presents, err := s.presents.FindByIDs(ctx, user.PresentIDs.Slice())
	if err != nil {
		return nil, err
	}
	return model.NewPresentSummaries(presents), nil
}

// Update edits a present on the caller's own wishlist. Presents the caller
// does not own are reported as model.ErrPresentNotFound.
func (s *PresentService) Update(ctx context.Context, userID int64, presentID int64, req model.UpdatePresentRequest) (model.PresentDetail, error) {
	if err := req.Validate(); err != nil {
		return model.PresentDetail{}, err
	}

	if err := s.requireOwner(ctx, userID, presentID); err != nil {
		return model.PresentDetail{}, err
	}

	present, err := s.presents.FindByID(ctx, presentID)
	if err != nil {
		return model.PresentDetail{}, err
	}

	req.ApplyTo(&present)
	if err := s.presents.Update(ctx, present); err != nil {
		return model.PresentDetail{}, err
	}

	slog.Info("present updated", "user_id", userID, "present_id", presentID)
	return model.NewPresentDetail(present), nil
}

// Delete detaches the present from the caller, which fails for presents the
// caller does not own, and then removes the record.
func (s *PresentService) Delete(ctx context.Context, userID int64, presentID int64) error {
	if err := s.relations.RemovePresent(ctx, userID, presentID); err != nil {
		return err
	}

	if err := s.presents.Delete(ctx, presentID); err != nil {
		return err
	}

	slog.Info("present deleted", "user_id", userID, "present_id", presentID)
	return nil
}

func (s *PresentService) requireOwner(ctx context.Context, userID int64, presentID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.PresentIDs.Contains(presentID) {
		return model.ErrPresentNotFound
	}
	return nil
}
