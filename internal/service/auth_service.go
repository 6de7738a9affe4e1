package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
	"go-wishlist/internal/token"
)

type TokenIssuer interface {
	IssuePair(userID int64) (token.Pair, error)
	Validate(tokenString string) (token.Verified, error)
}

type AuthService struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	hashCost int
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, hashCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, hashCost: hashCost}
}

func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return model.AuthResult{}, err
	}

	hash, err := hashPassword(req.Password, s.hashCost)
	if err != nil {
		return model.AuthResult{}, err
	}

	user := model.User{
		Name:         req.Name,
		LastName:     req.LastName,
		PasswordHash: hash,
		Birthday:     req.Birthday.TimePtr(),
		FriendIDs:    model.IDSet{},
		PresentIDs:   model.IDSet{},
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			slog.Warn("sign-up with taken name", "name", req.Name)
		}
		return model.AuthResult{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return model.AuthResult{}, err
	}

	slog.Info("user created", "user_id", user.ID, "name", user.Name)
	return model.AuthResult{User: model.NewUserView(user), Token: pair}, nil
}

// SignIn never reveals whether the name or the password was wrong.
func (s *AuthService) SignIn(ctx context.Context, req model.SignInRequest) (model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return model.AuthResult{}, err
	}

	user, err := s.users.FindByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			slog.Warn("sign-in failed", "name", req.Name)
			return model.AuthResult{}, model.ErrInvalidCredentials
		}
		return model.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("sign-in failed", "name", req.Name)
		return model.AuthResult{}, model.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return model.AuthResult{}, err
	}

	slog.Info("user signed in", "user_id", user.ID)
	return model.AuthResult{User: model.NewUserView(user), Token: pair}, nil
}

// Refresh trades a valid refresh token for a new pair. Access tokens are
// rejected as token.ErrInvalid.
func (s *AuthService) Refresh(req model.RefreshRequest) (token.Pair, error) {
	verified, err := s.tokens.Validate(req.RefreshToken)
	if err != nil {
		return token.Pair{}, err
	}
	if verified.Kind() != token.KindRefresh {
		return token.Pair{}, token.ErrInvalid
	}

	return s.tokens.IssuePair(verified.UserID())
}
