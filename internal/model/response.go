package model

import "go-wishlist/internal/token"

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	User  UserView   `json:"user"`
	Token token.Pair `json:"token"`
}
