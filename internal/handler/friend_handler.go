package handler

import (
	"net/http"

	"go-wishlist/internal/service"
)

type FriendHandler struct {
	service *service.UserService
}

func NewFriendHandler(service *service.UserService) *FriendHandler {
	return &FriendHandler{service: service}
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	friends, err := h.service.ListFriends(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, friends)
}

func (h *FriendHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := h.pair(r)
	if err != nil {
		writeError(w, err)
		return
	}

	friend, err := h.service.GetFriend(r.Context(), userID, friendID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, friend)
}

func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := h.pair(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.AddFriend(r.Context(), userID, friendID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"friend_id": friendID})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := h.pair(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.RemoveFriend(r.Context(), userID, friendID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"removed": true})
}

func (h *FriendHandler) pair(r *http.Request) (int64, int64, error) {
	userID, err := callerID(r)
	if err != nil {
		return 0, 0, err
	}
	friendID, err := idParam(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, friendID, nil
}
