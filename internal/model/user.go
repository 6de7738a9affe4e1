package model

import (
	"strings"
	"time"
)

type User struct {
	ID           int64
	Name         string
	LastName     string
	PasswordHash string
	Birthday     *time.Time
	FriendIDs    IDSet
	PresentIDs   IDSet
	URL          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NameKey is the form a name is compared in. Names are unique under it.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UserView is the caller's own profile. The password hash never leaves the
// service layer.
type UserView struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	LastName   string  `json:"last_name"`
	Birthday   *Date   `json:"birthday,omitempty"`
	FriendIDs  []int64 `json:"friend_ids"`
	PresentIDs []int64 `json:"present_ids"`
	URL        string  `json:"url"`
}

// FriendView is what one user may see of another.
type FriendView struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	URL      string `json:"url"`
}

func NewUserView(u User) UserView {
	view := UserView{
		ID:         u.ID,
		Name:       u.Name,
		LastName:   u.LastName,
		FriendIDs:  u.FriendIDs.Slice(),
		PresentIDs: u.PresentIDs.Slice(),
		URL:        u.URL,
	}
	if u.Birthday != nil {
		d := Date(*u.Birthday)
		view.Birthday = &d
	}
	return view
}

func NewFriendView(u User) FriendView {
	return FriendView{Name: u.Name, LastName: u.LastName, URL: u.URL}
}

func NewFriendViews(users []User) []FriendView {
	out := make([]FriendView, 0, len(users))
	for _, u := range users {
		out = append(out, NewFriendView(u))
	}
	return out
}
