package model

import (
	"errors"
	"time"

	"go-wishlist/internal/util"
	"go-wishlist/pkg/apierror"
)

type SignUpRequest struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Password string `json:"password"`
	Birthday *Date  `json:"birthday,omitempty"`
}

func (r SignUpRequest) Validate() error {
	return errors.Join(
		util.ValidateText("name", r.Name, true),
		util.ValidateText("last_name", r.LastName, true),
		util.ValidatePassword("password", r.Password, true),
		validateBirthday(r.Birthday),
	)
}

type SignInRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return errors.Join(
		util.RequireValue("name", r.Name),
		util.RequireValue("password", r.Password),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest replaces the profile fields. An empty password keeps
// the current one. Relationship lists are never touched by a profile update.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Password string `json:"password,omitempty"`
	Birthday *Date  `json:"birthday,omitempty"`
	URL      string `json:"url"`
}

func (r UpdateProfileRequest) Validate() error {
	return errors.Join(
		util.ValidateText("name", r.Name, true),
		util.ValidateText("last_name", r.LastName, true),
		util.ValidatePassword("password", r.Password, false),
		validateBirthday(r.Birthday),
		util.ValidateURL("url", r.URL, false),
	)
}

type CreatePresentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
	URL         string   `json:"url"`
	Reserved    bool     `json:"reserved"`
}

func (r CreatePresentRequest) Validate() error {
	errs := []error{
		util.ValidateText("title", r.Title, true),
		util.ValidateText("description", r.Description, false),
		util.ValidateURL("url", r.URL, false),
	}
	for _, link := range r.Links {
		errs = append(errs, util.ValidateURL("links", link, true))
	}
	return errors.Join(errs...)
}

func (r CreatePresentRequest) ToPresent() Present {
	return Present{
		Title:       r.Title,
		Description: r.Description,
		Links:       r.Links,
		URL:         r.URL,
		Reserved:    r.Reserved,
	}
}

type UpdatePresentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
	URL         string   `json:"url"`
	Reserved    bool     `json:"reserved"`
}

func (r UpdatePresentRequest) Validate() error {
	errs := []error{
		util.ValidateText("title", r.Title, true),
		util.ValidateText("description", r.Description, true),
		util.ValidateURL("url", r.URL, true),
	}
	if len(r.Links) == 0 {
		errs = append(errs, apierror.BadRequest("links", "links cannot be empty"))
	}
	for _, link := range r.Links {
		errs = append(errs, util.ValidateURL("links", link, true))
	}
	return errors.Join(errs...)
}

func (r UpdatePresentRequest) ApplyTo(p *Present) {
	p.Title = r.Title
	p.Description = r.Description
	p.Links = r.Links
	p.URL = r.URL
	p.Reserved = r.Reserved
}

func validateBirthday(d *Date) error {
	if d == nil {
		return nil
	}
	if !d.Time().Before(time.Now()) {
		return apierror.BadRequest("birthday", "birthday must be in the past")
	}
	return nil
}
