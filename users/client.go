// Package users is the typed client for the current user's profile and the
// admin user-management resource.
package users

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-storefront-client/gateway"
)

// Profile is the current user's full profile.
type Profile struct {
	IDUser                   int64   `json:"idUser"`
	Username                 string  `json:"username"`
	FirstName                string  `json:"firstName"`
	LastName                 string  `json:"lastName"`
	Email                    string  `json:"email"`
	PhoneNumber              string  `json:"phoneNumber,omitempty"`
	IsAdmin                  bool    `json:"isAdmin"`
	IsSeller                 bool    `json:"isSeller"`
	CreatedAt                string  `json:"createdAt"`
	UpdatedAt                string  `json:"updatedAt"`
	LastLoginAt              *string `json:"lastLoginAt,omitempty"`
	RequestedAnonymization   bool    `json:"requestedAnonymization"`
	AnonymizationRequestDate *string `json:"anonymizationRequestDate,omitempty"`
	AnonymizationReason      *string `json:"anonymizationReason,omitempty"`
}

// ListedUser is one row in the admin user list.
type ListedUser struct {
	IDUser                 int64  `json:"idUser"`
	Username               string `json:"username"`
	FirstName              string `json:"firstName"`
	LastName               string `json:"lastName"`
	Email                  string `json:"email"`
	IsAdmin                bool   `json:"isAdmin"`
	IsActive               bool   `json:"isActive"`
	IsSeller               bool   `json:"isSeller"`
	CreatedAt              string `json:"createdAt"`
	RequestedAnonymization bool   `json:"requestedAnonymization"`
	UserType               string `json:"userType,omitempty"`
	DisplayName            string `json:"displayName,omitempty"`
}

// UpdateProfileRequest holds the editable profile fields.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// AdminUpdateRequest is the admin's view of an editable user.
type AdminUpdateRequest struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Pagination echoes the backend's paging metadata.
type Pagination struct {
	TotalCount int
	PageNumber int
	PageSize   int
	TotalPages int
}

// Client calls the /users resource.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a users client.
func NewClient(gw *gateway.Client) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[users.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// Profile returns the current user's profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.gw.Get(ctx, "/users/profile", &profile); err != nil {
		return Profile{}, errors.Wrap(err, "[Client.Profile]")
	}
	return profile, nil
}

// UpdateProfile updates the current user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (Profile, error) {
	var profile Profile
	if err := c.gw.Put(ctx, "/users/profile", req, &profile); err != nil {
		return Profile{}, errors.Wrap(err, "[Client.UpdateProfile]")
	}
	return profile, nil
}

type anonymizationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RequestAnonymization files the current user's anonymization request.
func (c *Client) RequestAnonymization(ctx context.Context, reason string) error {
	if err := c.gw.Post(ctx, "/users/profile/request-anonymization", anonymizationRequest{Reason: reason}, nil); err != nil {
		return errors.Wrap(err, "[Client.RequestAnonymization]")
	}
	return nil
}

// ListParams page the admin user list.
type ListParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

func (p ListParams) query() string {
	values := url.Values{}
	if p.PageNumber > 0 {
		values.Set("pageNumber", strconv.Itoa(p.PageNumber))
	}
	if p.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// List returns a page of users (admin only).
func (c *Client) List(ctx context.Context, params ListParams) ([]ListedUser, Pagination, error) {
	var page gateway.Paged[ListedUser]
	if err := c.gw.Get(ctx, "/users"+params.query(), &page); err != nil {
		return nil, Pagination{}, errors.Wrap(err, "[Client.List]")
	}
	return page.Items, Pagination{
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Get returns one user by ID (admin only).
func (c *Client) Get(ctx context.Context, userID int64) (Profile, error) {
	var profile Profile
	if err := c.gw.Get(ctx, fmt.Sprintf("/users/%d", userID), &profile); err != nil {
		return Profile{}, errors.Wrap(err, "[Client.Get]")
	}
	return profile, nil
}

// Update edits a user (admin only).
func (c *Client) Update(ctx context.Context, userID int64, req AdminUpdateRequest) (Profile, error) {
	var profile Profile
	if err := c.gw.Put(ctx, fmt.Sprintf("/users/%d", userID), req, &profile); err != nil {
		return Profile{}, errors.Wrap(err, "[Client.Update]")
	}
	return profile, nil
}

// Delete removes a user (admin only).
func (c *Client) Delete(ctx context.Context, userID int64) error {
	if err := c.gw.Delete(ctx, fmt.Sprintf("/users/%d", userID)); err != nil {
		return errors.Wrap(err, "[Client.Delete]")
	}
	return nil
}

// Anonymize fulfils a user's anonymization request (admin only).
func (c *Client) Anonymize(ctx context.Context, userID int64) error {
	if err := c.gw.Post(ctx, fmt.Sprintf("/users/%d/anonymize", userID), struct{}{}, nil); err != nil {
		return errors.Wrap(err, "[Client.Anonymize]")
	}
	return nil
}
