// Package gdpr is the typed client for the GDPR resource: data exports,
// anonymization and deletion requests, and the admin review queue.
package gdpr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-storefront-client/gateway"
)

// RequestType enumerates the kinds of GDPR requests a user can file.
type RequestType string

const (
	RequestDataExport    RequestType = "data_export"
	RequestAnonymization RequestType = "anonymization"
	RequestDeletion      RequestType = "deletion"
)

// Request is a filed GDPR request.
type Request struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Type        RequestType `json:"type"`
	Status      string      `json:"status"`
	RequestedAt string      `json:"requestedAt"`
	ProcessedAt *string     `json:"processedAt,omitempty"`
	AdminNotes  *string     `json:"adminNotes,omitempty"`
}

// Export is the user's exported data bundle. The payload shape is owned by
// the backend; it is kept raw alongside the export date.
type Export struct {
	UserData   json.RawMessage `json:"userData"`
	ExportDate string          `json:"exportDate"`
}

// PolicyInfo is the backend's privacy-policy document reference.
type PolicyInfo struct {
	Policy      string `json:"policy"`
	LastUpdated string `json:"lastUpdated"`
}

// Client calls the /users/gdpr resource.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a GDPR client.
func NewClient(gw *gateway.Client) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[gdpr.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// RequestExport files a data-export request for the current user.
func (c *Client) RequestExport(ctx context.Context) (Request, error) {
	return c.file(ctx, "/users/gdpr/export")
}

// RequestAnonymization files an anonymization request for the current user.
func (c *Client) RequestAnonymization(ctx context.Context) (Request, error) {
	return c.file(ctx, "/users/gdpr/anonymize")
}

// RequestDeletion files a deletion request for the current user.
func (c *Client) RequestDeletion(ctx context.Context) (Request, error) {
	return c.file(ctx, "/users/gdpr/delete")
}

func (c *Client) file(ctx context.Context, path string) (Request, error) {
	var req Request
	if err := c.gw.Post(ctx, path, struct{}{}, &req); err != nil {
		return Request{}, errors.Wrapf(err, "[Client.file] %s", path)
	}
	return req, nil
}

// MyRequests returns the current user's filed GDPR requests.
func (c *Client) MyRequests(ctx context.Context) ([]Request, error) {
	var list []Request
	if err := c.gw.Get(ctx, "/users/gdpr/my-requests", &list); err != nil {
		return nil, errors.Wrap(err, "[Client.MyRequests]")
	}
	return list, nil
}

// Info returns the privacy-policy reference.
func (c *Client) Info(ctx context.Context) (PolicyInfo, error) {
	var info PolicyInfo
	if err := c.gw.Get(ctx, "/users/gdpr/info", &info); err != nil {
		return PolicyInfo{}, errors.Wrap(err, "[Client.Info]")
	}
	return info, nil
}

// PendingRequests returns the admin review queue.
func (c *Client) PendingRequests(ctx context.Context) ([]Request, error) {
	var list []Request
	if err := c.gw.Get(ctx, "/users/gdpr/admin/pending", &list); err != nil {
		return nil, errors.Wrap(err, "[Client.PendingRequests]")
	}
	return list, nil
}

type reviewRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Approve accepts a pending GDPR request (admin only).
func (c *Client) Approve(ctx context.Context, requestID, notes string) (Request, error) {
	var req Request
	if err := c.gw.Post(ctx, fmt.Sprintf("/users/gdpr/admin/approve/%s", requestID), reviewRequest{Notes: notes}, &req); err != nil {
		return Request{}, errors.Wrap(err, "[Client.Approve]")
	}
	return req, nil
}

// Reject declines a pending GDPR request (admin only).
func (c *Client) Reject(ctx context.Context, requestID, notes string) (Request, error) {
	var req Request
	if err := c.gw.Post(ctx, fmt.Sprintf("/users/gdpr/admin/reject/%s", requestID), reviewRequest{Notes: notes}, &req); err != nil {
		return Request{}, errors.Wrap(err, "[Client.Reject]")
	}
	return req, nil
}

// ExportFor returns the export bundle for an approved request (admin only).
func (c *Client) ExportFor(ctx context.Context, requestID string) (Export, error) {
	var export Export
	if err := c.gw.Get(ctx, fmt.Sprintf("/users/gdpr/admin/export/%s", requestID), &export); err != nil {
		return Export{}, errors.Wrap(err, "[Client.ExportFor]")
	}
	return export, nil
}
