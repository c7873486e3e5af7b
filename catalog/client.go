// Package catalog is the typed client for the item and category resources:
// browsing, featured items, the seller's own listings, and the admin approval
// workflow.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-storefront-client/gateway"
)

// Client calls the /items and /categories resources.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a catalog client.
func NewClient(gw *gateway.Client) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[catalog.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// ListParams filter and page the item list.
type ListParams struct {
	PageNumber int
	PageSize   int
	CategoryID int64
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
	if p.CategoryID > 0 {
		values.Set("categoryId", strconv.FormatInt(p.CategoryID, 10))
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// List returns a page of catalog items.
func (c *Client) List(ctx context.Context, params ListParams) ([]Item, Pagination, error) {
	var page gateway.Paged[Item]
	if err := c.gw.Get(ctx, "/items"+params.query(), &page); err != nil {
		return nil, Pagination{}, errors.Wrap(err, "[Client.List]")
	}
	return page.Items, pagination(page), nil
}

// Get returns one item by ID.
func (c *Client) Get(ctx context.Context, itemID int64) (Item, error) {
	var item Item
	if err := c.gw.Get(ctx, fmt.Sprintf("/items/%d", itemID), &item); err != nil {
		return Item{}, errors.Wrap(err, "[Client.Get]")
	}
	return item, nil
}

// Featured returns the items flagged for the landing page.
func (c *Client) Featured(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.gw.Get(ctx, "/items/featured", &items); err != nil {
		return nil, errors.Wrap(err, "[Client.Featured]")
	}
	return items, nil
}

// Categories returns all catalog categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.gw.Get(ctx, "/categories", &categories); err != nil {
		return nil, errors.Wrap(err, "[Client.Categories]")
	}
	return categories, nil
}

// CreateSellerItem lists a new item for the current seller.
func (c *Client) CreateSellerItem(ctx context.Context, req SellerItemRequest) (Item, error) {
	var item Item
	if err := c.gw.Post(ctx, "/items/seller", req, &item); err != nil {
		return Item{}, errors.Wrap(err, "[Client.CreateSellerItem]")
	}
	return item, nil
}

// UpdateSellerItem updates one of the current seller's items.
func (c *Client) UpdateSellerItem(ctx context.Context, itemID int64, req SellerItemRequest) (Item, error) {
	var item Item
	if err := c.gw.Put(ctx, fmt.Sprintf("/items/seller/%d", itemID), req, &item); err != nil {
		return Item{}, errors.Wrap(err, "[Client.UpdateSellerItem]")
	}
	return item, nil
}

// DeleteSellerItem removes one of the current seller's items.
func (c *Client) DeleteSellerItem(ctx context.Context, itemID int64) error {
	if err := c.gw.Delete(ctx, fmt.Sprintf("/items/seller/%d", itemID)); err != nil {
		return errors.Wrap(err, "[Client.DeleteSellerItem]")
	}
	return nil
}

// MySellerItems returns the current seller's own listings.
func (c *Client) MySellerItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.gw.Get(ctx, "/items/seller/my-items", &items); err != nil {
		return nil, errors.Wrap(err, "[Client.MySellerItems]")
	}
	return items, nil
}

// PendingApproval returns the page of items awaiting admin review.
func (c *Client) PendingApproval(ctx context.Context, pageNumber, pageSize int) ([]Item, Pagination, error) {
	path := fmt.Sprintf("/items/pending-approval?pageNumber=%d&pageSize=%d", pageNumber, pageSize)
	var page gateway.Paged[Item]
	if err := c.gw.Get(ctx, path, &page); err != nil {
		return nil, Pagination{}, errors.Wrap(err, "[Client.PendingApproval]")
	}
	return page.Items, pagination(page), nil
}

type approvalRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Approve accepts a pending item.
func (c *Client) Approve(ctx context.Context, itemID int64, notes string) error {
	if err := c.gw.Post(ctx, fmt.Sprintf("/items/%d/approve", itemID), approvalRequest{Notes: notes}, nil); err != nil {
		return errors.Wrap(err, "[Client.Approve]")
	}
	return nil
}

type rejectionRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

// Reject declines a pending item with a reason.
func (c *Client) Reject(ctx context.Context, itemID int64, reason, notes string) error {
	if err := c.gw.Post(ctx, fmt.Sprintf("/items/%d/reject", itemID), rejectionRequest{Reason: reason, Notes: notes}, nil); err != nil {
		return errors.Wrap(err, "[Client.Reject]")
	}
	return nil
}

// AdminAll returns the full item list for the admin back-office.
func (c *Client) AdminAll(ctx context.Context, pageNumber, pageSize int) ([]Item, Pagination, error) {
	path := fmt.Sprintf("/items/admin/all?pageNumber=%d&pageSize=%d", pageNumber, pageSize)
	var page gateway.Paged[Item]
	if err := c.gw.Get(ctx, path, &page); err != nil {
		return nil, Pagination{}, errors.Wrap(err, "[Client.AdminAll]")
	}
	return page.Items, pagination(page), nil
}

func pagination(page gateway.Paged[Item]) Pagination {
	return Pagination{
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
