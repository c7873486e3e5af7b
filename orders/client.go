// Package orders is the typed client for order placement and history, plus
// the seller and admin order views.
package orders

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-storefront-client/gateway"
)

// Order is a placed order.
type Order struct {
	IDOrder         int64       `json:"idOrder"`
	OrderNumber     string      `json:"orderNumber"`
	UserID          int64       `json:"userId"`
	StatusID        int64       `json:"statusId"`
	OrderDate       string      `json:"orderDate"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	BillingAddress  string      `json:"billingAddress,omitempty"`
	OrderNotes      string      `json:"orderNotes,omitempty"`
	TotalAmount     float64     `json:"totalAmount,omitempty"`
	Status          *Status     `json:"status,omitempty"`
	OrderItems      []OrderItem `json:"orderItems,omitempty"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`
}

// OrderItem is one line of a placed order, with the price captured at order
// time.
type OrderItem struct {
	IDOrderItem  int64   `json:"idOrderItem"`
	OrderID      int64   `json:"orderId"`
	ItemID       int64   `json:"itemId"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"priceAtOrder"`
	ItemTitle    string  `json:"itemTitle"`
}

// Status is an order's workflow state.
type Status struct {
	IDStatus   int64  `json:"idStatus"`
	StatusName string `json:"statusName"`
	SortOrder  int    `json:"sortOrder"`
}

// PlaceRequest holds the checkout fields.
type PlaceRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress,omitempty"`
	OrderNotes      string `json:"orderNotes,omitempty"`
}

// Pagination echoes the backend's paging metadata.
type Pagination struct {
	TotalCount int
	PageNumber int
	PageSize   int
	TotalPages int
}

// Client calls the /orders resource.
type Client struct {
	gw *gateway.Client
}

// NewClient creates an orders client.
func NewClient(gw *gateway.Client) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[orders.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// Place submits the current cart as an order. The backend clears the cart on
// success; callers refetch their cart store afterwards.
func (c *Client) Place(ctx context.Context, req PlaceRequest) (Order, error) {
	var order Order
	if err := c.gw.Post(ctx, "/orders", req, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.Place]")
	}
	return order, nil
}

// Get returns one order by ID.
func (c *Client) Get(ctx context.Context, orderID int64) (Order, error) {
	var order Order
	if err := c.gw.Get(ctx, fmt.Sprintf("/orders/%d", orderID), &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.Get]")
	}
	return order, nil
}

// My returns the current user's order history page.
func (c *Client) My(ctx context.Context) ([]Order, Pagination, error) {
	var page gateway.Paged[Order]
	if err := c.gw.Get(ctx, "/orders/my", &page); err != nil {
		return nil, Pagination{}, errors.Wrap(err, "[Client.My]")
	}
	return page.Items, Pagination{
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// SellerMy returns orders containing the current seller's items.
func (c *Client) SellerMy(ctx context.Context) ([]Order, error) {
	var list []Order
	if err := c.gw.Get(ctx, "/orders/seller/my", &list); err != nil {
		return nil, errors.Wrap(err, "[Client.SellerMy]")
	}
	return list, nil
}

// AdminAll returns every order, for the admin back-office.
func (c *Client) AdminAll(ctx context.Context) ([]Order, error) {
	var list []Order
	if err := c.gw.Get(ctx, "/orders/admin/all", &list); err != nil {
		return nil, errors.Wrap(err, "[Client.AdminAll]")
	}
	return list, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order to a new workflow state.
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status string) (Order, error) {
	var order Order
	if err := c.gw.Patch(ctx, fmt.Sprintf("/orders/%d/status", orderID), statusRequest{Status: status}, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.UpdateStatus]")
	}
	return order, nil
}

// Cancel cancels an order.
func (c *Client) Cancel(ctx context.Context, orderID int64) (Order, error) {
	var order Order
	if err := c.gw.Post(ctx, fmt.Sprintf("/orders/%d/cancel", orderID), struct{}{}, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.Cancel]")
	}
	return order, nil
}
