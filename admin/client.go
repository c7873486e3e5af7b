// Package admin is the typed client for the admin activity-log resource.
package admin

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-storefront-client/gateway"
)

// Log is one backend activity-log entry.
type Log struct {
	IDLog     int64  `json:"idLog"`
	UserID    int64  `json:"userId"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Exception string `json:"exception,omitempty"`
}

// LogParams filter and page the log list.
type LogParams struct {
	PageNumber int
	PageSize   int
	Level      string
	UserID     int64
}

func (p LogParams) query() string {
	values := url.Values{}
	if p.PageNumber > 0 {
		values.Set("pageNumber", strconv.Itoa(p.PageNumber))
	}
	if p.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Level != "" {
		values.Set("level", p.Level)
	}
	if p.UserID > 0 {
		values.Set("userId", strconv.FormatInt(p.UserID, 10))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// Client calls the /admin resource.
type Client struct {
	gw *gateway.Client
}

// NewClient creates an admin client.
func NewClient(gw *gateway.Client) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[admin.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// Logs returns the filtered activity log (admin only).
func (c *Client) Logs(ctx context.Context, params LogParams) ([]Log, error) {
	var logs []Log
	if err := c.gw.Get(ctx, "/admin/logs"+params.query(), &logs); err != nil {
		return nil, errors.Wrap(err, "[Client.Logs]")
	}
	return logs, nil
}
