// Package cart caches the current user's cart and derives totals from it.
// The cache is a projection of the last known server state: fetch replaces it
// wholesale, confirmed mutations patch it, and nothing is treated as
// authoritative without a round trip.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront-client/gateway"
	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
)

// Line is one item-quantity pairing in the cart, normalized for display.
type Line struct {
	ID       int64
	ItemID   int64
	UserID   int64
	Quantity int
	Title    string
	Price    float64

	// Stock is the referenced item's available quantity. It is only
	// meaningful when StockKnown is set; the backend omits item details on
	// some responses, and an absent stock is not the same as zero stock.
	Stock      int
	StockKnown bool
}

// wireLine is the backend's cart line shape. Display fields exist both at
// line level and inside the nested item payload, which may be partially
// populated; normalization prefers the line-level fields.
type wireLine struct {
	IDCartItem int64     `json:"idCartItem"`
	UserID     int64     `json:"userId"`
	ItemID     int64     `json:"itemId"`
	Quantity   int       `json:"quantity"`
	ItemTitle  string    `json:"itemTitle"`
	ItemPrice  float64   `json:"itemPrice"`
	Item       *wireItem `json:"item"`
}

type wireItem struct {
	IDItem        int64   `json:"idItem"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
}

func (w wireLine) normalize() Line {
	line := Line{
		ID:       w.IDCartItem,
		ItemID:   w.ItemID,
		UserID:   w.UserID,
		Quantity: w.Quantity,
		Title:    w.ItemTitle,
		Price:    w.ItemPrice,
	}
	if w.Item != nil {
		if line.ItemID == 0 {
			line.ItemID = w.Item.IDItem
		}
		if line.Title == "" {
			line.Title = w.Item.Title
		}
		if line.Price == 0 {
			line.Price = w.Item.Price
		}
		line.Stock = w.Item.StockQuantity
		line.StockKnown = true
	}
	return line
}

// Store is the local cart cache. A single slot written only by its own
// methods; concurrent in-flight mutations resolve last-write-wins per line.
type Store struct {
	gw *gateway.Client

	mu    sync.RWMutex
	lines []Line
}

// New creates a cart Store with an empty cache.
func New(gw *gateway.Client) (*Store, error) {
	if gw == nil {
		return nil, errors.New("[cart.New] gateway is required")
	}
	return &Store{gw: gw}, nil
}

// FetchCart retrieves the cart and replaces the whole cache with the
// server's line list. On failure the cache is left untouched.
func (s *Store) FetchCart(ctx context.Context) ([]Line, error) {
	var data struct {
		Items []wireLine `json:"items"`
	}
	if err := s.gw.Get(ctx, "/cart", &data); err != nil {
		return nil, errors.Wrap(err, "[Store.FetchCart]")
	}

	lines := make([]Line, 0, len(data.Items))
	for _, w := range data.Items {
		lines = append(lines, w.normalize())
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	return s.Lines(), nil
}

type addRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// AddItem adds an item to the cart. The local cache is deliberately not
// updated: callers that need the reflected line call FetchCart afterwards.
func (s *Store) AddItem(ctx context.Context, itemID int64, quantity int) (bool, error) {
	if quantity < 1 {
		return false, errors.Wrapf(errs.ErrInvalidQuantity, "[Store.AddItem] quantity %d", quantity)
	}
	if err := s.gw.Post(ctx, "/cart/items", addRequest{ItemID: itemID, Quantity: quantity}, nil); err != nil {
		return false, errors.Wrap(err, "[Store.AddItem]")
	}
	return true, nil
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity changes a line's quantity. The guard runs before any
// network call: a quantity below 1, or above the line's known stock, returns
// ErrInvalidQuantity without issuing the request or touching the cache. When
// the stock is unknown only the lower bound is enforced; the backend remains
// authoritative.
func (s *Store) UpdateQuantity(ctx context.Context, lineID int64, newQuantity int) (Line, error) {
	current, ok := s.line(lineID)
	if !ok {
		return Line{}, errors.Wrapf(errs.ErrLineNotFound, "[Store.UpdateQuantity] line %d", lineID)
	}
	if newQuantity < 1 || (current.StockKnown && newQuantity > current.Stock) {
		return Line{}, errors.Wrapf(errs.ErrInvalidQuantity,
			"[Store.UpdateQuantity] quantity %d for line %d (stock %d)", newQuantity, lineID, current.Stock)
	}

	var updated wireLine
	if err := s.gw.Put(ctx, fmt.Sprintf("/cart/%d", lineID), quantityRequest{Quantity: newQuantity}, &updated); err != nil {
		return Line{}, errors.Wrap(err, "[Store.UpdateQuantity]")
	}

	line := updated.normalize()
	if line.ID != lineID {
		// Sparse confirmation body: patch the cached line locally.
		line = current
		line.Quantity = newQuantity
	}
	if !line.StockKnown {
		line.Stock = current.Stock
		line.StockKnown = current.StockKnown
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i] = line
			break
		}
	}
	s.mu.Unlock()

	return line, nil
}

// RemoveItem deletes a line. On backend confirmation it is filtered out of
// the cache.
func (s *Store) RemoveItem(ctx context.Context, lineID int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/cart/%d", lineID)); err != nil {
		return errors.Wrap(err, "[Store.RemoveItem]")
	}

	s.mu.Lock()
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.mu.Unlock()

	return nil
}

// ClearCart empties the cart, e.g. after order placement.
func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.gw.Delete(ctx, "/cart"); err != nil {
		return errors.Wrap(err, "[Store.ClearCart]")
	}

	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	log.Debug().Msg("cart cleared")
	return nil
}

// Subtotal recomputes price*quantity over all cached lines. Always a full
// recomputation so the total cannot drift after cache mutations.
func (s *Store) Subtotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for _, line := range s.lines {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}

// Total is the subtotal plus a flat shipping rate.
func (s *Store) Total(shippingFlatRate float64) float64 {
	return s.Subtotal() + shippingFlatRate
}

// Lines returns a copy of the cached lines.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

func (s *Store) line(lineID int64) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, line := range s.lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return Line{}, false
}
