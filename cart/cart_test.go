package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/cart"
	"github.com/jrsteele09/go-storefront-client/gateway"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
)

type testConfig struct {
	config.EnvVars
	config.HTTP
	config.Routes
	baseURL string
}

func (c testConfig) GetBaseURL() string { return c.baseURL }

func (testConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }

// testFixture serves a scripted cart backend and counts every request so
// tests can assert that guarded operations never reach the network.
type testFixture struct {
	mux      *http.ServeMux
	store    *cart.Store
	requests atomic.Int64
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{mux: http.NewServeMux()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	gw, err := gateway.New(testConfig{baseURL: server.URL})
	require.NoError(t, err)

	store, err := cart.New(gw)
	require.NoError(t, err)
	f.store = store
	return f
}

func (f *testFixture) handleCart(t *testing.T, items []map[string]any) {
	t.Helper()
	f.mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"items": items},
		})
	})
}

func serverLines() []map[string]any {
	return []map[string]any{
		{
			"idCartItem": 5, "userId": 7, "itemId": 11, "quantity": 2,
			"itemTitle": "Widget", "itemPrice": 10.0,
			"item": map[string]any{"idItem": 11, "title": "Widget", "price": 10.0, "stockQuantity": 3},
		},
		{
			"idCartItem": 6, "userId": 7, "itemId": 12, "quantity": 1,
			"itemTitle": "Gadget", "itemPrice": 5.0,
		},
	}
}

func TestFetchCartReplacesCache(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())

	lines, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, int64(5), lines[0].ID)
	require.Equal(t, "Widget", lines[0].Title)
	require.Equal(t, 3, lines[0].Stock)
	require.True(t, lines[0].StockKnown)
	require.False(t, lines[1].StockKnown)
}

func TestFetchCartFailureLeavesCache(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	f.mux = http.NewServeMux()
	f.mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"database unavailable"}`, http.StatusInternalServerError)
	})

	_, err = f.store.FetchCart(context.Background())
	require.Error(t, err)
	require.Len(t, f.store.Lines(), 2)
	require.InDelta(t, 25.0, f.store.Subtotal(), 1e-9)
}

func TestSubtotalAndTotal(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	// price 10 x qty 2 + price 5 x qty 1
	require.InDelta(t, 25.0, f.store.Subtotal(), 1e-9)
	require.InDelta(t, 28.0, f.store.Total(3.0), 1e-9)
}

func TestNormalizationFallsBackToNestedItem(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, []map[string]any{
		{
			"idCartItem": 9, "quantity": 1,
			"item": map[string]any{"idItem": 42, "title": "Doohickey", "price": 7.5, "stockQuantity": 4},
		},
	})

	lines, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, int64(42), lines[0].ItemID)
	require.Equal(t, "Doohickey", lines[0].Title)
	require.InDelta(t, 7.5, lines[0].Price, 1e-9)
	require.Equal(t, 4, lines[0].Stock)
}

func TestAddItemDoesNotTouchCache(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("POST /cart/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	ok, err := f.store.AddItem(context.Background(), 11, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, f.store.Lines())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	f := setupTestFixture(t)

	ok, err := f.store.AddItem(context.Background(), 11, 0)
	require.Error(t, err)
	require.False(t, ok)
	require.ErrorIs(t, err, errs.ErrInvalidQuantity)
	require.Equal(t, int64(0), f.requests.Load())
}

func TestUpdateQuantityGuardSkipsNetwork(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)
	before := f.requests.Load()

	// Line 5 has stock 3; five exceeds it.
	_, err = f.store.UpdateQuantity(context.Background(), 5, 5)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidQuantity)

	_, err = f.store.UpdateQuantity(context.Background(), 5, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidQuantity)

	require.Equal(t, before, f.requests.Load())
	require.Equal(t, 2, f.store.Lines()[0].Quantity)
}

func TestUpdateQuantityZeroStockRejected(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, []map[string]any{
		{
			"idCartItem": 8, "quantity": 1,
			"item": map[string]any{"idItem": 13, "title": "Sold Out", "price": 9.0, "stockQuantity": 0},
		},
	})

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)
	before := f.requests.Load()

	// Zero known stock is not the same as unknown stock: nothing fits.
	_, err = f.store.UpdateQuantity(context.Background(), 8, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidQuantity)
	require.Equal(t, before, f.requests.Load())
}

func TestUpdateQuantityUnknownStockOnlyLowerBound(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())
	f.mux.HandleFunc("PUT /cart/6", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"idCartItem": 6, "userId": 7, "itemId": 12, "quantity": 40,
				"itemTitle": "Gadget", "itemPrice": 5.0,
			},
		})
	})

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	// Line 6 carries no stock information, so a large quantity goes through.
	line, err := f.store.UpdateQuantity(context.Background(), 6, 40)
	require.NoError(t, err)
	require.Equal(t, 40, line.Quantity)
}

func TestUpdateQuantityReplacesCachedLine(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())
	f.mux.HandleFunc("PUT /cart/5", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Quantity int `json:"quantity"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"idCartItem": 5, "userId": 7, "itemId": 11, "quantity": req.Quantity,
				"itemTitle": "Widget", "itemPrice": 10.0,
			},
		})
	})

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	line, err := f.store.UpdateQuantity(context.Background(), 5, 3)
	require.NoError(t, err)
	require.Equal(t, 3, line.Quantity)
	// Known stock survives a confirmation body without item details.
	require.Equal(t, 3, line.Stock)
	require.True(t, line.StockKnown)

	require.Equal(t, 3, f.store.Lines()[0].Quantity)
	require.InDelta(t, 35.0, f.store.Subtotal(), 1e-9)
}

func TestUpdateQuantitySparseConfirmationPatchesLocally(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())
	f.mux.HandleFunc("PUT /cart/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	line, err := f.store.UpdateQuantity(context.Background(), 5, 3)
	require.NoError(t, err)
	require.Equal(t, 3, line.Quantity)
	require.Equal(t, "Widget", line.Title)
	require.Equal(t, 3, f.store.Lines()[0].Quantity)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.store.UpdateQuantity(context.Background(), 99, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrLineNotFound)
	require.Equal(t, int64(0), f.requests.Load())
}

func TestRemoveItemFiltersCache(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())
	f.mux.HandleFunc("DELETE /cart/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.store.RemoveItem(context.Background(), 5))
	lines := f.store.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, int64(6), lines[0].ID)
	require.InDelta(t, 5.0, f.store.Subtotal(), 1e-9)
}

func TestClearCartEmptiesCache(t *testing.T) {
	f := setupTestFixture(t)
	f.handleCart(t, serverLines())
	f.mux.HandleFunc("DELETE /cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	_, err := f.store.FetchCart(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.store.ClearCart(context.Background()))
	require.Empty(t, f.store.Lines())
	require.Zero(t, f.store.Subtotal())
}
