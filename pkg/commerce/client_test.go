package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"shop-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, adminToken string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", PublishableKey: "pk_test", AdminToken: adminToken}, logger.NewNopLogger())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSearchProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/store/products", r.URL.Path)
		assert.Equal(t, "pk_test", r.Header.Get("x-publishable-api-key"))
		assert.Equal(t, "áo", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "reg_1", r.URL.Query().Get("region_id"))

		writeJSON(w, http.StatusOK, map[string]any{
			"products": []map[string]any{{
				"id":     "prod_1",
				"title":  "Áo thun",
				"handle": "ao-thun",
				"variants": []map[string]any{
					{"id": "var_1", "title": "M", "calculated_price": map[string]any{"calculated_amount": 250000, "currency_code": "vnd"}, "inventory_quantity": 4},
					{"id": "var_2", "title": "L", "prices": []map[string]any{{"amount": 199000, "currency_code": "vnd"}}, "inventory_quantity": 6},
				},
			}},
		})
	}, "")

	products, err := client.SearchProducts(context.Background(), "áo", 5, "reg_1")
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "draft", p.Status)
	assert.Equal(t, "var_1", p.FirstVariantID())
	assert.Equal(t, 10, p.TotalInventory())

	lowest, ok := p.MinPrice()
	require.True(t, ok)
	assert.Equal(t, 199000.0, lowest.Amount)
}

func TestAddLineItemError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/store/carts/cart_1/line-items", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "var_1", body["variant_id"])
		assert.Equal(t, 2.0, body["quantity"])

		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Cart is already completed", "type": "not_allowed"})
	}, "")

	_, err := client.AddLineItem(context.Background(), "cart_1", "var_1", 2)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Cart is already completed", apiErr.Message)
	assert.True(t, IsStaleCart(err))
}

func TestDeleteLineItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/store/carts/cart_1/line-items/item_1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      "item_1",
			"deleted": true,
			"parent":  map[string]any{"id": "cart_1", "currency_code": "vnd", "items": []any{}},
		})
	}, "")

	cart, err := client.DeleteLineItem(context.Background(), "cart_1", "item_1")
	require.NoError(t, err)
	assert.Equal(t, "cart_1", cart.ID)
	assert.Empty(t, cart.Items)
}

func TestIsStaleCart(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"payment message", &APIError{Message: "Cart has a payment session", StatusCode: 500}, true},
		{"unprocessable", &APIError{Message: "invalid", StatusCode: 422}, true},
		{"not found", &APIError{Message: "variant missing", StatusCode: 404}, false},
		{"transport", &APIError{Message: "connection refused"}, false},
		{"foreign error", errors.New("completed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStaleCart(tt.err))
		})
	}
}

func TestGetOrderFallsBackToStore(t *testing.T) {
	var adminCalls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/orders/order_1":
			atomic.AddInt32(&adminCalls, 1)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
		case "/store/orders/order_1":
			writeJSON(w, http.StatusOK, map[string]any{"order": map[string]any{
				"id": "order_1", "display_id": 1024, "status": "pending", "currency_code": "vnd", "total": 500000,
			}})
		default:
			http.NotFound(w, r)
		}
	}, "secret")

	order, err := client.GetOrder(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&adminCalls))
	assert.Equal(t, 1024, order.DisplayID)
	assert.Equal(t, 500000.0, order.Total)
}

func TestRegionCache(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, map[string]any{"regions": []map[string]any{
			{"id": "reg_vn", "name": "Vietnam", "currency_code": "vnd"},
		}})
	}, "")

	cache := NewRegionCache(client, logger.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := cache.RegionID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "reg_vn", id)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cache.Invalidate()
	_, err := cache.RegionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
