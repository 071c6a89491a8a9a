package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shop-chatbot-be/internal/pkg/logger"
)

const (
	orderDetailFields = "+items.*,+shipping_address.*,+currency_code"
	orderListFields   = "id,display_id,status,total,currency_code,created_at,items.*"
)

type Config struct {
	BaseURL        string
	PublishableKey string
	AdminToken     string
	Timeout        time.Duration
}

// Client is a thin store/admin API client. Every method returns *APIError on failure.
type Client struct {
	baseURL        string
	publishableKey string
	adminToken     string
	httpClient     *http.Client
	logger         logger.ILogger
}

func NewClient(cfg Config, log logger.ILogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		publishableKey: cfg.PublishableKey,
		adminToken:     cfg.AdminToken,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         log,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	admin  bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return &APIError{Message: "marshal request", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return &APIError{Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if r.admin {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	} else if c.publishableKey != "" {
		req.Header.Set("x-publishable-api-key", c.publishableKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("CommerceClient", "Request failed", map[string]interface{}{
			"method": r.method,
			"path":   r.path,
			"error":  err.Error(),
		})
		return &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: "read response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		} else if len(raw) > 0 && len(raw) < 512 {
			msg = string(raw)
		}
		c.logger.Warn("CommerceClient", "Platform returned an error", map[string]interface{}{
			"method": r.method,
			"path":   r.path,
			"status": resp.StatusCode,
			"error":  msg,
		})
		return &APIError{Message: msg, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Message: "decode response", StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, limit int, regionID string) ([]Product, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	if regionID != "" {
		q.Set("region_id", regionID)
	}

	var env productsEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/store/products", query: q}, &env); err != nil {
		return nil, err
	}
	return toProducts(env.Products), nil
}

func (c *Client) GetProduct(ctx context.Context, productID, regionID string) (*Product, error) {
	q := url.Values{}
	if regionID != "" {
		q.Set("region_id", regionID)
	}

	var env productEnvelope
	path := "/store/products/" + url.PathEscape(productID)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &env); err != nil {
		return nil, err
	}
	if env.Product == nil {
		return nil, notFound("product")
	}
	p := toProduct(*env.Product)
	return &p, nil
}

func (c *Client) ListRegions(ctx context.Context) ([]Region, error) {
	var env regionsEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/store/regions"}, &env); err != nil {
		return nil, err
	}
	return toRegions(env.Regions), nil
}

// GetOrder reads through the admin API for full details and falls back to
// the store API when that fails or no admin token is configured.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	escaped := url.PathEscape(orderID)

	if c.adminToken != "" {
		q := url.Values{}
		q.Set("fields", orderDetailFields)

		var env orderEnvelope
		err := c.do(ctx, request{method: http.MethodGet, path: "/admin/orders/" + escaped, query: q, admin: true}, &env)
		if err == nil && env.Order != nil {
			return toOrder(*env.Order), nil
		}
	}

	var env orderEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/store/orders/" + escaped}, &env); err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, notFound("order")
	}
	return toOrder(*env.Order), nil
}

func (c *Client) ListOrders(ctx context.Context, limit, offset int) ([]Order, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("fields", orderListFields)

	var env ordersEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/orders", query: q, admin: true}, &env); err != nil {
		return nil, err
	}
	return toOrders(env.Orders), nil
}

// ListCustomers searches customers by email, phone or name (admin API).
func (c *Client) ListCustomers(ctx context.Context, query string, limit int) ([]Customer, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))

	var env customersEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/customers", query: q, admin: true}, &env); err != nil {
		return nil, err
	}
	return toCustomers(env.Customers), nil
}

func (c *Client) CreateCart(ctx context.Context, regionID string) (*Cart, error) {
	body := map[string]string{}
	if regionID != "" {
		body["region_id"] = regionID
	}
	return c.cartCall(ctx, request{method: http.MethodPost, path: "/store/carts", body: body})
}

func (c *Client) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodGet, path: "/store/carts/" + url.PathEscape(cartID)})
}

func (c *Client) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*Cart, error) {
	return c.cartCall(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/store/carts/%s/line-items", url.PathEscape(cartID)),
		body:   map[string]any{"variant_id": variantID, "quantity": quantity},
	})
}

// DeleteLineItem removes one line item and returns the updated cart.
func (c *Client) DeleteLineItem(ctx context.Context, cartID, lineItemID string) (*Cart, error) {
	var env lineItemDeleteEnvelope
	path := fmt.Sprintf("/store/carts/%s/line-items/%s", url.PathEscape(cartID), url.PathEscape(lineItemID))
	if err := c.do(ctx, request{method: http.MethodDelete, path: path}, &env); err != nil {
		return nil, err
	}
	if env.Parent == nil {
		return nil, notFound("cart")
	}
	return toCart(*env.Parent), nil
}

func (c *Client) GetShippingOptions(ctx context.Context, cartID string) ([]ShippingOption, error) {
	var env shippingOptionsEnvelope
	path := "/store/shipping-options/" + url.PathEscape(cartID)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &env); err != nil {
		return nil, err
	}
	return toShippingOptions(env.ShippingOptions), nil
}

func (c *Client) AddShippingMethod(ctx context.Context, cartID, optionID string) (*Cart, error) {
	return c.cartCall(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/store/carts/%s/shipping-methods", url.PathEscape(cartID)),
		body:   map[string]string{"option_id": optionID},
	})
}

func (c *Client) cartCall(ctx context.Context, r request) (*Cart, error) {
	var env cartEnvelope
	if err := c.do(ctx, r, &env); err != nil {
		return nil, err
	}
	if env.Cart == nil {
		return nil, notFound("cart")
	}
	return toCart(*env.Cart), nil
}
