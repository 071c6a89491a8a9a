// Package tools wraps commerce platform calls as assistant tools. Every tool
// returns a *assistant.ToolResults and never an error: failures are recorded
// in the result so later tools of the same plan still run.
package tools

import (
	"context"
	"time"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/commerce"
)

// CommerceClient is the subset of the platform API the tools call.
type CommerceClient interface {
	SearchProducts(ctx context.Context, query string, limit int, regionID string) ([]commerce.Product, error)
	GetProduct(ctx context.Context, productID, regionID string) (*commerce.Product, error)
	GetOrder(ctx context.Context, orderID string) (*commerce.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]commerce.Order, error)
	ListCustomers(ctx context.Context, query string, limit int) ([]commerce.Customer, error)
	CreateCart(ctx context.Context, regionID string) (*commerce.Cart, error)
	GetCart(ctx context.Context, cartID string) (*commerce.Cart, error)
	AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*commerce.Cart, error)
	DeleteLineItem(ctx context.Context, cartID, lineItemID string) (*commerce.Cart, error)
	GetShippingOptions(ctx context.Context, cartID string) ([]commerce.ShippingOption, error)
	AddShippingMethod(ctx context.Context, cartID, optionID string) (*commerce.Cart, error)
}

// RegionSource caches the default region. Invalidate drops the cached id.
type RegionSource interface {
	RegionID(ctx context.Context) (string, error)
	Invalidate()
}

// StatsSource serves chatbot usage numbers from the chat history store.
type StatsSource interface {
	ChatbotStats(ctx context.Context) (ChatbotStats, error)
}

type Toolbox struct {
	client  CommerceClient
	regions RegionSource
	stats   StatsSource
	logger  logger.ILogger
}

func NewToolbox(client CommerceClient, regions RegionSource, stats StatsSource, log logger.ILogger) *Toolbox {
	return &Toolbox{client: client, regions: regions, stats: stats, logger: log}
}

func ok(data any, timing string, started time.Time) *assistant.ToolResults {
	res := assistant.NewToolResults()
	res.Data = data
	if timing != "" {
		res.TimingsMs[timing] = time.Since(started).Milliseconds()
	}
	return res
}

func failed(msg, timing string, started time.Time) *assistant.ToolResults {
	res := assistant.NewToolResults()
	res.Fail(msg)
	if timing != "" {
		res.TimingsMs[timing] = time.Since(started).Milliseconds()
	}
	return res
}

// regionID is best effort: without a region the platform still answers,
// only without calculated prices.
func (t *Toolbox) regionID(ctx context.Context) string {
	if t.regions == nil {
		return ""
	}
	id, err := t.regions.RegionID(ctx)
	if err != nil {
		t.logger.Warn("Tools", "Region lookup failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return id
}

func (t *Toolbox) createCart(ctx context.Context) (*commerce.Cart, error) {
	cart, err := t.client.CreateCart(ctx, t.regionID(ctx))
	if err != nil && t.regions != nil {
		// the cached region may have been removed on the platform
		t.regions.Invalidate()
	}
	return cart, err
}
