package tools

import (
	"context"
	"fmt"
	"time"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/commerce"
)

const (
	stockSearchLimit    = 5
	customerSearchLimit = 10
	historyScanLimit    = 50
)

type VariantStock struct {
	Title    string `json:"title"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type StockLevel struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	TotalStock int            `json:"total_stock"`
	Variants   []VariantStock `json:"variants"`
}

type PriceQuote struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     *commerce.Price `json:"price,omitempty"`
}

func (t *Toolbox) CheckStock(ctx context.Context, query string) *assistant.ToolResults {
	started := time.Now()
	products, err := t.client.SearchProducts(ctx, query, stockSearchLimit, t.regionID(ctx))
	if err != nil {
		return failed(err.Error(), "check_stock", started)
	}

	levels := make([]StockLevel, 0, len(products))
	for _, p := range products {
		level := StockLevel{ID: p.ID, Title: p.Title, TotalStock: p.TotalInventory()}
		for _, v := range p.Variants {
			sku := v.SKU
			if sku == "" {
				sku = "N/A"
			}
			title := v.Title
			if title == "" {
				title = "Default"
			}
			level.Variants = append(level.Variants, VariantStock{Title: title, SKU: sku, Quantity: v.InventoryQuantity})
		}
		levels = append(levels, level)
	}
	return ok(levels, "check_stock", started)
}

func (t *Toolbox) CheckPrice(ctx context.Context, query string) *assistant.ToolResults {
	started := time.Now()
	products, err := t.client.SearchProducts(ctx, query, 1, t.regionID(ctx))
	if err != nil {
		return failed(err.Error(), "check_price", started)
	}
	if len(products) == 0 {
		return failed(fmt.Sprintf("Product not found: %s", query), "check_price", started)
	}

	quote := PriceQuote{ProductID: products[0].ID, Title: products[0].Title}
	if price, priced := products[0].MinPrice(); priced {
		quote.Price = &price
	}
	return ok(quote, "check_price", started)
}

func (t *Toolbox) LookupCustomer(ctx context.Context, query string) *assistant.ToolResults {
	started := time.Now()
	customers, err := t.client.ListCustomers(ctx, query, customerSearchLimit)
	if err != nil {
		return failed(err.Error(), "lookup_customer", started)
	}
	return ok(customers, "lookup_customer", started)
}

func (t *Toolbox) CustomerOrderHistory(ctx context.Context, customerID string) *assistant.ToolResults {
	started := time.Now()
	orders, err := t.client.ListOrders(ctx, historyScanLimit, 0)
	if err != nil {
		return failed(err.Error(), "order_history", started)
	}
	return ok(ordersOf(orders, customerID), "order_history", started)
}

// CreateDraftOrder opens an empty cart that staff fill in on the storefront.
func (t *Toolbox) CreateDraftOrder(ctx context.Context, customerID string) *assistant.ToolResults {
	started := time.Now()
	cart, err := t.client.CreateCart(ctx, t.regionID(ctx))
	if err != nil {
		return failed(err.Error(), "create_order", started)
	}
	return ok(Ack{
		Status:  "draft",
		Message: fmt.Sprintf("Draft cart opened for customer %s", customerID),
		Ref:     cart.ID,
	}, "create_order", started)
}

func (t *Toolbox) UpdateOrderStatus(ctx context.Context, orderID, status string) *assistant.ToolResults {
	if status == "" {
		status = "processing"
	}
	return ok(Ack{
		Status:  status,
		Message: fmt.Sprintf("Order %s marked %s", orderID, status),
		Ref:     orderID,
	}, "", time.Now())
}

func (t *Toolbox) PrintShippingLabel(ctx context.Context, orderID string) *assistant.ToolResults {
	return ok(Ack{
		Status:  "queued",
		Message: fmt.Sprintf("Shipping label for order %s queued for printing", orderID),
		Ref:     orderID,
	}, "", time.Now())
}
