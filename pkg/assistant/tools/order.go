package tools

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/commerce"
)

const (
	recentOrdersLimit = 5
	displayIDScan     = 50
)

// Ack is the payload of tools that only record a request.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// LookupOrder accepts a platform id (order_...) or a display number ("1024").
func (t *Toolbox) LookupOrder(ctx context.Context, orderID string) *assistant.ToolResults {
	started := time.Now()

	if displayID, err := strconv.Atoi(orderID); err == nil {
		order, err := t.findByDisplayID(ctx, displayID)
		if err != nil {
			return failed(err.Error(), "get_order", started)
		}
		if order == nil {
			return failed("order_not_found", "get_order", started)
		}
		return ok(order, "get_order", started)
	}

	order, err := t.client.GetOrder(ctx, orderID)
	if err != nil {
		if commerce.IsNotFound(err) {
			return failed("order_not_found", "get_order", started)
		}
		return failed(err.Error(), "get_order", started)
	}
	return ok(order, "get_order", started)
}

func (t *Toolbox) findByDisplayID(ctx context.Context, displayID int) (*commerce.Order, error) {
	orders, err := t.client.ListOrders(ctx, displayIDScan, 0)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].DisplayID == displayID {
			return &orders[i], nil
		}
	}
	return nil, nil
}

// ListOrders returns recent orders, narrowed to customerID when given.
func (t *Toolbox) ListOrders(ctx context.Context, customerID string) *assistant.ToolResults {
	started := time.Now()
	orders, err := t.client.ListOrders(ctx, recentOrdersLimit, 0)
	if err != nil {
		return failed(err.Error(), "list_orders", started)
	}
	if customerID != "" {
		orders = ordersOf(orders, customerID)
	}
	return ok(orders, "list_orders", started)
}

func ordersOf(orders []commerce.Order, customerID string) []commerce.Order {
	out := make([]commerce.Order, 0, len(orders))
	for _, o := range orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

func (t *Toolbox) CancelOrder(ctx context.Context, orderID string) *assistant.ToolResults {
	return ok(Ack{
		Status:  "requested",
		Message: fmt.Sprintf("Order %s cancellation request received.", orderID),
		Ref:     orderID,
	}, "", time.Now())
}

// Reorder copies the items of a past order into the given cart (or a new one).
func (t *Toolbox) Reorder(ctx context.Context, cartID, orderID string) *assistant.ToolResults {
	started := time.Now()

	order, err := t.client.GetOrder(ctx, orderID)
	if err != nil {
		return failed(err.Error(), "reorder", started)
	}

	res := assistant.NewToolResults()
	added := 0
	for _, item := range order.Items {
		if item.VariantID == "" {
			continue
		}
		step := t.AddToCart(ctx, cartID, item.VariantID, item.Quantity)
		res.Merge(step)
		if data, isAdd := step.Data.(*CartAddData); step.OK && isAdd {
			cartID = data.CartID
			added++
		}
	}
	if added == 0 {
		res.Fail("order has no reorderable items")
	}
	res.TimingsMs["reorder"] = time.Since(started).Milliseconds()
	return res
}
