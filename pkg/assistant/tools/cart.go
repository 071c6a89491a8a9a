package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/commerce"
)

// CartAddData is the payload of a successful add. CartID differs from the
// caller's cart when NewCartCreated is set.
type CartAddData struct {
	Message        string         `json:"message"`
	CartID         string         `json:"cart_id"`
	Cart           *commerce.Cart `json:"cart,omitempty"`
	NewCartCreated bool           `json:"new_cart_created,omitempty"`
	ProductTitle   string         `json:"product_title,omitempty"`
	VariantTitle   string         `json:"variant_title,omitempty"`
	VariantID      string         `json:"variant_id,omitempty"`
	Quantity       int            `json:"quantity"`
}

func (t *Toolbox) ViewCart(ctx context.Context, cartID string) *assistant.ToolResults {
	started := time.Now()
	if cartID == "" {
		return failed("No cart_id provided", "", started)
	}
	cart, err := t.client.GetCart(ctx, cartID)
	if err != nil {
		return failed(err.Error(), "get_cart", started)
	}
	return ok(cart, "get_cart", started)
}

// AddToCart adds a variant, creating a cart when cartID is empty. A cart the
// platform refuses to modify is replaced by a new cart and the add is retried
// exactly once. NewCartCreated is set whenever the returned cart is not the
// caller's.
func (t *Toolbox) AddToCart(ctx context.Context, cartID, variantID string, quantity int) *assistant.ToolResults {
	started := time.Now()
	if quantity <= 0 {
		quantity = 1
	}

	created := false
	if cartID == "" {
		t.logger.Info("Tools", "No cart id, creating cart", nil)
		newCart, err := t.createCart(ctx)
		if err != nil || newCart == nil || newCart.ID == "" {
			return failed("Failed to create cart", "add_to_cart", started)
		}
		cartID, created = newCart.ID, true
	}

	cart, err := t.client.AddLineItem(ctx, cartID, variantID, quantity)
	if err == nil {
		t.ensureShippingMethod(ctx, cartID, cart)
		return ok(&CartAddData{
			Message:        "Item added",
			CartID:         cartID,
			Cart:           cart,
			NewCartCreated: created,
			VariantID:      variantID,
			Quantity:       quantity,
		}, "add_to_cart", started)
	}

	if !commerce.IsStaleCart(err) {
		return failed(err.Error(), "add_to_cart", started)
	}

	t.logger.Info("Tools", "Cart cannot be modified, creating a new one", map[string]interface{}{
		"cart_id": cartID,
		"error":   err.Error(),
	})

	fresh, err := t.createCart(ctx)
	if err != nil || fresh == nil || fresh.ID == "" {
		return failed("Failed to create new cart", "add_to_cart", started)
	}

	cart, err = t.client.AddLineItem(ctx, fresh.ID, variantID, quantity)
	if err != nil {
		return failed(fmt.Sprintf("Failed to add to new cart: %s", err.Error()), "add_to_cart", started)
	}

	t.ensureShippingMethod(ctx, fresh.ID, cart)
	return ok(&CartAddData{
		Message:        "Created new cart and added item",
		CartID:         fresh.ID,
		Cart:           cart,
		NewCartCreated: true,
		VariantID:      variantID,
		Quantity:       quantity,
	}, "add_to_cart", started)
}

// AddToCartSmart resolves query to the first variant of the best match and adds it.
func (t *Toolbox) AddToCartSmart(ctx context.Context, cartID, query string, quantity int) *assistant.ToolResults {
	started := time.Now()

	products, err := t.client.SearchProducts(ctx, query, 1, t.regionID(ctx))
	if err != nil {
		return failed(err.Error(), "add_to_cart", started)
	}
	if len(products) == 0 {
		return failed(fmt.Sprintf("Product not found: %s", query), "add_to_cart", started)
	}

	product := products[0]
	if len(product.Variants) == 0 {
		return failed(fmt.Sprintf("Product has no variants: %s", product.Title), "add_to_cart", started)
	}
	variant := product.Variants[0]

	res := t.AddToCart(ctx, cartID, variant.ID, quantity)
	if data, isAdd := res.Data.(*CartAddData); res.OK && isAdd {
		data.ProductTitle = product.Title
		data.VariantTitle = variant.Title
	}
	return res
}

// RemoveFromCart deletes the line item matching ref, which may be a line
// item id, a variant id or part of the product title.
func (t *Toolbox) RemoveFromCart(ctx context.Context, cartID, ref string) *assistant.ToolResults {
	started := time.Now()
	if cartID == "" {
		return failed("No cart_id provided", "", started)
	}
	if ref == "" {
		return failed("No item to remove", "", started)
	}

	cart, err := t.client.GetCart(ctx, cartID)
	if err != nil {
		return failed(err.Error(), "remove_from_cart", started)
	}
	item, found := matchLineItem(cart.Items, ref)
	if !found {
		return failed(fmt.Sprintf("Item not in cart: %s", ref), "remove_from_cart", started)
	}

	if _, err := t.client.DeleteLineItem(ctx, cartID, item.ID); err != nil {
		return failed(err.Error(), "remove_from_cart", started)
	}
	t.logger.Info("Tools", "Line item removed", map[string]interface{}{"cart_id": cartID, "line_item_id": item.ID})
	return ok(Ack{Status: "removed", Message: fmt.Sprintf("Removed %s from cart", item.Title), Ref: item.ID}, "remove_from_cart", started)
}

func matchLineItem(items []commerce.LineItem, ref string) (commerce.LineItem, bool) {
	for _, it := range items {
		if it.ID == ref || it.VariantID == ref {
			return it, true
		}
	}
	needle := strings.ToLower(strings.TrimSpace(ref))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), needle) {
			return it, true
		}
	}
	return commerce.LineItem{}, false
}

// ensureShippingMethod keeps a valid shipping method on the cart. Failures
// are logged and never surface to the caller.
func (t *Toolbox) ensureShippingMethod(ctx context.Context, cartID string, cart *commerce.Cart) {
	options, err := t.client.GetShippingOptions(ctx, cartID)
	if err != nil {
		t.logger.Error("Tools", "Shipping options fetch failed", map[string]interface{}{"cart_id": cartID, "error": err.Error()})
		return
	}
	if len(options) == 0 {
		t.logger.Warn("Tools", "No shipping options for cart", map[string]interface{}{"cart_id": cartID})
		return
	}

	if cart == nil {
		if cart, err = t.client.GetCart(ctx, cartID); err != nil {
			t.logger.Error("Tools", "Cart fetch failed", map[string]interface{}{"cart_id": cartID, "error": err.Error()})
			return
		}
	}

	if len(cart.ShippingMethods) > 0 {
		current := cart.ShippingMethods[0].ShippingOptionID
		for _, o := range options {
			if o.ID == current {
				return
			}
		}
		t.logger.Info("Tools", "Shipping method no longer valid", map[string]interface{}{"cart_id": cartID, "option_id": current})
	}

	if _, err := t.client.AddShippingMethod(ctx, cartID, options[0].ID); err != nil {
		t.logger.Error("Tools", "Attach shipping method failed", map[string]interface{}{"cart_id": cartID, "error": err.Error()})
	}
}
