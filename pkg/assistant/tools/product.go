package tools

import (
	"context"
	"time"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/commerce"
)

const priceFilterOverfetch = 5

// SearchProducts returns up to limit products. With a price condition it
// over-fetches, keeps products whose cheapest variant matches and drops
// unpriced ones.
func (t *Toolbox) SearchProducts(ctx context.Context, query string, limit int, cond *assistant.PriceCondition) *assistant.ToolResults {
	started := time.Now()
	if limit <= 0 {
		limit = 10
	}

	fetch := limit
	if cond != nil {
		fetch = limit * priceFilterOverfetch
	}

	products, err := t.client.SearchProducts(ctx, query, fetch, t.regionID(ctx))
	if err != nil {
		return failed(err.Error(), "search_products", started)
	}

	filtered := make([]commerce.Product, 0, limit)
	for _, p := range products {
		if cond != nil {
			price, priced := p.MinPrice()
			if !priced || !cond.Matches(price.Amount) {
				continue
			}
		}
		filtered = append(filtered, p)
		if len(filtered) == limit {
			break
		}
	}
	return ok(filtered, "search_products", started)
}

// RecommendProducts has no ranking signal of its own; it returns the
// platform's default ordering.
func (t *Toolbox) RecommendProducts(ctx context.Context, limit int) *assistant.ToolResults {
	started := time.Now()
	products, err := t.client.SearchProducts(ctx, "", limit, t.regionID(ctx))
	if err != nil {
		return failed(err.Error(), "recommend_products", started)
	}
	return ok(products, "recommend_products", started)
}

func (t *Toolbox) ProductDetail(ctx context.Context, productID string) *assistant.ToolResults {
	started := time.Now()
	product, err := t.client.GetProduct(ctx, productID, t.regionID(ctx))
	if err != nil {
		if commerce.IsNotFound(err) {
			return failed("product_not_found", "get_product", started)
		}
		return failed(err.Error(), "get_product", started)
	}
	return ok(product, "get_product", started)
}

// Review is a product review. The platform has no review module yet, so
// ProductReviews always returns an empty list.
type Review struct {
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type ReviewList struct {
	Reviews []Review `json:"reviews"`
}

func (t *Toolbox) ProductReviews(ctx context.Context, productID string) *assistant.ToolResults {
	return ok(ReviewList{Reviews: []Review{}}, "", time.Now())
}
