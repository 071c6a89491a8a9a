package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/commerce"
)

const (
	reportOrderWindow = 100
	topProductsLimit  = 5
)

type SalesReport struct {
	Period       string         `json:"period"`
	CurrencyCode string         `json:"currency_code"`
	TotalRevenue float64        `json:"total_revenue"`
	OrderCount   int            `json:"order_count"`
	TopProducts  []ProductSales `json:"top_products"`
}

type ProductSales struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type CustomerAnalytics struct {
	Customers int `json:"customers"`
	New       int `json:"new_customers"`
	Returning int `json:"returning"`
}

type ChatbotStats struct {
	TotalSessions     int64   `json:"total_sessions"`
	ActiveSessions    int64   `json:"active_sessions"`
	TotalMessages     int64   `json:"total_messages"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

// SalesReport aggregates the most recent orders.
func (t *Toolbox) SalesReport(ctx context.Context) *assistant.ToolResults {
	started := time.Now()
	orders, err := t.client.ListOrders(ctx, reportOrderWindow, 0)
	if err != nil {
		return failed(err.Error(), "get_sales_report", started)
	}

	report := SalesReport{
		Period:      fmt.Sprintf("last %d orders", reportOrderWindow),
		OrderCount:  len(orders),
		TopProducts: topSellers(orders, topProductsLimit),
	}
	for _, o := range orders {
		if o.Status == "canceled" {
			continue
		}
		report.TotalRevenue += o.Total
		if report.CurrencyCode == "" {
			report.CurrencyCode = o.CurrencyCode
		}
	}
	return ok(report, "get_sales_report", started)
}

func (t *Toolbox) TopProducts(ctx context.Context) *assistant.ToolResults {
	started := time.Now()
	orders, err := t.client.ListOrders(ctx, reportOrderWindow, 0)
	if err != nil {
		return failed(err.Error(), "get_top_products", started)
	}
	return ok(topSellers(orders, topProductsLimit), "get_top_products", started)
}

func (t *Toolbox) CustomerAnalytics(ctx context.Context) *assistant.ToolResults {
	started := time.Now()
	orders, err := t.client.ListOrders(ctx, reportOrderWindow, 0)
	if err != nil {
		return failed(err.Error(), "get_customer_analytics", started)
	}

	perCustomer := map[string]int{}
	for _, o := range orders {
		if o.CustomerID != "" {
			perCustomer[o.CustomerID]++
		}
	}
	stats := CustomerAnalytics{Customers: len(perCustomer)}
	for _, n := range perCustomer {
		if n > 1 {
			stats.Returning++
		} else {
			stats.New++
		}
	}
	return ok(stats, "get_customer_analytics", started)
}

func (t *Toolbox) ChatbotStats(ctx context.Context) *assistant.ToolResults {
	started := time.Now()
	if t.stats == nil {
		return failed("chatbot stats unavailable", "get_chatbot_stats", started)
	}
	stats, err := t.stats.ChatbotStats(ctx)
	if err != nil {
		return failed(err.Error(), "get_chatbot_stats", started)
	}
	return ok(stats, "get_chatbot_stats", started)
}

func topSellers(orders []commerce.Order, limit int) []ProductSales {
	qty := map[string]int{}
	for _, o := range orders {
		if o.Status == "canceled" {
			continue
		}
		for _, item := range o.Items {
			qty[item.Title] += item.Quantity
		}
	}

	out := make([]ProductSales, 0, len(qty))
	for title, n := range qty {
		out = append(out, ProductSales{Title: title, Quantity: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Title < out[j].Title
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
