package response

import (
	"fmt"
	"strings"

	"shop-chatbot-be/pkg/assistant/tools"
	"shop-chatbot-be/pkg/commerce"
)

type ProductVariant struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Price        string `json:"price,omitempty"`
	CurrencyCode string `json:"currency_code,omitempty"`
}

// Product is the card the storefront renders under a reply. Price is the
// first variant's.
type Product struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Handle       string           `json:"handle"`
	Thumbnail    string           `json:"thumbnail,omitempty"`
	Price        string           `json:"price,omitempty"`
	CurrencyCode string           `json:"currency_code,omitempty"`
	Variants     []ProductVariant `json:"variants"`
}

func productView(p commerce.Product) Product {
	view := Product{
		ID:        p.ID,
		Title:     p.Title,
		Handle:    p.Handle,
		Thumbnail: p.Thumbnail,
		Variants:  make([]ProductVariant, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		pv := ProductVariant{ID: v.ID, Title: v.Title}
		if v.Price != nil {
			pv.CurrencyCode = strings.ToUpper(v.Price.CurrencyCode)
			pv.Price = formatAmount(v.Price.Amount, v.Price.CurrencyCode)
		}
		view.Variants = append(view.Variants, pv)
	}
	if len(view.Variants) > 0 {
		view.Price = view.Variants[0].Price
		view.CurrencyCode = view.Variants[0].CurrencyCode
	}
	return view
}

// ProductCards renders platform products as reply cards.
func ProductCards(products []commerce.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, productView(p))
	}
	return out
}

// productsOf returns the product cards carried by a tool payload.
func productsOf(data any) []Product {
	switch d := data.(type) {
	case []commerce.Product:
		return ProductCards(d)
	case *commerce.Product:
		if d != nil {
			return []Product{productView(*d)}
		}
	}
	return nil
}

func ordersOf(data any) []commerce.Order {
	switch d := data.(type) {
	case []commerce.Order:
		return d
	case *commerce.Order:
		if d != nil {
			return []commerce.Order{*d}
		}
	}
	return nil
}

// count is the number of records in a payload: list length, 1 for a single
// record, 0 for nothing.
func count(data any) int {
	switch d := data.(type) {
	case nil:
		return 0
	case []commerce.Product:
		return len(d)
	case []commerce.Order:
		return len(d)
	case []commerce.Customer:
		return len(d)
	case []tools.StockLevel:
		return len(d)
	case []tools.ProductSales:
		return len(d)
	case *commerce.Product:
		if d == nil {
			return 0
		}
	case *commerce.Order:
		if d == nil {
			return 0
		}
	}
	return 1
}

func orderVars(o commerce.Order) map[string]string {
	ref := o.ID
	if o.DisplayID != 0 {
		ref = fmt.Sprint(o.DisplayID)
	}
	status := o.Status
	if status == "" {
		status = "pending"
	}
	return map[string]string{
		"order_id":      ref,
		"status":        StatusLabel(status),
		"total":         formatAmount(o.Total, o.CurrencyCode),
		"items":         itemSummary(o.Items),
		"delivery_date": defaultDelivery,
	}
}

func itemSummary(items []commerce.LineItem) string {
	if len(items) == 0 {
		return itemsPending
	}
	names := make([]string, 0, maxItemsInSummary)
	for i, item := range items {
		if i == maxItemsInSummary {
			break
		}
		names = append(names, item.Title)
	}
	summary := strings.Join(names, ", ")
	if len(items) > maxItemsInSummary {
		summary += "..."
	}
	return summary
}

// describe renders payloads that have a fixed layout. found is false for
// payloads it does not know.
func (f *Formatter) describe(data any) (text string, found bool) {
	switch d := data.(type) {
	case *commerce.Cart:
		if d == nil || len(d.Items) == 0 {
			return f.template("cart_view_empty", nil), true
		}
		var b strings.Builder
		b.WriteString(f.template("cart_view_has_items", map[string]string{"count": fmt.Sprint(len(d.Items))}))
		for _, item := range d.Items {
			fmt.Fprintf(&b, "\n- %s x%d: %s", item.Title, item.Quantity, formatAmount(item.UnitPrice*float64(item.Quantity), d.CurrencyCode))
		}
		fmt.Fprintf(&b, "\n\n**Tổng cộng:** %s", formatAmount(d.Total, d.CurrencyCode))
		return b.String(), true

	case []commerce.Order:
		if len(d) == 0 {
			return "", false
		}
		var b strings.Builder
		b.WriteString(f.template("order_list", map[string]string{"count": fmt.Sprint(len(d))}))
		for _, o := range d {
			vars := orderVars(o)
			fmt.Fprintf(&b, "\n- #%s: %s (%s)", vars["order_id"], vars["status"], vars["total"])
		}
		return b.String(), true

	case []tools.StockLevel:
		if len(d) == 0 {
			return "", false
		}
		var b strings.Builder
		b.WriteString(f.template("staff_success", nil))
		for _, level := range d {
			fmt.Fprintf(&b, "\n- **%s**: %d", level.Title, level.TotalStock)
			for _, v := range level.Variants {
				fmt.Fprintf(&b, "\n  - %s (%s): %d", v.Title, v.SKU, v.Quantity)
			}
		}
		return b.String(), true

	case tools.PriceQuote:
		var price string
		if d.Price != nil {
			price = formatAmount(d.Price.Amount, d.Price.CurrencyCode)
		} else {
			price = FormatPrice(nil, "")
		}
		return fmt.Sprintf("%s\n- **%s**: %s", f.template("staff_success", nil), d.Title, price), true

	case []commerce.Customer:
		if len(d) == 0 {
			return f.template("customers_not_found", nil), true
		}
		var b strings.Builder
		b.WriteString(f.template("staff_success", nil))
		for _, c := range d {
			name := c.FullName()
			if name == "" {
				name = c.Email
			}
			fmt.Fprintf(&b, "\n- %s (%s) %s", name, c.ID, c.Phone)
		}
		return strings.TrimRight(b.String(), " "), true

	case tools.SalesReport:
		lines := []string{
			fmt.Sprintf("- Doanh thu: %s", formatAmount(d.TotalRevenue, d.CurrencyCode)),
			fmt.Sprintf("- Số đơn: %d", d.OrderCount),
		}
		for _, p := range d.TopProducts {
			lines = append(lines, fmt.Sprintf("- %s: %d", p.Title, p.Quantity))
		}
		return f.report("doanh thu", lines), true

	case []tools.ProductSales:
		lines := make([]string, 0, len(d))
		for i, p := range d {
			lines = append(lines, fmt.Sprintf("%d. %s: %d", i+1, p.Title, p.Quantity))
		}
		return f.report("sản phẩm bán chạy", lines), true

	case tools.CustomerAnalytics:
		return f.report("khách hàng", []string{
			fmt.Sprintf("- Tổng khách hàng: %d", d.Customers),
			fmt.Sprintf("- Khách mới: %d", d.New),
			fmt.Sprintf("- Khách quay lại: %d", d.Returning),
		}), true

	case tools.ChatbotStats:
		return f.report("chatbot", []string{
			fmt.Sprintf("- Tổng phiên: %d", d.TotalSessions),
			fmt.Sprintf("- Phiên đang mở: %d", d.ActiveSessions),
			fmt.Sprintf("- Tổng tin nhắn: %d", d.TotalMessages),
			fmt.Sprintf("- Thời gian phản hồi TB: %.0f ms", d.AvgResponseTimeMs),
		}), true

	case tools.ReviewList:
		if len(d.Reviews) == 0 {
			return f.template("reviews_empty", nil), true
		}
		return "", false

	case tools.Ack:
		switch d.Status {
		case "escalated":
			return f.template("escalate", nil), true
		case "logged_out":
			return f.template("logout", nil), true
		}
		return f.template("request_recorded", map[string]string{"message": d.Message}), true
	}
	return "", false
}

func (f *Formatter) report(kind string, lines []string) string {
	return f.template("manager_report", map[string]string{
		"report_type": kind,
		"data":        strings.Join(lines, "\n"),
	})
}
