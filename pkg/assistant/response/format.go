package response

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	viPrinter = message.NewPrinter(language.Vietnamese)
	enPrinter = message.NewPrinter(language.English)
)

var statusLabels = map[string]string{
	"pending":         "⏳ Đang chờ xử lý",
	"completed":       "✅ Đã hoàn thành",
	"shipped":         "🚚 Đang giao hàng",
	"canceled":        "❌ Đã hủy",
	"archived":        "📦 Đã lưu trữ",
	"requires_action": "⚠️ Cần xử lý",
	"processing":      "⚙️ Đang xử lý",
}

// StatusLabel translates a platform order status; unknown statuses pass through.
func StatusLabel(status string) string {
	if label, found := statusLabels[strings.ToLower(status)]; found {
		return label
	}
	return status
}

// FormatPrice renders an amount in its currency. VND has no minor unit and
// groups thousands with dots.
func FormatPrice(amount *float64, currency string) string {
	if amount == nil {
		return "Liên hệ"
	}
	curr := strings.ToUpper(currency)
	if curr == "" {
		curr = "VND"
	}

	switch curr {
	case "VND":
		return viPrinter.Sprintf("%d", int64(*amount)) + "₫"
	case "USD":
		return "$" + enPrinter.Sprintf("%.2f", *amount)
	case "EUR":
		return enPrinter.Sprintf("%.2f", *amount) + "€"
	default:
		return enPrinter.Sprintf("%.2f", *amount) + " " + curr
	}
}

func formatAmount(amount float64, currency string) string {
	return FormatPrice(&amount, currency)
}
