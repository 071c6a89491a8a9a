package response

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/suggestion"
	"shop-chatbot-be/pkg/assistant/tools"
	"shop-chatbot-be/pkg/commerce"
	"shop-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	calls    int
	messages []llm.Message
	reply    string
	err      error
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	f.messages = history
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func first(int) int { return 0 }

func newFormatter(provider llm.LLMProvider, tree *suggestion.Tree) *Formatter {
	return NewFormatter(provider, tree, logger.NewNopLogger()).WithPicker(first)
}

func input(text string) assistant.ProcessedInput {
	return assistant.ProcessedInput{SessionID: "s1", Text: text, CleanedText: text, Language: "vi", Role: assistant.RoleCustomer}
}

func okResult(data any) *assistant.ToolResults {
	res := assistant.NewToolResults()
	res.Data = data
	return res
}

func failedResult(msg string) *assistant.ToolResults {
	res := assistant.NewToolResults()
	res.Fail(msg)
	return res
}

func price(amount float64) *commerce.Price {
	return &commerce.Price{Amount: amount, CurrencyCode: "vnd"}
}

func TestFormatPrice(t *testing.T) {
	amount := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		amount   *float64
		currency string
		want     string
	}{
		{"no price", nil, "VND", "Liên hệ"},
		{"vnd groups with dots", amount(1250000), "vnd", "1.250.000₫"},
		{"vnd drops decimals", amount(999.9), "VND", "999₫"},
		{"missing currency is vnd", amount(50000), "", "50.000₫"},
		{"usd", amount(1234.5), "usd", "$1,234.50"},
		{"eur", amount(15), "EUR", "15.00€"},
		{"other", amount(3), "gbp", "3.00 GBP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.currency))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "🚚 Đang giao hàng", StatusLabel("shipped"))
	assert.Equal(t, "❌ Đã hủy", StatusLabel("CANCELED"))
	assert.Equal(t, "on_hold", StatusLabel("on_hold"))
}

func TestTemplateText(t *testing.T) {
	order := &commerce.Order{
		ID: "order_1", DisplayID: 1024, Status: "shipped", CurrencyCode: "vnd", Total: 450000,
		Items: []commerce.LineItem{{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"}},
	}

	tests := []struct {
		name   string
		intent assistant.IntentResult
		plan   assistant.ActionPlan
		res    *assistant.ToolResults
		want   string
	}{
		{
			name:   "faq ignores results",
			intent: assistant.IntentResult{Intent: assistant.IntentFAQShipping},
			res:    failedResult("boom"),
			want:   templates["faq_shipping"][0],
		},
		{
			name:   "goodbye",
			intent: assistant.IntentResult{Intent: assistant.IntentGoodbye},
			want:   templates["goodbye"][0],
		},
		{
			name:   "denied",
			intent: assistant.IntentResult{Intent: assistant.IntentStaffCheckStock},
			plan:   assistant.ActionPlan{NextStep: "deny_access"},
			want:   templates["deny_access"][0],
		},
		{
			name:   "asks for the order id",
			intent: assistant.IntentResult{Intent: assistant.IntentOrderCancel},
			plan:   assistant.ActionPlan{NextStep: "ask_order_id_cancel", RequiredData: []string{"order_id"}},
			want:   templates["ask_order_id"][0],
		},
		{
			name:   "general without tools greets",
			intent: assistant.IntentResult{Intent: assistant.IntentGeneral},
			want:   templates["greeting"][0],
		},
		{
			name:   "products found",
			intent: assistant.IntentResult{Intent: assistant.IntentProductInquiry, Entities: assistant.Entities{ProductQuery: "áo"}},
			plan:   assistant.ActionPlan{Tools: []string{assistant.ToolProductSearch}},
			res:    okResult([]commerce.Product{{ID: "p1"}, {ID: "p2"}}),
			want:   "✨ Shop tìm thấy **2** sản phẩm phù hợp với yêu cầu của bạn:",
		},
		{
			name:   "products not found names the query",
			intent: assistant.IntentResult{Intent: assistant.IntentProductInquiry, Entities: assistant.Entities{ProductQuery: "áo mưa"}},
			res:    okResult([]commerce.Product{}),
			want:   fill(templates["product_not_found"][0], map[string]string{"query": "áo mưa"}),
		},
		{
			name:   "detail failure uses the default query",
			intent: assistant.IntentResult{Intent: assistant.IntentProductDetail},
			res:    failedResult("Missing product query"),
			want:   fill(templates["product_not_found"][0], map[string]string{"query": "sản phẩm bạn cần"}),
		},
		{
			name:   "single product detail counts",
			intent: assistant.IntentResult{Intent: assistant.IntentProductDetail},
			res:    okResult(&commerce.Product{ID: "p1"}),
			want:   "✨ Shop tìm thấy **1** sản phẩm phù hợp với yêu cầu của bạn:",
		},
		{
			name:   "nothing to recommend",
			intent: assistant.IntentResult{Intent: assistant.IntentProductRecommend},
			res:    okResult([]commerce.Product{}),
			want:   msgNoRecommend,
		},
		{
			name:   "cart add names the product",
			intent: assistant.IntentResult{Intent: assistant.IntentCartAdd},
			res:    okResult(&tools.CartAddData{CartID: "cart_1", ProductTitle: "Hoodie"}),
			want:   fill(templates["cart_added"][0], map[string]string{"product": "Hoodie"}),
		},
		{
			name:   "composite search then add is an add",
			intent: assistant.IntentResult{Intent: assistant.IntentProductInquiry, Entities: assistant.Entities{ProductTitle: "Tee"}},
			res:    okResult(&tools.CartAddData{CartID: "cart_1"}),
			want:   fill(templates["cart_added"][0], map[string]string{"product": "Tee"}),
		},
		{
			name:   "cart add failure",
			intent: assistant.IntentResult{Intent: assistant.IntentCartAdd},
			res:    failedResult("Missing variant_id"),
			want:   msgCartAddFailed,
		},
		{
			name:   "order found",
			intent: assistant.IntentResult{Intent: assistant.IntentOrderTracking, Entities: assistant.Entities{OrderID: "1024"}},
			res:    okResult(order),
			want: "### 📦 Thông tin đơn hàng #1024\n\n- **Trạng thái:** 🚚 Đang giao hàng\n- **Tổng tiền:** 450.000₫\n" +
				"- **Sản phẩm:** A, B, C...\n- **Dự kiến giao:** Dự kiến 2-3 ngày tới\n\nBạn cần hỗ trợ gì thêm về đơn hàng này không ạ?",
		},
		{
			name:   "order not found",
			intent: assistant.IntentResult{Intent: assistant.IntentOrderTracking, Entities: assistant.Entities{OrderID: "9999"}},
			res:    failedResult("order_not_found"),
			want:   fill(templates["order_not_found"][0], map[string]string{"order_id": "9999"}),
		},
		{
			name:   "order list without orders",
			intent: assistant.IntentResult{Intent: assistant.IntentOrderTracking},
			res:    okResult([]commerce.Order{}),
			want:   fill(templates["order_not_found"][0], map[string]string{"order_id": "của bạn"}),
		},
		{
			name:   "unknown failure is the generic apology",
			intent: assistant.IntentResult{Intent: assistant.IntentStaffCustomerLookup},
			res:    failedResult("dial tcp: connection refused"),
			want:   msgToolFailed,
		},
		{
			name:   "empty cart",
			intent: assistant.IntentResult{Intent: assistant.IntentCartView},
			res:    okResult(&commerce.Cart{ID: "cart_1"}),
			want:   templates["cart_view_empty"][0],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeLLM{reply: "from the model"}
			f := newFormatter(model, nil)

			reply := f.Format(context.Background(), input("x"), tt.intent, tt.plan, tt.res)

			assert.Equal(t, tt.want, reply.Text)
			assert.Zero(t, model.calls, "templates must not call the LLM")
		})
	}
}

func TestFailuresNeverLeakErrorText(t *testing.T) {
	f := newFormatter(&fakeLLM{}, nil)
	intents := []string{
		assistant.IntentGeneral, assistant.IntentCartView, assistant.IntentStaffCheckStock,
		assistant.IntentManagerReportSales, assistant.IntentOrderCancel,
	}
	for _, name := range intents {
		reply := f.Format(context.Background(), input("x"), assistant.IntentResult{Intent: name},
			assistant.ActionPlan{Tools: []string{"x"}}, failedResult("pq: password authentication failed"))
		assert.NotContains(t, reply.Text, "pq:", name)
	}
}

func TestDescribedPayloads(t *testing.T) {
	f := newFormatter(nil, nil)
	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{
			name: "cart with items",
			data: &commerce.Cart{CurrencyCode: "vnd", Total: 300000, Items: []commerce.LineItem{
				{Title: "Tee", Quantity: 2, UnitPrice: 100000},
				{Title: "Cap", Quantity: 1, UnitPrice: 100000},
			}},
			contains: []string{"**2** sản phẩm", "- Tee x2: 200.000₫", "300.000₫"},
		},
		{
			name:     "stock",
			data:     []tools.StockLevel{{Title: "Tee", TotalStock: 7, Variants: []tools.VariantStock{{Title: "M", SKU: "TEE-M", Quantity: 7}}}},
			contains: []string{"**Tee**: 7", "M (TEE-M): 7"},
		},
		{
			name:     "sales report",
			data:     tools.SalesReport{TotalRevenue: 300000, CurrencyCode: "vnd", OrderCount: 3, TopProducts: []tools.ProductSales{{Title: "Hoodie", Quantity: 2}}},
			contains: []string{"Báo cáo doanh thu", "300.000₫", "Số đơn: 3", "Hoodie: 2"},
		},
		{
			name:     "chatbot stats",
			data:     tools.ChatbotStats{TotalSessions: 4, ActiveSessions: 1, TotalMessages: 20, AvgResponseTimeMs: 812.4},
			contains: []string{"Tổng phiên: 4", "812 ms"},
		},
		{
			name:     "no customers",
			data:     []commerce.Customer{},
			contains: []string{"Không tìm thấy khách hàng"},
		},
		{
			name:     "escalation",
			data:     tools.Ack{Status: "escalated"},
			contains: []string{"nhân viên hỗ trợ"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := f.Format(context.Background(), input("x"), assistant.IntentResult{Intent: assistant.IntentGeneral},
				assistant.ActionPlan{Tools: []string{"x"}}, okResult(tt.data))
			for _, want := range tt.contains {
				assert.Contains(t, reply.Text, want)
			}
		})
	}
}

func TestLLMIsTheLastResort(t *testing.T) {
	t.Run("unknown payload goes to the model with tool data and currency", func(t *testing.T) {
		model := &fakeLLM{reply: "Dạ, đây là câu trả lời."}
		f := newFormatter(model, nil)

		data := []commerce.Product{{ID: "p1", Title: "Tee", Variants: []commerce.Variant{{ID: "v1", Price: price(100000)}}}}
		reply := f.Format(context.Background(), input("so sánh giúp tôi"),
			assistant.IntentResult{Intent: assistant.IntentCartUpdate}, assistant.ActionPlan{Tools: []string{"x"}}, okResult(data))

		assert.Equal(t, "Dạ, đây là câu trả lời.", reply.Text)
		require.Equal(t, 1, model.calls)
		require.Len(t, model.messages, 2)
		assert.Contains(t, model.messages[0].Content, "VND")
		assert.Contains(t, model.messages[1].Content, "User Input: so sánh giúp tôi")
		assert.Contains(t, model.messages[1].Content, `"id":"p1"`)
	})

	t.Run("quota errors have their own message", func(t *testing.T) {
		f := newFormatter(&fakeLLM{err: errors.New("googleai: 429 Resource has been exhausted")}, nil)
		reply := f.Format(context.Background(), input("x"), assistant.IntentResult{Intent: assistant.IntentCartUpdate}, assistant.ActionPlan{NextStep: "x"}, nil)
		assert.Equal(t, msgQuotaExceeded, reply.Text)
	})

	t.Run("other model errors apologise", func(t *testing.T) {
		f := newFormatter(&fakeLLM{err: errors.New("timeout")}, nil)
		reply := f.Format(context.Background(), input("x"), assistant.IntentResult{Intent: assistant.IntentCartUpdate}, assistant.ActionPlan{NextStep: "x"}, nil)
		assert.Equal(t, templates["error_generic"][0], reply.Text)
	})

	t.Run("without a model it asks for clarification", func(t *testing.T) {
		f := newFormatter(nil, nil)
		reply := f.Format(context.Background(), input("x"), assistant.IntentResult{Intent: assistant.IntentCartUpdate}, assistant.ActionPlan{NextStep: "x"}, nil)
		assert.Equal(t, templates["need_clarification"][0], reply.Text)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ắâ...(truncated)", truncate("ắâơ", 2))
}

func TestProductQuickReplies(t *testing.T) {
	tree, err := suggestion.Load([]byte(`
nodes:
  - {id: cart, label: Cart, type: action, tag: "action:view_cart"}
  - {id: help, label: Help, type: link, value: /help}
`))
	require.NoError(t, err)
	f := newFormatter(nil, tree)

	data := []commerce.Product{
		{ID: "p1", Title: "Hoodie", Handle: "hoodie", Variants: []commerce.Variant{{ID: "v1", Title: "L", Price: price(350000)}}},
		{ID: "p2", Title: "Tee", Handle: "tee"},
	}
	reply := f.Format(context.Background(), input("tìm áo"),
		assistant.IntentResult{Intent: assistant.IntentProductInquiry, Entities: assistant.Entities{ProductQuery: "áo"}},
		assistant.ActionPlan{Tools: []string{assistant.ToolProductSearch}}, okResult(data))

	require.Len(t, reply.Products, 2)
	assert.Equal(t, "350.000₫", reply.Products[0].Price)
	assert.Equal(t, "VND", reply.Products[0].CurrencyCode)
	assert.Empty(t, reply.Products[1].Price)
	assert.Equal(t, []string{"p1", "p2"}, reply.ProductIDs())

	labels := make([]string, 0, len(reply.QuickReplies))
	for _, q := range reply.QuickReplies {
		labels = append(labels, q.Label)
	}
	assert.Equal(t, []string{"Mua ngay", "Xem chi tiết", "Cart", "Help"}, labels)
	assert.Equal(t, "Đặt hàng Hoodie", reply.QuickReplies[0].Value)
	assert.Equal(t, "action:cart.add_item?product_id=p1&variant_id=v1", reply.QuickReplies[0].Metadata["tag"])
	assert.Equal(t, "action:view_cart", reply.QuickReplies[2].Value)
	assert.Equal(t, "/help", reply.QuickReplies[3].Value)
}

func TestOrderQuickRepliesAreCapped(t *testing.T) {
	f := newFormatter(nil, nil)
	orders := []commerce.Order{
		{ID: "order_a", DisplayID: 1}, {ID: "order_b", DisplayID: 2},
		{ID: "order_c", DisplayID: 3}, {ID: "order_d", DisplayID: 4},
	}
	reply := f.Format(context.Background(), input("đơn của tôi"),
		assistant.IntentResult{Intent: assistant.IntentOrderTracking}, assistant.ActionPlan{Tools: []string{assistant.ToolOrderList}}, okResult(orders))

	require.Len(t, reply.QuickReplies, 3)
	assert.Equal(t, "Đơn #1", reply.QuickReplies[0].Label)
	assert.Equal(t, "Tra cứu đơn hàng order_a", reply.QuickReplies[0].Value)
	assert.True(t, strings.HasPrefix(reply.Text, "📋 Bạn có **4** đơn hàng"))
}

func TestNewCartAction(t *testing.T) {
	f := newFormatter(nil, nil)

	reply := f.Format(context.Background(), input("x"),
		assistant.IntentResult{Intent: assistant.IntentCartAdd, Entities: assistant.Entities{NewCartID: "cart_new"}},
		assistant.ActionPlan{Tools: []string{assistant.ToolCartAdd}}, okResult(&tools.CartAddData{CartID: "cart_new", NewCartCreated: true}))

	require.NotNil(t, reply.Action)
	assert.Equal(t, ActionAPICall, reply.Action.Type)
	assert.Equal(t, map[string]any{"command": "update_cart", "cart_id": "cart_new"}, reply.Action.Payload)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, assistant.IntentCartAdd, reply.Metadata["intent"])

	plain := f.Format(context.Background(), input("x"), assistant.IntentResult{Intent: assistant.IntentGeneral}, assistant.ActionPlan{NextStep: "response.greet"}, nil)
	assert.Nil(t, plain.Action)
	assert.NotNil(t, plain.Products)
	assert.NotNil(t, plain.QuickReplies)
}

func TestDefaultTreeRepliesForRoles(t *testing.T) {
	tree, err := suggestion.Default()
	require.NoError(t, err)
	f := newFormatter(nil, tree)

	in := input("xin chào")
	in.Role = assistant.RoleManager
	reply := f.Format(context.Background(), in, assistant.IntentResult{Intent: assistant.IntentGeneral}, assistant.ActionPlan{NextStep: "response.greet"}, nil)

	var tags []any
	for _, q := range reply.QuickReplies {
		tags = append(tags, q.Metadata["tag"])
	}
	assert.Contains(t, tags, "action:sales_report")
}
