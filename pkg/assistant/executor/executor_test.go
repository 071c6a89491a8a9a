package executor

import (
	"context"
	"fmt"
	"testing"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/tools"
	"shop-chatbot-be/pkg/commerce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTools records every call as "Method(args)" and answers from canned
// results, defaulting to an empty success.
type fakeTools struct {
	calls   []string
	canned  map[string]*assistant.ToolResults
	panicOn string
}

func newFakeTools() *fakeTools {
	return &fakeTools{canned: map[string]*assistant.ToolResults{}}
}

func (f *fakeTools) answer(method string, args ...any) *assistant.ToolResults {
	f.calls = append(f.calls, fmt.Sprintf("%s%v", method, args))
	if method == f.panicOn {
		panic("tool exploded")
	}
	if res, found := f.canned[method]; found {
		return res
	}
	return assistant.NewToolResults()
}

func (f *fakeTools) ViewCart(_ context.Context, cartID string) *assistant.ToolResults {
	return f.answer("ViewCart", cartID)
}
func (f *fakeTools) AddToCart(_ context.Context, cartID, variantID string, qty int) *assistant.ToolResults {
	return f.answer("AddToCart", cartID, variantID, qty)
}
func (f *fakeTools) AddToCartSmart(_ context.Context, cartID, query string, qty int) *assistant.ToolResults {
	return f.answer("AddToCartSmart", cartID, query, qty)
}
func (f *fakeTools) RemoveFromCart(_ context.Context, cartID, item string) *assistant.ToolResults {
	return f.answer("RemoveFromCart", cartID, item)
}
func (f *fakeTools) SearchProducts(_ context.Context, query string, limit int, cond *assistant.PriceCondition) *assistant.ToolResults {
	return f.answer("SearchProducts", query, limit, cond != nil)
}
func (f *fakeTools) RecommendProducts(_ context.Context, limit int) *assistant.ToolResults {
	return f.answer("RecommendProducts", limit)
}
func (f *fakeTools) ProductDetail(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("ProductDetail", id)
}
func (f *fakeTools) ProductReviews(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("ProductReviews", id)
}
func (f *fakeTools) LookupOrder(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("LookupOrder", id)
}
func (f *fakeTools) ListOrders(_ context.Context, customerID string) *assistant.ToolResults {
	return f.answer("ListOrders", customerID)
}
func (f *fakeTools) CancelOrder(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("CancelOrder", id)
}
func (f *fakeTools) Reorder(_ context.Context, cartID, id string) *assistant.ToolResults {
	return f.answer("Reorder", cartID, id)
}
func (f *fakeTools) CheckStock(_ context.Context, q string) *assistant.ToolResults {
	return f.answer("CheckStock", q)
}
func (f *fakeTools) CheckPrice(_ context.Context, q string) *assistant.ToolResults {
	return f.answer("CheckPrice", q)
}
func (f *fakeTools) LookupCustomer(_ context.Context, q string) *assistant.ToolResults {
	return f.answer("LookupCustomer", q)
}
func (f *fakeTools) CustomerOrderHistory(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("CustomerOrderHistory", id)
}
func (f *fakeTools) CreateDraftOrder(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("CreateDraftOrder", id)
}
func (f *fakeTools) UpdateOrderStatus(_ context.Context, id, status string) *assistant.ToolResults {
	return f.answer("UpdateOrderStatus", id, status)
}
func (f *fakeTools) PrintShippingLabel(_ context.Context, id string) *assistant.ToolResults {
	return f.answer("PrintShippingLabel", id)
}
func (f *fakeTools) SalesReport(context.Context) *assistant.ToolResults { return f.answer("SalesReport") }
func (f *fakeTools) TopProducts(context.Context) *assistant.ToolResults { return f.answer("TopProducts") }
func (f *fakeTools) CustomerAnalytics(context.Context) *assistant.ToolResults {
	return f.answer("CustomerAnalytics")
}
func (f *fakeTools) ChatbotStats(context.Context) *assistant.ToolResults { return f.answer("ChatbotStats") }
func (f *fakeTools) Escalate(_ context.Context, sessionID string) *assistant.ToolResults {
	return f.answer("Escalate", sessionID)
}
func (f *fakeTools) Logout(context.Context) *assistant.ToolResults { return f.answer("Logout") }
func (f *fakeTools) UpdateConfig(_ context.Context, request string) *assistant.ToolResults {
	return f.answer("UpdateConfig", request)
}

func withData(data any) *assistant.ToolResults {
	res := assistant.NewToolResults()
	res.Data = data
	return res
}

func failure(msg string) *assistant.ToolResults {
	res := assistant.NewToolResults()
	res.Fail(msg)
	return res
}

func input(text string) assistant.ProcessedInput {
	return assistant.ProcessedInput{SessionID: "sess_1", Text: text, CleanedText: text, Language: "vi"}
}

func run(f *fakeTools, in assistant.ProcessedInput, entities assistant.Entities, toolNames ...string) Outcome {
	exec := NewExecutor(f, logger.NewNopLogger())
	return exec.Run(context.Background(), in, assistant.IntentResult{Entities: entities}, assistant.ActionPlan{Tools: toolNames})
}

func TestRunWithoutToolsHasNoResults(t *testing.T) {
	out := run(newFakeTools(), input("xin chào"), assistant.Entities{})
	assert.Nil(t, out.Results)
}

func TestSearchThenAddPassesFirstHit(t *testing.T) {
	f := newFakeTools()
	f.canned["SearchProducts"] = withData([]commerce.Product{
		{ID: "prod_1", Title: "Giày chạy bộ", Variants: []commerce.Variant{{ID: "var_42"}}},
		{ID: "prod_2", Title: "Giày tây", Variants: []commerce.Variant{{ID: "var_7"}}},
	})
	f.canned["AddToCart"] = withData(&tools.CartAddData{CartID: "cart_1"})

	in := input("tìm giày chạy bộ và thêm vào giỏ")
	in.Session.CartID = "cart_1"
	out := run(f, in, assistant.Entities{ProductQuery: "giày chạy bộ", Quantity: 2},
		assistant.ToolProductSearch, assistant.ToolCartAdd)

	assert.Equal(t, []string{
		"SearchProducts[giày chạy bộ 10 false]",
		"AddToCart[cart_1 var_42 2]",
	}, f.calls)
	assert.Equal(t, "var_42", out.Entities.VariantID)
	assert.Equal(t, "Giày chạy bộ", out.Entities.ProductTitle)
	assert.True(t, out.Results.OK)
	assert.Empty(t, out.NewCartID)
	assert.Equal(t, "cart_1", out.CartID)
}

func TestCartAddAdoptsNewCart(t *testing.T) {
	f := newFakeTools()
	f.canned["AddToCart"] = withData(&tools.CartAddData{CartID: "cart_new", NewCartCreated: true})

	in := input("thêm vào giỏ")
	in.Session.CartID = "cart_done"
	out := run(f, in, assistant.Entities{VariantID: "var_1"}, assistant.ToolCartAdd, assistant.ToolCartView)

	assert.Equal(t, "cart_new", out.CartID)
	assert.Equal(t, "cart_new", out.NewCartID)
	assert.Equal(t, "cart_new", out.Entities.NewCartID)
	// later tools see the new cart
	assert.Equal(t, "ViewCart[cart_new]", f.calls[1])
}

func TestCartAddFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		entities assistant.Entities
		lastIDs  []string
		canned   map[string]*assistant.ToolResults
		want     []string
		wantOK   bool
	}{
		{
			name:     "smart add by query",
			entities: assistant.Entities{ProductQuery: "hoodie"},
			want:     []string{"AddToCartSmart[ hoodie 1]"},
			wantOK:   true,
		},
		{
			name:     "referenced product resolves its first variant",
			entities: assistant.Entities{ContextReference: true},
			lastIDs:  []string{"prod_9"},
			canned: map[string]*assistant.ToolResults{
				"ProductDetail": withData(&commerce.Product{ID: "prod_9", Variants: []commerce.Variant{{ID: "var_9"}}}),
				"AddToCart":     withData(&tools.CartAddData{CartID: "cart_x"}),
			},
			want:   []string{"ProductDetail[prod_9]", "AddToCart[ var_9 1]"},
			wantOK: true,
		},
		{
			name:     "referenced product without variants fails",
			entities: assistant.Entities{ProductID: "prod_empty"},
			canned: map[string]*assistant.ToolResults{
				"ProductDetail": withData(&commerce.Product{ID: "prod_empty"}),
			},
			want:   []string{"ProductDetail[prod_empty]"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeTools()
			for k, v := range tt.canned {
				f.canned[k] = v
			}
			in := input("thêm vào giỏ")
			in.Session.LastProductIDs = tt.lastIDs

			out := run(f, in, tt.entities, assistant.ToolCartAdd)

			assert.Equal(t, tt.want, f.calls)
			assert.Equal(t, tt.wantOK, out.Results.OK)
		})
	}
}

func TestMissingEntities(t *testing.T) {
	tests := []struct {
		tool    string
		wantErr string
	}{
		{assistant.ToolCartView, "Missing cart_id"},
		{assistant.ToolOrderReorder, "Missing order_id"},
		{assistant.ToolOrderCancel, "Missing order_id"},
		{assistant.ToolStaffOrderHistory, "Missing customer_id"},
		{assistant.ToolStaffCreateOrder, "Missing customer_id"},
		{assistant.ToolStaffLookupOrder, "Missing order_id"},
		{assistant.ToolStaffUpdateOrder, "Missing order_id"},
		{assistant.ToolStaffPrintLabel, "Missing order_id"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			f := newFakeTools()
			out := run(f, input("làm đi"), assistant.Entities{}, tt.tool)

			assert.False(t, out.Results.OK)
			assert.Equal(t, []string{tt.wantErr}, out.Results.Errors)
			assert.Empty(t, f.calls)
		})
	}
}

func TestFailuresDoNotStopLaterTools(t *testing.T) {
	f := newFakeTools()
	f.canned["SalesReport"] = failure("commerce down")
	f.canned["TopProducts"] = withData([]tools.ProductSales{{Title: "Tee", Quantity: 3}})
	f.panicOn = "CustomerAnalytics"

	out := run(f, input("báo cáo"), assistant.Entities{},
		assistant.ToolReportSales, assistant.ToolCustomerAnalytics, assistant.ToolTopProducts, "report.unknown")

	require.Len(t, f.calls, 3)
	assert.False(t, out.Results.OK)
	assert.Equal(t, []string{"commerce down", "tool exploded", "Unknown tool: report.unknown"}, out.Results.Errors)
	assert.Equal(t, []tools.ProductSales{{Title: "Tee", Quantity: 3}}, out.Results.Data)
}

func TestUnknownToolKeepsOK(t *testing.T) {
	out := run(newFakeTools(), input("x"), assistant.Entities{}, "weather.today")
	assert.True(t, out.Results.OK)
	assert.Equal(t, []string{"Unknown tool: weather.today"}, out.Results.Errors)
}

func TestProductDetail(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		entities   assistant.Entities
		lastIDs    []string
		want       []string
		wantQuery  string
		wantFailed bool
	}{
		{
			name:     "explicit id",
			entities: assistant.Entities{ProductID: "prod_1"},
			lastIDs:  []string{"prod_2"},
			want:     []string{"ProductDetail[prod_1]"},
		},
		{
			name:    "most recent product from context",
			text:    "cho tôi xem chi tiết cái này",
			lastIDs: []string{"prod_2", "prod_3"},
			want:    []string{"ProductDetail[prod_2]"},
		},
		{
			name:      "falls back to a one-hit search",
			text:      "Cho tôi xem chi tiết áo hoodie",
			want:      []string{"SearchProducts[áo hoodie 1 false]"},
			wantQuery: "áo hoodie",
		},
		{
			name:       "nothing to go on",
			text:       "xem chi tiết",
			wantQuery:  "sản phẩm bạn cần",
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeTools()
			in := input(tt.text)
			in.Session.LastProductIDs = tt.lastIDs

			out := run(f, in, tt.entities, assistant.ToolProductDetail)

			if tt.want == nil {
				assert.Empty(t, f.calls)
			} else {
				assert.Equal(t, tt.want, f.calls)
			}
			assert.Equal(t, tt.wantQuery, out.Entities.ProductQuery)
			assert.Equal(t, !tt.wantFailed, out.Results.OK)
		})
	}
}

func TestOrderTrackWithoutIDListsOrders(t *testing.T) {
	f := newFakeTools()
	in := input("đơn hàng của tôi đâu")
	in.CustomerID = "cus_1"

	run(f, in, assistant.Entities{}, assistant.ToolOrderTrack)
	run(f, in, assistant.Entities{OrderID: "1024"}, assistant.ToolOrderTrack)

	assert.Equal(t, []string{"ListOrders[cus_1]", "LookupOrder[1024]"}, f.calls)
}

func TestStaffCustomerLookupPrefersEmail(t *testing.T) {
	f := newFakeTools()
	run(f, input("tìm khách an@shop.vn"), assistant.Entities{CustomerEmail: "an@shop.vn", CustomerQuery: "an"}, assistant.ToolStaffCustomer)
	run(f, input("tìm khách"), assistant.Entities{}, assistant.ToolStaffCustomer)

	assert.Equal(t, []string{"LookupCustomer[an@shop.vn]", "LookupCustomer[tìm khách]"}, f.calls)
}
