// Package executor runs an action plan's tools in order and folds their
// results into one aggregate.
package executor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/tools"
	"shop-chatbot-be/pkg/commerce"
)

const (
	searchLimit    = 10
	recommendLimit = 5
)

// detailFillers are stripped, in order, from a "show me details" message when
// no product id is known. Longer phrases come first.
var detailFillers = []string{
	"cho tôi xem chi tiết", "cho tôi xem", "xem chi tiết", "chi tiết của",
	"chi tiết", "xem", "tôi muốn", "muốn",
}

// Tools is every tool the executor can dispatch to.
type Tools interface {
	ViewCart(ctx context.Context, cartID string) *assistant.ToolResults
	AddToCart(ctx context.Context, cartID, variantID string, quantity int) *assistant.ToolResults
	AddToCartSmart(ctx context.Context, cartID, query string, quantity int) *assistant.ToolResults
	RemoveFromCart(ctx context.Context, cartID, lineItemID string) *assistant.ToolResults

	SearchProducts(ctx context.Context, query string, limit int, cond *assistant.PriceCondition) *assistant.ToolResults
	RecommendProducts(ctx context.Context, limit int) *assistant.ToolResults
	ProductDetail(ctx context.Context, productID string) *assistant.ToolResults
	ProductReviews(ctx context.Context, productID string) *assistant.ToolResults

	LookupOrder(ctx context.Context, orderID string) *assistant.ToolResults
	ListOrders(ctx context.Context, customerID string) *assistant.ToolResults
	CancelOrder(ctx context.Context, orderID string) *assistant.ToolResults
	Reorder(ctx context.Context, cartID, orderID string) *assistant.ToolResults

	CheckStock(ctx context.Context, query string) *assistant.ToolResults
	CheckPrice(ctx context.Context, query string) *assistant.ToolResults
	LookupCustomer(ctx context.Context, query string) *assistant.ToolResults
	CustomerOrderHistory(ctx context.Context, customerID string) *assistant.ToolResults
	CreateDraftOrder(ctx context.Context, customerID string) *assistant.ToolResults
	UpdateOrderStatus(ctx context.Context, orderID, status string) *assistant.ToolResults
	PrintShippingLabel(ctx context.Context, orderID string) *assistant.ToolResults

	SalesReport(ctx context.Context) *assistant.ToolResults
	TopProducts(ctx context.Context) *assistant.ToolResults
	CustomerAnalytics(ctx context.Context) *assistant.ToolResults
	ChatbotStats(ctx context.Context) *assistant.ToolResults

	Escalate(ctx context.Context, sessionID string) *assistant.ToolResults
	Logout(ctx context.Context) *assistant.ToolResults
	UpdateConfig(ctx context.Context, request string) *assistant.ToolResults
}

// Outcome is what a plan run leaves behind. Entities carries whatever the
// tools learned (first search hit, resolved query, new cart id); CartID is
// the cart the session should use from now on.
type Outcome struct {
	Results   *assistant.ToolResults
	Entities  assistant.Entities
	CartID    string
	NewCartID string
}

// state threads context between the tools of one plan.
type state struct {
	in       assistant.ProcessedInput
	entities assistant.Entities
	cartID   string
	newCart  string
	results  *assistant.ToolResults
}

type Executor struct {
	tools  Tools
	logger logger.ILogger
}

func NewExecutor(t Tools, log logger.ILogger) *Executor {
	return &Executor{tools: t, logger: log}
}

// Run executes plan.Tools in order. A plan without tools yields an Outcome
// with nil Results. A failing or panicking tool is recorded and the next tool
// still runs.
func (e *Executor) Run(ctx context.Context, in assistant.ProcessedInput, intent assistant.IntentResult, plan assistant.ActionPlan) Outcome {
	st := &state{
		in:       in,
		entities: intent.Entities,
		cartID:   in.Session.CartID,
	}
	if len(plan.Tools) == 0 {
		return st.outcome()
	}

	st.results = assistant.NewToolResults()
	for _, name := range plan.Tools {
		e.logger.Info("Executor", "Running tool", map[string]interface{}{"tool": name, "session_id": in.SessionID})
		e.runTool(ctx, st, name)
	}
	return st.outcome()
}

func (st *state) outcome() Outcome {
	return Outcome{
		Results:   st.results,
		Entities:  st.entities,
		CartID:    st.cartID,
		NewCartID: st.newCart,
	}
}

func (e *Executor) runTool(ctx context.Context, st *state, name string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Executor", "Tool panicked", map[string]interface{}{"tool": name, "panic": fmt.Sprint(r)})
			st.results.Fail(fmt.Sprint(r))
		}
	}()

	switch name {
	case assistant.ToolCartView:
		if st.cartID == "" {
			st.results.Fail("Missing cart_id")
			return
		}
		st.merge(e.tools.ViewCart(ctx, st.cartID))

	case assistant.ToolCartAdd:
		e.addToCart(ctx, st)

	case assistant.ToolCartRemove:
		if st.cartID == "" {
			st.results.Fail("Missing cart_id")
			return
		}
		item := st.entities.VariantID
		if item == "" {
			item = st.entities.ProductQuery
		}
		st.merge(e.tools.RemoveFromCart(ctx, st.cartID, item))

	case assistant.ToolProductSearch:
		res := e.tools.SearchProducts(ctx, st.productQuery(), searchLimit, st.entities.PriceCondition)
		st.merge(res)
		if products, isList := res.Data.([]commerce.Product); res.OK && isList && len(products) > 0 {
			if variantID := products[0].FirstVariantID(); variantID != "" {
				e.logger.Debug("Executor", "Passing first search hit to later steps", map[string]interface{}{
					"product": products[0].Title, "variant_id": variantID,
				})
				st.entities.VariantID = variantID
				st.entities.ProductTitle = products[0].Title
			}
		}

	case assistant.ToolProductRecommend:
		st.merge(e.tools.RecommendProducts(ctx, recommendLimit))

	case assistant.ToolProductDetail:
		e.productDetail(ctx, st)

	case assistant.ToolProductReviews:
		st.merge(e.tools.ProductReviews(ctx, st.productID()))

	case assistant.ToolOrderTrack:
		if st.entities.OrderID != "" {
			st.merge(e.tools.LookupOrder(ctx, st.entities.OrderID))
			return
		}
		e.logger.Info("Executor", "No order id to track, listing orders", nil)
		st.merge(e.tools.ListOrders(ctx, st.in.CustomerID))

	case assistant.ToolOrderList:
		st.merge(e.tools.ListOrders(ctx, st.in.CustomerID))

	case assistant.ToolOrderCancel:
		if st.requireOrderID() {
			st.merge(e.tools.CancelOrder(ctx, st.entities.OrderID))
		}

	case assistant.ToolOrderReorder:
		if st.requireOrderID() {
			res := e.tools.Reorder(ctx, st.cartID, st.entities.OrderID)
			st.merge(res)
			st.adoptCart(res)
		}

	case assistant.ToolStaffCheckStock:
		st.merge(e.tools.CheckStock(ctx, st.productQuery()))

	case assistant.ToolStaffCheckPrice:
		st.merge(e.tools.CheckPrice(ctx, st.productQuery()))

	case assistant.ToolStaffCustomer:
		query := st.entities.CustomerLookupQuery()
		if query == "" {
			query = st.in.CleanedText
		}
		st.merge(e.tools.LookupCustomer(ctx, query))

	case assistant.ToolStaffOrderHistory:
		if st.entities.CustomerID == "" {
			st.results.Fail("Missing customer_id")
			return
		}
		st.merge(e.tools.CustomerOrderHistory(ctx, st.entities.CustomerID))

	case assistant.ToolStaffCreateOrder:
		if st.in.CustomerID == "" {
			st.results.Fail("Missing customer_id")
			return
		}
		st.merge(e.tools.CreateDraftOrder(ctx, st.in.CustomerID))

	case assistant.ToolStaffLookupOrder:
		if st.requireOrderID() {
			st.merge(e.tools.LookupOrder(ctx, st.entities.OrderID))
		}

	case assistant.ToolStaffUpdateOrder:
		if st.requireOrderID() {
			st.merge(e.tools.UpdateOrderStatus(ctx, st.entities.OrderID, st.entities.Status))
		}

	case assistant.ToolStaffPrintLabel:
		if st.requireOrderID() {
			st.merge(e.tools.PrintShippingLabel(ctx, st.entities.OrderID))
		}

	case assistant.ToolReportSales:
		st.merge(e.tools.SalesReport(ctx))
	case assistant.ToolTopProducts:
		st.merge(e.tools.TopProducts(ctx))
	case assistant.ToolCustomerAnalytics:
		st.merge(e.tools.CustomerAnalytics(ctx))
	case assistant.ToolReportChatbot:
		st.merge(e.tools.ChatbotStats(ctx))

	case assistant.ToolUpdateConfig:
		st.merge(e.tools.UpdateConfig(ctx, st.in.CleanedText))
	case assistant.ToolEscalate:
		st.merge(e.tools.Escalate(ctx, st.in.SessionID))
	case assistant.ToolLogout:
		st.merge(e.tools.Logout(ctx))

	default:
		// unknown tools are reported but do not flip OK
		e.logger.Warn("Executor", "Unknown tool", map[string]interface{}{"tool": name})
		st.results.Errors = append(st.results.Errors, "Unknown tool: "+name)
	}
}

// addToCart picks the most specific way to add: an explicit variant, then a
// smart add by product query, then the first variant of a referenced product.
func (e *Executor) addToCart(ctx context.Context, st *state) {
	qty := st.entities.Quantity
	if qty <= 0 {
		qty = 1
	}

	var res *assistant.ToolResults
	switch {
	case st.entities.VariantID != "":
		res = e.tools.AddToCart(ctx, st.cartID, st.entities.VariantID, qty)
	case st.entities.ProductQuery != "" || st.productID() == "":
		res = e.tools.AddToCartSmart(ctx, st.cartID, st.productQuery(), qty)
	default:
		detail := e.tools.ProductDetail(ctx, st.productID())
		product, isProduct := detail.Data.(*commerce.Product)
		if !detail.OK || !isProduct || product.FirstVariantID() == "" {
			st.merge(detail)
			st.results.Fail("Missing variant_id")
			return
		}
		res = e.tools.AddToCart(ctx, st.cartID, product.FirstVariantID(), qty)
		if data, isAdd := res.Data.(*tools.CartAddData); res.OK && isAdd {
			data.ProductTitle = product.Title
		}
	}

	st.merge(res)
	st.adoptCart(res)
}

func (e *Executor) productDetail(ctx context.Context, st *state) {
	if id := st.productID(); id != "" {
		st.merge(e.tools.ProductDetail(ctx, id))
		return
	}

	query := st.entities.ProductQuery
	if query == "" {
		query = strings.ToLower(st.in.CleanedText)
		for _, filler := range detailFillers {
			query = strings.ReplaceAll(query, filler, "")
		}
		query = strings.TrimSpace(query)
	}

	if utf8.RuneCountInString(query) < 2 {
		st.results.Fail("Missing product_id or query")
		st.entities.ProductQuery = "sản phẩm bạn cần"
		return
	}

	e.logger.Info("Executor", "No product id, searching instead", map[string]interface{}{"query": query})
	st.merge(e.tools.SearchProducts(ctx, query, 1, nil))
	st.entities.ProductQuery = query
}

func (st *state) merge(res *assistant.ToolResults) {
	st.results.Merge(res)
}

// adoptCart switches the session to a cart the tool had to create.
func (st *state) adoptCart(res *assistant.ToolResults) {
	data, isAdd := res.Data.(*tools.CartAddData)
	if !res.OK || !isAdd || !data.NewCartCreated || data.CartID == "" {
		return
	}
	st.cartID = data.CartID
	st.newCart = data.CartID
	st.entities.NewCartID = data.CartID
}

func (st *state) productQuery() string {
	if st.entities.ProductQuery != "" {
		return st.entities.ProductQuery
	}
	return st.in.CleanedText
}

// productID prefers an explicit id, then the most recently shown product.
func (st *state) productID() string {
	if st.entities.ProductID != "" {
		return st.entities.ProductID
	}
	if len(st.in.Session.LastProductIDs) > 0 {
		return st.in.Session.LastProductIDs[0]
	}
	return ""
}

func (st *state) requireOrderID() bool {
	if st.entities.OrderID == "" {
		st.results.Fail("Missing order_id")
		return false
	}
	return true
}
