// Package response turns a routed and executed turn into the reply the
// storefront renders: text, product cards, quick replies and an optional
// client action. Templates answer everything they can; the LLM is asked only
// when no template applies and the tools did not fail.
package response

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/suggestion"
	"shop-chatbot-be/pkg/assistant/tools"
	"shop-chatbot-be/pkg/commerce"
	"shop-chatbot-be/pkg/llm"
)

const (
	ActionAPICall  = "api_call"
	CommandNewCart = "update_cart"
)

type QuickReply struct {
	Label    string         `json:"label"`
	Value    string         `json:"value"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Action asks the client to do something, e.g. switch to a new cart.
type Action struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Reply struct {
	Text         string         `json:"response"`
	SessionID    string         `json:"session_id"`
	Products     []Product      `json:"products"`
	QuickReplies []QuickReply   `json:"quick_replies"`
	Action       *Action        `json:"action,omitempty"`
	Metadata     map[string]any `json:"metadata"`
}

// ProductIDs lists the ids of the product cards, in order.
func (r Reply) ProductIDs() []string {
	ids := make([]string, 0, len(r.Products))
	for _, p := range r.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

type Formatter struct {
	llm    llm.LLMProvider
	tree   *suggestion.Tree
	logger logger.ILogger
	pick   func(n int) int
}

// NewFormatter builds a formatter. provider may be nil, in which case turns
// that would need the LLM get a clarification template.
func NewFormatter(provider llm.LLMProvider, tree *suggestion.Tree, log logger.ILogger) *Formatter {
	return &Formatter{
		llm:    provider,
		tree:   tree,
		logger: log,
		pick:   rand.IntN,
	}
}

// WithPicker replaces the random template choice.
func (f *Formatter) WithPicker(pick func(n int) int) *Formatter {
	f.pick = pick
	return f
}

// Format builds the reply. res is nil when the plan ran no tools.
func (f *Formatter) Format(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult, plan assistant.ActionPlan, res *assistant.ToolResults) Reply {
	f.logger.Info("ResponseFormatter", "Generating response", map[string]interface{}{
		"intent":          ir.Intent,
		"next_step":       plan.NextStep,
		"has_tool_result": res != nil,
	})

	reply := Reply{
		Text:      f.text(ctx, in, ir, plan, res),
		SessionID: in.SessionID,
		Products:  []Product{},
		Metadata:  map[string]any{"intent": ir.Intent},
	}

	if res != nil && res.OK {
		if products := productsOf(res.Data); products != nil {
			reply.Products = products
		}
	}
	reply.QuickReplies = f.quickReplies(in, ir, reply.Products, res)

	if ir.Entities.NewCartID != "" {
		reply.Action = &Action{
			Type:    ActionAPICall,
			Payload: map[string]any{"command": CommandNewCart, "cart_id": ir.Entities.NewCartID},
		}
	}

	f.logger.Info("ResponseFormatter", "Response generated", map[string]interface{}{
		"text_length":   utf8.RuneCountInString(reply.Text),
		"products":      len(reply.Products),
		"quick_replies": len(reply.QuickReplies),
	})
	return reply
}

func (f *Formatter) text(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult, plan assistant.ActionPlan, res *assistant.ToolResults) string {
	switch ir.Intent {
	case assistant.IntentFAQShipping, assistant.IntentFAQPayment, assistant.IntentFAQPromo, assistant.IntentFAQReturn,
		assistant.IntentThankYou, assistant.IntentGoodbye:
		return f.template(ir.Intent, nil)
	}

	if res == nil {
		if key, found := stepTemplates[plan.NextStep]; found {
			return f.template(key, nil)
		}
	}

	ok := res != nil && res.OK
	var data any
	if res != nil {
		data = res.Data
	}

	if add, isAdd := data.(*tools.CartAddData); ok && isAdd {
		return f.template("cart_added", map[string]string{"product": addedTitle(add, ir.Entities)})
	}

	n := 0
	if ok {
		n = count(data)
	}

	switch ir.Intent {
	case assistant.IntentGeneral:
		if !ok {
			return f.template("greeting", nil)
		}

	case assistant.IntentOrderTracking:
		orders := ordersOf(data)
		if ok && len(orders) == 1 {
			return f.template("order_found", orderVars(orders[0]))
		}
		if !ok || len(orders) == 0 {
			ref := ir.Entities.OrderID
			if ref == "" {
				ref = defaultOrderRef
			}
			return f.template("order_not_found", map[string]string{"order_id": ref})
		}

	case assistant.IntentProductInquiry, assistant.IntentProductDetail:
		query := ir.Entities.ProductQuery
		if query == "" {
			query = defaultQuery
		}
		if n > 0 {
			return f.template("product_found", map[string]string{"count": fmt.Sprint(n)})
		}
		return f.template("product_not_found", map[string]string{"query": query})

	case assistant.IntentProductRecommend:
		if n > 0 {
			return f.template("product_recommend", nil)
		}
		return msgNoRecommend

	case assistant.IntentCartAdd:
		if !ok {
			return msgCartAddFailed
		}
	}

	if ok {
		if text, found := f.describe(data); found {
			return text
		}
	}

	if res != nil && !res.OK {
		f.logger.Warn("ResponseFormatter", "Tool execution failed", map[string]interface{}{"errors": res.Errors})
		return msgToolFailed
	}

	return f.generate(ctx, in, ir, res)
}

func addedTitle(add *tools.CartAddData, ent assistant.Entities) string {
	switch {
	case add.ProductTitle != "":
		return add.ProductTitle
	case ent.ProductTitle != "":
		return ent.ProductTitle
	default:
		return "sản phẩm"
	}
}

// generate asks the LLM. Tool data is passed as JSON, truncated.
func (f *Formatter) generate(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult, res *assistant.ToolResults) string {
	if f.llm == nil {
		return f.template("need_clarification", nil)
	}
	f.logger.Info("ResponseFormatter", "Using LLM for response generation", map[string]interface{}{"intent": ir.Intent})

	contextStr := ""
	if res != nil {
		raw, err := json.Marshal(res.Data)
		if err != nil {
			f.logger.Warn("ResponseFormatter", "Tool data not serialisable", map[string]interface{}{"error": err.Error()})
		} else {
			contextStr = "Tool Result: " + truncate(string(raw), maxLLMContextRunes)
		}
	}

	system := systemPrompt(in.Language)
	if curr := currencyOf(res); curr != "" {
		system += fmt.Sprintf("\nLưu ý: Đơn vị tiền tệ đang sử dụng là %s.", curr)
	}

	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf("User Input: %s\nIntent: %s\nContext: %s", in.Text, ir.Intent, contextStr)},
	}

	out, err := f.llm.Chat(ctx, messages, llm.WithTemperature(0.7))
	if err != nil {
		f.logger.Error("ResponseFormatter", "LLM call failed", map[string]interface{}{"error": err.Error()})
		if strings.Contains(err.Error(), "429") {
			return msgQuotaExceeded
		}
		return f.template("error_generic", nil)
	}
	if strings.TrimSpace(out) == "" {
		return f.template("need_clarification", nil)
	}
	return out
}

func (f *Formatter) quickReplies(in assistant.ProcessedInput, ir assistant.IntentResult, products []Product, res *assistant.ToolResults) []QuickReply {
	replies := []QuickReply{}

	if len(products) > 0 {
		first := products[0]
		buy := QuickReply{Label: "Mua ngay", Value: "Đặt hàng " + first.Title, Metadata: map[string]any{"type": "action"}}
		if len(first.Variants) > 0 {
			buy.Metadata["tag"] = fmt.Sprintf("action:cart.add_item?product_id=%s&variant_id=%s", first.ID, first.Variants[0].ID)
		}
		replies = append(replies,
			buy,
			QuickReply{Label: "Xem chi tiết", Value: "Chi tiết " + first.Title, Metadata: map[string]any{"type": "action"}},
		)
	}

	for _, s := range f.tree.Suggest(in.Role, in.Tag, ir.Intent) {
		value := s.Value
		if value == "" {
			value = s.Tag
		}
		if value == "" {
			value = s.ID
		}
		meta := map[string]any{"type": s.Type, "id": s.ID}
		if s.Tag != "" {
			meta["tag"] = s.Tag
		}
		replies = append(replies, QuickReply{Label: s.Label, Value: value, Metadata: meta})
	}

	if res != nil && res.OK {
		if orders, isList := res.Data.([]commerce.Order); isList {
			for i, o := range orders {
				if i == maxOrderReplies {
					break
				}
				label := o.ID
				if o.DisplayID != 0 {
					label = fmt.Sprint(o.DisplayID)
				}
				replies = append(replies, QuickReply{
					Label:    "Đơn #" + label,
					Value:    "Tra cứu đơn hàng " + o.ID,
					Metadata: map[string]any{"type": "action"},
				})
			}
		}
	}
	return replies
}

func (f *Formatter) template(key string, vars map[string]string) string {
	options, found := templates[key]
	if !found {
		options = templates["need_clarification"]
	}
	return fill(options[f.pick(len(options))], vars)
}

func currencyOf(res *assistant.ToolResults) string {
	if res == nil || !res.OK {
		return ""
	}
	switch d := res.Data.(type) {
	case []commerce.Product:
		for _, p := range d {
			if price, priced := p.MinPrice(); priced {
				return strings.ToUpper(price.CurrencyCode)
			}
		}
	case *commerce.Cart:
		if d != nil {
			return strings.ToUpper(d.CurrencyCode)
		}
	case []commerce.Order:
		if len(d) > 0 {
			return strings.ToUpper(d[0].CurrencyCode)
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "...(truncated)"
}
