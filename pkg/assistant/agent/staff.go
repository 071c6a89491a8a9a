package agent

import (
	"context"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/intent"
)

var staffGroups = intent.GroupsWithPrefix("STAFF.")

// Staff serves store employees. Anyone below staff is refused.
type Staff struct{}

func NewStaff() *Staff { return &Staff{} }

func (a *Staff) Name() string { return "staff" }

func (a *Staff) CanHandle(name string) bool {
	return handles(name,
		assistant.IntentStaffCheckStock, assistant.IntentStaffCustomerLookup,
		assistant.IntentStaffOrderHistory, assistant.IntentStaffCreateOrder)
}

func (a *Staff) Process(ctx context.Context, in assistant.ProcessedInput, ir *assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult) {
	var res assistant.IntentResult
	if ir != nil {
		res = *ir
	}
	if !in.Role.IsStaff() {
		return plan(StepDenyAccess), res
	}
	if ir == nil {
		res = scopedClassify(in.CleanedText, staffGroups, "STAFF.CHECK_STOCK")
	}

	switch res.Intent {
	case assistant.IntentStaffCheckStock:
		if res.Entities.ProductQuery == "" {
			return ask("ask_product_for_stock", "product_query"), res
		}
		return plan("show_stock_level", assistant.ToolStaffCheckStock), res

	case assistant.IntentStaffCustomerLookup:
		if res.Entities.CustomerLookupQuery() == "" {
			return ask("ask_customer_info", "customer_query"), res
		}
		return plan("show_customer_info", assistant.ToolStaffCustomer), res

	case assistant.IntentStaffOrderHistory:
		if res.Entities.CustomerID == "" {
			return ask("ask_customer_id_history", "customer_id"), res
		}
		return plan("show_customer_order_history", assistant.ToolStaffOrderHistory), res

	case assistant.IntentStaffCreateOrder:
		return plan("start_create_order_flow", assistant.ToolStaffCreateOrder), res
	}
	return assistant.ActionPlan{}, res
}

// scopedClassify picks the best group of a scope, or fallback when nothing
// matched, and extracts that intent's entities.
func scopedClassify(text string, groups []intent.KeywordGroup, fallback string) assistant.IntentResult {
	key := intent.BestKey(text, groups)
	if key == "" {
		key = fallback
	}
	name := intent.IntentName(key)
	return assistant.IntentResult{
		Intent:     name,
		Confidence: 1.0,
		Entities:   intent.ExtractEntities(name, text),
	}
}
