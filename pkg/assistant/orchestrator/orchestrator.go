// Package orchestrator decides what a turn does: a direct UI action, a
// composite search-then-add, a scoped agent or the agent owning the intent.
package orchestrator

import (
	"context"
	"net/url"
	"strings"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/agent"
)

const (
	actionPrefix = "action:"
	scopePrefix  = "scope:"
	addItemTag   = "cart.add_item"
)

// directAction is a UI button that maps straight to a plan.
type directAction struct {
	tools []string
	next  string
	// minimum role; empty means anyone
	role assistant.Role
}

var directActions = map[string]directAction{
	"view_cart":             {tools: []string{assistant.ToolCartView}, next: "show_cart"},
	"order_list":            {tools: []string{assistant.ToolOrderList}, next: "show_orders"},
	"order_track":           {next: "ask_order_id"},
	"reorder":               {tools: []string{assistant.ToolOrderReorder}, next: "confirm_reorder"},
	"logout":                {tools: []string{assistant.ToolLogout}, next: "confirm_logout"},
	"chat_human":            {tools: []string{assistant.ToolEscalate}, next: "escalate_chat"},
	"my_reviews":            {tools: []string{assistant.ToolProductReviews}, next: "show_reviews"},
	"my_recommendations":    {tools: []string{assistant.ToolProductRecommend}, next: "show_recommendations"},
	"product_search":        {next: "ask_product_query"},
	"check_stock":           {next: "ask_product_name", role: assistant.RoleStaff},
	"check_price":           {next: "ask_product_name", role: assistant.RoleStaff},
	"staff_lookup_order":    {next: "ask_order_id", role: assistant.RoleStaff},
	"staff_customer_lookup": {next: "ask_customer_info", role: assistant.RoleStaff},
	"update_order_status":   {next: "ask_order_id_status", role: assistant.RoleStaff},
	"print_shipping_label":  {next: "ask_order_id", role: assistant.RoleStaff},
	"sales_report":          {tools: []string{assistant.ToolReportSales}, next: "show_report", role: assistant.RoleManager},
	"top_products":          {tools: []string{assistant.ToolTopProducts}, next: "show_top_products", role: assistant.RoleManager},
	"customer_analytics":    {tools: []string{assistant.ToolCustomerAnalytics}, next: "show_analytics", role: assistant.RoleManager},
	"chatbot_stats":         {tools: []string{assistant.ToolReportChatbot}, next: "show_chatbot_stats", role: assistant.RoleManager},
}

func (d directAction) allowed(role assistant.Role) bool {
	switch d.role {
	case assistant.RoleStaff:
		return role.IsStaff()
	case assistant.RoleManager:
		return role.IsManager()
	}
	return true
}

type Orchestrator struct {
	agents []agent.Agent
	sales  agent.Agent
	logger logger.ILogger
}

// New routes to agents in the given order; sales is the default and is
// consulted first.
func New(sales agent.Agent, others []agent.Agent, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		agents: append([]agent.Agent{sales}, others...),
		sales:  sales,
		logger: log,
	}
}

// NewDefault wires the four built-in agents.
func NewDefault(log logger.ILogger) *Orchestrator {
	return New(agent.NewSales(), []agent.Agent{agent.NewOrder(), agent.NewStaff(), agent.NewManager()}, log)
}

// Route returns the plan for this turn together with the intent it was
// built from, which may differ from ir after scoped classification. The
// plan always has tools or a next step.
func (o *Orchestrator) Route(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult) {
	p, res := o.route(ctx, in, ir)
	if p.IsEmpty() {
		o.logger.Warn("Orchestrator", "Empty plan, greeting instead", map[string]interface{}{"intent": res.Intent})
		p.NextStep = agent.StepGreet
	}
	return p, res
}

func (o *Orchestrator) route(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult) {
	o.logger.Info("Orchestrator", "Routing request", map[string]interface{}{"tag": in.Tag, "intent": ir.Intent})

	if action, isAction := strings.CutPrefix(in.Tag, actionPrefix); isAction {
		if p, res, handled := o.direct(in, ir, action); handled {
			return p, res
		}
		o.logger.Warn("Orchestrator", "Unknown direct action", map[string]interface{}{"action": action})
	}

	if isComposite(ir) && ir.Entities.ProductQuery != "" {
		o.logger.Info("Orchestrator", "Composite intent, planning search then add", map[string]interface{}{
			"intent": ir.Intent, "sub_intent": ir.SubIntent,
		})
		return assistant.ActionPlan{
			Tools:    []string{assistant.ToolProductSearch, assistant.ToolCartAdd},
			NextStep: "confirm_add_to_cart",
		}, ir
	}

	if scope, isScope := strings.CutPrefix(in.Tag, scopePrefix); isScope {
		if a := o.agentNamed(scope); a != nil {
			o.logger.Info("Orchestrator", "Scoped routing", map[string]interface{}{"scope": scope})
			return a.Process(ctx, in, nil)
		}
	}

	target := o.sales
	for _, a := range o.agents {
		if a.CanHandle(ir.Intent) {
			target = a
			break
		}
	}

	p, res := target.Process(ctx, in, &ir)
	if p.IsEmpty() && target != o.sales {
		o.logger.Warn("Orchestrator", "Agent returned empty plan, trying sales", map[string]interface{}{"agent": target.Name()})
		return o.sales.Process(ctx, in, &ir)
	}
	return p, res
}

func (o *Orchestrator) direct(in assistant.ProcessedInput, ir assistant.IntentResult, action string) (assistant.ActionPlan, assistant.IntentResult, bool) {
	if query, isAdd := addItemQuery(action); isAdd {
		params, err := url.ParseQuery(query)
		if err != nil {
			o.logger.Error("Orchestrator", "Bad cart.add_item tag", map[string]interface{}{"tag": in.Tag, "error": err.Error()})
			return assistant.ActionPlan{NextStep: "error"}, ir, true
		}
		ir.Entities.ProductID = params.Get("product_id")
		ir.Entities.VariantID = params.Get("variant_id")
		ir.Entities.Quantity = 1
		return assistant.ActionPlan{Tools: []string{assistant.ToolCartAdd}, NextStep: "confirm_add_to_cart"}, ir, true
	}

	d, known := directActions[action]
	if !known {
		return assistant.ActionPlan{}, ir, false
	}
	if !d.allowed(in.Role) {
		return assistant.ActionPlan{NextStep: agent.StepDenyAccess}, ir, true
	}
	return assistant.ActionPlan{Tools: d.tools, NextStep: d.next}, ir, true
}

// addItemQuery matches "cart.add_item" alone or followed by "?query".
func addItemQuery(action string) (string, bool) {
	rest, found := strings.CutPrefix(action, addItemTag)
	if !found {
		return "", false
	}
	if rest == "" {
		return "", true
	}
	return strings.CutPrefix(rest, "?")
}

func (o *Orchestrator) agentNamed(name string) agent.Agent {
	for _, a := range o.agents {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

func isComposite(ir assistant.IntentResult) bool {
	return (ir.Intent == assistant.IntentCartAdd && ir.SubIntent == assistant.IntentProductInquiry) ||
		(ir.Intent == assistant.IntentProductInquiry && ir.SubIntent == assistant.IntentCartAdd)
}
