package agent

import (
	"context"

	"shop-chatbot-be/pkg/assistant"
)

var salesIntents = []string{
	assistant.IntentProductInquiry, assistant.IntentProductDetail, assistant.IntentProductRecommend,
	assistant.IntentCartView, assistant.IntentCartAdd, assistant.IntentCartRemove, assistant.IntentCartUpdate,
	assistant.IntentCheckout, assistant.IntentAccountLogin, assistant.IntentAccountRegister,
	assistant.IntentFAQShipping, assistant.IntentFAQPayment, assistant.IntentFAQPromo, assistant.IntentFAQReturn,
	assistant.IntentHumanEscalation, assistant.IntentThankYou, assistant.IntentGoodbye,
	assistant.IntentGeneral,
}

// replySteps are intents answered by a template alone.
var replySteps = map[string]string{
	assistant.IntentAccountLogin:    "response.login_link",
	assistant.IntentAccountRegister: "response.register_link",
	assistant.IntentCheckout:        "response.checkout_link",
	assistant.IntentFAQShipping:     "response.faq_shipping",
	assistant.IntentFAQPayment:      "response.faq_payment",
	assistant.IntentFAQPromo:        "response.faq_promo",
	assistant.IntentFAQReturn:       "response.policy_return",
	assistant.IntentThankYou:        "response.thank_you",
	assistant.IntentGoodbye:         "response.goodbye",
	assistant.IntentGeneral:         StepGreet,
}

// Sales is the default agent: products, cart and storefront questions. It
// always produces a plan, which is what lets the orchestrator fall back to it.
type Sales struct{}

func NewSales() *Sales { return &Sales{} }

func (a *Sales) Name() string { return "sales" }

func (a *Sales) CanHandle(intent string) bool { return handles(intent, salesIntents...) }

func (a *Sales) Process(ctx context.Context, in assistant.ProcessedInput, intent *assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult) {
	res := assistant.IntentResult{Intent: assistant.IntentGeneral, Confidence: 0.5}
	if intent != nil {
		res = *intent
	}
	ent := &res.Entities

	switch res.Intent {
	case assistant.IntentProductInquiry:
		if ent.ProductQuery == "" {
			return ask("ask_product_query", "product_query"), res
		}
		return plan("show_product_list", assistant.ToolProductSearch), res

	case assistant.IntentProductDetail:
		if ent.ProductID == "" && len(in.Session.LastProductIDs) > 0 {
			ent.ProductID = in.Session.LastProductIDs[0]
		}
		// the executor searches by name when there is still no id
		return plan("show_product_detail", assistant.ToolProductDetail), res

	case assistant.IntentProductRecommend:
		return plan("show_recommendations", assistant.ToolProductRecommend), res

	case assistant.IntentCartView, assistant.IntentCartUpdate:
		return plan("show_cart", assistant.ToolCartView), res

	case assistant.IntentCartAdd:
		if ent.ProductID == "" && ent.ProductQuery == "" && len(in.Session.LastProductIDs) > 0 {
			ent.ProductID = in.Session.LastProductIDs[0]
		}
		if ent.VariantID == "" && ent.ProductID == "" && ent.ProductQuery == "" {
			return ask("ask_product_to_add", "product_id", "variant_id"), res
		}
		return plan("confirm_add_to_cart", assistant.ToolCartAdd), res

	case assistant.IntentCartRemove:
		return plan("confirm_remove_from_cart", assistant.ToolCartRemove), res

	case assistant.IntentHumanEscalation:
		return plan("escalate_chat", assistant.ToolEscalate), res
	}

	if step, found := replySteps[res.Intent]; found {
		return plan(step), res
	}
	return assistant.ActionPlan{}, res
}
