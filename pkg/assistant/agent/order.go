package agent

import (
	"context"
	"regexp"
	"strings"

	"shop-chatbot-be/pkg/assistant"
)

var scopedOrderIDRe = regexp.MustCompile(`(order_\w+|#\d+|\d{4,})`)

type Order struct{}

func NewOrder() *Order { return &Order{} }

func (a *Order) Name() string { return "order" }

func (a *Order) CanHandle(intent string) bool {
	return handles(intent, assistant.IntentOrderTracking, assistant.IntentOrderCancel, assistant.IntentOrderReturn)
}

func (a *Order) Process(ctx context.Context, in assistant.ProcessedInput, intent *assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult) {
	var res assistant.IntentResult
	if intent != nil {
		res = *intent
	} else {
		res = a.classify(in.CleanedText)
	}

	switch res.Intent {
	case assistant.IntentOrderTracking:
		if res.Entities.OrderID == "" {
			return plan("show_order_list", assistant.ToolOrderList), res
		}
		return plan("show_order_status", assistant.ToolOrderTrack), res

	case assistant.IntentOrderCancel:
		if res.Entities.OrderID == "" {
			return ask("ask_order_id_cancel", "order_id"), res
		}
		return plan("confirm_cancel", assistant.ToolOrderCancel), res

	case assistant.IntentOrderReturn:
		return plan("response.policy_return"), res
	}
	return assistant.ActionPlan{}, res
}

// classify treats everything in the order scope as tracking.
func (a *Order) classify(text string) assistant.IntentResult {
	res := assistant.IntentResult{Intent: assistant.IntentOrderTracking, Confidence: 1.0}
	if m := scopedOrderIDRe.FindString(text); m != "" {
		res.Entities.OrderID = strings.TrimPrefix(m, "#")
	}
	return res
}
