package agent

import (
	"context"

	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/intent"
)

var managerGroups = intent.GroupsWithPrefix("MANAGER.")

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

func (a *Manager) Name() string { return "manager" }

func (a *Manager) CanHandle(name string) bool {
	return handles(name,
		assistant.IntentManagerReportSales, assistant.IntentManagerReportChatbot, assistant.IntentManagerConfigUpdate)
}

func (a *Manager) Process(ctx context.Context, in assistant.ProcessedInput, ir *assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult) {
	var res assistant.IntentResult
	if ir != nil {
		res = *ir
	}
	if !in.Role.IsManager() {
		return plan(StepDenyAccess), res
	}
	if ir == nil {
		res = scopedClassify(in.CleanedText, managerGroups, "MANAGER.REPORT_SALES")
	}

	switch res.Intent {
	case assistant.IntentManagerReportSales:
		return plan("show_sales_report", assistant.ToolReportSales), res
	case assistant.IntentManagerReportChatbot:
		return plan("show_chatbot_stats", assistant.ToolReportChatbot), res
	case assistant.IntentManagerConfigUpdate:
		return plan("confirm_config_update", assistant.ToolUpdateConfig), res
	}
	return assistant.ActionPlan{}, res
}
