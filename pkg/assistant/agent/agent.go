// Package agent holds the specialised planners the orchestrator routes to.
// Each agent turns an intent into an action plan for its own domain and can
// classify a message itself when the user has scoped the conversation to it.
package agent

import (
	"context"

	"shop-chatbot-be/pkg/assistant"
)

// Next steps shared by several agents.
const (
	StepDenyAccess = "deny_access"
	StepGreet      = "response.greet"
)

type Agent interface {
	Name() string
	CanHandle(intent string) bool
	// Process plans for intent. A nil intent means the agent classifies the
	// message within its own scope. The returned IntentResult is the one the
	// plan was built from, including any entities the agent filled in.
	Process(ctx context.Context, in assistant.ProcessedInput, intent *assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult)
}

func plan(next string, tools ...string) assistant.ActionPlan {
	return assistant.ActionPlan{Tools: tools, NextStep: next}
}

func ask(next string, required ...string) assistant.ActionPlan {
	return assistant.ActionPlan{RequiredData: required, NextStep: next}
}

func handles(intent string, names ...string) bool {
	for _, n := range names {
		if n == intent {
			return true
		}
	}
	return false
}
