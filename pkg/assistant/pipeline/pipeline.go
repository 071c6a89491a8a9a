// Package pipeline runs one chat turn through every assistant stage:
// normalize, classify, route, execute and format.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/executor"
	"shop-chatbot-be/pkg/assistant/normalizer"
	"shop-chatbot-be/pkg/assistant/response"
)

type Normalizer interface {
	Run(ctx context.Context, req normalizer.Request) assistant.ProcessedInput
}

type Classifier interface {
	Classify(in assistant.ProcessedInput) assistant.IntentResult
}

type Router interface {
	Route(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult) (assistant.ActionPlan, assistant.IntentResult)
}

type Runner interface {
	Run(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult, plan assistant.ActionPlan) executor.Outcome
}

type Formatter interface {
	Format(ctx context.Context, in assistant.ProcessedInput, ir assistant.IntentResult, plan assistant.ActionPlan, res *assistant.ToolResults) response.Reply
}

// Result is a finished turn.
type Result struct {
	Reply  response.Reply
	Intent string
}

type Pipeline struct {
	normalizer Normalizer
	classifier Classifier
	router     Router
	runner     Runner
	formatter  Formatter
	logger     logger.ILogger
}

func New(n Normalizer, c Classifier, r Router, x Runner, f Formatter, log logger.ILogger) *Pipeline {
	return &Pipeline{
		normalizer: n,
		classifier: c,
		router:     r,
		runner:     x,
		formatter:  f,
		logger:     log,
	}
}

// Run handles one message. A panic in any stage is returned as an error so
// the caller can fall back.
func (p *Pipeline) Run(ctx context.Context, req normalizer.Request) (res Result, err error) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("assistant pipeline panic: %v", r)
		}
	}()

	in := p.normalizer.Run(ctx, req)
	p.logger.Info("Pipeline", "Input processed", map[string]interface{}{
		"session_id": in.SessionID,
		"language":   in.Language,
		"role":       in.Role,
	})

	ir := p.classifier.Classify(in)
	p.logger.Info("Pipeline", "Intent classified", map[string]interface{}{
		"intent":     ir.Intent,
		"confidence": ir.Confidence,
	})

	plan, ir := p.router.Route(ctx, in, ir)
	p.logger.Info("Pipeline", "Plan ready", map[string]interface{}{
		"tools":     plan.Tools,
		"next_step": plan.NextStep,
		"intent":    ir.Intent,
	})

	outcome := p.runner.Run(ctx, in, ir, plan)
	ir.Entities = outcome.Entities
	if outcome.NewCartID != "" {
		ir.Entities.NewCartID = outcome.NewCartID
	}
	in.Session.CartID = outcome.CartID
	if outcome.Results != nil {
		if outcome.Results.OK {
			p.logger.Info("Pipeline", "Tools succeeded", map[string]interface{}{"timings_ms": outcome.Results.TimingsMs})
		} else {
			p.logger.Warn("Pipeline", "Tools failed", map[string]interface{}{"errors": outcome.Results.Errors})
		}
	}

	reply := p.formatter.Format(ctx, in, ir, plan, outcome.Results)
	p.logger.Info("Pipeline", "Turn complete", map[string]interface{}{
		"session_id": in.SessionID,
		"intent":     ir.Intent,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return Result{Reply: reply, Intent: ir.Intent}, nil
}
