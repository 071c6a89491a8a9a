package normalizer

import (
	"context"
	"regexp"
	"strings"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
)

const vietnameseMarks = "ăâêôơưđáàảãạấầẩẫậắằẳẵặéèẻẽẹếềểễệíìỉĩịóòỏõọốồổỗộớờởỡợúùủũụứừửữựýỳỷỹỵ"

var (
	spaceRun       = regexp.MustCompile(`\s+`)
	englishMarkers = []string{" the ", " and ", " price ", " order ", " product ", " hello "}
)

// Clean trims and collapses whitespace, keeping diacritics and punctuation.
func Clean(text string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
}

// DetectLanguage is a cheap vi/en guess; Vietnamese is the default market.
func DetectLanguage(text string) string {
	t := strings.ToLower(text)
	if strings.ContainsAny(t, vietnameseMarks) {
		return "vi"
	}
	for _, w := range englishMarkers {
		if strings.Contains(t, w) {
			return "en"
		}
	}
	return "vi"
}

// HistoryReader loads the recent turns of a session (oldest to newest) plus the
// product ids recorded in their metadata. Product ids of the most recent turn
// come first so index 0 is the first product the user saw last.
type HistoryReader interface {
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]assistant.Turn, []string, error)
}

// Request is the transport-neutral chat request.
type Request struct {
	SessionID  string
	CustomerID string
	Message    string
	Tag        string
	Language   string
	Role       assistant.Role
	CartID     string
}

// Processor turns a Request into a ProcessedInput.
type Processor struct {
	history      HistoryReader
	historyLimit int
	logger       logger.ILogger
}

func NewProcessor(history HistoryReader, historyLimit int, log logger.ILogger) *Processor {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Processor{history: history, historyLimit: historyLimit, logger: log}
}

func (p *Processor) Run(ctx context.Context, req Request) assistant.ProcessedInput {
	cleaned := Clean(req.Message)
	lang := req.Language
	if lang == "" {
		lang = DetectLanguage(cleaned)
	}

	role := req.Role
	if role == "" {
		role = assistant.RoleGuest
		if req.CustomerID != "" {
			role = assistant.RoleCustomer
		}
	}

	session := p.loadSession(ctx, req.SessionID)
	// the client owns the cart
	if req.CartID != "" && req.CartID != session.CartID {
		p.logger.Info("InputProcessor", "Syncing cart id from client", map[string]interface{}{
			"session_id": req.SessionID,
			"cart_id":    req.CartID,
		})
		session.CartID = req.CartID
	}

	p.logger.Info("InputProcessor", "Input processed", map[string]interface{}{
		"session_id": req.SessionID,
		"language":   lang,
		"role":       role,
		"tag":        req.Tag,
		"history":    len(session.LastMessages),
	})

	return assistant.ProcessedInput{
		SessionID:   req.SessionID,
		CustomerID:  req.CustomerID,
		Text:        req.Message,
		CleanedText: cleaned,
		Language:    lang,
		Role:        role,
		Tag:         req.Tag,
		Session:     session,
	}
}

func (p *Processor) loadSession(ctx context.Context, sessionID string) assistant.SessionContext {
	var session assistant.SessionContext
	if p.history == nil || sessionID == "" {
		return session
	}
	turns, productIDs, err := p.history.RecentTurns(ctx, sessionID, p.historyLimit)
	if err != nil {
		// history is best effort
		p.logger.Error("InputProcessor", "Session context fetch failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return session
	}
	session.LastMessages = turns
	session.LastProductIDs = dedupe(productIDs)
	return session
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
