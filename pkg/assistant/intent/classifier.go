// Package intent is the rule-based classifier: keyword tables, boosts and
// entity extraction. It never calls out to a model.
package intent

import (
	"sort"
	"strings"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"
)

type Classifier struct {
	logger logger.ILogger
}

func NewClassifier(log logger.ILogger) *Classifier {
	return &Classifier{logger: log}
}

// MatchScore counts whole-token phrase hits: 2 for multi-word phrases, 1 otherwise.
func MatchScore(text string, phrases []string) int {
	t := " " + strings.ToLower(text) + " "
	score := 0
	for _, p := range phrases {
		if strings.Contains(t, " "+p+" ") {
			if len(strings.Fields(p)) > 1 {
				score += 2
			} else {
				score++
			}
		}
	}
	return score
}

// Table returns the keyword table for a language; anything but "en" is Vietnamese.
func Table(language string) []KeywordGroup {
	if language == "en" {
		return enKeywords
	}
	return viKeywords
}

// GroupsWithPrefix filters the Vietnamese table, e.g. "STAFF." for scoped routing.
func GroupsWithPrefix(prefix string) []KeywordGroup {
	var out []KeywordGroup
	for _, g := range viKeywords {
		if strings.HasPrefix(g.Key, prefix) {
			out = append(out, g)
		}
	}
	return out
}

type scoredKey struct {
	key   string
	score int
}

func score(text string, table []KeywordGroup) []scoredKey {
	scores := make([]scoredKey, len(table))
	for i, g := range table {
		scores[i] = scoredKey{key: g.Key, score: MatchScore(text, g.Phrases)}
	}
	return scores
}

// ranked sorts highest first; ties keep table order.
func ranked(scores []scoredKey) []scoredKey {
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	return scores
}

// BestKey is the top group of table for text, or "" when nothing matched.
func BestKey(text string, table []KeywordGroup) string {
	r := ranked(score(text, table))
	if len(r) == 0 || r[0].score == 0 {
		return ""
	}
	return r[0].key
}

// Classify scores the cleaned text and extracts entities for the winning intent.
func (c *Classifier) Classify(in assistant.ProcessedInput) assistant.IntentResult {
	text := in.CleanedText
	lower := strings.ToLower(text)

	scores := score(text, Table(in.Language))

	boost := func(key string, n int) {
		for i := range scores {
			if scores[i].key == key {
				scores[i].score += n
				return
			}
		}
	}

	for _, p := range recommendPhrases {
		if strings.Contains(lower, p) {
			boost("PRODUCT.RECOMMEND", recommendBonus)
			break
		}
	}
	if HasContextReference(lower) {
		boost("PRODUCT.DETAIL", contextReferenceBonus)
	}
	if strings.HasPrefix(strings.TrimSpace(lower), "tìm") || strings.Contains(lower, "tìm cho") {
		boost("PRODUCT.SEARCH", searchVerbBonus)
	}
	if strings.Contains(lower, "thêm") || strings.Contains(lower, "mua") {
		boost("CART.ADD", cartVerbBonus)
	}

	scores = ranked(scores)

	topKey, topScore := "UNKNOWN", 0
	if len(scores) > 0 {
		topKey, topScore = scores[0].key, scores[0].score
	}

	res := assistant.IntentResult{
		Intent:     IntentName(topKey),
		Confidence: confidenceFor(topScore),
	}
	if len(scores) > 1 && scores[1].score >= 2 {
		res.SubIntent = IntentName(scores[1].key)
	}
	res.Entities = ExtractEntities(res.Intent, text)

	c.logger.Info("IntentClassifier", "Intent classified", map[string]interface{}{
		"intent":     res.Intent,
		"sub_intent": res.SubIntent,
		"confidence": res.Confidence,
		"top_key":    topKey,
		"top_score":  topScore,
	})
	return res
}

func confidenceFor(score int) float64 {
	switch {
	case score >= 4:
		return 0.95
	case score >= 3:
		return 0.85
	case score >= 2:
		return 0.70
	case score >= 1:
		return 0.50
	default:
		return 0.30
	}
}
