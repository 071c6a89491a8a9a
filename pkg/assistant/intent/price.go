package intent

import (
	"regexp"
	"strconv"
	"strings"

	"shop-chatbot-be/pkg/assistant"
)

const priceValue = `(\d+[.,\d]*\s*(?:k|tr|triệu|nghìn|m)?)`

var (
	priceRangeRe = regexp.MustCompile(`từ\s+` + priceValue + `\s+(?:đến|tới|-)\s+` + priceValue)
	priceOverRe  = regexp.MustCompile(`(?:trên|lớn hơn|cao hơn|>)\s+` + priceValue)
	priceUnderRe = regexp.MustCompile(`(?:dưới|nhỏ hơn|thấp hơn|<)\s+` + priceValue)
	digitRun     = regexp.MustCompile(`\d+`)
)

// ParsePriceValue reads "500k", "1tr", "2 triệu", "300.000" as VND.
// Separators are dropped before the unit is applied.
func ParsePriceValue(raw string) int64 {
	v := strings.ToLower(raw)
	v = strings.NewReplacer(",", "", ".", "").Replace(v)

	var multiplier int64 = 1
	switch {
	case strings.Contains(v, "k") || strings.Contains(v, "nghìn"):
		multiplier = 1_000
	case strings.Contains(v, "tr") || strings.Contains(v, "triệu") || strings.Contains(v, "m"):
		multiplier = 1_000_000
	}

	num := digitRun.FindString(v)
	if num == "" {
		return 0
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0
	}
	return n * multiplier
}

// ExtractPriceCondition finds "từ X đến Y", "trên X", "dưới Y" or both bounds.
func ExtractPriceCondition(text string) *assistant.PriceCondition {
	t := strings.ToLower(text)

	if m := priceRangeRe.FindStringSubmatch(t); m != nil {
		return &assistant.PriceCondition{
			Operator: assistant.PriceRange,
			Min:      ParsePriceValue(m[1]),
			Max:      ParsePriceValue(m[2]),
		}
	}

	var (
		min, max       int64
		hasMin, hasMax bool
	)
	if m := priceOverRe.FindStringSubmatch(t); m != nil {
		min, hasMin = ParsePriceValue(m[1]), true
	}
	if m := priceUnderRe.FindStringSubmatch(t); m != nil {
		max, hasMax = ParsePriceValue(m[1]), true
	}

	switch {
	case hasMin && hasMax:
		return &assistant.PriceCondition{Operator: assistant.PriceRange, Min: min, Max: max}
	case hasMin:
		return &assistant.PriceCondition{Operator: assistant.PriceGreaterThan, Value: min}
	case hasMax:
		return &assistant.PriceCondition{Operator: assistant.PriceLessThan, Value: max}
	}
	return nil
}

func stripPriceConditions(s string) string {
	for _, re := range []*regexp.Regexp{priceRangeRe, priceUnderRe, priceOverRe} {
		s = re.ReplaceAllString(s, " ")
	}
	return s
}
