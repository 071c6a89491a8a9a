package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"shop-chatbot-be/pkg/assistant"
)

// RE2 word boundaries are ASCII only, so Vietnamese words get explicit ones.
const (
	lb = `(?:^|[^\p{L}\p{N}_])`
	rb = `(?:[^\p{L}\p{N}_]|$)`
)

var (
	contextReferenceRes = []*regexp.Regexp{
		regexp.MustCompile(lb + `(?:cái|sản phẩm|sp)\s+(?:này|kia|đó|ấy|vừa|trước)`),
		regexp.MustCompile(lb + `(?:đầu tiên|thứ nhất|thứ hai|thứ ba|cuối cùng)`),
		regexp.MustCompile(lb + `nó` + rb),
	}
	detailWordRe  = regexp.MustCompile(lb + `chi tiết` + rb)
	punctuationRe = regexp.MustCompile(`[?,.]`)
	compoundRe    = regexp.MustCompile(lb + `(và|rồi|sau đó)` + rb)
	quantityRe    = regexp.MustCompile(`(\d+)\s*(?:cái|chiếc|con|bộ|món|sản phẩm|sp)`)

	fullOrderIDRe  = regexp.MustCompile(`\b(order_[0-9A-Za-z]+)\b`)
	shortOrderIDRe = regexp.MustCompile(`order[_\s-]?\d[\p{L}\p{N}]*|#\d+|ord[_\s-]?\d+|đơn\s?\d+|\d{4,}`)
	emailRe        = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe        = regexp.MustCompile(`(?:\+?84|0)\d{9,10}`)
	customerIDRe   = regexp.MustCompile(`\b(cus_[0-9A-Za-z]+)\b`)
)

// HasContextReference reports pointers at earlier products ("cái này", "nó", "thứ hai").
func HasContextReference(text string) bool {
	t := strings.ToLower(text)
	for _, re := range contextReferenceRes {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// ExtractProductQuery strips anchors, price phrases, quantities and trailing
// clauses and returns what is left. An empty result means the message refers to context.
func ExtractProductQuery(text string) string {
	if HasContextReference(text) || detailWordRe.MatchString(strings.ToLower(text)) {
		return ""
	}

	s := strings.ToLower(punctuationRe.ReplaceAllString(text, " "))

	// "tìm X và thêm vào giỏ" -> "tìm X"
	if loc := compoundRe.FindStringSubmatchIndex(s); loc != nil {
		s = s[:loc[2]]
	}

	s = stripPriceConditions(s)
	s = quantityRe.ReplaceAllString(s, " ")
	return removeAnchors(s)
}

// removeAnchors drops whole-token anchor phrases, so "tìm" never eats into a
// product name.
func removeAnchors(s string) string {
	padded := " " + strings.Join(strings.Fields(s), " ") + " "
	for _, a := range anchors {
		needle := " " + a + " "
		for strings.Contains(padded, needle) {
			padded = strings.ReplaceAll(padded, needle, " ")
		}
	}
	return strings.Join(strings.Fields(padded), " ")
}

// ExtractQuantity defaults to 1.
func ExtractQuantity(text string) int {
	m := quantityRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// ExtractOrderID prefers a full commerce id (order_XXXX) and falls back to a
// display number such as "#1024" or "đơn 1024".
func ExtractOrderID(text string) string {
	if m := fullOrderIDRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	val := shortOrderIDRe.FindString(strings.ToLower(text))
	if val == "" {
		return ""
	}
	if strings.Contains(val, "order") && strings.Contains(val, "_") {
		return strings.ReplaceAll(val, " ", "")
	}
	return strings.TrimSpace(strings.NewReplacer("#", "", "đơn", "", "order", "", "_", "", "-", "").Replace(val))
}

// ExtractEntities pulls the entities intentName needs out of text.
func ExtractEntities(intentName, text string) assistant.Entities {
	var ent assistant.Entities

	switch intentName {
	case assistant.IntentProductInquiry, assistant.IntentCartAdd, assistant.IntentProductDetail:
		q := ExtractProductQuery(text)
		switch {
		case intentName == assistant.IntentProductDetail && q == "":
			ent.ContextReference = true
		case utf8.RuneCountInString(q) >= 2:
			ent.ProductQuery = q
		}
		ent.Quantity = ExtractQuantity(text)
		ent.PriceCondition = ExtractPriceCondition(text)

	case assistant.IntentOrderTracking, assistant.IntentOrderCancel:
		ent.OrderID = ExtractOrderID(text)

	case assistant.IntentStaffOrderHistory:
		if m := customerIDRe.FindStringSubmatch(text); m != nil {
			ent.CustomerID = m[1]
		}

	case assistant.IntentStaffCheckStock:
		ent.ProductQuery = ExtractProductQuery(text)

	case assistant.IntentStaffCustomerLookup:
		if email := emailRe.FindString(text); email != "" {
			ent.CustomerEmail = email
		} else if phone := phoneRe.FindString(text); phone != "" {
			ent.CustomerPhone = phone
		} else {
			ent.CustomerQuery = ExtractProductQuery(text)
		}
	}
	return ent
}
