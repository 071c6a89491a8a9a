// Package fallback answers a message without the agent pipeline: keyword
// intent, a read-only product search and a fixed reply. It is used when the
// pipeline is disabled or fails.
package fallback

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant/response"
	"shop-chatbot-be/pkg/commerce"
)

const (
	IntentOrderTracking  = "order_tracking"
	IntentCreateOrder    = "create_order"
	IntentProductInquiry = "product_inquiry"
	IntentGeneral        = "general"

	ActionShowProducts     = "show_products"
	ActionRequestOrderInfo = "request_order_info"
	ActionGuideToCart      = "guide_to_cart"

	maxProducts     = 5
	maxListed       = 3
	maxKeywordCount = 2
)

var (
	orderKeywords   = []string{"đơn hàng", "order", "giao hàng", "shipping", "tracking"}
	buyKeywords     = []string{"mua", "đặt", "thêm vào giỏ", "add to cart"}
	productKeywords = []string{"sản phẩm", "product", "có", "còn", "giá", "price", "tìm", "search"}

	stopWords = map[string]bool{
		"thông": true, "tin": true, "sản": true, "phẩm": true, "giá": true, "có": true,
		"không": true, "mua": true, "đặt": true, "hàng": true, "thêm": true, "vào": true,
		"với": true, "cho": true, "mình": true, "tôi": true, "bạn": true, "xem": true,
		"chi": true, "tiết": true, "cần": true, "giúp": true, "tìm": true, "tư": true,
		"vấn": true, "ngay": true, "khi": true, "nào": true, "còn": true,
	}

	searchNoise = strings.NewReplacer("có", "", "không", "", "?", "")
)

// ProductSearcher is the read-only part of the commerce client.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string, limit int, regionID string) ([]commerce.Product, error)
}

type RegionSource interface {
	RegionID(ctx context.Context) (string, error)
}

// DetectIntent is a first-match keyword check; order words win over buy
// words, which win over product words.
func DetectIntent(message string) string {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, orderKeywords):
		return IntentOrderTracking
	case containsAny(lower, buyKeywords):
		return IntentCreateOrder
	case containsAny(lower, productKeywords):
		return IntentProductInquiry
	default:
		return IntentGeneral
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ExtractKeywords drops stop words and keeps at most the last two tokens,
// preferring capitalised ones (brand and model names). Empty when nothing is
// left.
func ExtractKeywords(message string) string {
	tokens := strings.FieldsFunc(message, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var kept, capitalised []string
	for _, tok := range tokens {
		if stopWords[strings.ToLower(tok)] {
			continue
		}
		kept = append(kept, tok)
		if strings.IndexFunc(tok, unicode.IsUpper) >= 0 {
			capitalised = append(capitalised, tok)
		}
	}
	if len(capitalised) > 0 {
		kept = capitalised
	}
	if len(kept) > maxKeywordCount {
		kept = kept[len(kept)-maxKeywordCount:]
	}
	return strings.Join(kept, " ")
}

type Responder struct {
	products ProductSearcher
	regions  RegionSource
	logger   logger.ILogger
}

// NewResponder builds a responder. regions may be nil.
func NewResponder(products ProductSearcher, regions RegionSource, log logger.ILogger) *Responder {
	return &Responder{products: products, regions: regions, logger: log}
}

// Reply answers message. It never fails: search errors read as no results.
func (r *Responder) Reply(ctx context.Context, sessionID, message, language string) (response.Reply, string) {
	intent := DetectIntent(message)
	reply := response.Reply{
		SessionID:    sessionID,
		Products:     []response.Product{},
		QuickReplies: []response.QuickReply{},
		Metadata:     map[string]any{"intent": intent, "fallback": true},
	}
	en := language == "en"

	switch intent {
	case IntentProductInquiry:
		found := r.search(ctx, message)
		if len(found) > maxProducts {
			found = found[:maxProducts]
		}
		if len(found) == 0 {
			reply.Text = pick(en, msgNotFoundEN, msgNotFoundVI)
			break
		}
		reply.Products = response.ProductCards(found)
		reply.Text = listProducts(reply.Products, en)
		reply.Action = &response.Action{Type: ActionShowProducts, Payload: map[string]any{"count": len(reply.Products)}}

	case IntentOrderTracking:
		reply.Text = pick(en, msgOrderInfoEN, msgOrderInfoVI)
		reply.Action = &response.Action{Type: ActionRequestOrderInfo, Payload: map[string]any{}}

	case IntentCreateOrder:
		reply.Text = pick(en, msgGuideToCartEN, msgGuideToCartVI)
		reply.Action = &response.Action{Type: ActionGuideToCart, Payload: map[string]any{}}

	default:
		reply.Text = pick(en, msgGreetingEN, msgGreetingVI)
	}
	return reply, intent
}

func (r *Responder) search(ctx context.Context, message string) []commerce.Product {
	terms := strings.TrimSpace(searchNoise.Replace(message))
	found := r.query(ctx, terms)
	if len(found) > 0 {
		return found
	}
	if keywords := ExtractKeywords(message); keywords != "" && keywords != terms {
		r.logger.Info("Fallback", "Retrying search with keywords", map[string]interface{}{"query": keywords})
		return r.query(ctx, keywords)
	}
	return nil
}

func (r *Responder) query(ctx context.Context, q string) []commerce.Product {
	if q == "" || r.products == nil {
		return nil
	}
	regionID := ""
	if r.regions != nil {
		if id, err := r.regions.RegionID(ctx); err == nil {
			regionID = id
		}
	}
	found, err := r.products.SearchProducts(ctx, q, maxProducts, regionID)
	if err != nil {
		r.logger.Warn("Fallback", "Product search failed", map[string]interface{}{"query": q, "error": err.Error()})
		return nil
	}
	return found
}

func listProducts(products []response.Product, en bool) string {
	var b strings.Builder
	if en {
		fmt.Fprintf(&b, "I found %d matching products:", len(products))
	} else {
		fmt.Fprintf(&b, "Mình tìm thấy %d sản phẩm phù hợp:", len(products))
	}
	for i, p := range products {
		if i == maxListed {
			break
		}
		price := p.Price
		if price == "" {
			price = "N/A"
		}
		fmt.Fprintf(&b, "\n- %s - %s", p.Title, price)
	}
	return b.String()
}

func pick(en bool, enText, viText string) string {
	if en {
		return enText
	}
	return viText
}

const (
	msgNotFoundVI    = "Xin lỗi, mình chưa tìm thấy sản phẩm phù hợp. Bạn thử mô tả theo cách khác nhé!"
	msgNotFoundEN    = "Sorry, I couldn't find a matching product. Could you describe it differently?"
	msgOrderInfoVI   = "Để tra cứu đơn hàng, bạn vui lòng cung cấp mã đơn hàng và email đặt hàng nhé."
	msgOrderInfoEN   = "To track an order, please send me the order number and the email used to place it."
	msgGuideToCartVI = "Bạn hãy thêm sản phẩm vào giỏ hàng rồi tiến hành thanh toán nhé. Mình có thể giúp bạn tìm sản phẩm!"
	msgGuideToCartEN = "Add the products you want to your cart, then proceed to checkout. I can help you find products!"
	msgGreetingVI    = "Xin chào! Mình có thể giúp bạn tìm sản phẩm, tra cứu đơn hàng hoặc hướng dẫn đặt hàng."
	msgGreetingEN    = "Hello! I can help you find products, track orders or place an order."
)
