package intent

import (
	"testing"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/pkg/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(text, lang string) assistant.IntentResult {
	c := NewClassifier(logger.NewNopLogger())
	return c.Classify(assistant.ProcessedInput{CleanedText: text, Language: lang})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		lang       string
		wantIntent string
		wantConf   float64
	}{
		{name: "greeting", text: "xin chào", lang: "vi", wantIntent: assistant.IntentGeneral, wantConf: 0.85},
		{name: "single keyword", text: "alo", lang: "vi", wantIntent: assistant.IntentGeneral, wantConf: 0.50},
		{name: "nothing matched", text: "zzz", lang: "vi", wantIntent: assistant.IntentGeneral, wantConf: 0.30},
		{name: "search verb boost", text: "tìm áo hoodie dưới 500k", lang: "vi", wantIntent: assistant.IntentProductInquiry, wantConf: 0.95},
		{name: "context reference wins", text: "cho tôi xem chi tiết cái này", lang: "vi", wantIntent: assistant.IntentProductDetail, wantConf: 0.95},
		{name: "recommend boost", text: "gợi ý cho tôi vài sản phẩm", lang: "vi", wantIntent: assistant.IntentProductRecommend, wantConf: 0.95},
		{name: "order tracking", text: "kiểm tra đơn #1024", lang: "vi", wantIntent: assistant.IntentOrderTracking, wantConf: 0.70},
		{name: "english table", text: "view cart", lang: "en", wantIntent: assistant.IntentCartView, wantConf: 0.70},
		{name: "staff stock", text: "check kho áo thun", lang: "vi", wantIntent: assistant.IntentStaffCheckStock, wantConf: 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classify(tt.text, tt.lang)
			assert.Equal(t, tt.wantIntent, res.Intent)
			assert.InDelta(t, tt.wantConf, res.Confidence, 0.001)
		})
	}
}

func TestClassifyEntities(t *testing.T) {
	t.Run("product query and price", func(t *testing.T) {
		res := classify("tìm áo hoodie dưới 500k", "vi")
		assert.Equal(t, "áo hoodie", res.Entities.ProductQuery)
		assert.Equal(t, 1, res.Entities.Quantity)
		require.NotNil(t, res.Entities.PriceCondition)
		assert.Equal(t, assistant.PriceLessThan, res.Entities.PriceCondition.Operator)
		assert.Equal(t, int64(500000), res.Entities.PriceCondition.Value)
	})

	t.Run("context reference", func(t *testing.T) {
		res := classify("cho tôi xem chi tiết cái này", "vi")
		assert.True(t, res.Entities.ContextReference)
		assert.Empty(t, res.Entities.ProductQuery)
	})

	t.Run("display order id", func(t *testing.T) {
		res := classify("kiểm tra đơn #1024", "vi")
		assert.Equal(t, "1024", res.Entities.OrderID)
	})

	t.Run("full order id wins", func(t *testing.T) {
		res := classify("tra cứu order_01ABC", "vi")
		assert.Equal(t, assistant.IntentOrderTracking, res.Intent)
		assert.Equal(t, "order_01ABC", res.Entities.OrderID)
	})
}

func TestExtractProductQuery(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"tìm giày chạy bộ và thêm vào giỏ", "giày chạy bộ"},
		{"tìm kiếm bàn làm việc?", "bàn làm việc"},
		{"có bán áo khoác từ 200k đến 1tr", "áo khoác"},
		{"xem cái này", ""},
		{"nó giá bao nhiêu", ""},
		{"chi tiết áo thun", ""},
		{"mua 3 cái áo sơ mi", "áo sơ mi"},
		{"mua 12sp quần jean", "quần jean"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProductQuery(tt.text))
		})
	}
}

func TestCartAddEntitiesSplitQuantity(t *testing.T) {
	ent := ExtractEntities(assistant.IntentCartAdd, "mua 3 cái áo sơ mi")
	assert.Equal(t, "áo sơ mi", ent.ProductQuery)
	assert.Equal(t, 3, ent.Quantity)
}

func TestExtractEntitiesCustomerLookup(t *testing.T) {
	ent := ExtractEntities(assistant.IntentStaffCustomerLookup, "check info khách an@shop.vn")
	assert.Equal(t, "an@shop.vn", ent.CustomerEmail)
	assert.Equal(t, "an@shop.vn", ent.CustomerLookupQuery())

	ent = ExtractEntities(assistant.IntentStaffCustomerLookup, "thông tin khách 0912345678")
	assert.Equal(t, "0912345678", ent.CustomerPhone)

	ent = ExtractEntities(assistant.IntentStaffCustomerLookup, "tìm khách nguyễn văn an")
	assert.Equal(t, "nguyễn văn an", ent.CustomerQuery)
}

func TestExtractEntitiesOrderAndCustomerIDs(t *testing.T) {
	assert.Equal(t, "1024", ExtractEntities(assistant.IntentOrderCancel, "hủy đơn #1024 giúp mình").OrderID)
	assert.Equal(t, "cus_01HZX", ExtractEntities(assistant.IntentStaffOrderHistory, "lịch sử mua của cus_01HZX").CustomerID)
	assert.Empty(t, ExtractEntities(assistant.IntentStaffOrderHistory, "lịch sử mua của khách").CustomerID)
}

func TestExtractQuantity(t *testing.T) {
	assert.Equal(t, 3, ExtractQuantity("thêm 3 cái áo"))
	assert.Equal(t, 1, ExtractQuantity("thêm áo"))
}

func TestBestKey(t *testing.T) {
	staff := GroupsWithPrefix("STAFF.")
	assert.Len(t, staff, 4)
	assert.Equal(t, "STAFF.ORDER_HISTORY", BestKey("lịch sử mua của khách", staff))
	assert.Equal(t, "", BestKey("xin chào", staff))
}

func TestBonusOrdering(t *testing.T) {
	assert.Greater(t, contextReferenceBonus, recommendBonus)
	assert.Greater(t, recommendBonus, searchVerbBonus)
	assert.Greater(t, searchVerbBonus, cartVerbBonus)
}
