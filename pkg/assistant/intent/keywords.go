package intent

// KeywordGroup maps an internal intent key to its trigger phrases.
// Tables are slices so that equal scores keep table order.
type KeywordGroup struct {
	Key     string
	Phrases []string
}

var viKeywords = []KeywordGroup{
	{"GREETING", []string{"xin chào", "chào", "alo", "chào bạn", "hello", "hi", "hey", "chào buổi", "chào admin", "chào shop"}},
	{"PRODUCT.SEARCH", []string{
		"tìm", "tìm kiếm", "có không", "còn không", "có bán", "muốn mua", "giá", "sản phẩm",
		"mua", "đặt", "kiếm", "tương tự", "giống", "cần", "shop có", "bên này có", "có hàng",
		"còn hàng", "hết hàng chưa", "còn size", "có màu", "loại", "dòng", "model",
	}},
	{"PRODUCT.DETAIL", []string{
		"chi tiết", "thông số", "xem kỹ", "thông tin", "cụ thể", "mô tả", "spec",
		"đặc điểm", "tính năng", "chất liệu", "kích thước", "size", "màu sắc", "xuất xứ",
	}},
	{"PRODUCT.RECOMMEND", []string{
		"gợi ý cho tôi", "gợi ý cho mình", "gợi ý vài", "nên mua gì", "mua gì",
		"hot trend", "bán chạy", "phổ biến", "đề xuất", "recommend me",
		"trending", "mới nhất", "best seller", "top sản phẩm", "sản phẩm tốt", "sản phẩm hay", "đáng mua nhất",
		"xem sản phẩm nào", "có sản phẩm nào", "sản phẩm nào tốt",
	}},
	{"ORDER.TRACK", []string{
		"tra cứu", "kiểm tra", "đơn hàng", "ở đâu", "tình trạng", "tracking", "giao hàng",
		"ship", "vận chuyển", "đã giao chưa", "khi nào nhận", "bao giờ về", "đến chưa",
	}},
	{"ORDER.CANCEL", []string{"hủy đơn", "không mua nữa", "huỷ đơn", "cancel", "không muốn", "đổi ý", "không lấy"}},
	{"ORDER.RETURN", []string{
		"đổi trả", "hoàn tiền", "bảo hành", "trả hàng", "return", "refund", "warranty",
		"đổi hàng", "lỗi", "hư", "không vừa", "sai", "không đúng",
	}},
	{"CART.VIEW", []string{"xem giỏ", "giỏ hàng", "trong giỏ", "cart", "giỏ", "đã chọn", "đã thêm"}},
	{"CART.ADD", []string{
		"thêm vào giỏ", "bỏ vào giỏ", "mua cái này", "lấy cái này", "đặt cái này",
		"lấy cho", "thêm 1", "đặt 1", "đặt hàng", "mua ngay", "chốt", "order",
		"cho vào giỏ", "bỏ giỏ", "add", "thêm", "bỏ", "cho tôi", "cho em",
		"mình lấy", "mình mua", "lấy luôn", "mua luôn",
	}},
	{"CART.REMOVE", []string{"xóa khỏi giỏ", "bỏ ra", "xóa sản phẩm", "bỏ sản phẩm", "remove", "không lấy", "bỏ"}},
	{"CART.UPDATE", []string{"đổi số lượng", "thay đổi", "sửa giỏ", "update cart", "tăng", "giảm", "đổi size", "đổi màu"}},
	{"CHECKOUT", []string{"thanh toán", "checkout", "đặt luôn", "mua luôn", "pay", "trả tiền", "hoàn tất"}},
	{"ACCOUNT.LOGIN", []string{"đăng nhập", "login", "sign in", "vào tài khoản"}},
	{"ACCOUNT.REGISTER", []string{"đăng ký", "tạo tài khoản", "sign up", "register", "mở tài khoản"}},
	{"FAQ.SHIPPING", []string{
		"phí ship", "vận chuyển", "bao lâu", "giao hàng", "ship", "shipping",
		"delivery", "mất bao lâu", "khi nào nhận", "ship cod", "ship nhanh",
	}},
	{"FAQ.PAYMENT", []string{
		"thanh toán", "chuyển khoản", "cod", "trả tiền", "payment",
		"hình thức thanh toán", "trả góp", "ví", "momo", "zalopay", "banking",
	}},
	{"FAQ.PROMO", []string{"khuyến mãi", "giảm giá", "sale", "voucher", "mã giảm", "coupon", "promotion", "ưu đãi"}},
	{"FAQ.RETURN", []string{
		"đổi trả", "chính sách đổi", "return policy", "hoàn tiền", "refund",
		"bảo hành", "warranty", "trả hàng", "đổi hàng", "chính sách hoàn",
	}},
	{"SUPPORT.ESCALATE", []string{
		"nhân viên", "người thật", "không phải bot", "tư vấn", "hỗ trợ",
		"admin", "staff", "human", "real person", "agent",
	}},
	{"THANK", []string{"cảm ơn", "thanks", "thank you", "cám ơn", "ơn"}},
	{"GOODBYE", []string{"tạm biệt", "bye", "goodbye", "hẹn gặp lại", "đi đây"}},
	{"STAFF.CHECK_STOCK", []string{"check kho", "tồn kho", "kiểm kho", "số lượng tồn", "inventory", "stock"}},
	{"STAFF.CUSTOMER_LOOKUP", []string{"tìm khách", "check info khách", "thông tin khách", "lookup customer"}},
	{"STAFF.ORDER_HISTORY", []string{"lịch sử mua", "đơn cũ của khách", "khách mua gì", "order history"}},
	{"STAFF.CREATE_ORDER", []string{"tạo đơn giúp", "lên đơn", "tạo đơn", "create order", "draft order"}},
	{"MANAGER.REPORT_SALES", []string{"doanh thu", "báo cáo bán hàng", "doanh số", "sales report", "revenue"}},
	{"MANAGER.REPORT_CHATBOT", []string{"hiệu quả bot", "bot chat bao nhiêu", "thống kê bot", "chatbot stats"}},
	{"MANAGER.CONFIG_UPDATE", []string{"tắt bot", "bật bot", "chỉnh prompt", "cấu hình", "config"}},
}

var enKeywords = []KeywordGroup{
	{"GREETING", []string{"hello", "hi", "hey"}},
	{"PRODUCT.SEARCH", []string{"search", "find", "looking for", "do you have", "want to buy", "price", "product", "buy", "order"}},
	{"PRODUCT.DETAIL", []string{"detail", "specs", "info", "more info", "specification"}},
	{"PRODUCT.RECOMMEND", []string{"recommend", "suggest", "hot trend", "best seller", "popular"}},
	{"ORDER.TRACK", []string{"track", "check order", "order status", "where is", "shipping"}},
	{"ORDER.CANCEL", []string{"cancel order", "cancel"}},
	{"ORDER.RETURN", []string{"return", "refund", "warranty"}},
	{"CART.VIEW", []string{"view cart", "my cart", "shopping cart"}},
	{"CART.ADD", []string{"add to cart", "buy this", "get this", "order this"}},
	{"CART.REMOVE", []string{"remove", "delete item", "remove from cart"}},
	{"ACCOUNT.LOGIN", []string{"login", "sign in"}},
	{"ACCOUNT.REGISTER", []string{"register", "sign up"}},
	{"FAQ.SHIPPING", []string{"shipping cost", "delivery time", "shipping fee"}},
	{"FAQ.PAYMENT", []string{"payment", "cod", "bank transfer"}},
	{"SUPPORT.ESCALATE", []string{"human", "staff", "real person", "agent"}},
	{"STAFF.CHECK_STOCK", []string{"check stock", "inventory", "stock level"}},
	{"STAFF.CUSTOMER_LOOKUP", []string{"lookup customer", "find customer", "user info"}},
	{"STAFF.ORDER_HISTORY", []string{"customer order history", "order history"}},
	{"STAFF.CREATE_ORDER", []string{"create order", "draft order"}},
	{"MANAGER.REPORT_SALES", []string{"sales report", "revenue", "sales stats"}},
	{"MANAGER.REPORT_CHATBOT", []string{"chatbot stats", "bot performance"}},
	{"MANAGER.CONFIG_UPDATE", []string{"disable bot", "enable bot", "update config"}},
}

// intentNames maps internal keys to the intent names used by routing.
var intentNames = map[string]string{
	"GREETING":               "general",
	"PRODUCT.SEARCH":         "product_inquiry",
	"PRODUCT.DETAIL":         "product_detail",
	"PRODUCT.RECOMMEND":      "product_recommend",
	"ORDER.TRACK":            "order_tracking",
	"ORDER.CANCEL":           "order_cancel",
	"ORDER.RETURN":           "order_return",
	"CART.VIEW":              "cart_view",
	"CART.ADD":               "cart_add",
	"CART.REMOVE":            "cart_remove",
	"CART.UPDATE":            "cart_update",
	"CHECKOUT":               "checkout",
	"ACCOUNT.LOGIN":          "account_login",
	"ACCOUNT.REGISTER":       "account_register",
	"FAQ.SHIPPING":           "faq_shipping",
	"FAQ.PAYMENT":            "faq_payment",
	"FAQ.PROMO":              "faq_promo",
	"FAQ.RETURN":             "faq_return",
	"SUPPORT.ESCALATE":       "human_escalation",
	"THANK":                  "thank_you",
	"GOODBYE":                "goodbye",
	"STAFF.CHECK_STOCK":      "staff_check_stock",
	"STAFF.CUSTOMER_LOOKUP":  "staff_customer_lookup",
	"STAFF.ORDER_HISTORY":    "staff_order_history",
	"STAFF.CREATE_ORDER":     "staff_create_order",
	"MANAGER.REPORT_SALES":   "manager_report_sales",
	"MANAGER.REPORT_CHATBOT": "manager_report_chatbot",
	"MANAGER.CONFIG_UPDATE":  "manager_config_update",
}

// IntentName maps an internal key, "general" when unknown.
func IntentName(key string) string {
	if name, ok := intentNames[key]; ok {
		return name
	}
	return "general"
}

// Boost phrases and bonuses. The ordering
// contextReferenceBonus > recommendBonus > searchVerbBonus > cartVerbBonus
// is what the routing relies on.
const (
	contextReferenceBonus = 10
	recommendBonus        = 5
	searchVerbBonus       = 3
	cartVerbBonus         = 2
)

var recommendPhrases = []string{"gợi ý cho", "đề xuất cho", "recommend me", "gợi ý vài", "gợi ý một", "nên mua gì"}

// anchors are stripped from a message to leave the product (or customer) query.
var anchors = []string{
	"tìm", "tìm kiếm", "có không", "còn không", "có bán", "muốn mua",
	"search", "find", "looking for", "do you have", "want to buy",
	"sản phẩm", "product", "mua", "đặt", "kiếm", "cho tôi", "cho anh", "cho em", "cho mình",
	"tương tự", "similar",
	"tôi", "anh", "em", "bạn", "mình", "cái", "chiếc", "là", "của",
	"giá", "bao nhiêu", "price", "cost", "how much", "tiền",
	"thông tin", "xem", "về", "info", "about", "có",
	"check kho", "tồn kho", "kiểm kho", "số lượng tồn",
	"check stock", "inventory", "stock level",
	"tìm khách", "check info khách", "thông tin khách", "khách hàng", "khách",
	"lookup customer", "find customer", "user info",
	"nhân viên", "quản lý", "staff", "manager",
}
