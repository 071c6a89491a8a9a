// Package assistant holds the data that flows through one chat turn:
// normalizer -> classifier -> orchestrator -> executor -> response formatter.
package assistant

// Role of the person talking to the assistant.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole maps free text to a Role, defaulting to guest.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleManager, RoleAdmin:
		return Role(s)
	default:
		return RoleGuest
	}
}

// IsStaff reports staff-or-above.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleManager || r == RoleAdmin
}

// IsManager reports manager-or-above.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

// Turn is one persisted message of the conversation.
type Turn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Intent    string `json:"intent,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SessionContext is loaded from history at the start of a turn.
type SessionContext struct {
	LastMessages   []Turn
	CartID         string
	LastProductIDs []string
}

// ProcessedInput is the normalized view of one incoming message.
type ProcessedInput struct {
	SessionID   string
	CustomerID  string
	Text        string
	CleanedText string
	Language    string
	Role        Role
	Tag         string
	Session     SessionContext
}

// PriceOperator tags a PriceCondition.
type PriceOperator string

const (
	PriceRange       PriceOperator = "range"
	PriceGreaterThan PriceOperator = "gt"
	PriceLessThan    PriceOperator = "lt"
)

// PriceCondition is a parsed price filter. Value is used by gt/lt, Min/Max by range.
type PriceCondition struct {
	Operator PriceOperator `json:"operator"`
	Value    int64         `json:"value,omitempty"`
	Min      int64         `json:"min,omitempty"`
	Max      int64         `json:"max,omitempty"`
}

// Matches reports whether amount satisfies the condition.
func (p PriceCondition) Matches(amount float64) bool {
	switch p.Operator {
	case PriceLessThan:
		return amount < float64(p.Value)
	case PriceGreaterThan:
		return amount > float64(p.Value)
	case PriceRange:
		return float64(p.Min) <= amount && amount <= float64(p.Max)
	}
	return false
}

// Entities extracted from the message or injected by routing and execution.
type Entities struct {
	// ProductQuery is empty with ContextReference set when the user points at
	// something already shown ("cái này", "nó").
	ProductQuery     string          `json:"product_query,omitempty"`
	ContextReference bool            `json:"context_reference,omitempty"`
	Quantity         int             `json:"quantity,omitempty"`
	PriceCondition   *PriceCondition `json:"price_condition,omitempty"`

	OrderID       string `json:"order_id,omitempty"`
	Status        string `json:"status,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerQuery string `json:"customer_query,omitempty"`

	ProductID    string `json:"product_id,omitempty"`
	VariantID    string `json:"variant_id,omitempty"`
	ProductTitle string `json:"product_title,omitempty"`
	NewCartID    string `json:"new_cart_id,omitempty"`
}

// CustomerLookupQuery returns the most specific customer identifier available.
func (e Entities) CustomerLookupQuery() string {
	switch {
	case e.CustomerEmail != "":
		return e.CustomerEmail
	case e.CustomerPhone != "":
		return e.CustomerPhone
	default:
		return e.CustomerQuery
	}
}

// IntentResult is the classifier verdict for one message.
type IntentResult struct {
	Intent     string
	SubIntent  string
	Confidence float64
	Entities   Entities
}

// ActionPlan is what routing decided to do.
type ActionPlan struct {
	Tools        []string `json:"tools"`
	RequiredData []string `json:"required_data,omitempty"`
	NextStep     string   `json:"next_step,omitempty"`
	Escalate     bool     `json:"escalate,omitempty"`
}

// IsEmpty is true when the plan neither runs tools nor leads anywhere.
func (p ActionPlan) IsEmpty() bool {
	return len(p.Tools) == 0 && p.NextStep == ""
}

// ToolResults aggregates every tool call of a plan.
type ToolResults struct {
	OK        bool             `json:"ok"`
	Data      any              `json:"data,omitempty"`
	Errors    []string         `json:"errors,omitempty"`
	TimingsMs map[string]int64 `json:"timings_ms,omitempty"`
}

// NewToolResults returns an empty successful aggregate.
func NewToolResults() *ToolResults {
	return &ToolResults{OK: true, TimingsMs: map[string]int64{}}
}

// Fail records a failure without touching Data.
func (r *ToolResults) Fail(msg string) {
	r.OK = false
	r.Errors = append(r.Errors, msg)
}

// Merge folds one tool result into the aggregate. Data is last-writer-wins.
func (r *ToolResults) Merge(other *ToolResults) {
	if other == nil {
		return
	}
	r.OK = r.OK && other.OK
	r.Errors = append(r.Errors, other.Errors...)
	if r.TimingsMs == nil {
		r.TimingsMs = map[string]int64{}
	}
	for k, v := range other.TimingsMs {
		r.TimingsMs[k] = v
	}
	r.Data = other.Data
}

// Intent names visible outside the classifier.
const (
	IntentGeneral              = "general"
	IntentProductInquiry       = "product_inquiry"
	IntentProductDetail        = "product_detail"
	IntentProductRecommend     = "product_recommend"
	IntentOrderTracking        = "order_tracking"
	IntentOrderCancel          = "order_cancel"
	IntentOrderReturn          = "order_return"
	IntentCartView             = "cart_view"
	IntentCartAdd              = "cart_add"
	IntentCartRemove           = "cart_remove"
	IntentCartUpdate           = "cart_update"
	IntentCheckout             = "checkout"
	IntentAccountLogin         = "account_login"
	IntentAccountRegister      = "account_register"
	IntentFAQShipping          = "faq_shipping"
	IntentFAQPayment           = "faq_payment"
	IntentFAQPromo             = "faq_promo"
	IntentFAQReturn            = "faq_return"
	IntentHumanEscalation      = "human_escalation"
	IntentThankYou             = "thank_you"
	IntentGoodbye              = "goodbye"
	IntentStaffCheckStock      = "staff_check_stock"
	IntentStaffCustomerLookup  = "staff_customer_lookup"
	IntentStaffOrderHistory    = "staff_order_history"
	IntentStaffCreateOrder     = "staff_create_order"
	IntentManagerReportSales   = "manager_report_sales"
	IntentManagerReportChatbot = "manager_report_chatbot"
	IntentManagerConfigUpdate  = "manager_config_update"
)

// Tool names understood by the executor.
const (
	ToolCartView          = "cart.view"
	ToolCartAdd           = "cart.add"
	ToolCartRemove        = "cart.remove"
	ToolProductSearch     = "product.search"
	ToolProductRecommend  = "product.recommend"
	ToolProductDetail     = "product.detail"
	ToolProductReviews    = "product.reviews"
	ToolOrderTrack        = "order.track"
	ToolOrderList         = "order.list"
	ToolOrderCancel       = "order.cancel"
	ToolOrderReorder      = "order.reorder"
	ToolStaffCheckStock   = "staff.check_stock"
	ToolStaffCheckPrice   = "staff.check_price"
	ToolStaffCustomer     = "staff.customer_lookup"
	ToolStaffOrderHistory = "staff.order_history"
	ToolStaffCreateOrder  = "staff.create_order"
	ToolStaffLookupOrder  = "staff.lookup_order"
	ToolStaffUpdateOrder  = "staff.update_order"
	ToolStaffPrintLabel   = "staff.print_label"
	ToolReportSales       = "manager.report_sales"
	ToolReportChatbot     = "manager.report_chatbot"
	ToolTopProducts       = "manager.top_products"
	ToolCustomerAnalytics = "manager.customer_analytics"
	ToolUpdateConfig      = "system.update_config"
	ToolEscalate          = "system.escalate"
	ToolLogout            = "auth.logout"
)
