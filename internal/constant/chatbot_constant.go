package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Session lifecycle. waiting_for_staff is set by an escalation; closed and
// archived are set by staff from the admin API.
const (
	ChatSessionStatusActive          = "active"
	ChatSessionStatusWaitingForStaff = "waiting_for_staff"
	ChatSessionStatusClosed          = "closed"
	ChatSessionStatusArchived        = "archived"
)

// AdminSettableSessionStatuses are the statuses PATCH /admin/sessions/:id/status accepts.
var AdminSettableSessionStatuses = []string{
	ChatSessionStatusActive,
	ChatSessionStatusClosed,
	ChatSessionStatusArchived,
}

const (
	IntentStaffEscalation   = "staff_escalation"
	DefaultEscalationReason = "User requested staff support"
	EscalationReply         = "Yêu cầu của bạn đã được chuyển đến nhân viên hỗ trợ. Vui lòng chờ trong giây lát, nhân viên sẽ liên hệ với bạn sớm nhất có thể. 🧑‍💼"
)

// DefaultChatbotSettings is served when the settings table is empty.
var DefaultChatbotSettings = map[string]string{
	"model":      "gemini-1.5-flash",
	"auto_order": "false",
	"enabled":    "true",
}
