package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldCategoryID = "category_id"
	FieldSourceID   = "source_id"
	FieldTxnID      = "transaction_id"
	FieldTxnType    = "transaction_type"
	FieldAmount     = "amount_cents"
	FieldPage       = "page"
	FieldLimit      = "limit"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentAuth     = "auth"
	ComponentStorage  = "storage"
	ComponentReports  = "reports"
	ComponentSecurity = "security"
)
