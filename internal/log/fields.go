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
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonth      = "month"
	FieldReceipts   = "receipts"
	FieldTxID       = "transaction_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAH      = "ah"
	ComponentTokens  = "tokens"
	ComponentSession = "session"
	ComponentLogin   = "login"
	ComponentAMQP    = "amqp"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpFetch    = "fetch"
	OpRefresh  = "refresh"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
