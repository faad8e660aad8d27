package log

// Standard field names for structured logging
const (
	FieldComponent = "component"
	FieldTenantID  = "tenant_id"
	FieldClientID  = "client_id"
	FieldFundID    = "fund_id"
	FieldEntryKind = "entry_kind"
	FieldEntryID   = "entry_id"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration"
	FieldError     = "error"
	FieldCount     = "count"
	FieldYear      = "year"
)

// Component names for different parts of the application
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAuth     = "auth"
	ComponentSignals  = "signals"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentServices = "services"
	ComponentExport   = "export"
)
