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
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldTicketID  = "ticket_id"
	FieldPlate     = "plate"
	FieldCategory  = "category"
	FieldSpotID    = "spot_id"
	FieldFeeCents  = "fee_cents"
	FieldPassID    = "pass_id"
	FieldPassKind  = "pass_kind"
	FieldMonth     = "month"
	FieldAmount    = "amount_cents"
	FieldSheetsRef = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentParking = "parking"
	ComponentBilling = "billing"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpEntry    = "entry"
	OpExit     = "exit"
	OpSellPass = "sell_pass"
	OpReport   = "report"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
