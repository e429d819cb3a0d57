package log

// Field names for structured logging.
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldFilter     = "filter"
	FieldKey        = "key"
	FieldCount      = "count"
	FieldSink       = "sink"
	FieldRef        = "ref"
)

// Component names.
const (
	ComponentApp    = "app"
	ComponentEngine = "engine"
	ComponentStore  = "store"
	ComponentExport = "export"
	ComponentHTTP   = "http"
	ComponentConfig = "config"
)

// Operation names.
const (
	OpAddExpense   = "add_expense"
	OpUpdateIncome = "update_income"
	OpReset        = "reset"
	OpAggregate    = "aggregate"
	OpLoad         = "load"
	OpSave         = "save"
	OpExport       = "export"
	OpStartup      = "startup"
	OpShutdown     = "shutdown"
)
