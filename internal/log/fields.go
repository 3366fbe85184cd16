package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldBackend     = "backend"
	FieldDBPath      = "db_path"
	FieldStorageKey  = "storage_key"
	FieldRevision    = "revision"
	FieldVehicleID   = "vehicle_id"
	FieldRecordID    = "record_id"
	FieldReminderID  = "reminder_id"
	FieldServiceType = "service_type"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentGarage  = "garage"
	ComponentReports = "reports"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpLoad   = "load"
	OpSave   = "save"
	OpSeed   = "seed"
)
