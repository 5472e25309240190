package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile      = "file_path"
	FieldStrategy  = "strategy"
	FieldSegment   = "segment"
	FieldPendingID = "pending_id"
	FieldReason    = "reason"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldCount     = "count"
	FieldSource    = "source"
)
