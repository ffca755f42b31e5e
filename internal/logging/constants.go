package logging

// Standard field names for structured log output.
const (
	FieldFile       = "file_path"
	FieldSheet      = "sheet"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldCategory   = "category"
	FieldRemark     = "remark"
	FieldToken      = "token"
	FieldCandidates = "candidates"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldBatch      = "batch"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldRunID      = "run_id"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
