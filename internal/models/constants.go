package models

// Column names of the categorized output sheet.
const (
	ColumnTransaction = "transaction"
	ColumnCategory    = "category"
)

// DefaultFallbackCategory receives transactions the model could not place.
const DefaultFallbackCategory = "Other"

// XLSXContentType is the MIME type of the categorized workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// File permissions
const (
	PermissionOutputFile = 0644
	PermissionDirectory  = 0750
)
