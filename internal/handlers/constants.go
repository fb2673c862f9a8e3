package handlers

const (
	ErrInvalidWindow       = "Invalid granularity or date"
	ErrInternalServerError = "Internal server error"
	ErrReportUnavailable   = "Report could not be computed"
	ErrDeactivationFailed  = "Deactivation could not be applied"
)
