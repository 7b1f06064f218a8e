// errors/audit_errors.go
package errors

import "errors"

var (
	ErrDecisionLogNotFound = errors.New("decision log entry not found")
	ErrAuditQueryFailed    = errors.New("audit log query failed")
	ErrExportFailed        = errors.New("audit log export failed")
	ErrInvalidAuditFilter  = errors.New("invalid audit log filter")
)
