package worker

import (
	"github.com/smartpersona/backend/internal/service"
)

// StartAuditWorker registers the audit handlers on the event dispatcher.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
