package worker

import (
	"github.com/spec-kit/helpdesk-access/internal/service"
)

// StartAuditWorker registers audit recording handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
