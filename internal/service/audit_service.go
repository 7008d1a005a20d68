package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-access/internal/domain"
	"github.com/spec-kit/helpdesk-access/internal/events"
	"github.com/spec-kit/helpdesk-access/internal/repository"
)

// AuditService records security events into the audit trail. Recording is
// best effort: write failures are logged and dropped, never propagated to
// the request that emitted the event.
type AuditService struct {
	dispatcher events.Dispatcher
	records    repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, records repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		records:    records,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleEvent)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleEvent)
	a.dispatcher.Subscribe(events.EventLogout, a.handleEvent)
	a.dispatcher.Subscribe(events.EventSessionTerminated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventAccessDenied, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	record := &domain.AuditRecord{
		ID:         event.ID,
		Kind:       string(event.Type),
		ActorID:    event.ActorID,
		ActorEmail: event.ActorEmail,
		Detail:     payloadDetail(event.Payload),
	}

	if a.records == nil {
		a.logger.Debug("audit event (no store)", zap.String("kind", record.Kind))
		return nil
	}

	if err := a.records.Insert(ctx, record); err != nil {
		a.logger.Warn("failed to record audit event",
			zap.String("kind", record.Kind),
			zap.Error(err))
	}
	return nil
}

func payloadDetail(payload interface{}) map[string]any {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	detail := map[string]any{}
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil
	}
	return detail
}
