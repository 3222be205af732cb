package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/events"
	"github.com/smartpersona/backend/internal/observability"
)

// AuditService records auth events in the log and the metrics registry.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to every auth event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.metrics.RecordAuth(string(event.Type), string(event.Domain))

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("at", event.Timestamp),
	}
	if event.AccountID != "" {
		fields = append(fields, zap.String("account_id", event.AccountID))
	}
	if event.Domain != "" {
		fields = append(fields, zap.String("domain", string(event.Domain)))
	}
	if event.ClientKey != "" {
		fields = append(fields, zap.String("client_key", event.ClientKey))
	}

	switch payload := event.Payload.(type) {
	case events.LoginFailedPayload:
		fields = append(fields, zap.String("username", payload.Username), zap.String("reason", payload.Reason))
		a.logger.Warn("LoginFailed", fields...)
	case events.AccountStatusChangedPayload:
		fields = append(fields, zap.String("actor_id", payload.ActorID), zap.String("new_status", string(payload.NewStatus)))
		a.logger.Info("AccountStatusChanged", fields...)
	case events.AccountRegisteredPayload:
		fields = append(fields, zap.String("username", payload.Username), zap.String("role", string(payload.Role)))
		a.logger.Info("AccountRegistered", fields...)
	default:
		if event.Type == events.EventLoginThrottled {
			a.logger.Warn("LoginThrottled", fields...)
			return nil
		}
		a.logger.Info(string(event.Type), fields...)
	}
	return nil
}
