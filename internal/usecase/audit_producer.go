package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RTBF audit event types
const (
	EventAnalysisRequested  = "rtbf.analysis_requested"
	EventExecutionStarted   = "rtbf.execution_started"
	EventExecutionCompleted = "rtbf.execution_completed"
	EventExecutionFailed    = "rtbf.execution_failed"
)

type RTBFEventMessage struct {
	EventType  string                 `json:"event_type"`
	UserID     string                 `json:"user_id"`
	AnalysisID string                 `json:"analysis_id,omitempty"`
	DeletionID string                 `json:"deletion_id,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// AuditProducer is the append-only analytics sink expected by the usecases.
type AuditProducer interface {
	PublishRTBFEvent(ctx context.Context, msg *RTBFEventMessage) error
}

// publishAudit fires an audit event, observes the error, and discards it.
// Audit logging is best-effort by contract: it must never alter the outcome
// of the operation that emitted it.
func publishAudit(ctx context.Context, p AuditProducer, logger *zap.Logger, msg *RTBFEventMessage) {
	if p == nil {
		return
	}
	if err := p.PublishRTBFEvent(ctx, msg); err != nil {
		logger.Warn("audit event publish failed",
			zap.String("event_type", msg.EventType),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
	}
}
