package service

import (
	"context"
	"log/slog"

	policymetrics "gavel/internal/policy/metrics"
	"gavel/internal/policy/models"
	dErrors "gavel/pkg/domain-errors"
	txcontext "gavel/pkg/platform/tx"
)

// auditRecorder writes document audit events with an explicit strictness
// policy. In strict mode a failed write fails the caller; in best-effort
// mode (the default for document events) failures are logged, counted, and
// swallowed so the primary transition always lands.
type auditRecorder struct {
	store   AuditStore
	logger  *slog.Logger
	metrics *policymetrics.Metrics
	strict  bool
}

func (r *auditRecorder) Record(ctx context.Context, event *models.AuditEvent) error {
	if r.strict {
		if err := r.store.Append(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return nil
	}
	err := r.appendBestEffort(ctx, event)
	if err == nil {
		return nil
	}
	r.logger.WarnContext(ctx, "dropping document audit event",
		"event", string(event.Event),
		"document_id", event.DocumentID.String(),
		"error", err,
	)
	r.metrics.IncAuditWriteErrors()
	return nil
}

// appendBestEffort shields an enclosing transaction from a failed insert. A
// failed INSERT aborts the whole Postgres transaction, so without the
// savepoint the swallow above would be moot: the primary write would still
// die at commit.
func (r *auditRecorder) appendBestEffort(ctx context.Context, event *models.AuditEvent) error {
	tx, ok := txcontext.From(ctx)
	if !ok {
		return r.store.Append(ctx, event)
	}
	if _, err := tx.ExecContext(ctx, "SAVEPOINT audit_event"); err != nil {
		return err
	}
	if err := r.store.Append(ctx, event); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT audit_event"); rbErr != nil {
			return rbErr
		}
		return err
	}
	_, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT audit_event")
	return err
}
