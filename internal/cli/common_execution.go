package cli

import (
	"context"
	"time"

	"github.com/rshade/bookcat/internal/logging"
)

// auditContext records one audit entry for a mutating command once it
// knows the outcome.
type auditContext struct {
	command string
	params  map[string]string
	sink    logging.AuditLogger
	traceID string
	began   time.Time
}

func newAuditContext(ctx context.Context, command string, params map[string]string) *auditContext {
	return &auditContext{
		command: command,
		params:  params,
		sink:    logging.AuditLoggerFromContext(ctx),
		traceID: logging.TraceIDFromContext(ctx),
		began:   time.Now(),
	}
}

// entry starts an audit entry carrying the command's parameters.
func (a *auditContext) entry() *logging.AuditEntry {
	return logging.NewAuditEntry(a.command, a.traceID).WithParameters(a.params)
}

func (a *auditContext) logFailure(ctx context.Context, err error) {
	a.sink.Log(ctx, *a.entry().WithError(err.Error()).WithDuration(a.began))
}

func (a *auditContext) logSuccess(ctx context.Context, affected int) {
	a.sink.Log(ctx, *a.entry().WithSuccess(affected).WithDuration(a.began))
}

// finish records the outcome of the command and passes err through, so
// RunE can end with "return audit.finish(ctx, n, err)".
func (a *auditContext) finish(ctx context.Context, affected int, err error) error {
	if err == nil {
		a.logSuccess(ctx, affected)
		return nil
	}
	a.logFailure(ctx, err)
	return err
}
