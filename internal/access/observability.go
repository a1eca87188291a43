package access

import (
	"context"
	"log/slog"

	"caregate/pkg/requestcontext"
)

// logAudit writes a security-relevant decision line to the structured
// logger, enriched with the request ID when one is present. The durable
// record of the denial lives in the audit log; this line exists for
// live operational visibility.
func logAudit(ctx context.Context, logger *slog.Logger, event string, attrList ...any) {
	if logger == nil {
		return
	}

	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}

	args := append(attrList, "event", event, "log_type", "audit")
	logger.InfoContext(ctx, event, args...)
}
