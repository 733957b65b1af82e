package observability

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

// AuditRecord describes a clinical state change worth keeping in the log
// pipeline, such as an admission or a discharge.
type AuditRecord struct {
	Action     string
	EntityID   string
	HospitalID string
	Department string
	Attributes map[string]string
}

// EmitAudit sends r through the OpenTelemetry log pipeline and mirrors it to
// the zerolog logger. Without an exporter the global provider drops it.
func EmitAudit(ctx context.Context, r AuditRecord) {
	var rec otellog.Record
	rec.SetTimestamp(time.Now())
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetSeverityText("INFO")
	rec.SetBody(otellog.StringValue(r.Action))
	rec.AddAttributes(
		otellog.String("entity.id", r.EntityID),
		otellog.String("hospital.id", r.HospitalID),
		otellog.String("hospital.department", r.Department),
	)
	for k, v := range r.Attributes {
		rec.AddAttributes(otellog.String(k, v))
	}
	global.GetLoggerProvider().Logger(instrumentationName).Emit(ctx, rec)

	event := LoggerFromContext(ctx).Info().
		Str("audit", r.Action).
		Str("entity_id", r.EntityID).
		Str("department", r.Department)
	for k, v := range r.Attributes {
		event = event.Str(k, v)
	}
	event.Msg("audit")
}
