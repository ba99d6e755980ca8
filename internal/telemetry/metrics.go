package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	LoginsTotal        metric.Int64Counter
	AppointmentsTotal  metric.Int64Counter
	PrescriptionsTotal metric.Int64Counter
	RecordsTotal       metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/health-hub/records-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	loginsTotal, err := meter.Int64Counter(
		"logins_total",
		metric.WithDescription("Total number of login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	appointmentsTotal, err := meter.Int64Counter(
		"appointments_total",
		metric.WithDescription("Total number of appointment operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	prescriptionsTotal, err := meter.Int64Counter(
		"prescriptions_total",
		metric.WithDescription("Total number of prescription operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	recordsTotal, err := meter.Int64Counter(
		"patient_records_total",
		metric.WithDescription("Total number of patient record operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	permissionCheckDuration, err := meter.Float64Histogram(
		"permission_check_duration_milliseconds",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:       httpRequestsTotal,
		HTTPDurationMs:          httpDurationMs,
		LoginsTotal:             loginsTotal,
		AppointmentsTotal:       appointmentsTotal,
		PrescriptionsTotal:      prescriptionsTotal,
		RecordsTotal:            recordsTotal,
		AuthFailuresTotal:       authFailuresTotal,
		PermissionCheckDuration: permissionCheckDuration,
	}, nil
}

// RecordAuthFailure records an authentication failure with its reason.
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil || m.AuthFailuresTotal == nil {
		return
	}
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission-check decision and latency.
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if m == nil || m.PermissionCheckDuration == nil {
		return
	}
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}

// RecordAppointment counts an appointment operation (scheduled, cancelled...).
func (m *Metrics) RecordAppointment(ctx context.Context, operation string) {
	if m == nil || m.AppointmentsTotal == nil {
		return
	}
	m.AppointmentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordPrescription counts a prescription operation (created, filled...).
func (m *Metrics) RecordPrescription(ctx context.Context, operation string) {
	if m == nil || m.PrescriptionsTotal == nil {
		return
	}
	m.PrescriptionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordPatientRecord counts a patient-record operation.
func (m *Metrics) RecordPatientRecord(ctx context.Context, recordType string) {
	if m == nil || m.RecordsTotal == nil {
		return
	}
	m.RecordsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("record_type", recordType),
	))
}

// RecordLogin records a login attempt outcome per role.
func (m *Metrics) RecordLogin(ctx context.Context, role string, success bool) {
	if m == nil || m.LoginsTotal == nil {
		return
	}
	m.LoginsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", role),
		attribute.Bool("success", success),
	))
}
