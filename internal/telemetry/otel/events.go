package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// AuthEvent is one auth or secret lifecycle event. Detail carries a short
// failure classification, never credential material.
type AuthEvent struct {
	Name       string // register, login, logout, google_signin, secret_submitted
	IdentityID string // empty on failures before an identity resolves
	Outcome    string // "success" or "failure"
	Detail     string
}

// EventEmitter sends auth events to the telemetry backend.
type EventEmitter interface {
	Emit(ctx context.Context, event AuthEvent)
}

// RecordLogger is the subset of otellog.Logger the emitter writes through.
type RecordLogger interface {
	Emit(ctx context.Context, record otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends events as OTel log records
// via the given LoggerProvider. If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &logEmitter{logger: provider.Logger("secrets-portal.auth")}
}

// NewEventEmitterWithLogger returns an EventEmitter writing through the given logger.
func NewEventEmitterWithLogger(logger RecordLogger) EventEmitter {
	return &logEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, AuthEvent) {}

type logEmitter struct {
	logger RecordLogger
}

// Emit converts the event to an OTel log record and emits it. Best-effort.
func (e *logEmitter) Emit(ctx context.Context, event AuthEvent) {
	rec := otellog.Record{}
	rec.SetTimestamp(time.Now().UTC())
	rec.SetBody(otellog.StringValue(event.Name))
	if event.Outcome == "failure" {
		rec.SetSeverity(otellog.SeverityWarn)
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
	}
	rec.AddAttributes(otellog.String("outcome", event.Outcome))
	if event.IdentityID != "" {
		rec.AddAttributes(otellog.String("identity_id", event.IdentityID))
	}
	if event.Detail != "" {
		rec.AddAttributes(otellog.String("detail", event.Detail))
	}
	e.logger.Emit(ctx, rec)
}
