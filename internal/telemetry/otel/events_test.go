package otel

import (
	"context"
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	// Emitting through the noop must not panic.
	em.Emit(context.Background(), AuthEvent{Name: "login", Outcome: "success"})
}

func TestNewEventEmitter_WithProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	em := NewEventEmitter(provider)
	em.Emit(context.Background(), AuthEvent{Name: "register", IdentityID: "id-1", Outcome: "success"})
}

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec   otellog.Record
	calls int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.calls++
}

func TestEmit_AttributeMapping(t *testing.T) {
	capture := &recordCapture{}
	em := NewEventEmitterWithLogger(capture)

	em.Emit(context.Background(), AuthEvent{
		Name:       "login",
		IdentityID: "id-1",
		Outcome:    "failure",
		Detail:     "invalid credentials",
	})

	if capture.calls != 1 {
		t.Fatalf("logger received %d records, want 1", capture.calls)
	}
	rec := capture.rec
	if got := rec.Body().AsString(); got != "login" {
		t.Errorf("body = %q, want %q", got, "login")
	}
	if rec.Severity() != otellog.SeverityWarn {
		t.Errorf("severity = %v, want SeverityWarn for a failure", rec.Severity())
	}
	if rec.Timestamp().IsZero() {
		t.Error("record should carry a timestamp")
	}

	attrs := map[string]string{}
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	want := map[string]string{
		"outcome":     "failure",
		"identity_id": "id-1",
		"detail":      "invalid credentials",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_SuccessSeverityAndOptionalAttributes(t *testing.T) {
	capture := &recordCapture{}
	em := NewEventEmitterWithLogger(capture)

	em.Emit(context.Background(), AuthEvent{Name: "logout", Outcome: "success"})

	if capture.rec.Severity() != otellog.SeverityInfo {
		t.Errorf("severity = %v, want SeverityInfo for a success", capture.rec.Severity())
	}
	capture.rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		if kv.Key == "identity_id" || kv.Key == "detail" {
			t.Errorf("empty %s should not be attached", kv.Key)
		}
		return true
	})
}
