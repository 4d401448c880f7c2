package logger

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Errorf("got %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestWithContextKeepsServiceName(t *testing.T) {
	l := NewNop().Service("card-service")
	scoped := l.WithContext(ContextWithRequestID(context.Background(), "abc")).WithUser(7)
	if scoped.serviceName != "card-service" {
		t.Errorf("service name = %q", scoped.serviceName)
	}
	if same := l.WithContext(context.Background()); same != l {
		t.Error("WithContext without request id should return the receiver")
	}
}
