package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sampleTraceparent = "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		ok      bool
		sampled bool
	}{
		{name: "sampled", header: sampleTraceparent, ok: true, sampled: true},
		{name: "not sampled", header: "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-00", ok: true},
		{name: "upper case normalised", header: "00-3D23D071B5BFD6579171EFCE907685CB-08F067AA0BA902B7-01", ok: true, sampled: true},
		{name: "extra flags bits", header: "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-03", ok: true, sampled: true},
		{name: "empty", header: ""},
		{name: "garbage", header: "trace/span;o=1"},
		{name: "version ff", header: "ff-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"},
		{name: "zero trace id", header: "00-00000000000000000000000000000000-08f067aa0ba902b7-01"},
		{name: "zero span id", header: "00-3d23d071b5bfd6579171efce907685cb-0000000000000000-01"},
		{name: "short trace id", header: "00-3d23d071b5bfd6579171efce9076-08f067aa0ba902b7-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, ok := parseTraceparent(tt.header)
			if ok != tt.ok {
				t.Fatalf("parseTraceparent(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			}
			if !ok {
				return
			}
			if tc.traceID != "3d23d071b5bfd6579171efce907685cb" {
				t.Fatalf("unexpected trace ID %q", tc.traceID)
			}
			if tc.spanID != "08f067aa0ba902b7" {
				t.Fatalf("unexpected span ID %q", tc.spanID)
			}
			if tc.sampled != tt.sampled {
				t.Fatalf("sampled = %v, want %v", tc.sampled, tt.sampled)
			}
		})
	}
}

func TestTraceFieldsWithProject(t *testing.T) {
	fields := traceFields(sampleTraceparent, "test-project")
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}

	wantTrace := "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb"
	if fields[0].Key != "logging.googleapis.com/trace" || fields[0].String != wantTrace {
		t.Fatalf("unexpected trace field: %+v", fields[0])
	}
	if fields[1].Key != "logging.googleapis.com/spanId" || fields[1].String != "08f067aa0ba902b7" {
		t.Fatalf("unexpected span field: %+v", fields[1])
	}
	if fields[2].Key != "logging.googleapis.com/trace_sampled" || fields[2].Type != zapcore.BoolType ||
		fields[2].Integer != 1 {
		t.Fatalf("unexpected sampled field: %+v", fields[2])
	}
}

func TestTraceFieldsWithoutProject(t *testing.T) {
	fields := traceFields(sampleTraceparent, "")
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != "traceId" || fields[0].String != "3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("unexpected trace field: %+v", fields[0])
	}
	if fields[1].Key != "spanId" || fields[1].String != "08f067aa0ba902b7" {
		t.Fatalf("unexpected span field: %+v", fields[1])
	}
	if fields[2].Key != "traceSampled" {
		t.Fatalf("unexpected sampled field: %+v", fields[2])
	}
}

func TestTraceFieldsInvalid(t *testing.T) {
	if fields := traceFields("invalid", "test-project"); fields != nil {
		t.Fatalf("expected nil fields for invalid header, got %v", fields)
	}
	if fields := traceFields("", ""); fields != nil {
		t.Fatalf("expected nil fields for empty header, got %v", fields)
	}
}

func TestLoggerWithTraceAddsRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	logger := loggerWithTrace(zap.New(core), "", "test-project", "req-123")
	logger.Info("hello")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["requestId"]; got != "req-123" {
		t.Fatalf("expected requestId req-123, got %v", got)
	}
}

func TestLoggerWithTraceWithoutFieldsReturnsBase(t *testing.T) {
	base := zap.NewNop()
	if got := loggerWithTrace(base, "", "", ""); got != base {
		t.Fatal("expected base logger when there is nothing to add")
	}
	if got := loggerWithTrace(nil, "", "", ""); got == nil {
		t.Fatal("expected non-nil logger for nil base")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "value", "other"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
