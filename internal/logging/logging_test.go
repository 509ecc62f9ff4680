package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{name: "Debug level JSON format", level: LevelDebug, format: FormatJSON},
		{name: "Info level JSON format", level: LevelInfo, format: FormatJSON},
		{name: "Warn level JSON format", level: LevelWarn, format: FormatJSON},
		{name: "Error level JSON format", level: LevelError, format: FormatJSON},
		{name: "Info level Text format", level: LevelInfo, format: FormatText},
		{name: "Default level (invalid value)", level: Level(999), format: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}

	InitLogger(LevelInfo, FormatJSON)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("text") != FormatText {
		t.Error("ParseFormat(text) != FormatText")
	}
	if ParseFormat("json") != FormatJSON {
		t.Error("ParseFormat(json) != FormatJSON")
	}
	if ParseFormat("") != FormatJSON {
		t.Error("ParseFormat default != FormatJSON")
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")

	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID = %q, want req-123", got)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	output := captureLogOutput(func() {
		ctx := WithRequestID(context.Background(), "ctx-req")
		LoggerFromContext(ctx).Info("test message")
	})
	if !strings.Contains(output, "ctx-req") {
		t.Errorf("output missing request id: %s", output)
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{name: "Debug", log: func() { Debug("debug msg", "k", "v") }, want: "debug msg"},
		{name: "Info", log: func() { Info("info msg") }, want: "info msg"},
		{name: "Warn", log: func() { Warn("warn msg") }, want: "warn msg"},
		{name: "Error", log: func() { Error("error msg") }, want: "error msg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.log)
			if !strings.Contains(output, tt.want) {
				t.Errorf("output = %s, want substring %q", output, tt.want)
			}
		})
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	ctx := WithRequestID(context.Background(), "ctx-42")
	output := captureLogOutput(func() {
		InfoContext(ctx, "with context")
		ErrorContext(ctx, "also with context")
	})
	if !strings.Contains(output, "with context") {
		t.Errorf("output missing message: %s", output)
	}
	if !strings.Contains(output, "ctx-42") {
		t.Errorf("output missing request id: %s", output)
	}
}

func TestHTTPRequest(t *testing.T) {
	output := captureLogOutput(func() {
		HTTPRequest("GET", "/tools", "127.0.0.1:5000", 200, 15*time.Millisecond)
	})
	for _, want := range []string{"http_request", "GET", "/tools", "200"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestToolCall(t *testing.T) {
	output := captureLogOutput(func() {
		ToolCall("add_paragraph", "abc-123", 3*time.Millisecond, "paragraphs", 4)
	})
	for _, want := range []string{"tool_call", "add_paragraph", "abc-123", "paragraphs"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestToolError(t *testing.T) {
	output := captureLogOutput(func() {
		ToolError("format_text", "abc-456", errors.New("start must satisfy 0 <= start < end"))
	})
	for _, want := range []string{"tool_error", "format_text", "start must satisfy"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestDocumentEvent(t *testing.T) {
	output := captureLogOutput(func() {
		DocumentEvent("saved", "/tmp/out.docx", "paragraphs", 12)
	})
	for _, want := range []string{"document_event", "saved", "/tmp/out.docx"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestWebSocketEvent(t *testing.T) {
	output := captureLogOutput(func() {
		WebSocketEvent("client_connected", 3)
	})
	for _, want := range []string{"websocket_event", "client_connected"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestServerStartup(t *testing.T) {
	output := captureLogOutput(func() {
		ServerStartup("api", "http", 8080)
	})
	for _, want := range []string{"server_startup", "api", "8080"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError) // second call ignored

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want 404", rw.statusCode)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("recorded code = %d, want 404", rec.Code)
	}
}

func TestResponseWriterImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", rw.statusCode)
	}
	if rec.Body.String() != "body" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if seen == "" {
			t.Error("no request ID in context")
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Error("response header does not match context ID")
		}
	})

	t.Run("preserved from header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "client-chosen")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if seen != "client-chosen" {
			t.Errorf("request ID = %q, want client-chosen", seen)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	output := captureLogOutput(func() {
		handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/add_paragraph", nil))
	})
	for _, want := range []string{"http_request", "/tools/add_paragraph", "201"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestCombinedMiddleware(t *testing.T) {
	output := captureLogOutput(func() {
		handler := CombinedMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRequestID(r.Context()) == "" {
				t.Error("combined middleware did not set request ID")
			}
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	if !strings.Contains(output, "http_request") {
		t.Errorf("output missing http_request event: %s", output)
	}
}
