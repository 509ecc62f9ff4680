package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/docxforge/docxforge/internal/session"
	"github.com/docxforge/docxforge/internal/tools"
)

func runServer(t *testing.T, input string, setup func(*Server)) []Response {
	t.Helper()
	var output bytes.Buffer
	server := NewServer(strings.NewReader(input), &output, nil)
	if setup != nil {
		setup(server)
	}
	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(output.String()), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("unmarshal response %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServerHandlesRequest(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"Ping\"}\n"
	responses := runServer(t, input, func(s *Server) {
		s.Register("Ping", func(ctx context.Context, params json.RawMessage) (any, *Error) {
			return map[string]any{"pong": true}, nil
		})
	})

	if len(responses) != 1 {
		t.Fatalf("response count = %d", len(responses))
	}
	resp := responses[0]
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	if result["pong"] != true {
		t.Fatal("expected pong true")
	}
}

func TestServerMethodNotFound(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"Nope\"}\n" +
		"{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"Ping\"}\n"
	responses := runServer(t, input, func(s *Server) {
		s.Register("Ping", func(ctx context.Context, params json.RawMessage) (any, *Error) {
			return "ok", nil
		})
	})

	if len(responses) != 2 {
		t.Fatalf("response count = %d, want 2 (loop must survive the failure)", len(responses))
	}
	if responses[0].Error == nil || !strings.Contains(responses[0].Error.Message, "method not found") {
		t.Fatalf("first response error = %v", responses[0].Error)
	}
	if responses[1].Error != nil {
		t.Fatalf("second response should succeed, got %v", responses[1].Error)
	}
}

func TestServerInvalidJSON(t *testing.T) {
	responses := runServer(t, "this is not json\n", nil)
	if len(responses) != 1 || responses[0].Error == nil {
		t.Fatalf("responses = %+v", responses)
	}
	if responses[0].Error.Message != "invalid json" {
		t.Fatalf("error message = %q", responses[0].Error.Message)
	}
}

func TestServerInvalidVersion(t *testing.T) {
	responses := runServer(t, "{\"jsonrpc\":\"1.0\",\"id\":1,\"method\":\"Ping\"}\n", nil)
	if len(responses) != 1 || responses[0].Error == nil {
		t.Fatalf("responses = %+v", responses)
	}
	if responses[0].Error.Message != "invalid jsonrpc version" {
		t.Fatalf("error message = %q", responses[0].Error.Message)
	}
}

func TestServerNotificationNoResponse(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"method\":\"Ping\"}\n"
	called := false
	responses := runServer(t, input, func(s *Server) {
		s.Register("Ping", func(ctx context.Context, params json.RawMessage) (any, *Error) {
			called = true
			return "ok", nil
		})
	})
	if !called {
		t.Fatal("notification handler not invoked")
	}
	if len(responses) != 0 {
		t.Fatalf("notification produced %d responses", len(responses))
	}
}

func TestBindRegistryList(t *testing.T) {
	reg := tools.NewRegistry(session.New(), nil)
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/list\"}\n"
	responses := runServer(t, input, func(s *Server) {
		BindRegistry(s, reg)
	})

	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("responses = %+v", responses)
	}
	result := responses[0].Result.(map[string]any)
	listed := result["tools"].([]any)
	if len(listed) != len(reg.Names()) {
		t.Fatalf("listed %d tools, registry has %d", len(listed), len(reg.Names()))
	}
}

func TestBindRegistryCall(t *testing.T) {
	reg := tools.NewRegistry(session.New(), nil)
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/call\",\"params\":{\"name\":\"create_document\",\"arguments\":{\"filename\":\"x.docx\"}}}\n" +
		"{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"tools/call\",\"params\":{\"name\":\"add_heading\",\"arguments\":{\"text\":\"Hi\"}}}\n" +
		"{\"jsonrpc\":\"2.0\",\"id\":3,\"method\":\"tools/call\",\"params\":{\"name\":\"no_such_tool\"}}\n"
	responses := runServer(t, input, func(s *Server) {
		BindRegistry(s, reg)
	})

	if len(responses) != 3 {
		t.Fatalf("response count = %d", len(responses))
	}
	first := responses[0].Result.(map[string]any)
	if first["text"] != "Created new document. Ready to save to x.docx." {
		t.Fatalf("first result = %v", first)
	}
	second := responses[1].Result.(map[string]any)
	if second["text"] != "Added heading level 1: 'Hi'" {
		t.Fatalf("second result = %v", second)
	}
	if responses[2].Error == nil {
		t.Fatal("unknown tool should produce an error payload")
	}
}

func TestBindRegistryCallJSONResult(t *testing.T) {
	reg := tools.NewRegistry(session.New(), nil)
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/call\",\"params\":{\"name\":\"create_document\"}}\n" +
		"{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"tools/call\",\"params\":{\"name\":\"get_document_structure\"}}\n"
	responses := runServer(t, input, func(s *Server) {
		BindRegistry(s, reg)
	})

	if len(responses) != 2 || responses[1].Error != nil {
		t.Fatalf("responses = %+v", responses)
	}
	second := responses[1].Result.(map[string]any)
	payload, ok := second["json"].(map[string]any)
	if !ok {
		t.Fatalf("json field = %T", second["json"])
	}
	if _, ok := payload["tables_count"]; !ok {
		t.Errorf("structure payload = %v", payload)
	}
}
