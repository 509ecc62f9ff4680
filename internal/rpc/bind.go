package rpc

import (
	"context"
	"encoding/json"

	"github.com/docxforge/docxforge/internal/tools"
)

// toolDescriptor is the tools/list wire entry.
type toolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// callParams is the tools/call argument shape.
type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// callResult wraps a tool's response. Text carries prose responses, JSON
// carries extraction payloads; exactly one is set.
type callResult struct {
	Text string          `json:"text,omitempty"`
	JSON json.RawMessage `json:"json,omitempty"`
}

// BindRegistry exposes a tool registry as the methods "tools/list" and
// "tools/call".
func BindRegistry(s *Server, reg *tools.Registry) {
	s.Register("tools/list", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		descriptors := make([]toolDescriptor, 0, len(reg.Tools()))
		for _, t := range reg.Tools() {
			descriptors = append(descriptors, toolDescriptor{Name: t.Name, Description: t.Description})
		}
		return map[string]any{"tools": descriptors}, nil
	})

	s.Register("tools/call", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		var p callParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &Error{Message: "invalid params: " + err.Error()}
		}
		if p.Name == "" {
			return nil, &Error{Message: "missing tool name"}
		}

		result, err := reg.Call(ctx, p.Name, p.Arguments)
		if err != nil {
			return nil, &Error{Message: err.Error()}
		}
		switch v := result.(type) {
		case string:
			return callResult{Text: v}, nil
		case json.RawMessage:
			return callResult{JSON: v}, nil
		}
		data, err := json.Marshal(result)
		if err != nil {
			return nil, &Error{Message: err.Error()}
		}
		return callResult{JSON: data}, nil
	})
}
