// Package tools implements the command surface: named tools taking JSON
// arguments and dispatching to the document core. Every tool returns either
// a short human-readable status string or, for extraction tools, a JSON
// payload. Domain failures are reported inside those responses ("Error:
// ...", {"error": ...}); a Go error out of a handler means the arguments
// could not be decoded or something internal broke.
package tools

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/docxforge/docxforge/core/errors"
	"github.com/docxforge/docxforge/internal/logging"
	"github.com/docxforge/docxforge/internal/session"
	"github.com/docxforge/docxforge/internal/store"
)

// Handler executes one tool against the session.
type Handler func(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error)

// Tool is one named operation.
type Tool struct {
	Name        string
	Description string
	Handler     Handler
}

// Registry holds the tool set bound to one session. Operations run to
// completion before the next is accepted; the caller serializes calls.
type Registry struct {
	sess    *session.Session
	library *store.Store
	tools   map[string]*Tool
	order   []string
}

// NewRegistry builds the full tool set. The template library may be nil,
// in which case the snapshot-template tools report it unavailable.
func NewRegistry(sess *session.Session, library *store.Store) *Registry {
	r := &Registry{
		sess:    sess,
		library: library,
		tools:   make(map[string]*Tool),
	}
	r.registerDocumentTools()
	r.registerTableTools()
	r.registerExtractTools()
	r.registerAnchorTools()
	r.registerTemplateTools()
	return r
}

func (r *Registry) register(name, description string, h Handler) {
	r.tools[name] = &Tool{Name: name, Description: description, Handler: h}
	r.order = append(r.order, name)
}

// Names returns every tool name sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Tools returns the tools in registration order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Get returns the named tool.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Call dispatches one tool invocation, logging it under a fresh request id.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, errors.NewNotFound("tool", name)
	}
	requestID := logging.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, requestID)
	}
	start := time.Now()
	result, err := tool.Handler(ctx, r.sess, args)
	if err != nil {
		logging.ToolError(name, requestID, err)
		return nil, err
	}
	logging.ToolCall(name, requestID, time.Since(start))
	return result, nil
}

// decode unmarshals tool arguments. A missing body means all defaults.
func decode(args json.RawMessage, into any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, into); err != nil {
		return errors.NewParse("tool arguments", "", err.Error())
	}
	return nil
}

// truncateRunes shortens s to limit runes, appending "..." when cut.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// jsonError renders the extraction tools' error convention.
func jsonError(msg string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return data
}

// indentJSON renders v the way the extraction tools respond: two-space
// indented unless compact.
func indentJSON(v any, compact bool) (json.RawMessage, error) {
	if compact {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
