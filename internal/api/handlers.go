package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/docxforge/docxforge/internal/store"
)

const maxBodySize = 10 * 1024 * 1024

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"tools":         len(s.registry.Names()),
		"sqlite_driver": store.DriverType(),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	entries := make([]entry, 0, len(s.registry.Tools()))
	for _, t := range s.registry.Tools() {
		entries = append(entries, entry{Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": entries})
}

// callResponse is the POST /tools/{name} reply. Exactly one of Text and
// JSON is set, mirroring the tool's two response shapes.
type callResponse struct {
	Tool string          `json:"tool"`
	Text string          `json:"text,omitempty"`
	JSON json.RawMessage `json:"json,omitempty"`
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := s.registry.Get(name); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown tool: " + name})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body: " + err.Error()})
		return
	}

	s.mu.Lock()
	result, err := s.registry.Call(r.Context(), name, body)
	s.mu.Unlock()
	if err != nil {
		s.hub.Broadcast(ToolEvent{Tool: name, Status: "error", Message: err.Error()})
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := callResponse{Tool: name}
	switch v := result.(type) {
	case string:
		resp.Text = v
	case json.RawMessage:
		resp.JSON = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.JSON = data
	}

	s.hub.Broadcast(ToolEvent{Tool: name, Status: "ok", Message: resp.Text})
	writeJSON(w, http.StatusOK, resp)
}
