package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/retainhq/retain/internal/mode"
)

const sensitiveWarning = "content may contain credentials or sensitive data"

func (s *Server) handleRemember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string   `json:"content"`
		Tags       []string `json:"tags"`
		Importance string   `json:"importance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateText("content", req.Content, maxContentChars); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	warn := ""
	if looksSensitive(req.Content) {
		warn = sensitiveWarning
		s.log.Warn("sensitive data in memory content")
	}

	id, err := s.db.Remember(req.Content, req.Tags, req.Importance)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := map[string]any{"id": id}
	if warn != "" {
		resp["warning"] = warn
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := validateText("q", query, maxQueryChars); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	limit := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	memories, err := s.db.Recall(query, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type memoryJSON struct {
		ID         string   `json:"id"`
		Content    string   `json:"content"`
		Tags       []string `json:"tags,omitempty"`
		CreatedAt  float64  `json:"created_at"`
		Importance string   `json:"importance"`
		AgeDays    float64  `json:"age_days"`
		Relevance  float64  `json:"relevance"`
	}
	out := make([]memoryJSON, len(memories))
	for i, m := range memories {
		out[i] = memoryJSON{
			ID:         m.ID,
			Content:    m.Content,
			Tags:       m.Tags,
			CreatedAt:  m.CreatedAt,
			Importance: m.Importance,
			AgeDays:    m.AgeDays,
			Relevance:  m.Recency,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(out),
		"results": out,
	})
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := validateText("q", query, maxQueryChars); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	count, err := s.db.Forget(query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": count})
}

func (s *Server) handlePutArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validateText("name", name, maxNameChars); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Generous over maxArtifactChars so length violations produce the
	// validation message, not a truncated-body error.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArtifactChars+64*1024))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body failed"})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateText("content", req.Content, maxArtifactChars); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	warn := ""
	if looksSensitive(req.Content) {
		warn = sensitiveWarning
		s.log.Warn("sensitive data in artifact", zap.String("name", name))
	}

	id, err := s.db.PutArtifact(name, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := map[string]any{"id": id, "name": name, "size": len(req.Content)}
	if warn != "" {
		resp["warning"] = warn
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	artifact, err := s.db.GetArtifact(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if artifact == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "artifact not found: " + name})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         artifact.ID,
		"name":       artifact.Name,
		"content":    artifact.Content,
		"size":       artifact.Size,
		"created_at": artifact.CreatedAt,
	})
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	names, err := s.db.ListArtifactNames()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"artifacts": names})
}

func (s *Server) handleLogError(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string `json:"action"`
		Error   string `json:"error"`
		Context string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Action == "" || req.Error == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "action and error are required"})
		return
	}

	id, err := s.db.LogError(req.Action, req.Error, req.Context)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleResolveError(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid error id"})
		return
	}

	var req struct {
		Resolution string `json:"resolution"`
	}
	// Body is optional; ignore decode errors on empty bodies.
	json.NewDecoder(r.Body).Decode(&req)

	resolved, err := s.db.ResolveError(id, req.Resolution)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"resolved": resolved})
}

func (s *Server) handleRecentErrors(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	unresolvedOnly := r.URL.Query().Get("all") != "true"

	records, err := s.db.RecentErrors(limit, unresolvedOnly)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type errorJSON struct {
		ID         int64   `json:"id"`
		Action     string  `json:"action"`
		Error      string  `json:"error"`
		Context    string  `json:"context,omitempty"`
		CreatedAt  float64 `json:"created_at"`
		Resolved   bool    `json:"resolved"`
		Resolution string  `json:"resolution,omitempty"`
	}
	out := make([]errorJSON, len(records))
	for i, rec := range records {
		out[i] = errorJSON{
			ID:         rec.ID,
			Action:     rec.Action,
			Error:      rec.Error,
			Context:    rec.Context,
			CreatedAt:  rec.CreatedAt,
			Resolved:   rec.Resolved,
			Resolution: rec.Resolution,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "errors": out})
}

func (s *Server) handleAppendTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateText("content", req.Content, maxContentChars); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := s.db.AppendTurn(req.Role, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	current, err := s.db.Mode()
	if err != nil {
		s.writeError(w, err)
		return
	}
	m := mode.Parse(current)
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":   m,
		"budget": mode.Budget(m),
	})
}

// handleSetMode classifies the caller's message, persists the resulting
// mode, and returns it with its budget.
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	m := mode.Classify(req.Message)
	if err := s.db.SetMode(string(m)); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":   m,
		"budget": mode.Budget(m),
	})
}
