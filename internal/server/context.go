package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/retainhq/retain/internal/mode"
)

// Per-section item caps for the compiled context. The attention budget
// decides which sections appear; these bound how much each contributes.
const (
	maxSessionTurns  = 10
	maxContextMems   = 5
	maxContextErrors = 5
)

func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.BuildContext()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"context": ctx})
}

// BuildContext compiles the context markdown handed to the assistant:
// recent session turns, recent memories, unresolved errors when
// debugging, and artifact names. Sections whose budget fraction is zero
// for the current mode are dropped.
func (s *Server) BuildContext() (string, error) {
	current, err := s.db.Mode()
	if err != nil {
		return "", err
	}
	m := mode.Parse(current)
	budget := mode.Budget(m)

	var sections []string

	if budget[mode.Session] > 0 {
		turns, err := s.db.RecentTurns(maxSessionTurns)
		if err != nil {
			return "", err
		}
		if len(turns) > 0 {
			var b strings.Builder
			b.WriteString("## Recent Session\n")
			// RecentTurns is newest-first; show oldest-first for reading order.
			for i := len(turns) - 1; i >= 0; i-- {
				fmt.Fprintf(&b, "%s: %s\n", turns[i].Role, turns[i].Content)
			}
			sections = append(sections, strings.TrimRight(b.String(), "\n"))
		}
	}

	if budget[mode.Memories] > 0 {
		memories, err := s.db.RecentMemories(maxContextMems)
		if err != nil {
			return "", err
		}
		if len(memories) > 0 {
			var b strings.Builder
			b.WriteString("## Memories\n")
			for _, mem := range memories {
				fmt.Fprintf(&b, "- %s\n", mem.Content)
			}
			sections = append(sections, strings.TrimRight(b.String(), "\n"))
		}
	}

	if m == mode.Debugging && budget[mode.Errors] > 0 {
		records, err := s.db.RecentErrors(maxContextErrors, true)
		if err != nil {
			return "", err
		}
		if len(records) > 0 {
			var b strings.Builder
			b.WriteString("## Recent Errors\n")
			for _, rec := range records {
				fmt.Fprintf(&b, "- %s: %s\n", rec.Action, rec.Error)
			}
			sections = append(sections, strings.TrimRight(b.String(), "\n"))
		}
	}

	if budget[mode.Artifacts] > 0 {
		names, err := s.db.ListArtifactNames()
		if err != nil {
			return "", err
		}
		if len(names) > 0 {
			var b strings.Builder
			b.WriteString("## Available Artifacts\n")
			for _, name := range names {
				fmt.Fprintf(&b, "- %s\n", name)
			}
			sections = append(sections, strings.TrimRight(b.String(), "\n"))
		}
	}

	return strings.Join(sections, "\n\n"), nil
}
