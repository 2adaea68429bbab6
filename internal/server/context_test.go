package server

import (
	"net/http"
	"strings"
	"testing"
)

func TestContextInCodingMode(t *testing.T) {
	srv := testServer(t)

	do(t, srv, "POST", "/api/session", `{"role":"user","content":"add a search box"}`)
	do(t, srv, "POST", "/api/session", `{"role":"assistant","content":"added in ui.go"}`)
	do(t, srv, "POST", "/api/memories", `{"content":"search uses trigram index"}`)
	do(t, srv, "PUT", "/api/artifacts/ui.go", `{"content":"package ui"}`)
	do(t, srv, "POST", "/api/errors", `{"action":"lint","error":"unused import"}`)

	w := do(t, srv, "GET", "/api/context", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	ctx := decode(t, w)["context"].(string)

	if !strings.Contains(ctx, "## Recent Session") {
		t.Error("missing session section")
	}
	if !strings.Contains(ctx, "## Memories") {
		t.Error("missing memories section")
	}
	if !strings.Contains(ctx, "## Available Artifacts") {
		t.Error("missing artifacts section")
	}
	if strings.Contains(ctx, "## Recent Errors") {
		t.Error("errors section should only appear when debugging")
	}

	// Turns read oldest-first
	first := strings.Index(ctx, "add a search box")
	second := strings.Index(ctx, "added in ui.go")
	if first < 0 || second < 0 || first > second {
		t.Error("session turns not in chronological order")
	}
}

func TestContextInDebuggingMode(t *testing.T) {
	srv := testServer(t)

	do(t, srv, "POST", "/api/errors", `{"action":"run tests","error":"exit status 1"}`)
	do(t, srv, "POST", "/api/mode", `{"message":"the build is broken"}`)

	w := do(t, srv, "GET", "/api/context", "")
	ctx := decode(t, w)["context"].(string)

	if !strings.Contains(ctx, "## Recent Errors") {
		t.Error("missing errors section in debugging mode")
	}
	if !strings.Contains(ctx, "run tests: exit status 1") {
		t.Errorf("error line missing from context: %q", ctx)
	}
}

func TestContextEmptyStore(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/context", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ctx := decode(t, w)["context"]; ctx != "" {
		t.Errorf("context for empty store = %q, want empty", ctx)
	}
}
