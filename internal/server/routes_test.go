package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestRememberAndRecall(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/api/memories", `{"content":"Using PostgreSQL 14 on port 5432","tags":["database","config"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("remember status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	resp := decode(t, w)
	id, _ := resp["id"].(string)
	if id == "" {
		t.Fatal("remember returned no id")
	}

	w = do(t, srv, "GET", "/api/memories?q=database", "")
	if w.Code != http.StatusOK {
		t.Fatalf("recall status = %d; body: %s", w.Code, w.Body.String())
	}
	resp = decode(t, w)
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", resp["count"])
	}
	results := resp["results"].([]any)
	first := results[0].(map[string]any)
	if first["id"] != id {
		t.Errorf("result id = %v, want %v", first["id"], id)
	}
	if first["content"] != "Using PostgreSQL 14 on port 5432" {
		t.Errorf("result content = %v", first["content"])
	}
}

func TestRememberValidation(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/api/memories", `{"content":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty content status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = do(t, srv, "POST", "/api/memories", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = do(t, srv, "POST", "/api/memories", fmt.Sprintf(`{"content":%q}`, strings.Repeat("a", 100_001)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized content status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRememberWarnsOnSensitiveContent(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/api/memories", `{"content":"the api_key=sk-12345 goes in the env"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["warning"] == nil {
		t.Error("expected a sensitive-data warning")
	}
	if resp["id"] == "" {
		t.Error("sensitive content should still be stored")
	}
}

func TestRecallLimitValidation(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/memories?q=x&limit=0", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	w = do(t, srv, "GET", "/api/memories?q=x&limit=500", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit=500 status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	w = do(t, srv, "GET", "/api/memories", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestForgetEndpoint(t *testing.T) {
	srv := testServer(t)

	do(t, srv, "POST", "/api/memories", `{"content":"temporary scratch note"}`)

	w := do(t, srv, "DELETE", "/api/memories?q=scratch", "")
	if w.Code != http.StatusOK {
		t.Fatalf("forget status = %d; body: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["deleted"] != float64(1) {
		t.Errorf("deleted = %v, want 1", resp["deleted"])
	}

	w = do(t, srv, "GET", "/api/memories?q=scratch", "")
	resp = decode(t, w)
	if resp["count"] != float64(0) {
		t.Errorf("count after forget = %v, want 0", resp["count"])
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "PUT", "/api/artifacts/db.sql", `{"content":"CREATE TABLE x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d; body: %s", w.Code, w.Body.String())
	}

	w = do(t, srv, "GET", "/api/artifacts/db.sql", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	resp := decode(t, w)
	if resp["content"] != "CREATE TABLE x" {
		t.Errorf("content = %v, want CREATE TABLE x", resp["content"])
	}
	if resp["size"] != float64(len("CREATE TABLE x")) {
		t.Errorf("size = %v, want %d", resp["size"], len("CREATE TABLE x"))
	}
}

func TestArtifactNotFound(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/artifacts/missing.txt", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestArtifactList(t *testing.T) {
	srv := testServer(t)

	do(t, srv, "PUT", "/api/artifacts/one.txt", `{"content":"1"}`)
	do(t, srv, "PUT", "/api/artifacts/two.txt", `{"content":"2"}`)

	w := do(t, srv, "GET", "/api/artifacts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode(t, w)
	names := resp["artifacts"].([]any)
	if len(names) != 2 {
		t.Errorf("got %d artifacts, want 2", len(names))
	}
}

func TestErrorLifecycle(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/api/errors", `{"action":"run tests","error":"exit status 1","context":"TestFoo"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("log status = %d; body: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	id := resp["id"].(float64)

	w = do(t, srv, "GET", "/api/errors", "")
	resp = decode(t, w)
	if resp["count"] != float64(1) {
		t.Fatalf("unresolved count = %v, want 1", resp["count"])
	}

	w = do(t, srv, "POST", fmt.Sprintf("/api/errors/%d/resolve", int(id)), `{"resolution":"fixed the fixture"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}
	resp = decode(t, w)
	if resp["resolved"] != true {
		t.Errorf("resolved = %v, want true", resp["resolved"])
	}

	// Excluded immediately after resolve
	w = do(t, srv, "GET", "/api/errors", "")
	resp = decode(t, w)
	if resp["count"] != float64(0) {
		t.Errorf("unresolved count after resolve = %v, want 0", resp["count"])
	}

	w = do(t, srv, "GET", "/api/errors?all=true", "")
	resp = decode(t, w)
	if resp["count"] != float64(1) {
		t.Errorf("all count = %v, want 1", resp["count"])
	}
}

func TestResolveMissingError(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/api/errors/424242/resolve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode(t, w)
	if resp["resolved"] != false {
		t.Errorf("resolved = %v, want false", resp["resolved"])
	}
}

func TestModeEndpoints(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/mode", "")
	resp := decode(t, w)
	if resp["mode"] != "coding" {
		t.Errorf("default mode = %v, want coding", resp["mode"])
	}

	w = do(t, srv, "POST", "/api/mode", `{"message":"The tests are failing"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	resp = decode(t, w)
	if resp["mode"] != "debugging" {
		t.Errorf("classified mode = %v, want debugging", resp["mode"])
	}
	budget := resp["budget"].(map[string]any)
	if budget["errors"] != float64(0.50) {
		t.Errorf("errors budget = %v, want 0.5", budget["errors"])
	}

	// Persisted
	w = do(t, srv, "GET", "/api/mode", "")
	resp = decode(t, w)
	if resp["mode"] != "debugging" {
		t.Errorf("persisted mode = %v, want debugging", resp["mode"])
	}
}

func TestAppendTurn(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/api/session", `{"role":"user","content":"hello"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	w = do(t, srv, "POST", "/api/session", `{"role":"user","content":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty content status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
