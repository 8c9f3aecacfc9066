package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/server"
	"github.com/holoscene/simgate/internal/testutil/testlog"
)

func newTestPlane(t *testing.T) *Plane {
	t.Helper()
	testlog.Start(t)
	d := dispatch.New()
	d.MustRegister("vget /ping", func(args []string) dispatch.ExecResult {
		return dispatch.OKMsg("pong")
	}, "Ping the server")

	srv := server.New(server.Config{TCPAddr: "127.0.0.1:0"}, d)
	recent := server.NewRecentLog(8)
	recent.Add("127.0.0.1:1000", "vget /ping")
	return New("test", d, srv, recent, nil)
}

func get(t *testing.T, p *Plane, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	p.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	p := newTestPlane(t)
	rec := get(t, p, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCommandsEndpointListsBindings(t *testing.T) {
	p := newTestPlane(t)
	rec := get(t, p, "/commands")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Commands []struct {
			Pattern     string `json:"pattern"`
			Description string `json:"description"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Commands) != 1 || body.Commands[0].Pattern != "vget /ping" {
		t.Fatalf("unexpected commands: %+v", body.Commands)
	}
}

func TestRecentEndpoint(t *testing.T) {
	p := newTestPlane(t)
	rec := get(t, p, "/recent")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Recent []server.ReceivedEntry `json:"recent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Recent) != 1 || body.Recent[0].Command != "vget /ping" {
		t.Fatalf("unexpected recent entries: %+v", body.Recent)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	p := newTestPlane(t)
	rec := get(t, p, "/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Sessions []server.SessionInfo `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Sessions) != 0 {
		t.Fatalf("expected no live sessions, got %+v", body.Sessions)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	p := newTestPlane(t)
	rec := get(t, p, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
