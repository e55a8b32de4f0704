package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/auth"
	"github.com/crucial707/dosasset/internal/config"
	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/models"
	"github.com/crucial707/dosasset/internal/repo"
)

const testSecret = "test-secret-for-integration"

type nopDownloader struct{}

func (nopDownloader) Download(string, []byte, string) error { return nil }

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T) (*httptest.Server, *inventory.Inventory, string) {
	t.Helper()
	store := repo.NewInventoryRepo(repo.NewMemoryStore(), nil)
	inv := inventory.New(store)
	if err := inv.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := config.Config{JWTSecret: testSecret, RateLimitPerMinute: 0}
	srv := httptest.NewServer(newRouter(&server{
		inv: inv, store: store, downloader: export.Downloader(nopDownloader{}), cfg: cfg, log: zap.NewNop(),
	}))
	t.Cleanup(srv.Close)

	token, err := auth.Issue([]byte(testSecret), "integration", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return srv, inv, token
}

func do(t *testing.T, srv *httptest.Server, token, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, srv.URL+path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestAPI_CreateThenList is an integration test: it builds the full router over an
// in-memory store, creates an asset with a JWT and lists it back.
func TestAPI_CreateThenList(t *testing.T) {
	srv, inv, token := newTestServer(t)

	resp := do(t, srv, token, "POST", "/assets", `{"tag":"PC-1","type":"laptop","model":"X1","serial":"S1","owner":"alice"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /assets status: got %d, want 201", resp.StatusCode)
	}

	resp = do(t, srv, token, "GET", "/assets?q=alice", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /assets status: got %d, want 200", resp.StatusCode)
	}
	var assets []models.Asset
	if err := json.NewDecoder(resp.Body).Decode(&assets); err != nil {
		t.Fatalf("decode assets: %v", err)
	}
	if len(assets) != 1 || assets[0].Tag != "PC-1" {
		t.Errorf("unexpected assets: %+v", assets)
	}

	h := inv.History()
	if len(h) != 1 || h[0].Actor != "integration" {
		t.Errorf("history should record the token's actor: %+v", h)
	}
}

func TestAPI_RequiresToken(t *testing.T) {
	srv, _, _ := newTestServer(t)
	for _, path := range []string{"/assets", "/stats", "/history", "/export/json"} {
		if resp := do(t, srv, "", "GET", path, ""); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: got %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, srv, "", "GET", "/health", "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /health: %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}

	if resp := do(t, srv, "", "GET", "/ready", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready: got %d, want 200", resp.StatusCode)
	}

	do(t, srv, "", "GET", "/health", "")
	resp = do(t, srv, "", "GET", "/metrics", "")
	body, _ = io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("http_requests_total")) {
		t.Error("metrics output missing http_requests_total")
	}
}

func TestAPI_ReadyWhenStoreDown(t *testing.T) {
	inv := inventory.New(repo.NewInventoryRepo(repo.NewMemoryStore(), nil))
	srv := httptest.NewServer(newRouter(&server{
		inv: inv, store: downPinger{}, cfg: config.Config{JWTSecret: testSecret}, log: zap.NewNop(),
	}))
	defer srv.Close()

	if resp := do(t, srv, "", "GET", "/ready", ""); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("GET /ready: got %d, want 503", resp.StatusCode)
	}
}

func TestAPI_CommandAndBatchRoutes(t *testing.T) {
	srv, inv, token := newTestServer(t)

	resp := do(t, srv, token, "POST", "/command", `{"line":"add tag=PC-7 type=phone model=P serial=1 status=active"}`)
	var out struct {
		Output []string `json:"output"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if len(out.Output) != 1 || out.Output[0] != "Added PC-7" {
		t.Fatalf("unexpected command output: %v", out.Output)
	}

	id := inv.Assets()[0].ID
	resp = do(t, srv, token, "POST", "/assets/batch/retire", `{"ids":["`+id+`"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("batch retire: got %d, want 200", resp.StatusCode)
	}
	resp = do(t, srv, token, "POST", "/assets/"+id+"/retire", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("retire: got %d, want 200", resp.StatusCode)
	}
	if got, _ := inv.Get(id); got.Status != models.StatusRetired {
		t.Errorf("expected retired, got %q", got.Status)
	}

	resp = do(t, srv, token, "DELETE", "/data?confirm=true", "")
	if resp.StatusCode != http.StatusNoContent || len(inv.Assets()) != 0 {
		t.Errorf("wipe: status %d, %d assets left", resp.StatusCode, len(inv.Assets()))
	}
}
