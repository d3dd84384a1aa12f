package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage/memory"
	"github.com/vietddude/arbstats/internal/ingest"
	"github.com/vietddude/arbstats/internal/partition"
)

const testToken = "test-secret"

func newTestServer(t *testing.T, cfg partition.Config) *Server {
	t.Helper()
	manager := partition.NewManager(memory.NewStore(), cfg)
	return NewServer(manager, ingest.New(manager), testToken, 0)
}

func do(t *testing.T, s *Server, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func testBatchJSON(height uint64) string {
	return fmt.Sprintf(`[
		{
			"blockHeight": %d,
			"timestamp": 1713781800000000000,
			"events": [
				{"senderId": "a.near", "txHash": "t1", "gasBurnt": 100, "status": "success", "profit": "1000000000000000000000000"},
				{"senderId": "b.near", "txHash": "t2", "gasBurnt": 50, "status": "failure"}
			]
		}
	]`, height)
}

func TestBatchIngestAndQueries(t *testing.T) {
	s := newTestServer(t, partition.Config{})

	rec := do(t, s, http.MethodPost, "/batch", testBatchJSON(10), true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("POST /batch = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/info", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /info = %d", rec.Code)
	}
	var info map[string]uint64
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Decode /info: %v", err)
	}
	if info["lastBlockHeight"] != 10 {
		t.Errorf("lastBlockHeight = %d, want 10", info["lastBlockHeight"])
	}

	rec = do(t, s, http.MethodGet, "/bots", "", false)
	var ids []string
	if err := json.Unmarshal(rec.Body.Bytes(), &ids); err != nil {
		t.Fatalf("Decode /bots: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a.near" || ids[1] != "b.near" {
		t.Errorf("Bots = %v, want [a.near b.near]", ids)
	}

	rec = do(t, s, http.MethodGet, "/bots/a.near?date=2024-04-22", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET trades = %d, body %s", rec.Code, rec.Body)
	}
	var trades []domain.ArbitrageEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &trades); err != nil {
		t.Fatalf("Decode trades: %v", err)
	}
	if len(trades) != 1 || trades[0].TxHash != "t1" {
		t.Errorf("Trades = %+v, want single t1", trades)
	}

	rec = do(t, s, http.MethodGet, "/bots/a.near/daily/profit?start_date=2024-04-22&end_date=2024-04-22", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET daily profit = %d, body %s", rec.Code, rec.Body)
	}
	var profits []domain.DailyProfitStats
	if err := json.Unmarshal(rec.Body.Bytes(), &profits); err != nil {
		t.Fatalf("Decode profits: %v", err)
	}
	if len(profits) != 1 || profits[0].ProfitsNear != "1.000" {
		t.Errorf("Profits = %+v", profits)
	}

	rec = do(t, s, http.MethodGet, "/bots/a.near/daily/gas?start_date=2024-04-22&end_date=2024-04-22", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET daily gas = %d, body %s", rec.Code, rec.Body)
	}
}

func TestBatchRequiresAuth(t *testing.T) {
	s := newTestServer(t, partition.Config{})

	rec := do(t, s, http.MethodPost, "/batch", testBatchJSON(10), false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Unauthenticated POST /batch = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/batch", strings.NewReader(testBatchJSON(10)))
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Wrong-token POST /batch = %d, want 401", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, "/batch", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Unauthenticated DELETE /batch = %d, want 401", rec.Code)
	}
}

func TestEmptyTokenDisablesMutations(t *testing.T) {
	manager := partition.NewManager(memory.NewStore(), partition.Config{})
	s := NewServer(manager, ingest.New(manager), "", 0)

	req := httptest.NewRequest(http.MethodPost, "/batch", strings.NewReader(testBatchJSON(10)))
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("POST /batch with empty configured token = %d, want 401", rec.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t, partition.Config{})

	if rec := do(t, s, http.MethodPost, "/batch", testBatchJSON(10), true); rec.Code != http.StatusNoContent {
		t.Fatalf("Seed ingest = %d", rec.Code)
	}

	cases := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"stale height", http.MethodPost, "/batch", testBatchJSON(10), http.StatusBadRequest},
		{"malformed event", http.MethodPost, "/batch",
			`[{"blockHeight": 99, "timestamp": 1, "events": [{"senderId": "x.near", "txHash": "t", "gasBurnt": 1, "status": "success"}]}]`,
			http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/bots/a.near?limit=abc", "", http.StatusBadRequest},
		{"negative skip", http.MethodGet, "/bots/a.near?skip=-1", "", http.StatusBadRequest},
		{"bad status", http.MethodGet, "/bots/a.near?status=pending", "", http.StatusBadRequest},
		{"bad date", http.MethodGet, "/bots/a.near?date=not-a-date", "", http.StatusBadRequest},
		{"inverted window", http.MethodGet, "/bots/a.near/daily/profit?start_date=2024-04-23&end_date=2024-04-22", "", http.StatusBadRequest},
		{"oversized window", http.MethodGet, "/bots/a.near/daily/gas?start_date=2024-04-01&end_date=2024-04-22", "", http.StatusBadRequest},
		{"unknown bot", http.MethodGet, "/bots/nobody.near", "", http.StatusNotFound},
		{"unknown bot daily", http.MethodGet, "/bots/nobody.near/daily/profit", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.target, tc.body, true)
			if rec.Code != tc.want {
				t.Errorf("%s %s = %d, want %d (body %s)", tc.method, tc.target, rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestPagedVariantDailyUnavailable(t *testing.T) {
	s := newTestServer(t, partition.Config{Variant: partition.VariantPaged, PageSize: 10})

	if rec := do(t, s, http.MethodPost, "/batch", testBatchJSON(10), true); rec.Code != http.StatusNoContent {
		t.Fatalf("Seed ingest = %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/bots/a.near/daily/profit", "", false)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Paged daily profit = %d, want 503", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/bots/a.near?limit=10", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("Paged trades = %d", rec.Code)
	}
	var trades []domain.ArbitrageEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &trades); err != nil {
		t.Fatalf("Decode trades: %v", err)
	}
	if len(trades) != 1 || trades[0].TxHash != "t1" {
		t.Errorf("Paged trades = %+v, want single t1", trades)
	}
}

func TestResetEndpoint(t *testing.T) {
	s := newTestServer(t, partition.Config{})

	if rec := do(t, s, http.MethodPost, "/batch", testBatchJSON(10), true); rec.Code != http.StatusNoContent {
		t.Fatalf("Seed ingest = %d", rec.Code)
	}

	rec := do(t, s, http.MethodDelete, "/batch", "", true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /batch = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/bots", "", false)
	var ids []string
	if err := json.Unmarshal(rec.Body.Bytes(), &ids); err != nil {
		t.Fatalf("Decode /bots: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Bots after reset = %v, want empty", ids)
	}

	var info map[string]uint64
	rec = do(t, s, http.MethodGet, "/info", "", false)
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Decode /info: %v", err)
	}
	if info["lastBlockHeight"] != 0 {
		t.Errorf("lastBlockHeight after reset = %d, want 0", info["lastBlockHeight"])
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, partition.Config{})
	rec := do(t, s, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}
