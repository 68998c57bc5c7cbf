//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   - Create/restock cycle: POST twice on one SKU merges quantities
//   - Filtered listing by sku and category
//   - Partial update and delete with audit trail visible via /v1/audit
//   - Monitor sweep publishes the summary to the Redis alert channel
//   - Analysis endpoint rejects missing text without touching the model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/config"
	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/infra"
	"github.com/VarunShelke/accessible-med-tracker/internal/router"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	rdb    *redis.Client
	cfg    *config.Config
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("medtrack_test"),
		tcPostgres.WithUsername("medtrack"),
		tcPostgres.WithPassword("medtrack"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		WorkerPoolSize:    1,
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		LLMEndpoint:       "http://localhost:9999", // never reached in these tests
		LLMModel:          "test-model",
		LowStockThreshold: 15,
		AlertChannel:      "alerts:low-stock",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	llm := infra.NewLLMClient(cfg, cb)

	r := router.New(cfg, db, rdb, llm, cb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, rdb: rdb, cfg: cfg}
}

func createItem(t *testing.T, env *testEnv, sku, name string, qty int, category string) dto.ItemResponse {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/inventory", jsonBody(t, map[string]any{
		"sku":              sku,
		"item_name":        name,
		"quantity":         qty,
		"expiration_date":  "2027-06-30",
		"storage_location": "Cabinet A",
		"category":         category,
	}))
	require.Contains(t, []int{http.StatusCreated, http.StatusOK}, resp.StatusCode)
	var body dto.ItemMutationResponse
	decodeJSON(t, resp, &body)
	return body.Item
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CreateThenRestockMerges(t *testing.T) {
	env := setupTestEnv(t)

	first := do(t, env.server, "POST", "/v1/inventory", jsonBody(t, map[string]any{
		"sku":              "TYL-500",
		"item_name":        "Extra Strength Tylenol",
		"quantity":         5,
		"expiration_date":  "2027-03-01",
		"storage_location": "Cabinet B",
		"category":         "Pain Relief",
	}))
	require.Equal(t, http.StatusCreated, first.StatusCode)
	var created dto.ItemMutationResponse
	decodeJSON(t, first, &created)
	assert.Equal(t, 5, created.Item.Quantity)

	second := do(t, env.server, "POST", "/v1/inventory", jsonBody(t, map[string]any{
		"sku":              "TYL-500",
		"item_name":        "Extra Strength Tylenol",
		"quantity":         3,
		"expiration_date":  "2027-03-01",
		"storage_location": "Cabinet B",
		"category":         "Pain Relief",
	}))
	require.Equal(t, http.StatusOK, second.StatusCode)
	var merged dto.ItemMutationResponse
	decodeJSON(t, second, &merged)
	assert.Equal(t, 8, merged.Item.Quantity)
	assert.Equal(t, created.Item.ID, merged.Item.ID)
}

func TestE2E_ListFilters(t *testing.T) {
	env := setupTestEnv(t)
	createItem(t, env, "ADV-200", "Advil Liqui-Gels", 40, "Pain Relief")
	createItem(t, env, "BND-100", "Bandages", 30, "First Aid")

	resp := do(t, env.server, "GET", "/v1/inventory?sku=ADV-200", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bySKU dto.InventoryListResponse
	decodeJSON(t, resp, &bySKU)
	require.Len(t, bySKU.Inventory, 1)
	assert.Equal(t, "Advil Liqui-Gels", bySKU.Inventory[0].ItemName)

	resp = do(t, env.server, "GET", "/v1/inventory?category=First+Aid", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byCat dto.InventoryListResponse
	decodeJSON(t, resp, &byCat)
	require.Len(t, byCat.Inventory, 1)
	assert.Equal(t, "Bandages", byCat.Inventory[0].ItemName)

	// A miss is an empty list, never an error.
	resp = do(t, env.server, "GET", "/v1/inventory?sku=NOPE", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty dto.InventoryListResponse
	decodeJSON(t, resp, &empty)
	assert.Empty(t, empty.Inventory)
}

func TestE2E_UpdateDeleteAndAuditTrail(t *testing.T) {
	env := setupTestEnv(t)
	item := createItem(t, env, "GZE-10", "Gauze Pads", 12, "First Aid")

	resp := do(t, env.server, "PUT", "/v1/inventory/"+item.ID, jsonBody(t, map[string]any{
		"quantity": 4,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ItemMutationResponse
	decodeJSON(t, resp, &updated)
	assert.Equal(t, 4, updated.Item.Quantity)
	assert.Equal(t, "Gauze Pads", updated.Item.ItemName)

	resp = do(t, env.server, "DELETE", "/v1/inventory/"+item.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "DELETE", "/v1/inventory/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// CREATE, UPDATE, DELETE entries for the item
	resp = do(t, env.server, "GET", "/v1/audit?item_id="+item.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var audit dto.AuditListResponse
	decodeJSON(t, resp, &audit)
	require.Len(t, audit.Audits, 3)

	actions := make([]string, 0, 3)
	for _, e := range audit.Audits {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "CREATE")
	assert.Contains(t, actions, "UPDATE")
	assert.Contains(t, actions, "DELETE")

	for _, e := range audit.Audits {
		if e.Action == "DELETE" {
			assert.Equal(t, 4, e.QuantityBefore)
			assert.Equal(t, 0, e.QuantityAfter)
		}
	}
}

func TestE2E_MonitorPublishesAlert(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	createItem(t, env, "GZE-10", "Gauze Pads", 4, "First Aid")
	createItem(t, env, "TYL-500", "Extra Strength Tylenol", 50, "Pain Relief")

	sub := env.rdb.Subscribe(ctx, env.cfg.AlertChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	resp := do(t, env.server, "POST", "/v1/monitor/run", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Message       string `json:"message"`
		LowStockCount int    `json:"low_stock_count"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, 1, body.LowStockCount)
	assert.Equal(t, fmt.Sprintf("Checked inventory. Found %d low stock items.", 1), body.Message)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "1 items are low in stock: Gauze Pads", msg.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("no alert received on the Redis channel")
	}
}

func TestE2E_LowStockReportThreshold(t *testing.T) {
	env := setupTestEnv(t)

	createItem(t, env, "A-1", "Plenty", 20, "Misc")
	createItem(t, env, "B-1", "Borderline", 15, "Misc")
	createItem(t, env, "C-1", "Low", 10, "Misc")
	createItem(t, env, "D-1", "Critical", 3, "Misc")

	resp := do(t, env.server, "GET", "/v1/inventory/low", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.InventoryListResponse
	decodeJSON(t, resp, &body)
	require.Len(t, body.Inventory, 2)
	assert.Equal(t, "Critical", body.Inventory[0].ItemName)
	assert.Equal(t, "Low", body.Inventory[1].ItemName)
}

func TestE2E_AnalysisRejectsMissingText(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/analysis", jsonBody(t, map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_Health(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "connected", body["redis"])
	assert.Equal(t, "closed", body["llm_breaker"])
}
