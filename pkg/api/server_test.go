package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentdeck/agentdeck/pkg/api"
	"github.com/agentdeck/agentdeck/pkg/extensions"
	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/agentdeck/agentdeck/pkg/services"
	tdb "github.com/agentdeck/agentdeck/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	client := tdb.NewTestClient(t)

	mounter := extensions.NewMounter()
	extMgr, err := extensions.NewManager(client.Client, mounter, t.TempDir())
	require.NoError(t, err)

	return api.NewServer(
		client,
		services.NewIngestionService(client.Client),
		services.NewRunService(client.Client),
		services.NewEvaluationService(client.Client),
		services.NewAuditService(client.Client),
		extMgr,
		extensions.NewStorage(client.Client),
		mounter,
		nil,
	)
}

func doJSON(t *testing.T, s *api.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestIngestTraceThenQueryRuns(t *testing.T) {
	s := newTestServer(t)

	req := models.IngestTraceRequest{
		RunID:  "run-api-1",
		Status: "completed",
		Nodes: []models.IngestNode{
			{NodeKey: "n1", Status: "completed", Messages: []models.IngestMessage{
				{Order: 0, Role: "user"},
			}},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/traces", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var ingestResp models.IngestTraceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingestResp))
	assert.Equal(t, "ingested", ingestResp.Status)
	assert.Equal(t, "run-api-1", ingestResp.RunID)
	assert.Equal(t, 0, ingestResp.EdgeCount)

	rec = doJSON(t, s, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp models.RunListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.GreaterOrEqual(t, listResp.TotalCount, 1)

	rec = doJSON(t, s, http.MethodGet, "/api/runs/run-api-1/graph", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/runs/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEvaluationRequiresExistingRun(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/evaluations", models.CreateEvaluationRequest{
		RunID:     "missing-run",
		Evaluator: "reviewer",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
