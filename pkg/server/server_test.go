package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/config"
	"github.com/soundprediction/ontograph/pkg/types"
)

func newTestServer(t *testing.T) (*Server, *ontograph.Client) {
	t.Helper()

	client, err := ontograph.NewClient(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server = config.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: gin.TestMode}

	s := New(cfg, client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Setup()
	return s, client
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func populateServer(t *testing.T, s *Server) {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/api/v1/ingest/nodes", gin.H{
		"nodes": []types.Node{
			{ID: 100, Term: "Disease", Type: types.TypeDisease},
			{ID: 101, Term: "Cancer", Type: types.TypeDisease},
			{ID: 103, Term: "Lung Cancer", Type: types.TypeDisease},
			{ID: 104, Term: "Breast Cancer", Type: types.TypeDisease},
			{ID: 200, Term: "Cisplatin", Type: types.TypeDrug},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPost, "/api/v1/ingest/edges", gin.H{
		"edges": []types.Edge{
			{Source: 101, Target: 100, Type: types.EdgeIsA},
			{Source: 103, Target: 101, Type: types.EdgeIsA},
			{Source: 104, Target: 101, Type: types.EdgeIsA},
			{Source: 200, Target: 103, Type: types.EdgeTreats},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live", "/health/detailed"} {
		w := doJSON(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestIngestAndQueryNode(t *testing.T) {
	s, _ := newTestServer(t)
	populateServer(t, s)

	w := doJSON(t, s, http.MethodGet, "/api/v1/nodes/103", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Node        types.Node `json:"node"`
		Ancestors   []uint64   `json:"ancestors"`
		Descendants []uint64   `json:"descendants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Lung Cancer", resp.Node.Term)
	assert.ElementsMatch(t, []uint64{100, 101}, resp.Ancestors)
}

func TestQueryNodeNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/nodes/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/nodes/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestRejectsInvalidNode(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/ingest/nodes", gin.H{
		"nodes": []types.Node{{ID: 1, Term: ""}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTreatmentsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	populateServer(t, s)

	w := doJSON(t, s, http.MethodGet, "/api/v1/nodes/103/treatments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "200")
}

func TestSimilarityLifecycleOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	populateServer(t, s)

	// Before the index is built similarity queries are rejected.
	w := doJSON(t, s, http.MethodGet, "/api/v1/similarity?a=103&b=104", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/nodes/103/similar", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/ingest/embeddings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/similarity?a=103&b=103", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sim struct {
		Similarity float64 `json:"similarity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sim))
	assert.Equal(t, 1.0, sim.Similarity)

	w = doJSON(t, s, http.MethodGet, "/api/v1/nodes/103/similar?k=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/nodes/103/similar?k=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/nodes/999/similar", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContraindicationsEndpoint(t *testing.T) {
	s, client := newTestServer(t)
	populateServer(t, s)
	require.NoError(t, client.AddNode(types.Node{ID: 202, Term: "Aspirin", Type: types.TypeDrug}))
	require.NoError(t, client.AddEdge(types.Edge{Source: 202, Target: 103, Type: types.EdgeContraindicates}))

	w := doJSON(t, s, http.MethodPost, "/api/v1/contraindications", gin.H{
		"drug_id":       202,
		"condition_ids": []uint64{103, 104},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"condition_id":103`)
}

func TestMatchEndpoint(t *testing.T) {
	s, client := newTestServer(t)
	require.NoError(t, client.InitializeMatcher([]types.PatternGroup{
		{Name: "wrangler", Patterns: []string{"npx wrangler"}, Category: "cloudflare", Confidence: 0.9},
	}))

	w := doJSON(t, s, http.MethodPost, "/api/v1/match", gin.H{"text": "run NPX WRANGLER deploy"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Matches []types.ToolMatch `json:"matches"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "wrangler", resp.Matches[0].Name)

	w = doJSON(t, s, http.MethodPost, "/api/v1/match", gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	populateServer(t, s)

	w := doJSON(t, s, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats ontograph.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 5, stats.Nodes)
	assert.Equal(t, 4, stats.Edges)
	assert.Equal(t, 3, stats.IsAEdges)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
