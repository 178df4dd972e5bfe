package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recast/pkg/config"
	"recast/pkg/utils"
	"recast/pkg/workspace"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ServerURL = serverURL
	return NewClient(cfg, utils.GetLogger(true))
}

func TestPlanRoundTrip(t *testing.T) {
	var received PlanRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/plan", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(PlanResponse{
			RequestID:      received.RequestID,
			TargetFiles:    []PlanTarget{{Path: "a.py", Reason: "uses deprecated API"}},
			PlannerVersion: "1.0.0",
			Seed:           42,
		})
	}))
	defer server.Close()

	skeleton := base64.StdEncoding.EncodeToString([]byte("line 1\nline 2"))
	req := &PlanRequest{
		RequestID:     NewRequestID(),
		Instruction:   "modernize the API layer",
		WorkspaceRoot: "/work",
		FileTree: []workspace.FileTreeEntry{
			{Path: "a.py", Kind: "file", Size: 80},
		},
		Skeletons:        []workspace.FileSkeleton{{Path: "a.py", Content: skeleton}},
		MaxSkeletonBytes: 13,
	}
	resp, err := testClient(t, server.URL).Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.RequestID, received.RequestID)
	assert.Equal(t, "modernize the API layer", received.Instruction)
	assert.Equal(t, 13, received.MaxSkeletonBytes)
	require.Len(t, received.Skeletons, 1)
	assert.Equal(t, skeleton, received.Skeletons[0].Content)

	require.Len(t, resp.TargetFiles, 1)
	assert.Equal(t, "a.py", resp.TargetFiles[0].Path)
	assert.Equal(t, "uses deprecated API", resp.TargetFiles[0].Reason)
}

func TestPlanServerErrorIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Plan(context.Background(), &PlanRequest{RequestID: NewRequestID()})
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "/plan", transportErr.Endpoint)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.Contains(t, transportErr.Body, "internal_error")
}

func TestPlanUnreachableBackend(t *testing.T) {
	_, err := testClient(t, "http://127.0.0.1:1").Plan(context.Background(), &PlanRequest{RequestID: NewRequestID()})
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Zero(t, transportErr.StatusCode)
}

func TestRefactorRoundTrip(t *testing.T) {
	var received RefactorRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refactor", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(RefactorResponse{
			RequestID: received.RequestID,
			Results: []RefactorResult{
				{Path: "a.py", NewContent: "rewritten", FormattingOK: true},
				{Path: "b.py", Error: "syntax error"},
			},
			Branch: "ai-refactor/20260823120000",
		})
	}))
	defer server.Close()

	content := base64.StdEncoding.EncodeToString([]byte("print('hi')\n"))
	req := &RefactorRequest{
		RequestID:   "req-1",
		TargetFiles: []TargetFile{{Path: "a.py", Content: content}},
		ResearchConstraints: config.ResearchConstraints{
			MaxPapers:      3,
			AllowedSources: []string{"arxiv.org"},
		},
		DryRun: false,
	}
	resp, err := testClient(t, server.URL).Refactor(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "req-1", received.RequestID)
	assert.False(t, received.DryRun)
	assert.Equal(t, 3, received.ResearchConstraints.MaxPapers)
	require.Len(t, received.TargetFiles, 1)
	assert.Equal(t, content, received.TargetFiles[0].Content)

	require.Len(t, resp.Results, 2)
	assert.Empty(t, resp.Results[0].Error)
	assert.Equal(t, "syntax error", resp.Results[1].Error)
	assert.Equal(t, "ai-refactor/20260823120000", resp.Branch)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	health, err := testClient(t, server.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestNewRequestIDUnique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
