package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j-russo/chunking-visualizer/internal/config"
	"github.com/j-russo/chunking-visualizer/internal/pipeline"
	"github.com/j-russo/chunking-visualizer/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "8090",
		MaxUploadBytes: 1 << 20,
		MaxTextBytes:   64 << 10,
		WorkerCount:    1,
		MaxQueueSize:   4,
		JobTTL:         time.Hour,
		StatsWindow:    time.Hour,
	}
}

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	rec := stats.NewRecorder(reg, cfg.StatsWindow)

	orch := pipeline.NewOrchestrator(cfg, rec, log)
	orch.Start(context.Background())

	ts := httptest.NewServer(NewServer(orch, rec, reg, log, cfg))
	t.Cleanup(func() {
		ts.Close()
		orch.Stop()
	})
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestChunk_Characters(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := postJSON(t, ts.URL+"/api/chunk", map[string]any{
		"text":     "Hello world!!",
		"strategy": "characters",
		"size":     4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body chunkResponse
	decode(t, resp, &body)
	assert.Equal(t, "characters", string(body.Strategy))
	require.Len(t, body.Chunks, 4)
	assert.Equal(t, chunkView{Index: 0, Text: "Hell", Start: 0, End: 4, Size: 4, Tokens: 1}, body.Chunks[0])
	assert.Equal(t, "!", body.Chunks[3].Text)
	assert.Equal(t, 4, body.Metrics.Count)
	assert.Equal(t, 13, body.Metrics.TotalChars)
	assert.Equal(t, 100, body.Efficiency)
}

func TestChunk_DefaultSize(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := postJSON(t, ts.URL+"/api/chunk", map[string]any{
		"text":     "Para one.\n\nPara two.",
		"strategy": "Paragraphs",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body chunkResponse
	decode(t, resp, &body)
	assert.Equal(t, 400, body.Params.Size)
	require.Len(t, body.Chunks, 2)
	assert.Equal(t, 11, body.Chunks[1].Start)
}

func TestChunk_EmptyText(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := postJSON(t, ts.URL+"/api/chunk", map[string]any{"text": "", "strategy": "sentences"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	decode(t, resp, &raw)
	assert.JSONEq(t, "[]", string(raw["chunks"]))
}

func TestChunk_Errors(t *testing.T) {
	ts := newTestServer(t, testConfig())

	tests := []struct {
		name string
		body any
		code int
	}{
		{"unknown strategy", map[string]any{"text": "x", "strategy": "tokens"}, http.StatusBadRequest},
		{"missing strategy", map[string]any{"text": "x"}, http.StatusBadRequest},
		{"negative size", map[string]any{"text": "x", "strategy": "characters", "size": -1}, http.StatusBadRequest},
		{"overlap too large", map[string]any{"text": "x", "strategy": "characters", "size": 5, "overlap": 5}, http.StatusBadRequest},
		{"overlap on sentences", map[string]any{"text": "x", "strategy": "sentences", "overlap": 1}, http.StatusBadRequest},
		{"wrong type", map[string]any{"text": 7, "strategy": "characters"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/chunk", tt.body)
			var body map[string]string
			decode(t, resp, &body)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestChunk_TextTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTextBytes = 16
	ts := newTestServer(t, cfg)

	resp := postJSON(t, ts.URL+"/api/chunk", map[string]any{
		"text":     strings.Repeat("a", 70*1024),
		"strategy": "characters",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := postJSON(t, ts.URL+"/api/compare", map[string]any{
		"text":    "First sentence. Second one!\n\nAnother paragraph?",
		"size":    20,
		"overlap": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []chunkResponse `json:"results"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Results, 4)
	assert.Equal(t, "characters", string(body.Results[0].Strategy))
	assert.Equal(t, 5, body.Results[0].Params.Overlap)
	for _, r := range body.Results[1:] {
		assert.Zero(t, r.Params.Overlap)
		assert.Equal(t, 20, r.Params.Size)
	}
	assert.Equal(t, body.Results[2].Chunks, body.Results[3].Chunks)
}

func multipartBody(t *testing.T, field string, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestChunkFile_Markdown(t *testing.T) {
	ts := newTestServer(t, testConfig())

	body, ct := multipartBody(t, "file",
		map[string]string{"guide.md": "# Setup\n\nInstall it. Run it.\n"},
		map[string]string{"strategy": "paragraphs", "size": "12"},
	)
	resp, err := http.Post(ts.URL+"/api/chunk/file", ct, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chunkResponse
	decode(t, resp, &out)
	assert.Equal(t, "guide", out.Title)
	require.Len(t, out.Chunks, 3)
	assert.Equal(t, "Setup", out.Chunks[0].Text)
	assert.Equal(t, "Install it.", out.Chunks[1].Text)
	assert.Equal(t, "Run it.", out.Chunks[2].Text)
}

func TestChunkFile_BadSize(t *testing.T) {
	ts := newTestServer(t, testConfig())

	body, ct := multipartBody(t, "file",
		map[string]string{"a.txt": "text"},
		map[string]string{"strategy": "characters", "size": "big"},
	)
	resp, err := http.Post(ts.URL+"/api/chunk/file", ct, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChunkFile_Unsupported(t *testing.T) {
	ts := newTestServer(t, testConfig())

	body, ct := multipartBody(t, "file",
		map[string]string{"image.png": "\x89PNG\r\n\x1a\n"},
		map[string]string{"strategy": "characters"},
	)
	resp, err := http.Post(ts.URL+"/api/chunk/file", ct, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestJobs_SubmitAndPoll(t *testing.T) {
	ts := newTestServer(t, testConfig())

	body, ct := multipartBody(t, "files",
		map[string]string{"notes.txt": "One line.\n\nAnother line."},
		map[string]string{"strategy": "paragraphs", "size": "50"},
	)
	resp, err := http.Post(ts.URL+"/api/jobs", ct, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var submitted struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decode(t, resp, &submitted)
	require.Len(t, submitted.Jobs, 1)
	pollURL, _ := submitted.Jobs[0]["poll_url"].(string)
	require.NotEmpty(t, pollURL)

	var status struct {
		Status string         `json:"status"`
		Result *chunkResponse `json:"result"`
	}
	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + pollURL)
		if err != nil {
			return false
		}
		decode(t, resp, &status)
		return status.Status == string(pipeline.StatusCompleted)
	}, 2*time.Second, 10*time.Millisecond)

	require.NotNil(t, status.Result)
	assert.Equal(t, "notes", status.Result.Title)
	require.Len(t, status.Result.Chunks, 2)
	assert.Equal(t, "Another line.", status.Result.Chunks[1].Text)
}

func TestJobs_RejectsInvalidParams(t *testing.T) {
	ts := newTestServer(t, testConfig())

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"overlap above size", map[string]string{"strategy": "characters", "size": "4", "overlap": "9"}},
		{"overlap equals size", map[string]string{"strategy": "characters", "size": "4", "overlap": "4"}},
		{"overlap on sentences", map[string]string{"strategy": "sentences", "overlap": "2"}},
		{"negative size", map[string]string{"strategy": "paragraphs", "size": "-1"}},
		{"unknown strategy", map[string]string{"strategy": "topics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, endpoint := range []string{"/api/jobs", "/api/chunk/file"} {
				field := "files"
				if endpoint == "/api/chunk/file" {
					field = "file"
				}
				body, ct := multipartBody(t, field, map[string]string{"a.txt": "Some text."}, tt.fields)
				resp, err := http.Post(ts.URL+endpoint, ct, body)
				require.NoError(t, err)

				var out map[string]any
				decode(t, resp, &out)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode, endpoint)
				assert.NotEmpty(t, out["error"], endpoint)
				assert.Nil(t, out["jobs"], endpoint)
			}
		})
	}
}

func TestUploads_ApplyTextLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTextBytes = 8
	ts := newTestServer(t, cfg)
	doc := map[string]string{"long.txt": "More than eight bytes of text."}
	fields := map[string]string{"strategy": "characters"}

	body, ct := multipartBody(t, "file", doc, fields)
	resp, err := http.Post(ts.URL+"/api/chunk/file", ct, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	body, ct = multipartBody(t, "files", doc, fields)
	resp, err = http.Post(ts.URL+"/api/jobs", ct, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var submitted struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decode(t, resp, &submitted)
	require.Len(t, submitted.Jobs, 1)
	pollURL, _ := submitted.Jobs[0]["poll_url"].(string)
	require.NotEmpty(t, pollURL)

	var status struct {
		Status string   `json:"status"`
		Errors []string `json:"errors"`
	}
	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + pollURL)
		if err != nil {
			return false
		}
		decode(t, resp, &status)
		return status.Status == string(pipeline.StatusFailed)
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, status.Errors, 1)
	assert.Contains(t, status.Errors[0], "too large")
}

func TestJobs_NotFound(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, err := http.Get(ts.URL + "/api/jobs/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStrategies(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, err := http.Get(ts.URL + "/api/strategies")
	require.NoError(t, err)
	var body struct {
		Strategies []strategyInfo `json:"strategies"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Strategies, 4)
	assert.True(t, body.Strategies[0].Overlap)
	assert.Equal(t, 400, body.Strategies[2].Defaults.Size)
}

func TestSamples(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, err := http.Get(ts.URL + "/api/samples/drawing-notes")
	require.NoError(t, err)
	var body map[string]string
	decode(t, resp, &body)
	assert.True(t, strings.HasPrefix(body["text"], "GENERAL NOTES:"))

	resp, err = http.Get(ts.URL + "/api/samples/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatsAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := postJSON(t, ts.URL+"/api/chunk", map[string]any{"text": "abc", "strategy": "characters"})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	var body struct {
		Strategies map[string]stats.Snapshot `json:"strategies"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 1, body.Strategies["characters"].Count)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "chunkviz_chunks_total")
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "secret"
	ts := newTestServer(t, cfg)

	resp, err := http.Get(ts.URL + "/api/strategies")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/strategies", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Health stays public.
	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
	assert.Equal(t, "a_b.txt", sanitizeFilename("a..b.txt"))
}
