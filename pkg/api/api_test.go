package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/octigrid/pkg/cache"
	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/pipeline"
	"github.com/matzehuels/octigrid/pkg/render"
)

const network = `{
  "nodes": [
    {"id": "a", "x": 0, "y": 0},
    {"id": "b", "x": 20, "y": 0},
    {"id": "c", "x": 20, "y": 20}
  ],
  "edges": [
    {"from": "a", "to": "b", "lines": ["U1"]},
    {"from": "b", "to": "c", "lines": ["U1"]}
  ]
}`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	return newConfiguredServer(t, func(*config.Config) {}, opts...)
}

func newConfiguredServer(t *testing.T, configure func(*config.Config), opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	c, err := cache.NewMemoryCache()
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { runner.Close() })

	cfg := config.Default()
	cfg.Lattice.CellSize = 10
	configure(&cfg)
	srv := httptest.NewServer(New(runner, cfg, append([]Option{WithLogger(logger)}, opts...)...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/route"+query, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var info map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info["version"] == "" {
		t.Errorf("version = %v, %v", info, err)
	}
}

func TestRouteJSON(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "", network)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %+v", resp.StatusCode, decodeError(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Run-ID") == "" || resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("headers = %v", resp.Header)
	}
	var d render.Drawing
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatal(err)
	}
	if len(d.Stations) != 3 || len(d.Segments) != 2 {
		t.Errorf("drawing has %d stations, %d segments", len(d.Stations), len(d.Segments))
	}

	again := post(t, srv, "", network)
	if again.Header.Get("X-Cache") != "hit" {
		t.Error("second request should be served from cache")
	}
	if again.Header.Get("X-Run-ID") == resp.Header.Get("X-Run-ID") {
		t.Error("run ids should differ")
	}
	if fresh := post(t, srv, "?refresh=true", network); fresh.Header.Get("X-Cache") != "miss" {
		t.Error("refresh should bypass the cache")
	}
}

func TestRouteDOT(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "?format=dot&labels=1&grid=1", network)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "xlabel") {
		t.Error("labels not drawn")
	}
}

func TestRouteErrors(t *testing.T) {
	srv := newTestServer(t, WithMaxBodyBytes(64))

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"format", "?format=gif", network, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"flag", "?labels=maybe", network, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"cell size", "?cell_size=-2", network, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"topology", "", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidTopology},
		{"too large", "", network, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Error.Code != tt.code || body.Error.Message == "" {
				t.Errorf("error = %+v, want code %s", body.Error, tt.code)
			}
		})
	}
}

func TestRouteNoCandidate(t *testing.T) {
	srv := newConfiguredServer(t, func(c *config.Config) { c.Route.MaxCandidateDistance = 0.05 })
	// b lies between lattice centers, outside the candidate radius.
	body := `{"nodes": [{"id": "a", "x": 5, "y": 5}, {"id": "b", "x": 27, "y": 5}], "edges": [{"from": "a", "to": "b"}]}`
	resp := post(t, srv, "", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Error.Code != errors.ErrCodeNoCandidate {
		t.Errorf("code = %s", body.Error.Code)
	}
}

func TestMetrics(t *testing.T) {
	t.Cleanup(observability.Reset)
	reg := prometheus.NewRegistry()
	observability.NewPrometheus(reg).Install()
	srv := newTestServer(t, WithMetrics(reg))

	post(t, srv, "", network)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	out := buf.String()
	for _, want := range []string{
		`octigrid_http_requests_total{code="2xx",method="POST",route="/v1/route"} 1`,
		"octigrid_edges_routed_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
	resp2, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Error("/metrics served without a gatherer")
	}
}
