package pool

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oginisearch/ogini-go/config"
)

func testPoolConfig(size int, baseURL string) *config.Pool {
	return &config.Pool{
		Enabled:        true,
		Size:           size,
		BaseURL:        baseURL,
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 5 * time.Second,
		KeepAlive:      true,
		MaxIdleTime:    5 * time.Minute,
		MaxConcurrent:  10,
	}
}

func TestGet_RoundRobinCoversEverySlot(t *testing.T) {
	p := New(testPoolConfig(3, "http://localhost"))

	var order []int
	for i := 0; i < 6; i++ {
		order = append(order, p.Get().ID)
	}

	expected := []int{0, 1, 2, 0, 1, 2}
	for i, id := range order {
		if id != expected[i] {
			t.Fatalf("expected round-robin order %v, got %v", expected, order)
		}
	}

	for _, s := range p.GetStats() {
		if s.RequestCount != 2 {
			t.Fatalf("expected every slot used twice, got %d on connection %d", s.RequestCount, s.ID)
		}
		if s.LastUsed.IsZero() {
			t.Fatalf("expected last_used recorded on connection %d", s.ID)
		}
	}
}

func TestNew_ClampsSizeToOne(t *testing.T) {
	p := New(testPoolConfig(0, "http://localhost"))

	conn := p.Get()
	if conn == nil || conn.ID != 0 {
		t.Fatalf("expected a single usable connection for size 0, got %+v", conn)
	}
	if len(p.GetStats()) != 1 {
		t.Fatalf("expected pool clamped to one connection, got %d", len(p.GetStats()))
	}
	if p.Config().Size != 1 {
		t.Fatalf("expected size clamped to 1 in config, got %d", p.Config().Size)
	}
}

func TestGet_DisabledReturnsFreshConnections(t *testing.T) {
	cfg := testPoolConfig(3, "http://localhost")
	cfg.Enabled = false
	p := New(cfg)

	a, b := p.Get(), p.Get()
	if a.ID != -1 || b.ID != -1 {
		t.Fatalf("expected unregistered connections when disabled, got ids %d and %d", a.ID, b.ID)
	}
	if a == b {
		t.Fatalf("expected a fresh connection per call when disabled")
	}
	if len(p.GetStats()) != 0 {
		t.Fatalf("expected no pooled connections when disabled, got %d", len(p.GetStats()))
	}
}

func TestDo_RecordsUsageAndSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := New(testPoolConfig(1, server.URL))
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	res, err := p.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_ = res.Body.Close()

	stats := p.GetStats()[0]
	if stats.RequestCount != 1 || stats.ErrorCount != 0 || !stats.Healthy {
		t.Fatalf("expected one clean request, got %+v", stats)
	}
}

func TestDo_ServerErrorMarksConnectionUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := New(testPoolConfig(1, server.URL))
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	res, err := p.Do(req)
	if err != nil {
		t.Fatalf("expected the response to be returned, got %v", err)
	}
	_ = res.Body.Close()

	stats := p.GetStats()[0]
	if stats.ErrorCount != 1 || stats.Healthy {
		t.Fatalf("expected connection marked unhealthy after 5xx, got %+v", stats)
	}

	// unhealthy connections stay selectable until maintenance recycles them
	if conn := p.Get(); conn.ID != 0 {
		t.Fatalf("expected unhealthy connection still selectable, got id %d", conn.ID)
	}
}

func TestDoConcurrent_PreservesInputOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer server.Close()

	p := New(testPoolConfig(2, server.URL))

	paths := []string{"/a", "/b", "/c", "/d", "/e"}
	reqs := make([]*http.Request, len(paths))
	for i, path := range paths {
		reqs[i], _ = http.NewRequest(http.MethodGet, server.URL+path, nil)
	}

	results := p.DoConcurrent(context.Background(), reqs, 3)
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("expected result %d in slot %d, got index %d", i, i, r.Index)
		}
		if r.Err != nil {
			t.Fatalf("expected no error in slot %d, got %v", i, r.Err)
		}
		body, _ := io.ReadAll(r.Response.Body)
		_ = r.Response.Body.Close()
		if string(body) != paths[i] {
			t.Fatalf("expected response for %s in slot %d, got %q", paths[i], i, body)
		}
	}
}

func TestHealthCheck_ReportsPerConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected probe on /health, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth on probe, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testPoolConfig(2, server.URL)
	cfg.APIKey = "test-key"
	p := New(cfg)

	report := p.HealthCheck(context.Background())
	if len(report) != 2 {
		t.Fatalf("expected a report entry per connection, got %d", len(report))
	}
	for id, h := range report {
		if !h.Healthy || h.StatusCode != http.StatusOK {
			t.Fatalf("expected connection %d healthy, got %+v", id, h)
		}
	}
}

func TestHealthCheck_FailedProbeMarksUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := New(testPoolConfig(1, server.URL))

	report := p.HealthCheck(context.Background())
	h := report[0]
	if h.Healthy || h.StatusCode != http.StatusServiceUnavailable || h.Error == "" {
		t.Fatalf("expected unhealthy report with status and error, got %+v", h)
	}
	if p.GetStats()[0].Healthy {
		t.Fatalf("expected failed probe to mark the connection unhealthy")
	}
}

func TestMaintain_RecyclesIdleConnections(t *testing.T) {
	cfg := testPoolConfig(2, "http://localhost")
	cfg.MaxIdleTime = time.Nanosecond
	p := New(cfg)

	p.Get().ErrorCount = 1
	time.Sleep(time.Millisecond)

	if recycled := p.Maintain(); recycled != 2 {
		t.Fatalf("expected both idle connections recycled, got %d", recycled)
	}
	for _, s := range p.GetStats() {
		if s.RequestCount != 0 || s.ErrorCount != 0 || !s.Healthy {
			t.Fatalf("expected fresh statistics after recycling, got %+v", s)
		}
	}
}

func TestMaintain_RecyclesOpenBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := New(testPoolConfig(1, server.URL))

	// three consecutive probe failures trip the breaker
	for i := 0; i < 3; i++ {
		p.HealthCheck(context.Background())
	}

	if recycled := p.Maintain(); recycled != 1 {
		t.Fatalf("expected the tripped connection recycled, got %d", recycled)
	}
	if !p.GetStats()[0].Healthy {
		t.Fatalf("expected a healthy replacement after recycling")
	}
}

func TestUpdateConfig_SizeChangeRebuildsPool(t *testing.T) {
	p := New(testPoolConfig(2, "http://localhost"))
	p.Get()

	size := 4
	p.UpdateConfig(&ConfigPatch{Size: &size})

	stats := p.GetStats()
	if len(stats) != 4 {
		t.Fatalf("expected 4 connections after resize, got %d", len(stats))
	}
	for _, s := range stats {
		if s.RequestCount != 0 {
			t.Fatalf("expected fresh connections after rebuild, got %+v", s)
		}
	}
	if p.Config().Size != 4 {
		t.Fatalf("expected size 4 in config, got %d", p.Config().Size)
	}
}

func TestUpdateConfig_TuningChangeKeepsConnections(t *testing.T) {
	p := New(testPoolConfig(2, "http://localhost"))
	p.Get()

	concurrent := 20
	p.UpdateConfig(&ConfigPatch{MaxConcurrent: &concurrent})

	if p.GetStats()[0].RequestCount != 1 {
		t.Fatalf("expected live connections kept on a tuning-only change")
	}
	if p.Config().MaxConcurrent != 20 {
		t.Fatalf("expected max_concurrent 20, got %d", p.Config().MaxConcurrent)
	}
}

func TestUpdateConfig_NilPatchIsNoop(t *testing.T) {
	p := New(testPoolConfig(2, "http://localhost"))
	p.UpdateConfig(nil)
	if len(p.GetStats()) != 2 {
		t.Fatalf("expected pool untouched by nil patch")
	}
}
