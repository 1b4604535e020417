package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		CallsPerSecond: 1000,
		CacheTTL:       time.Hour,
		Timeout:        5 * time.Second,
	}
}

func TestNewClientValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero rate", Config{CallsPerSecond: 0, CacheTTL: time.Hour, Timeout: time.Second}},
		{"negative rate", Config{CallsPerSecond: -1, CacheTTL: time.Hour, Timeout: time.Second}},
		{"zero ttl", Config{CallsPerSecond: 5, CacheTTL: 0, Timeout: time.Second}},
		{"zero timeout", Config{CallsPerSecond: 5, CacheTTL: time.Hour, Timeout: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewClient(tc.cfg); err == nil {
				t.Fatal("expected config error")
			}
		})
	}

	client, err := NewClient(Config{CallsPerSecond: 5, CacheTTL: time.Hour, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.baseURL != DefaultBaseURL {
		t.Fatalf("expected default base URL, got %s", client.baseURL)
	}
}

func TestClientCachesSuccessfulResponses(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"PropertyTable":{"Properties":[{"CID":2244,"Title":"Aspirin"}]}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		title, err := client.CompoundTitle(context.Background(), "2244")
		if err != nil {
			t.Fatalf("CompoundTitle failed: %v", err)
		}
		if title != "Aspirin" {
			t.Fatalf("unexpected title %q", title)
		}
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("expected 1 upstream request, got %d", got)
	}
}

func TestClientDoesNotCacheFailures(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		http.Error(w, `{"Fault":{"Code":"PUGREST.NotFound"}}`, http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		_, err := client.CompoundCIDsByName(context.Background(), "nosuchcompound")
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsNotFound(err) {
			t.Fatalf("expected not-found error, got %v", err)
		}
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("expected 2 upstream requests (failures must not be cached), got %d", got)
	}
}

func TestClientClassifiesBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Fault":{"Code":"PUGREST.BadRequest"}}`, http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.CompoundCIDsBySMILES(context.Background(), "not-a-smiles")
	if !IsBadRequest(err) {
		t.Fatalf("expected bad-request error, got %v", err)
	}
	if IsNotFound(err) {
		t.Fatal("bad request must not read as not found")
	}
}

func TestClientRateLimiterSpacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[2244]}}`))
	}))
	t.Cleanup(server.Close)

	cfg := testConfig(server.URL)
	cfg.CallsPerSecond = 10
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	// Distinct URLs so the cache cannot short-circuit the limiter.
	names := []string{"aspirin", "ibuprofen", "caffeine"}
	start := time.Now()
	for _, name := range names {
		if _, err := client.CompoundCIDsByName(context.Background(), name); err != nil {
			t.Fatalf("CompoundCIDsByName(%s) failed: %v", name, err)
		}
	}
	// Three requests at 10/s means at least two 100ms waits after the first.
	if elapsed := time.Since(start); elapsed < 180*time.Millisecond {
		t.Fatalf("requests not paced, took %s", elapsed)
	}
}

func TestClientCachedHitSkipsLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[2244]}}`))
	}))
	t.Cleanup(server.Close)

	cfg := testConfig(server.URL)
	cfg.CallsPerSecond = 2
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.CompoundCIDsByName(context.Background(), "aspirin"); err != nil {
		t.Fatalf("CompoundCIDsByName failed: %v", err)
	}

	start := time.Now()
	for i := 0; i < 10; i++ {
		if _, err := client.CompoundCIDsByName(context.Background(), "aspirin"); err != nil {
			t.Fatalf("cached CompoundCIDsByName failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("cache hits waited on the limiter, took %s", elapsed)
	}
}

func TestClientPostFormForInChI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("inchi"); got != "InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)" {
			t.Fatalf("unexpected inchi form value %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[2244]}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	cids, err := client.CompoundCIDsByInChI(context.Background(),
		"InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)")
	if err != nil {
		t.Fatalf("CompoundCIDsByInChI failed: %v", err)
	}
	if len(cids) != 1 || cids[0] != 2244 {
		t.Fatalf("unexpected cids %v", cids)
	}
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	body := make([]byte, 1000)
	for i := range body {
		body[i] = 'x'
	}
	err := statusError(&Response{StatusCode: 503, Body: body})
	if len(err.Message) > 200 {
		t.Fatalf("status error message not truncated: %d bytes", len(err.Message))
	}
	if err.Kind != KindStatus || err.StatusCode != 503 {
		t.Fatalf("unexpected error %+v", err)
	}

	// Multi-byte bodies are cut on a rune boundary.
	err = statusError(&Response{StatusCode: 503, Body: []byte(strings.Repeat("é", 150))})
	if len(err.Message) > 200 {
		t.Fatalf("status error message not truncated: %d bytes", len(err.Message))
	}
	if !utf8.ValidString(err.Message) {
		t.Fatalf("truncation produced invalid UTF-8: %q", err.Message)
	}
}
