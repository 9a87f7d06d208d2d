package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/projstat/internal/cache"
	"github.com/ppiankov/projstat/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Rate.PerHost = 1000
	return cfg
}

func TestClientGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "foo", "stars": 3}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(), cache.Nop{})

	var out struct {
		Name  string `json:"name"`
		Stars int    `json:"stars"`
	}
	if err := client.GetJSON(context.Background(), server.URL, nil, nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Name != "foo" || out.Stars != 3 {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestClientGetJSON_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(), cache.Nop{})

	var out map[string]any
	auth := &BasicAuth{User: "alice", Password: "hunter2"}
	if err := client.GetJSON(context.Background(), server.URL, auth, nil, &out); err != nil {
		t.Errorf("expected authenticated request to succeed: %v", err)
	}

	if err := client.GetJSON(context.Background(), server.URL, nil, nil, &out); err == nil {
		t.Error("expected 401 without credentials")
	}
}

func TestClientGetJSON_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(), cache.Nop{})

	var out map[string]any
	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	if err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestClientGetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": `)
	}))
	defer server.Close()

	client := NewClient(testConfig(), cache.Nop{})

	var out map[string]any
	if err := client.GetJSON(context.Background(), server.URL, nil, nil, &out); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestClientGetJSON_CacheSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{"name": "foo"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(), cache.NewMemoryCache(time.Minute, time.Minute))

	var out map[string]any
	for i := 0; i < 3; i++ {
		if err := client.GetJSON(context.Background(), server.URL, nil, nil, &out); err != nil {
			t.Fatalf("GetJSON %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 network hit with warm cache, got %d", n)
	}
	if out["name"] != "foo" {
		t.Errorf("cached decode mismatch: %v", out)
	}
}

func TestClientGetJSON_CacheKeyedByUser(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(), cache.NewMemoryCache(time.Minute, time.Minute))

	var out map[string]any
	if err := client.GetJSON(context.Background(), server.URL, &BasicAuth{User: "alice", Password: "x"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if err := client.GetJSON(context.Background(), server.URL, &BasicAuth{User: "bob", Password: "x"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected separate cache entries per user, got %d hits", n)
	}
}
