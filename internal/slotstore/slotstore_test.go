package slotstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if data, err := m.Load(ctx, "s"); err != nil || data != nil {
		t.Fatalf("expected nil, nil for missing slot, got %q %v", data, err)
	}
	in := []byte(`[1]`)
	if err := m.Save(ctx, "s", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in[0] = 'x'
	data, _ := m.Load(ctx, "s")
	if string(data) != "[1]" {
		t.Errorf("expected stored copy [1], got %q", data)
	}
	if !m.Available(ctx) {
		t.Error("expected memory store to be available")
	}
}

func TestFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	f := NewFile(path)

	if !f.Available(ctx) {
		t.Fatal("expected temp dir to be available")
	}
	if data, err := f.Load(ctx, "a"); err != nil || data != nil {
		t.Fatalf("expected nil, nil before first save, got %q %v", data, err)
	}
	if err := f.Save(ctx, "a", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := f.Save(ctx, "b", []byte(`[]`)); err != nil {
		t.Fatalf("save b: %v", err)
	}

	data, err := NewFile(path).Load(ctx, "a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(data, &got); err != nil || len(got) != 1 || got[0]["id"] != "1" {
		t.Errorf("unexpected slot contents %q (%v)", data, err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the slot file after save, got %d entries", len(entries))
	}
}

func TestFile_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if err := NewFile(filepath.Join(dir, "x.json")).Save(ctx, "a", []byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	os.WriteFile(corrupt, []byte("{"), 0o644)
	if _, err := NewFile(corrupt).Load(ctx, "a"); err == nil {
		t.Error("expected decode error for corrupt file")
	}

	if NewFile(filepath.Join(dir, "missing", "h.json")).Available(ctx) {
		t.Error("expected missing directory to be unavailable")
	}
}

type fakePathstore struct {
	mu    sync.Mutex
	nodes map[string]json.RawMessage
	auth  []string
}

func (f *fakePathstore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	if r.URL.Path == "/health" {
		w.Write([]byte(`{"status":"ok"}`))
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var req nodeRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.nodes[key] = req.Value
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		v, ok := f.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(nodeResponse{Key: key, Value: v})
	case http.MethodDelete:
		delete(f.nodes, key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestPathstore_RoundTrip(t *testing.T) {
	fake := &fakePathstore{nodes: map[string]json.RawMessage{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	p := NewPathstore(srv.URL+"/", "secret")
	if !p.Available(ctx) {
		t.Fatal("expected pathstore to be available")
	}
	if data, err := p.Load(ctx, "h"); err != nil || data != nil {
		t.Fatalf("expected nil, nil for missing node, got %q %v", data, err)
	}
	if err := p.Save(ctx, "h", []byte(`[{"id":"abc"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := fake.nodes[DefaultPathstorePrefix+"/h"]; !ok {
		t.Errorf("expected node under %s/h, got %v", DefaultPathstorePrefix, fake.nodes)
	}
	data, err := p.Load(ctx, "h")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `[{"id":"abc"}]` {
		t.Errorf("unexpected data %q", data)
	}
	if err := p.Delete(ctx, "h"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, a := range fake.auth {
		if a != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", a)
		}
	}
}

func TestPathstore_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx := context.Background()
	p := NewPathstore(srv.URL, "")
	if p.Available(ctx) {
		t.Error("expected unhealthy pathstore to be unavailable")
	}
	if _, err := p.Load(ctx, "h"); err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected status error, got %v", err)
	}
	if err := p.Save(ctx, "h", []byte(`[]`)); err == nil {
		t.Error("expected save error")
	}
	if NewPathstore("", "").Available(ctx) {
		t.Error("expected empty URL to be unavailable")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default memory", Options{}, false},
		{"file", Options{Backend: "file", File: filepath.Join(t.TempDir(), "h.json")}, false},
		{"file missing path", Options{Backend: "file"}, true},
		{"pathstore", Options{Backend: "Pathstore", PathstoreURL: "http://localhost:1"}, false},
		{"pathstore missing url", Options{Backend: "pathstore"}, true},
		{"postgres missing dsn", Options{Backend: "postgres"}, true},
		{"unknown", Options{Backend: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
