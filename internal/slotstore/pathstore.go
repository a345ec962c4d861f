package slotstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPathstorePrefix is the key path slots are stored under.
const DefaultPathstorePrefix = "mediai/slots"

// Pathstore stores each slot as one node in a pathstore key/value service.
type Pathstore struct {
	baseURL    string
	apiKey     string
	prefix     string
	httpClient *http.Client
}

func NewPathstore(baseURL, apiKey string) *Pathstore {
	return &Pathstore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		prefix:  DefaultPathstorePrefix,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// nodeRequest is the body for PUT /kv/{key}.
type nodeRequest struct {
	Value     json.RawMessage `json:"value"`
	MergeMode string          `json:"merge_mode,omitempty"`
	Source    string          `json:"source,omitempty"`
}

// nodeResponse is the response from GET /kv/{key}.
type nodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

func (p *Pathstore) keyURL(slot string) string {
	return p.baseURL + "/kv/" + p.prefix + "/" + url.PathEscape(slot)
}

func (p *Pathstore) Load(ctx context.Context, slot string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.keyURL(slot), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.authorize(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get node %s: status %d: %s", slot, resp.StatusCode, string(respBody))
	}

	var node nodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	if len(node.Value) == 0 || string(node.Value) == "null" {
		return nil, nil
	}
	return node.Value, nil
}

func (p *Pathstore) Save(ctx context.Context, slot string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("slot %s: data is not valid JSON", slot)
	}
	body, err := json.Marshal(nodeRequest{Value: data, MergeMode: "replace", Source: "mediai"})
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, p.keyURL(slot), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.authorize(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put node %s: status %d: %s", slot, resp.StatusCode, string(respBody))
	}
	return nil
}

// Delete removes a slot. A missing slot is not an error.
func (p *Pathstore) Delete(ctx context.Context, slot string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.keyURL(slot), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	p.authorize(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("delete node %s: status %d: %s", slot, resp.StatusCode, string(respBody))
}

// Available probes GET /health.
func (p *Pathstore) Available(ctx context.Context) bool {
	if p.baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	p.authorize(httpReq)
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (p *Pathstore) authorize(r *http.Request) {
	if p.apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
}

// Close releases idle connections.
func (p *Pathstore) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
