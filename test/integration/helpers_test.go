//go:build integration

// Package integration provides integration tests that run against an
// externally started server instance.
package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// Environment variable names for integration test configuration.
const (
	EnvServerURL = "INTEGRATION_SERVER_URL"
)

// Default configuration values.
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultTimeout   = 10 * time.Second
)

// getEnvOrDefault returns the value of the environment variable
// identified by key, or defaultVal if the variable is not set.
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// serverURL returns the base URL of the server under test.
func serverURL() string {
	return getEnvOrDefault(EnvServerURL, DefaultServerURL)
}

// skipIfServerUnavailable checks whether the server is reachable
// and skips the test if it is not.
func skipIfServerUnavailable(t *testing.T) {
	t.Helper()

	base := serverURL()
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(base + "/health")
	if err != nil {
		t.Skipf("Server unavailable at %s: %v", base, err)
	}
	resp.Body.Close()
}

// newHTTPClient returns an *http.Client with a sensible timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// itemResponse represents an item returned by the API.
type itemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// itemRequest is the payload for creating or updating an item.
type itemRequest struct {
	Name string `json:"name"`
}

// doRequest performs an HTTP request and returns status code and body.
func doRequest(t *testing.T, client *http.Client, method, url string, body io.Reader) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp.StatusCode, data
}

// mustCreateItem creates an item and fails the test on any error.
func mustCreateItem(t *testing.T, client *http.Client, name string) itemResponse {
	t.Helper()

	payload, err := json.Marshal(itemRequest{Name: name})
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	status, body := doRequest(t, client, http.MethodPost, serverURL()+"/items", bytes.NewReader(payload))
	if status != http.StatusOK {
		t.Fatalf("Create item status = %d, want %d (body: %s)", status, http.StatusOK, body)
	}

	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("Failed to decode created item: %v", err)
	}

	return item
}

// mustDeleteItem deletes an item, tolerating not-found for cleanup paths.
func mustDeleteItem(t *testing.T, client *http.Client, id int64) {
	t.Helper()

	url := fmt.Sprintf("%s/items/%d", serverURL(), id)
	status, _ := doRequest(t, client, http.MethodDelete, url, nil)
	if status != http.StatusOK && status != http.StatusNotFound {
		t.Fatalf("Delete item status = %d, want %d", status, http.StatusOK)
	}
}
