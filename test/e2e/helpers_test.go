//go:build e2e

// Package e2e provides end-to-end tests that exercise a deployed server
// through its public HTTP surface only.
package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// Environment variable names for E2E test configuration.
const (
	EnvServerURL = "INTEGRATION_SERVER_URL"
)

// Default configuration values.
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultTimeout   = 15 * time.Second
)

// getEnvOrDefault returns the value of the environment variable
// identified by key, or defaultVal if the variable is not set.
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// e2eServerURL returns the base URL of the server under test.
func e2eServerURL() string {
	return getEnvOrDefault(EnvServerURL, DefaultServerURL)
}

// skipIfServerUnavailable checks whether the server is reachable
// and skips the test if it is not.
func skipIfServerUnavailable(t *testing.T) {
	t.Helper()

	base := e2eServerURL()
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

// postItem sends a create request and returns status and decoded item.
func postItem(t *testing.T, client *http.Client, name string) (int, itemResponse) {
	t.Helper()

	payload, err := json.Marshal(itemRequest{Name: name})
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	status, body := doRequest(t, client, http.MethodPost, e2eServerURL()+"/items", bytes.NewReader(payload))

	var item itemResponse
	if status == http.StatusOK {
		if err := json.Unmarshal(body, &item); err != nil {
			t.Fatalf("Failed to decode created item: %v", err)
		}
	}

	return status, item
}
