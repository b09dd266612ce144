package testutil

import (
	"io"
	"net/http"
	"testing"
	"time"
)

// HTTPGet fetches url and returns the status code and body. Transport
// failures fail the test; non-2xx statuses are returned to the caller.
func HTTPGet(t testing.TB, url string) (int, []byte) {
	t.Helper()
	return doRequest(t, http.MethodGet, url)
}

// doRequest executes a bodiless HTTP request and returns status and body.
func doRequest(t testing.TB, method, url string) (int, []byte) {
	t.Helper()
	ctx := Context(t, 2*time.Second)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}
