package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		options  []Option
		validate func(t *testing.T, client *Client)
	}{
		{
			name:    "default_configuration",
			options: []Option{},
			validate: func(t *testing.T, client *Client) {
				if client.maxRetries != 5 {
					t.Errorf("Expected maxRetries=5, got %d", client.maxRetries)
				}
				if client.baseDelay != 2*time.Second {
					t.Errorf("Expected baseDelay=2s, got %v", client.baseDelay)
				}
				if client.client.Timeout != 120*time.Second {
					t.Errorf("Expected timeout=120s, got %v", client.client.Timeout)
				}
			},
		},
		{
			name: "custom_max_retries",
			options: []Option{
				WithMaxRetries(0),
			},
			validate: func(t *testing.T, client *Client) {
				if client.maxRetries != 0 {
					t.Errorf("Expected maxRetries=0, got %d", client.maxRetries)
				}
			},
		},
		{
			name: "custom_http_client",
			options: []Option{
				WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
			},
			validate: func(t *testing.T, client *Client) {
				if client.client.Timeout != 30*time.Second {
					t.Errorf("Expected timeout=30s, got %v", client.client.Timeout)
				}
			},
		},
		{
			name: "multiple_options",
			options: []Option{
				WithMaxRetries(2),
				WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
			},
			validate: func(t *testing.T, client *Client) {
				if client.maxRetries != 2 {
					t.Errorf("Expected maxRetries=2, got %d", client.maxRetries)
				}
				if client.client.Timeout != 10*time.Second {
					t.Errorf("Expected timeout=10s, got %v", client.client.Timeout)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.options...)
			tt.validate(t, client)
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   bool
	}{
		{"rate_limit_429", http.StatusTooManyRequests, true},
		{"service_unavailable_503", http.StatusServiceUnavailable, true},
		{"request_timeout_408", http.StatusRequestTimeout, true},
		{"internal_server_error_500", http.StatusInternalServerError, true},
		{"bad_gateway_502", http.StatusBadGateway, true},
		{"gateway_timeout_504", http.StatusGatewayTimeout, true},
		{"success_200", http.StatusOK, false},
		{"not_found_404", http.StatusNotFound, false},
		{"bad_request_400", http.StatusBadRequest, false},
		{"unauthorized_401", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := isRetryableStatus(tt.statusCode); result != tt.expected {
				t.Errorf("isRetryableStatus(%d) = %v, want %v", tt.statusCode, result, tt.expected)
			}
		})
	}
}

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()))
	req, _ := http.NewRequest("GET", server.URL, nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Do() status code = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestClient_Do_NetworkError(t *testing.T) {
	client := New(WithHTTPClient(&http.Client{Timeout: 1 * time.Millisecond}), WithMaxRetries(0))
	req, _ := http.NewRequest("GET", "http://invalid-url-that-does-not-exist:9999", nil)

	resp, err := client.Do(req)
	if err == nil {
		t.Error("Do() error = nil, want network error")
	}
	if resp != nil {
		t.Error("Do() response should be nil for network errors")
	}
}

func TestClient_Do_NoRetriesReturnsRetryableErrorImmediately(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()), WithMaxRetries(0))
	req, _ := http.NewRequest("GET", server.URL, nil)

	resp, err := client.Do(req)
	if err == nil {
		t.Fatal("Do() error = nil, want *RetryableError")
	}
	retryErr, ok := err.(*RetryableError)
	if !ok {
		t.Fatalf("Do() error type = %T, want *RetryableError", err)
	}
	if retryErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("RetryableError.StatusCode = %d, want %d", retryErr.StatusCode, http.StatusTooManyRequests)
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Do() response status = %v, want %d", resp, http.StatusTooManyRequests)
	}
	if attemptCount != 1 {
		t.Errorf("Expected 1 attempt with maxRetries=0, got %d", attemptCount)
	}
}

func TestClient_Do_RetriesUntilSuccess(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		if attemptCount <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("success after retry"))
		}
	}))
	defer server.Close()

	client := &Client{
		client:     server.Client(),
		maxRetries: 3,
		baseDelay:  time.Millisecond,
		maxDelay:   10 * time.Millisecond,
	}
	req, _ := http.NewRequest("GET", server.URL, nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Do() status code = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if attemptCount != 3 {
		t.Errorf("Expected 3 attempts, got %d", attemptCount)
	}
}

func TestClient_Do_MaxRetriesExceeded(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &Client{
		client:     server.Client(),
		maxRetries: 2,
		baseDelay:  time.Millisecond,
		maxDelay:   10 * time.Millisecond,
	}
	req, _ := http.NewRequest("GET", server.URL, nil)

	resp, err := client.Do(req)
	retryErr, ok := err.(*RetryableError)
	if !ok {
		t.Fatalf("Do() error type = %T, want *RetryableError", err)
	}
	if retryErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("RetryableError.StatusCode = %d, want %d", retryErr.StatusCode, http.StatusInternalServerError)
	}
	if resp == nil || resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Do() response status = %v, want %d", resp, http.StatusInternalServerError)
	}

	expectedAttempts := 2 + 1
	if attemptCount != expectedAttempts {
		t.Errorf("Expected %d attempts, got %d", expectedAttempts, attemptCount)
	}
}

func TestClient_backoff_NeverExceedsMaxDelay(t *testing.T) {
	client := &Client{baseDelay: time.Second, maxDelay: 5 * time.Second}
	for attempt := 0; attempt < 10; attempt++ {
		if d := client.backoff(attempt); d > client.maxDelay {
			t.Errorf("backoff(%d) = %v, want <= %v", attempt, d, client.maxDelay)
		}
	}
}
