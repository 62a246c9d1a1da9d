package itemdb

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/osrskit/equipment-requirements/internal/testutil"
)

func newTestClient(t *testing.T, mock *testutil.MockItemDB) *Client {
	t.Helper()

	cfg := DefaultConfig("TestApp/1.0.0 (test@example.com)")
	cfg.BaseURL = mock.URL()

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:        "valid config",
			config:      DefaultConfig("TestApp/1.0.0 (test@example.com)"),
			expectError: false,
		},
		{
			name:        "empty user agent",
			config:      Config{BaseURL: DefaultBaseURL},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	client, err := New(Config{UserAgent: "TestApp/1.0.0"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", client.config.BaseURL)
	}
	if client.config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.config.Timeout, DefaultTimeout)
	}
}

func TestFetchRequirements_Found(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	mock.SetItemRequirements(11802, `[{"skill": "attack", "level": 75}]`)

	client := newTestClient(t, mock)
	result := client.FetchRequirements(context.Background(), 11802)

	if result.Outcome != OutcomeFound {
		t.Fatalf("Outcome = %s, want found (err: %v)", result.Outcome, result.Err)
	}
	if result.ItemID != 11802 {
		t.Errorf("ItemID = %d, want 11802", result.ItemID)
	}
	if len(result.Requirements) != 1 {
		t.Fatalf("len(Requirements) = %d, want 1", len(result.Requirements))
	}
	if result.Requirements[0]["skill"] != "attack" {
		t.Errorf("Requirements[0][skill] = %v, want attack", result.Requirements[0]["skill"])
	}
}

func TestFetchRequirements_NotFound(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	client := newTestClient(t, mock)
	result := client.FetchRequirements(context.Background(), 42)

	if result.Outcome != OutcomeNotFound {
		t.Errorf("Outcome = %s, want not_found", result.Outcome)
	}
	if result.Err != nil {
		t.Errorf("Err = %v, want nil (404 is not an error)", result.Err)
	}
}

func TestFetchRequirements_NoRequirementsInDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no equipment object",
			body: `{"id": 100, "name": "Old boot"}`,
		},
		{
			name: "equipment without requirements",
			body: `{"id": 100, "equipment": {"slot": "feet"}}`,
		},
		{
			name: "empty requirements list",
			body: `{"id": 100, "equipment": {"requirements": []}}`,
		},
		{
			name: "null requirements",
			body: `{"id": 100, "equipment": {"requirements": null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockItemDB()
			defer mock.Close()

			mock.SetItemDocument(100, tt.body)

			client := newTestClient(t, mock)
			result := client.FetchRequirements(context.Background(), 100)

			if result.Outcome != OutcomeNotFound {
				t.Errorf("Outcome = %s, want not_found", result.Outcome)
			}
		})
	}
}

func TestFetchRequirements_MalformedBody(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	mock.SetItemDocument(7, `{"id": 7, "equipment": `)

	client := newTestClient(t, mock)
	result := client.FetchRequirements(context.Background(), 7)

	if result.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %s, want failed", result.Outcome)
	}

	var upstreamErr *UpstreamError
	if !errors.As(result.Err, &upstreamErr) {
		t.Fatalf("Err = %v, want *UpstreamError", result.Err)
	}
	if upstreamErr.ErrorClass != ErrorClassDecode {
		t.Errorf("ErrorClass = %s, want decode", upstreamErr.ErrorClass)
	}
}

func TestFetchRequirements_ServerError(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	mock.SetResponse("/9.json", testutil.NewServerErrorResponse())

	client := newTestClient(t, mock)
	result := client.FetchRequirements(context.Background(), 9)

	if result.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %s, want failed", result.Outcome)
	}

	var upstreamErr *UpstreamError
	if !errors.As(result.Err, &upstreamErr) {
		t.Fatalf("Err = %v, want *UpstreamError", result.Err)
	}
	if upstreamErr.ErrorClass != ErrorClassServer {
		t.Errorf("ErrorClass = %s, want server", upstreamErr.ErrorClass)
	}
	if upstreamErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", upstreamErr.StatusCode)
	}
}

func TestFetchRequirements_UnsolicitedNotModified(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	// A 304 without a preceding conditional request: with no document
	// cache configured there is no stale entry to serve.
	mock.SetResponse("/5.json", testutil.MockResponse{
		StatusCode: http.StatusNotModified,
	})

	client := newTestClient(t, mock)
	result := client.FetchRequirements(context.Background(), 5)

	if result.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %s, want failed", result.Outcome)
	}

	var upstreamErr *UpstreamError
	if !errors.As(result.Err, &upstreamErr) {
		t.Fatalf("Err = %v, want *UpstreamError", result.Err)
	}
	if upstreamErr.StatusCode != http.StatusNotModified {
		t.Errorf("StatusCode = %d, want 304", upstreamErr.StatusCode)
	}
	if upstreamErr.ErrorClass != ErrorClassClient {
		t.Errorf("ErrorClass = %s, want client", upstreamErr.ErrorClass)
	}
}

func TestFetchRequirements_NetworkError(t *testing.T) {
	mock := testutil.NewMockItemDB()
	client := newTestClient(t, mock)
	mock.Close() // connection refused from here on

	result := client.FetchRequirements(context.Background(), 1)

	if result.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %s, want failed", result.Outcome)
	}

	var upstreamErr *UpstreamError
	if !errors.As(result.Err, &upstreamErr) {
		t.Fatalf("Err = %v, want *UpstreamError", result.Err)
	}
	if upstreamErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %s, want network", upstreamErr.ErrorClass)
	}
}

func TestFetchRequirements_Timeout(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	mock.SetResponse("/3.json", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"id": 3}`,
		Delay:      300 * time.Millisecond,
	})

	client := newTestClient(t, mock)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := client.FetchRequirements(ctx, 3)

	if result.Outcome != OutcomeFailed {
		t.Errorf("Outcome = %s, want failed on timeout", result.Outcome)
	}
}

func TestFetchRequirements_SendsUserAgent(t *testing.T) {
	mock := testutil.NewMockItemDB()
	defer mock.Close()

	client := newTestClient(t, mock)
	client.FetchRequirements(context.Background(), 5)

	ua := mock.LastRequestHeader.Get("User-Agent")
	if ua != "TestApp/1.0.0 (test@example.com)" {
		t.Errorf("User-Agent = %q, want the configured identifier", ua)
	}
	if accept := mock.LastRequestHeader.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
}
