package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCopyArtifactSendsLocations(t *testing.T) {
	var got copyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/copy-file" {
			t.Errorf("path = %s, want /api/copy-file", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "copied"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	err := client.CopyArtifact(context.Background(), "outputs/regeneration/cases.xlsx", "outputs/test-design/cases.xlsx")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if got.Source != "outputs/regeneration/cases.xlsx" {
		t.Fatalf("source = %q", got.Source)
	}
	if got.Destination != "outputs/test-design/cases.xlsx" {
		t.Fatalf("destination = %q", got.Destination)
	}
}

func TestCopyArtifactSurfacesFailureBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "destination directory is read-only", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	err := client.CopyArtifact(context.Background(), "a", "b")
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("error type = %T, want *SubmissionError", err)
	}
	if subErr.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", subErr.StatusCode)
	}
	if subErr.Message != "destination directory is read-only" {
		t.Fatalf("message = %q", subErr.Message)
	}
}

func TestCopyArtifactTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL + "/api")
	err := client.CopyArtifact(context.Background(), "a", "b")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		t.Fatalf("transport failure must not be a SubmissionError")
	}
}
