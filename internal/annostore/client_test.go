package annostore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_PutSpan(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody SpanRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.PutSpan(context.Background(), "span-1", SpanRecord{
		DocID: "doc-9",
		Xpath: "//p[1]",
		Start: 0,
		End:   5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/spans/span-1" {
		t.Errorf("expected path /spans/span-1, got %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody.DocID != "doc-9" || gotBody.End != 5 {
		t.Errorf("unexpected body: %+v", gotBody)
	}
}

func TestClient_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.PutSpan(context.Background(), "span-1", SpanRecord{DocID: "d"})
	if err == nil {
		t.Fatal("expected error for 503")
	}
	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Errorf("expected RetryableError, got %T: %v", err, err)
	}
}

func TestClient_ClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad span", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.PutSpan(context.Background(), "span-1", SpanRecord{DocID: "d"})
	if err == nil {
		t.Fatal("expected error for 400")
	}
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		t.Errorf("expected permanent error, got retryable: %v", err)
	}
}

func TestClient_GetSpanNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	entry, err := c.GetSpan(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry for 404, got %+v", entry)
	}
}

func TestClient_ListByDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("doc_id"); got != "doc-9" {
			t.Errorf("expected doc_id=doc-9, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"spans": []SpanEntry{{ID: "a", DocID: "doc-9", Start: 0, End: 5}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	spans, err := c.ListByDocument(context.Background(), "doc-9", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 || spans[0].ID != "a" {
		t.Errorf("unexpected spans: %+v", spans)
	}
}
