package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kelsos/meili-tasks/internal/config"
	"github.com/kelsos/meili-tasks/internal/models"
)

func newTestClient(serverURL string) *APIClient {
	cfg := config.NewConfig()
	cfg.Host = serverURL + "/"
	cfg.RequestTimeout = 2 * time.Second
	cfg.APIReadyTimeout = 3
	return NewAPIClient(cfg)
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func TestGetReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("statuses"); got != "enqueued,processing" {
			t.Errorf("unexpected statuses %q", got)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"nope","code":"x"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Get(context.Background(), "/tasks", url.Values{"statuses": {"enqueued,processing"}})
	if err != nil {
		t.Fatalf("non-2xx must not be a transport error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound || resp.IsSuccess() {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"message":"nope","code":"x"}` {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

func TestGetOnClosedServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(srv.URL)
	srv.Close()

	_, err := c.Get(context.Background(), "/tasks/1", nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if transportErr.Method != http.MethodGet {
		t.Fatalf("unexpected method %s", transportErr.Method)
	}
}

func TestGetHonoursCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Get(ctx, "/health", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	c := newTestClient("http://localhost:7700")
	if got := c.BuildURL("/tasks/5", nil); got != "http://localhost:7700/tasks/5" {
		t.Fatalf("unexpected url %s", got)
	}
	if got := c.BuildURL("/tasks", url.Values{"limit": {"2"}}); got != "http://localhost:7700/tasks?limit=2" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestWaitForAPIReady(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"available"}`))
	}))
	defer srv.Close()

	if !newTestClient(srv.URL).WaitForAPIReady(context.Background(), time.Millisecond) {
		t.Fatal("expected API to become ready")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 health checks, got %d", calls.Load())
	}
}

func TestWaitForAPIReadyGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if newTestClient(srv.URL).WaitForAPIReady(context.Background(), time.Millisecond) {
		t.Fatal("expected readiness check to fail")
	}
}

// ---------------------------------------------------------------------------
// Decode
// ---------------------------------------------------------------------------

const succeededTask = `{"uid": 1, "status": "succeeded", "type": "dumpCreation", "enqueuedAt": "2022-06-01T10:00:00Z"}`

func TestDecodeSuccess(t *testing.T) {
	task, err := Decode[models.Task]([]byte(succeededTask))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.UID != 1 || task.Status != models.TaskStatusSucceeded {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestDecodeServiceError(t *testing.T) {
	body := `{"message": "Task ` + "`9`" + ` not found.", "code": "task_not_found", "type": "invalid_request", "link": "https://docs.meilisearch.com/errors#task_not_found"}`
	_, err := Decode[models.Task]([]byte(body))

	var serviceErr *models.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if serviceErr.Code != "task_not_found" || serviceErr.Type != "invalid_request" {
		t.Fatalf("unexpected service error %+v", serviceErr)
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		t.Fatal("service error must not be reported as decode error")
	}
}

func TestDecodeNeitherShape(t *testing.T) {
	for _, body := range []string{`<html>bad gateway</html>`, `{}`, `{"code": "x"}`, ``} {
		_, err := Decode[models.Task]([]byte(body))
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("%q: expected DecodeError, got %T: %v", body, err, err)
		}
		if string(decodeErr.Body) != body {
			t.Fatalf("decode error must keep the body, got %q", decodeErr.Body)
		}
	}
}

func TestDecodeUnknownStatusKeepsCause(t *testing.T) {
	body := `{"uid": 1, "status": "paused", "type": "dumpCreation", "enqueuedAt": "2022-06-01T10:00:00Z"}`
	_, err := Decode[models.Task]([]byte(body))

	var statusErr *models.StatusDecodeError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusDecodeError in chain, got %v", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

func TestFetchStampsStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "bad filter", "code": "invalid_task_statuses"}`))
	}))
	defer srv.Close()

	_, err := Fetch[models.Results[models.Task]](context.Background(), newTestClient(srv.URL), "/tasks", nil)
	var serviceErr *models.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if serviceErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", serviceErr.StatusCode)
	}
}
