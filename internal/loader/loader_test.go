package loader

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/httpclient"
)

const employeesDoc = `{
  "data": [
    {"id": "1", "type": "employees",
     "attributes": {"firstName": "John", "lastName": "Doe", "name": "John Doe"},
     "relationships": {"account": {"data": {"id": "a1", "type": "accounts"}}}}
  ],
  "included": [
    {"id": "a1", "type": "accounts", "attributes": {"email": "john@x.com"}},
    {"id": "1", "type": "employees", "attributes": {"firstName": "Dup", "lastName": "Licate", "name": "Dup Licate"}},
    {"id": "2", "type": "employees", "attributes": {"firstName": "Ann", "lastName": "Lee", "name": "Ann Lee"}}
  ]
}`

func newTestLoader(t *testing.T, buf *bytes.Buffer) *Loader {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(httpclient.NewClient(nil), Options{
		HTTP:   httpclient.DefaultOptions(),
		Logger: logger,
	})
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadSuccess(t *testing.T) {
	srv := serve(t, http.StatusOK, employeesDoc)
	var logs bytes.Buffer
	res := newTestLoader(t, &logs).Load(context.Background(), 7, srv.URL)

	if !res.OK() || res.Status != "" {
		t.Fatalf("expected success, got status %q err %v", res.Status, res.Err)
	}
	if res.Generation != 7 || res.URL != srv.URL {
		t.Fatalf("unexpected result identity %d %q", res.Generation, res.URL)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if res.Records[0].Email != "john@x.com" || res.Records[0].FirstName != "John" {
		t.Fatalf("unexpected first record %+v", res.Records[0])
	}
	if res.Records[1].Email != directory.MissingEmail {
		t.Fatalf("expected n/a email for unlinked record, got %q", res.Records[1].Email)
	}
	if !strings.Contains(logs.String(), "duplicate id (1)") {
		t.Fatalf("expected duplicate diagnostic in logs, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "directory loaded") {
		t.Fatalf("expected load summary in logs, got %q", logs.String())
	}
}

func TestLoadFailures(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	cases := []struct {
		name   string
		url    func(t *testing.T) string
		status string
		code   errdef.Code
	}{
		{
			name:   "network",
			url:    func(*testing.T) string { return closedURL },
			status: StatusFailed,
			code:   errdef.CodeNetwork,
		},
		{
			name:   "response body",
			url:    func(t *testing.T) string { return serve(t, http.StatusForbidden, "not allowed\n").URL },
			status: "Response Error: not allowed",
			code:   errdef.CodeResponse,
		},
		{
			name:   "response without body",
			url:    func(t *testing.T) string { return serve(t, http.StatusBadGateway, "").URL },
			status: "Response Error: 502 Bad Gateway",
			code:   errdef.CodeResponse,
		},
		{
			name:   "missing included",
			url:    func(t *testing.T) string { return serve(t, http.StatusOK, `{"data": []}`).URL },
			status: StatusMalformed,
			code:   errdef.CodeMalformed,
		},
		{
			name:   "not json",
			url:    func(t *testing.T) string { return serve(t, http.StatusOK, "<html>").URL },
			status: StatusMalformed,
			code:   errdef.CodeMalformed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			res := newTestLoader(t, &logs).Load(context.Background(), 1, tc.url(t))
			if res.OK() {
				t.Fatalf("expected failure")
			}
			if res.Status != tc.status {
				t.Fatalf("status = %q, want %q", res.Status, tc.status)
			}
			if !errdef.Is(res.Err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, res.Err)
			}
			if res.Records == nil || len(res.Records) != 0 {
				t.Fatalf("expected empty non-nil records, got %v", res.Records)
			}
			if !strings.Contains(logs.String(), "directory load failed") {
				t.Fatalf("expected failure log, got %q", logs.String())
			}
		})
	}
}

func TestLoadLogsNoResponseDetail(t *testing.T) {
	var logs bytes.Buffer
	res := newTestLoader(t, &logs).Load(context.Background(), 1, "ftp://example.com/x")
	if res.Status != StatusFailed {
		t.Fatalf("unexpected status %q", res.Status)
	}
	if !strings.Contains(logs.String(), "no response received") {
		t.Fatalf("expected no response detail, got %q", logs.String())
	}
}

func TestLoadRecordsSpan(t *testing.T) {
	srv := serve(t, http.StatusOK, employeesDoc)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	l := New(httpclient.NewClient(tp.Tracer("http")), Options{Tracer: tp.Tracer("loader")})
	l.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	l.Load(context.Background(), 3, srv.URL)

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected loader and fetch spans, got %d", len(spans))
	}
	var names []string
	for _, s := range spans {
		names = append(names, s.Name())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "loader.load") || !strings.Contains(joined, "httpclient.fetch") {
		t.Fatalf("unexpected spans %v", names)
	}
}

func TestStatusFor(t *testing.T) {
	if StatusFor(nil) != "" {
		t.Fatalf("expected empty status for nil")
	}
	if got := StatusFor(errdef.New(errdef.CodeUnknown, "boom")); got != StatusFailed {
		t.Fatalf("unknown error status = %q", got)
	}
}
