package loader

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/httpclient"
	"github.com/unkn0wn-root/pickterm/internal/jsonapi"
)

const (
	StatusLoading   = "Loading, stand by..."
	StatusFailed    = errdef.StatusFailed
	StatusMalformed = errdef.StatusMalformed

	maxLoggedBody = 512
)

// Fetcher is the transport used by Loader. *httpclient.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, opts httpclient.Options) (*httpclient.Response, error)
}

type Options struct {
	Schema directory.Schema
	HTTP   httpclient.Options
	Logger *slog.Logger
	Tracer trace.Tracer
}

type Loader struct {
	fetcher Fetcher
	schema  directory.Schema
	http    httpclient.Options
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Result is one finished load. Status is empty on success and holds the
// user facing failure text otherwise; Records is empty on failure.
type Result struct {
	Generation  uint64
	URL         string
	Records     []directory.Record
	Diagnostics []directory.Diagnostic
	Status      string
	Err         error
	Duration    time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

func New(fetcher Fetcher, opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/unkn0wn-root/pickterm/internal/loader")
	}
	return &Loader{
		fetcher: fetcher,
		schema:  opts.Schema.WithDefaults(),
		http:    opts.HTTP,
		logger:  logger,
		tracer:  tracer,
	}
}

// Load fetches url, decodes it and normalizes the records. Every failure is
// converted into Result.Status and logged; Load itself never fails.
func (l *Loader) Load(ctx context.Context, generation uint64, url string) Result {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "loader.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("url.full", url),
		attribute.Int64("pickterm.generation", int64(generation)),
	)

	res := l.load(ctx, url)
	res.Generation = generation
	res.URL = url
	res.Duration = time.Since(start)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Status)
		return res
	}
	span.SetAttributes(
		attribute.Int("pickterm.records", len(res.Records)),
		attribute.Int("pickterm.diagnostics", len(res.Diagnostics)),
	)
	l.logger.Info("directory loaded",
		"url", url,
		"generation", generation,
		"records", len(res.Records),
		"diagnostics", len(res.Diagnostics),
		"duration", res.Duration,
	)
	return res
}

func (l *Loader) load(ctx context.Context, url string) Result {
	if l.fetcher == nil {
		return l.fail(url, errdef.New(errdef.CodeNetwork, "no fetcher configured"))
	}
	resp, err := l.fetcher.Fetch(ctx, url, l.http)
	if err != nil {
		return l.fail(url, err)
	}

	doc, err := jsonapi.Decode(resp.Body)
	if err != nil {
		return l.fail(url, err)
	}

	normalized := directory.Normalize(doc, l.schema)
	l.logDiagnostics(normalized.Diagnostics)
	return Result{
		Records:     normalized.Records,
		Diagnostics: normalized.Diagnostics,
	}
}

func (l *Loader) fail(url string, err error) Result {
	res := Result{Records: []directory.Record{}, Err: err, Status: StatusFor(err)}
	attrs := []any{"url", url, "code", errdef.CodeOf(err)}

	var respErr *httpclient.ResponseError
	switch {
	case errors.As(err, &respErr):
		attrs = append(attrs, "status", respErr.Status, "body", snippet(respErr.Body))
	case errdef.Is(err, errdef.CodeNetwork):
		attrs = append(attrs, "detail", "no response received")
	}
	attrs = append(attrs, "error", errdef.Message(err))
	l.logger.Warn("directory load failed", attrs...)
	return res
}

func (l *Loader) logDiagnostics(diags []directory.Diagnostic) {
	for _, d := range diags {
		switch d.Kind {
		case directory.DiagnosticDuplicate:
			l.logger.Warn(d.Message, "kind", d.Kind, "id", d.ID, "type", d.Type)
		default:
			l.logger.Debug(d.Message, "kind", d.Kind, "id", d.ID, "type", d.Type)
		}
	}
}

// StatusFor maps a load error onto the status line shown in place of the
// placeholder.
func StatusFor(err error) string {
	return errdef.Status(err)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "..."
}
