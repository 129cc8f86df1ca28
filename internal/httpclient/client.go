package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/tlsconfig"
)

const (
	acceptHeader     = "application/vnd.api+json, application/json;q=0.9, */*;q=0.1"
	requestIDHeader  = "X-Request-ID"
	defaultUserAgent = "pickterm"
	maxBodyBytes     = 32 << 20
)

var utf8BOM = []byte("\xef\xbb\xbf")

type Options struct {
	Timeout            time.Duration
	FollowRedirects    bool
	InsecureSkipVerify bool
	ProxyURL           string
	Headers            map[string]string
	UserAgent          string
	TLS                tlsconfig.Files
	// BaseDir resolves relative certificate paths.
	BaseDir string
}

// DefaultOptions mirrors the CLI defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:         30 * time.Second,
		FollowRedirects: true,
	}
}

type Client struct {
	tracer trace.Tracer
}

// NewClient returns a client that records a span per fetch. A nil tracer
// falls back to the global provider.
func NewClient(tracer trace.Tracer) *Client {
	if tracer == nil {
		tracer = otel.Tracer("github.com/unkn0wn-root/pickterm/internal/httpclient")
	}
	return &Client{tracer: tracer}
}

type Response struct {
	Status       string
	StatusCode   int
	Proto        string
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	EffectiveURL string
	RequestID    string
}

// ResponseError reports a response whose status is outside the 2xx range.
type ResponseError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// Detail is the trimmed response body, or the status line when the body is
// empty.
func (e *ResponseError) Detail() string {
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		return body
	}
	return e.Status
}

// Fetch performs a GET against rawURL. Transport failures are reported with
// errdef.CodeNetwork; non-2xx responses return the response together with a
// *ResponseError wrapped in errdef.CodeResponse.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts Options) (*Response, error) {
	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "httpclient.fetch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("url.full", rawURL),
		attribute.String("pickterm.request_id", requestID),
	)

	resp, err := c.fetch(ctx, rawURL, requestID, opts)
	if resp != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (c *Client) fetch(ctx context.Context, rawURL, requestID string, opts Options) (*Response, error) {
	target, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "build request")
	}
	httpReq.Header.Set("Accept", acceptHeader)
	httpReq.Header.Set(requestIDHeader, requestID)
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)
	for name, value := range opts.Headers {
		if strings.TrimSpace(name) == "" {
			continue
		}
		httpReq.Header.Set(name, value)
	}

	client, err := c.buildHTTPClient(opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "perform request")
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "read response body")
	}

	response := &Response{
		Status:       resp.Status,
		StatusCode:   resp.StatusCode,
		Proto:        resp.Proto,
		Headers:      resp.Header.Clone(),
		Body:         body,
		Duration:     duration,
		EffectiveURL: resp.Request.URL.String(),
		RequestID:    requestID,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &ResponseError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
		return response, errdef.Wrap(errdef.CodeResponse, rerr, "GET %s", target.Redacted())
	}
	return response, nil
}

func parseTarget(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, errdef.New(errdef.CodeNetwork, "no source url configured")
	}
	target, err := url.Parse(trimmed)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "parse source url")
	}
	switch strings.ToLower(target.Scheme) {
	case "http", "https":
	default:
		return nil, errdef.New(errdef.CodeNetwork, "unsupported url scheme %q", target.Scheme)
	}
	if target.Host == "" {
		return nil, errdef.New(errdef.CodeNetwork, "source url %q has no host", trimmed)
	}
	return target, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return decodeCharset(raw, resp.Header.Get("Content-Type")), nil
}

// decodeCharset converts bodies that declare a non UTF-8 charset. Bodies
// without a declared charset are treated as UTF-8; a leading BOM is dropped.
func decodeCharset(body []byte, contentType string) []byte {
	body = bytes.TrimPrefix(body, utf8BOM)
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" || label == "utf-8" || label == "utf8" {
		return body
	}
	enc, _ := charset.Lookup(label)
	if enc == nil {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

func (c *Client) buildHTTPClient(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeNetwork, err, "parse proxy url")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	files := opts.TLS
	files.Insecure = files.Insecure || opts.InsecureSkipVerify
	if !files.Empty() {
		tc, err := tlsconfig.Build(files, opts.BaseDir)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tc
	}

	client := &http.Client{Transport: transport}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client, nil
}
