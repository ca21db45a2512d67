// Package pipeline wraps every call to the ticketing backend with the
// cross-cutting concerns no call site should re-implement: bearer-token
// injection, bounded retry with exponential backoff on transport failures,
// loader visibility, and toast feedback derived from response bodies.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"helpdesk-console/internal/feedback"
	"helpdesk-console/pkg/apierror"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 300 * time.Millisecond
	maxBodyBytes      = 4 << 20

	msgServerUnreachable = "Server not responding. Please try again later."
)

// TokenSource yields the bearer token for a request context, if any. The
// Authorization header is only sent when ok is true.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type Options struct {
	HTTPClient *http.Client
	Tokens     TokenSource
	Feedback   *feedback.Center

	// MaxRetries is the number of additional attempts after the first
	// transport failure; BaseDelay seeds the exponential backoff
	// (BaseDelay * 2^attempt before attempt 1, 2, ...).
	MaxRetries int
	BaseDelay  time.Duration
}

// Client is bound to one base URL. Each backend module constructs its own
// client; all of them share the HTTP client, token source, and feedback
// center so cross-cutting behavior stays uniform.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	fx         *feedback.Center
	maxRetries int
	baseDelay  time.Duration
}

func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpClient,
		tokens:     opts.Tokens,
		fx:         opts.Feedback,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// Upload posts a multipart form with one file part plus optional text
// fields, then runs the same response classification as the JSON verbs.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, fileField string, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return apierror.New("UPLOAD_FAILED", "could not build upload request", err.Error(), http.StatusInternalServerError)
		}
	}

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return apierror.New("UPLOAD_FAILED", "could not build upload request", err.Error(), http.StatusInternalServerError)
	}
	if _, err := io.Copy(part, file); err != nil {
		return apierror.New("UPLOAD_FAILED", "could not read upload payload", err.Error(), http.StatusInternalServerError)
	}
	if err := writer.Close(); err != nil {
		return apierror.New("UPLOAD_FAILED", "could not build upload request", err.Error(), http.StatusInternalServerError)
	}

	resp, err := c.send(ctx, http.MethodPost, path, nil, buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return err
	}
	return c.consume(resp, out)
}

// Raw performs a request and hands the successful response to the caller,
// who owns closing the body. Error responses are classified and closed here.
// Used for attachment downloads where the body streams through untouched.
func (c *Client) Raw(ctx context.Context, method string, path string, query url.Values) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, query, nil, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return nil, c.classifyFailure(resp.StatusCode, body)
	}

	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	var payload []byte
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apierror.New("ENCODE_FAILED", "could not encode request body", err.Error(), http.StatusInternalServerError)
		}
		payload = encoded
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, query, payload, contentType)
	if err != nil {
		return err
	}
	return c.consume(resp, out)
}

// send runs the attempt loop. The loader is shown once before the first
// attempt and hidden exactly once when the loop concludes, whatever the
// outcome; retries happen inside that single show/hide pair. Only transport
// failures are retried; any received HTTP response ends the loop.
func (c *Client) send(ctx context.Context, method string, path string, query url.Values, body []byte, contentType string) (*http.Response, error) {
	c.fx.ShowLoader()
	defer c.fx.HideLoader()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
		if err != nil {
			return nil, apierror.New("REQUEST_FAILED", "could not build request", err.Error(), http.StatusInternalServerError)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if c.tokens != nil {
			if token, ok := c.tokens.Token(ctx); ok {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.http.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if attempt >= c.maxRetries {
			break
		}

		delay := c.baseDelay * (1 << (attempt + 1))
		slog.Warn("backend unreachable, retrying",
			"method", method,
			"url", target,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)
		time.Sleep(delay)
	}

	slog.Error("backend unreachable, giving up",
		"method", method,
		"url", target,
		"attempts", c.maxRetries+1,
		"error", lastErr,
	)
	c.fx.Error(msgServerUnreachable)
	return nil, apierror.New(
		"SERVER_UNREACHABLE",
		msgServerUnreachable,
		fmt.Sprintf("%v", lastErr),
		http.StatusServiceUnavailable,
	)
}

// consume classifies a received response: a 2xx body with a message field
// becomes a success toast and the payload is decoded into out; anything else
// is classified into error toasts and a structured error.
func (c *Client) consume(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apierror.New("READ_FAILED", "could not read response", err.Error(), http.StatusBadGateway)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyFailure(resp.StatusCode, body)
	}

	if message := successMessage(body); message != "" {
		c.fx.Success(message)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return apierror.New("DECODE_FAILED", "could not decode response", err.Error(), http.StatusBadGateway)
		}
	}

	return nil
}

func (c *Client) classifyFailure(status int, body []byte) *apierror.APIError {
	messages, validation := extractMessages(body)
	for _, message := range messages {
		c.fx.Error(message)
	}

	if validation {
		return apierror.Validation(messages, status)
	}

	return apierror.New("BACKEND_ERROR", messages[0], "", status)
}
