package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"helpdesk-console/internal/feedback"
	"helpdesk-console/pkg/apierror"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token(context.Context) (string, bool) {
	return s.token, s.token != ""
}

type toastRecorder struct {
	mu     sync.Mutex
	toasts []feedback.Toast
}

func (r *toastRecorder) record(toast feedback.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

func (r *toastRecorder) all() []feedback.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]feedback.Toast(nil), r.toasts...)
}

func (r *toastRecorder) texts() []string {
	var texts []string
	for _, toast := range r.all() {
		texts = append(texts, toast.Text)
	}
	return texts
}

// failingTransport fails every round trip and records attempt times.
type failingTransport struct {
	mu       sync.Mutex
	attempts []time.Time
}

func (t *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts = append(t.attempts, time.Now())
	return nil, errors.New("connection refused")
}

func newTestClient(t *testing.T, baseURL string, opts Options) (*Client, *toastRecorder) {
	t.Helper()

	recorder := &toastRecorder{}
	if opts.Feedback == nil {
		opts.Feedback = feedback.NewCenter()
	}
	opts.Feedback.RegisterToast(recorder.record)

	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Millisecond
	}

	return New(baseURL, opts), recorder
}

func TestClientAuthorization(t *testing.T) {
	t.Parallel()

	t.Run("attaches bearer header when a token is available", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client, _ := newTestClient(t, server.URL, Options{Tokens: staticTokens{token: "tok-123"}})
		require.NoError(t, client.Get(context.Background(), "/tickets", nil, nil))
		require.Equal(t, "Bearer tok-123", got)
	})

	t.Run("omits the header without a token", func(t *testing.T) {
		var sawHeader bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawHeader = r.Header["Authorization"]
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client, _ := newTestClient(t, server.URL, Options{Tokens: staticTokens{}})
		require.NoError(t, client.Get(context.Background(), "/tickets", nil, nil))
		require.False(t, sawHeader)
	})
}

func TestClientRetry(t *testing.T) {
	t.Parallel()

	t.Run("transport failure retries with exponential backoff then degrades", func(t *testing.T) {
		transport := &failingTransport{}
		base := 10 * time.Millisecond
		client, toasts := newTestClient(t, "http://backend.invalid", Options{
			HTTPClient: &http.Client{Transport: transport},
			BaseDelay:  base,
		})

		err := client.Get(context.Background(), "/tickets", nil, nil)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "SERVER_UNREACHABLE", apiErr.Code)
		require.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus)

		// 1 initial attempt + 3 retries.
		require.Len(t, transport.attempts, 4)

		// Gaps follow base * 2^attempt: 2x, 4x, 8x.
		for i, factor := range []time.Duration{2, 4, 8} {
			gap := transport.attempts[i+1].Sub(transport.attempts[i])
			require.GreaterOrEqual(t, gap, factor*base, "gap %d", i)
			require.Less(t, gap, 2*factor*base+50*time.Millisecond, "gap %d", i)
		}

		require.Equal(t, []string{"Server not responding. Please try again later."}, toasts.texts())
		require.Equal(t, feedback.SeverityError, toasts.all()[0].Severity)
	})

	t.Run("http error responses are not retried", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
		}))
		defer server.Close()

		client, _ := newTestClient(t, server.URL, Options{})
		err := client.Get(context.Background(), "/tickets", nil, nil)
		require.Error(t, err)
		require.Equal(t, 1, hits)
	})
}

func TestClientClassification(t *testing.T) {
	t.Parallel()

	serve := func(status int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
	}

	t.Run("validation errors toast every flattened message", func(t *testing.T) {
		server := serve(http.StatusBadRequest, `{"errors":{"email":["Invalid"],"name":["Required"]}}`)
		defer server.Close()

		client, toasts := newTestClient(t, server.URL, Options{})
		err := client.Post(context.Background(), "/users", map[string]string{}, nil)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION_FAILED", apiErr.Code)
		require.Equal(t, []string{"Invalid", "Required"}, apiErr.Messages)
		require.Equal(t, []string{"Invalid", "Required"}, toasts.texts())
	})

	t.Run("message wins over detail and title", func(t *testing.T) {
		server := serve(http.StatusNotFound, `{"message":"Not found","detail":"ignored","title":"ignored"}`)
		defer server.Close()

		client, toasts := newTestClient(t, server.URL, Options{})
		err := client.Get(context.Background(), "/tickets/42", nil, nil)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.HTTPStatus)
		require.Equal(t, []string{"Not found"}, toasts.texts())
	})

	t.Run("detail then title then generic", func(t *testing.T) {
		cases := []struct {
			name string
			body string
			want string
		}{
			{"detail", `{"detail":"Denied by policy"}`, "Denied by policy"},
			{"title", `{"title":"Bad Request"}`, "Bad Request"},
			{"generic on empty object", `{}`, "An unexpected error occurred."},
			{"generic on unparseable body", `<html>oops</html>`, "An unexpected error occurred."},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				server := serve(http.StatusBadRequest, tc.body)
				defer server.Close()

				client, toasts := newTestClient(t, server.URL, Options{})
				err := client.Get(context.Background(), "/x", nil, nil)
				require.Error(t, err)
				require.Equal(t, []string{tc.want}, toasts.texts())
			})
		}
	})

	t.Run("success message becomes a success toast and payload decodes", func(t *testing.T) {
		server := serve(http.StatusOK, `{"message":"Ticket created","id":"t-9"}`)
		defer server.Close()

		client, toasts := newTestClient(t, server.URL, Options{})
		var out struct {
			ID string `json:"id"`
		}
		require.NoError(t, client.Post(context.Background(), "/tickets", map[string]string{"subject": "x"}, &out))
		require.Equal(t, "t-9", out.ID)

		all := toasts.all()
		require.Len(t, all, 1)
		require.Equal(t, feedback.Toast{Text: "Ticket created", Severity: feedback.SeveritySuccess}, all[0])
	})

	t.Run("success without message toasts nothing", func(t *testing.T) {
		server := serve(http.StatusOK, `[{"id":"t-1"}]`)
		defer server.Close()

		client, toasts := newTestClient(t, server.URL, Options{})
		var out []struct {
			ID string `json:"id"`
		}
		require.NoError(t, client.Get(context.Background(), "/tickets", nil, &out))
		require.Len(t, out, 1)
		require.Empty(t, toasts.all())
	})
}

func TestClientLoader(t *testing.T) {
	t.Parallel()

	t.Run("loader pairs once around the whole retry loop", func(t *testing.T) {
		center := feedback.NewCenter()
		var transitions []bool
		center.RegisterLoader(func(visible bool) { transitions = append(transitions, visible) })

		client, _ := newTestClient(t, "http://backend.invalid", Options{
			HTTPClient: &http.Client{Transport: &failingTransport{}},
			Feedback:   center,
		})

		require.Error(t, client.Get(context.Background(), "/tickets", nil, nil))
		require.Equal(t, []bool{true, false}, transitions)
		require.False(t, center.LoaderVisible())
	})

	t.Run("loader stays visible until the slow call completes", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(150 * time.Millisecond)
			w.Write([]byte(`{}`))
		}))
		defer slow.Close()
		fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer fast.Close()

		center := feedback.NewCenter()
		slowClient, _ := newTestClient(t, slow.URL, Options{Feedback: center})
		fastClient := New(fast.URL, Options{Feedback: center})

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = slowClient.Get(context.Background(), "/a", nil, nil)
		}()

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, fastClient.Get(context.Background(), "/b", nil, nil))

		// The fast call finished but the slow one is still in flight.
		require.True(t, center.LoaderVisible())

		<-done
		require.False(t, center.LoaderVisible())
	})
}

func TestClientRawAndUpload(t *testing.T) {
	t.Parallel()

	t.Run("raw passes successful responses through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.7 data"))
		}))
		defer server.Close()

		client, _ := newTestClient(t, server.URL, Options{})
		resp, err := client.Raw(context.Background(), http.MethodGet, "/attachments/a-1", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "%PDF-1.7 data", string(body))
		require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	})

	t.Run("raw classifies error responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Attachment not found"}`))
		}))
		defer server.Close()

		client, toasts := newTestClient(t, server.URL, Options{})
		_, err := client.Raw(context.Background(), http.MethodGet, "/attachments/a-404", nil)
		require.Error(t, err)
		require.Equal(t, []string{"Attachment not found"}, toasts.texts())
	})

	t.Run("upload sends multipart with fields and file", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			require.Equal(t, "t-1", r.FormValue("ticketId"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			require.Equal(t, "log.txt", header.Filename)

			content, err := io.ReadAll(file)
			require.NoError(t, err)
			require.Equal(t, "hello", string(content))

			w.Write([]byte(`{"id":"a-1","message":"Attachment uploaded"}`))
		}))
		defer server.Close()

		client, toasts := newTestClient(t, server.URL, Options{})
		var out struct {
			ID string `json:"id"`
		}
		err := client.Upload(
			context.Background(),
			"/attachments",
			map[string]string{"ticketId": "t-1"},
			"file", "log.txt",
			strings.NewReader("hello"),
			&out,
		)
		require.NoError(t, err)
		require.Equal(t, "a-1", out.ID)
		require.Equal(t, []string{"Attachment uploaded"}, toasts.texts())
	})
}

