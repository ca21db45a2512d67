// Package client holds the typed wrappers around the ticketing backend's
// REST modules. Each wrapper owns a pipeline client bound to its module's
// base URL; all cross-cutting behavior (bearer injection, retry, loader,
// toasts) lives in the pipeline, never here.
package client

import (
	"net/http"
	"time"

	"helpdesk-console/internal/feedback"
	"helpdesk-console/internal/pipeline"
)

// Deps is the shared wiring every API module is built from.
type Deps struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     pipeline.TokenSource
	Feedback   *feedback.Center
	MaxRetries int
	BaseDelay  time.Duration
}

func (d Deps) pipeline(modulePath string) *pipeline.Client {
	return pipeline.New(d.BaseURL+modulePath, pipeline.Options{
		HTTPClient: d.HTTPClient,
		Tokens:     d.Tokens,
		Feedback:   d.Feedback,
		MaxRetries: d.MaxRetries,
		BaseDelay:  d.BaseDelay,
	})
}
