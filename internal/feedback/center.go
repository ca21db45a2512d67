// Package feedback carries the two process-wide UI side channels the request
// pipeline drives: a blocking-spinner visibility flag and a single-message
// toast feed. One Center is built at startup and injected wherever needed;
// there is no package-level state.
package feedback

import "sync"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Toast struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// ToastHandler receives each published toast. A new toast supersedes the
// prior one; there is no queue.
type ToastHandler func(Toast)

// LoaderHandler receives loader visibility transitions.
type LoaderHandler func(visible bool)

// Center coordinates loader visibility and toast delivery across all
// concurrent pipeline calls. The loader is reference counted: it reports
// visible while any call is in flight and hides only when the last one
// finishes, provided every ShowLoader is paired with exactly one HideLoader.
type Center struct {
	mu       sync.Mutex
	loader   LoaderHandler
	toast    ToastHandler
	inFlight int
}

func NewCenter() *Center {
	return &Center{}
}

// RegisterLoader installs the single loader subscriber. Last registration
// wins; registering nil detaches.
func (c *Center) RegisterLoader(handler LoaderHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loader = handler
}

// RegisterToast installs the single toast subscriber. Last registration
// wins; registering nil detaches.
func (c *Center) RegisterToast(handler ToastHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toast = handler
}

// ShowLoader marks one more call in flight. The subscriber only sees the
// 0 -> 1 transition.
func (c *Center) ShowLoader() {
	c.mu.Lock()
	c.inFlight++
	notify := c.inFlight == 1
	handler := c.loader
	c.mu.Unlock()

	if notify && handler != nil {
		handler(true)
	}
}

// HideLoader marks one call finished. The subscriber only sees the 1 -> 0
// transition; an unpaired call never drives the counter negative.
func (c *Center) HideLoader() {
	c.mu.Lock()
	notify := false
	if c.inFlight > 0 {
		c.inFlight--
		notify = c.inFlight == 0
	}
	handler := c.loader
	c.mu.Unlock()

	if notify && handler != nil {
		handler(false)
	}
}

// LoaderVisible reports whether any call is currently in flight.
func (c *Center) LoaderVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

func (c *Center) Success(text string) { c.publish(text, SeveritySuccess) }
func (c *Center) Error(text string)   { c.publish(text, SeverityError) }
func (c *Center) Warning(text string) { c.publish(text, SeverityWarning) }
func (c *Center) Info(text string)    { c.publish(text, SeverityInfo) }

func (c *Center) publish(text string, severity Severity) {
	c.mu.Lock()
	handler := c.toast
	c.mu.Unlock()

	if handler == nil {
		return
	}

	handler(Toast{Text: text, Severity: severity})
}
