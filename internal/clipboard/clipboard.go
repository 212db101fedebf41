// Package clipboard implements the copy button of a field: write the field's
// text to the clipboard, show transient feedback in the field, and restore it
// after a delay.
package clipboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultRevertDelay is how long copy feedback stays visible.
	DefaultRevertDelay = time.Second

	CopiedPlaceholder = "Copied!"
	FailedPlaceholder = "Copy failed!"
)

// ErrUnavailable is returned by clipboards that cannot be written in the
// current environment.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard writes text to the platform clipboard.
type Clipboard interface {
	Write(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to the Clipboard interface.
type ClipboardFunc func(ctx context.Context, text string) error

// Write implements Clipboard.
func (f ClipboardFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Target is the host's view of one text field.
type Target interface {
	Value() string
	SetValue(v string)
	Placeholder() string
	SetPlaceholder(p string)
	// SetSuccess toggles the success styling of the field.
	SetSuccess(on bool)
}

// Outcome reports what a copy did.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeCopied
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Config configures a Copier.
type Config struct {
	Clipboard   Clipboard
	Scheduler   Scheduler
	Logger      *slog.Logger
	RevertDelay time.Duration
}

// Copier runs copy actions for a set of fields identified by id.
//
// A new copy on a field first cancels that field's pending revert and
// restores the field, so a later copy's feedback is never cut short by an
// earlier timer.
type Copier struct {
	clipboard Clipboard
	scheduler Scheduler
	logger    *slog.Logger
	delay     time.Duration

	mu      sync.Mutex
	pending map[string]*revert
}

type revert struct {
	task    Task
	restore func()
}

// NewCopier creates a Copier. A nil Scheduler uses TimerScheduler and a zero
// RevertDelay uses DefaultRevertDelay.
func NewCopier(cfg Config) *Copier {
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.RevertDelay <= 0 {
		cfg.RevertDelay = DefaultRevertDelay
	}

	return &Copier{
		clipboard: cfg.Clipboard,
		scheduler: cfg.Scheduler,
		logger:    cfg.Logger,
		delay:     cfg.RevertDelay,
		pending:   make(map[string]*revert),
	}
}

// Copy writes the field's value to the clipboard and shows feedback on t.
// Empty fields are skipped.
func (c *Copier) Copy(ctx context.Context, id string, t Target) Outcome {
	c.Restore(id)

	value := t.Value()
	if value == "" {
		return OutcomeSkipped
	}
	placeholder := t.Placeholder()

	err := ErrUnavailable
	if c.clipboard != nil {
		err = c.clipboard.Write(ctx, value)
	}

	if err != nil {
		c.log().Error("failed to copy", "field", id, "error", err)
		t.SetPlaceholder(FailedPlaceholder)
		c.schedule(id, func() {
			t.SetPlaceholder(placeholder)
		})
		return OutcomeFailed
	}

	t.SetValue("")
	t.SetPlaceholder(CopiedPlaceholder)
	t.SetSuccess(true)
	c.schedule(id, func() {
		t.SetPlaceholder(placeholder)
		t.SetValue(value)
		t.SetSuccess(false)
	})
	return OutcomeCopied
}

// Pending reports whether a revert is scheduled for id.
func (c *Copier) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Flush cancels every pending revert and restores all fields immediately.
func (c *Copier) Flush() {
	c.mu.Lock()
	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.Restore(id)
	}
}

// Restore cancels the pending revert for id, if any, and applies it now.
func (c *Copier) Restore(id string) {
	c.mu.Lock()
	r, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if ok && r.task.Cancel() {
		r.restore()
	}
}

func (c *Copier) schedule(id string, restore func()) {
	r := &revert{restore: restore}
	r.task = c.scheduler.After(c.delay, func() {
		c.mu.Lock()
		if c.pending[id] == r {
			delete(c.pending, id)
		}
		c.mu.Unlock()
		restore()
	})

	c.mu.Lock()
	c.pending[id] = r
	c.mu.Unlock()
}

func (c *Copier) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
