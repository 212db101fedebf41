package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

const barWidth = 24

// Progress prints a one-line status for a swatch batch and keeps the
// numbers for the final summary.
type Progress struct {
	mu       sync.Mutex
	output   io.Writer
	enabled  bool
	start    time.Time
	now      func() time.Time
	total    int
	stats    Stats
	last     string
	failures []string
}

// NewProgress creates a tracker for total tasks writing to stderr. When
// enabled is false it only collects numbers.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		output:  os.Stderr,
		enabled: enabled,
		start:   time.Now(),
		now:     time.Now,
		total:   total,
	}
}

// Callback returns a ProgressFunc for Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Observe
}

// Observe records one result and redraws the status line.
func (p *Progress) Observe(ev Event) {
	p.mu.Lock()
	p.stats = ev.Stats
	p.total = ev.Total
	p.last = describeTask(ev.Result.Task)
	if ev.Result.Err != nil {
		p.failures = append(p.failures, ev.Result.Task.Label())
	}
	line := p.line()
	p.mu.Unlock()

	if p.enabled {
		fmt.Fprint(p.output, "\r"+line+"\x1b[K")
	}
}

// Done ends the status line.
func (p *Progress) Done() {
	if p.enabled {
		fmt.Fprintln(p.output)
	}
}

// Failed returns the labels of failed tasks in the order they failed.
func (p *Progress) Failed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.failures...)
}

// Summary describes the finished batch, e.g.
// "5 swatches in 2s: 2 rendered, 1 cached, 1 shared, 1 failed (2.5/sec)".
func (p *Progress) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := p.now().Sub(p.start)
	s := fmt.Sprintf("%d swatches in %s: %d rendered, %d cached, %d shared, %d failed (%.1f/sec)",
		p.total, formatDuration(elapsed), p.stats.Rendered, p.stats.Cached, p.stats.Shared, p.stats.Failed,
		rate(p.stats.Done(), elapsed))
	if len(p.failures) > 0 {
		s += " - failed: " + strings.Join(p.failures, ", ")
	}
	return s
}

// line renders the status line. Caller holds mu.
func (p *Progress) line() string {
	done := p.stats.Done()
	elapsed := p.now().Sub(p.start)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %d/%d", bar(done, p.total), done, p.total)
	if p.stats.Cached > 0 || p.stats.Shared > 0 {
		fmt.Fprintf(&b, " (%d reused)", p.stats.Cached+p.stats.Shared)
	}
	if p.stats.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", p.stats.Failed)
	}
	fmt.Fprintf(&b, " %.1f/sec", rate(done, elapsed))
	if done < p.total && done > 0 {
		remaining := time.Duration(float64(elapsed) / float64(done) * float64(p.total-done))
		fmt.Fprintf(&b, " ETA %s", formatDuration(remaining))
	}
	if p.last != "" {
		b.WriteString(" " + p.last)
	}
	return b.String()
}

// describeTask names a task by label and, for named tasks, hex.
func describeTask(t Task) string {
	hex := colorspace.RGBToHex(t.Color)
	if t.Name == "" {
		return hex
	}
	return t.Name + " " + hex
}

func bar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = min(barWidth, done*barWidth/total)
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

func rate(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

// formatDuration prints 42s, 3m05s or 1h02m.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
