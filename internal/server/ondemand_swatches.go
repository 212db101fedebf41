package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/swatch"
	"github.com/MeKo-Tech/colorconverter/internal/worker"
)

type OnDemandSwatchesConfig struct {
	SwatchDir            string
	CacheControl         string
	BaseSize             int
	Seed                 int64
	Grain                float64
	Wash                 bool
	MaxConcurrentRenders int
	RenderTimeout        time.Duration
	DisableCache         bool
}

type OnDemandSwatches struct {
	logger    *slog.Logger
	sem       chan struct{}
	locks     sync.Map
	renderers sync.Map
	cfg       OnDemandSwatchesConfig

	// Status tracking for renders
	activeRenders  atomic.Int32
	totalRendered  atomic.Int64
	totalFailed    atomic.Int64
	currentRenders sync.Map // map[string]time.Time - swatch key -> start time

	// Queue tracking - swatches waiting for semaphore
	queuedRenders atomic.Int32
	queuedSwatch  sync.Map // map[string]time.Time - swatch key -> queue time
}

// RenderStatus contains current render operation status.
type RenderStatus struct {
	ActiveRenders   int      `json:"active_renders"`
	TotalRendered   int64    `json:"total_rendered"`
	TotalFailed     int64    `json:"total_failed"`
	CurrentSwatches []string `json:"current_swatches"`
	MaxConcurrent   int      `json:"max_concurrent"`
	QueuedRenders   int      `json:"queued_renders"`
	QueuedSwatches  []string `json:"queued_swatches"`
}

func NewOnDemandSwatches(cfg OnDemandSwatchesConfig, logger *slog.Logger) *OnDemandSwatches {
	if cfg.SwatchDir == "" {
		cfg.SwatchDir = "./swatches"
	}
	if cfg.BaseSize <= 0 {
		cfg.BaseSize = swatch.DefaultOptions().Size
	}
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 1
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}

	return &OnDemandSwatches{
		cfg:    cfg,
		logger: logger,
		sem:    make(chan struct{}, cfg.MaxConcurrentRenders),
	}
}

// Status returns the current render status.
func (s *OnDemandSwatches) Status() RenderStatus {
	var current []string
	s.currentRenders.Range(func(key, _ any) bool {
		current = append(current, key.(string))
		return true
	})

	var queued []string
	s.queuedSwatch.Range(func(key, _ any) bool {
		queued = append(queued, key.(string))
		return true
	})

	return RenderStatus{
		ActiveRenders:   int(s.activeRenders.Load()),
		TotalRendered:   s.totalRendered.Load(),
		TotalFailed:     s.totalFailed.Load(),
		CurrentSwatches: current,
		MaxConcurrent:   s.cfg.MaxConcurrentRenders,
		QueuedRenders:   int(s.queuedRenders.Load()),
		QueuedSwatches:  queued,
	}
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (s *OnDemandSwatches) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "no-store")

		if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
			s.log().Error("failed to encode status", "error", err)
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
			return
		}
	})
}

func (s *OnDemandSwatches) Handler() http.Handler {
	return http.HandlerFunc(s.serveSwatch)
}

func (s *OnDemandSwatches) serveSwatch(w http.ResponseWriter, r *http.Request) {
	c, suffix, ok := parseSwatchPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	size := sizeForSuffix(s.cfg.BaseSize, suffix)
	renderer := s.getRenderer(size)
	fullPath := renderer.Path(c)
	key := strings.TrimPrefix(colorspace.RGBToHex(c), "#") + suffix

	w.Header().Set("Cache-Control", s.cfg.CacheControl)

	if !s.cfg.DisableCache && fileExists(fullPath) {
		http.ServeFile(w, r, fullPath)
		return
	}

	mu := s.getLock(key)
	mu.Lock()
	defer mu.Unlock()

	if !s.cfg.DisableCache && fileExists(fullPath) {
		http.ServeFile(w, r, fullPath)
		return
	}

	// Track swatch as queued (waiting for semaphore)
	s.queuedRenders.Add(1)
	s.queuedSwatch.Store(key, time.Now())

	select {
	case s.sem <- struct{}{}:
		s.queuedRenders.Add(-1)
		s.queuedSwatch.Delete(key)
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		s.queuedRenders.Add(-1)
		s.queuedSwatch.Delete(key)
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	start := time.Now()
	s.activeRenders.Add(1)
	s.currentRenders.Store(key, start)

	_, err := renderer.Render(ctx, worker.Task{Color: c, Force: s.cfg.DisableCache})

	s.activeRenders.Add(-1)
	s.currentRenders.Delete(key)

	if err != nil {
		s.totalFailed.Add(1)
		s.log().Error("failed to render swatch", "swatch", key, "error", err)
		http.Error(w, fmt.Sprintf("failed to render swatch %s: %v", key, err), http.StatusInternalServerError)
		return
	}
	s.totalRendered.Add(1)
	s.log().Info("swatch rendered on-demand", "swatch", key, "ms", time.Since(start).Milliseconds())

	if !fileExists(fullPath) {
		http.Error(w, "swatch rendering completed but file missing on disk", http.StatusInternalServerError)
		return
	}

	http.ServeFile(w, r, fullPath)
}

// getRenderer returns the renderer for one output size. Each size gets its
// own subdirectory.
func (s *OnDemandSwatches) getRenderer(size int) *worker.FileRenderer {
	if v, ok := s.renderers.Load(size); ok {
		return v.(*worker.FileRenderer)
	}

	opts := swatch.DefaultOptions()
	opts.Size = size
	opts.Seed = s.cfg.Seed
	opts.Grain = s.cfg.Grain
	opts.Wash = s.cfg.Wash
	r := &worker.FileRenderer{
		OutDir:  filepath.Join(s.cfg.SwatchDir, strconv.Itoa(size)),
		Options: opts,
	}

	actual, _ := s.renderers.LoadOrStore(size, r)
	return actual.(*worker.FileRenderer)
}

func (s *OnDemandSwatches) getLock(key string) *sync.Mutex {
	if v, ok := s.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

func (s *OnDemandSwatches) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func parseSwatchPath(requestPath string) (colorspace.RGB, string, bool) {
	// Expect: /swatches/ff8800.png or /swatches/ff8800@2x.png
	if !strings.HasPrefix(requestPath, "/swatches/") {
		return colorspace.RGB{}, "", false
	}
	base := path.Base(requestPath)
	if !strings.HasSuffix(base, ".png") {
		return colorspace.RGB{}, "", false
	}
	name := strings.TrimSuffix(base, ".png")
	suffix := ""
	if strings.HasSuffix(name, "@2x") {
		suffix = "@2x"
		name = strings.TrimSuffix(name, "@2x")
	}

	c, ok := colorspace.HexToRGB(name)
	if !ok {
		return colorspace.RGB{}, "", false
	}
	return c, suffix, true
}

func sizeForSuffix(base int, suffix string) int {
	if suffix == "@2x" {
		return base * 2
	}
	return base
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	if err != nil {
		return false
	}
	return !st.IsDir()
}
