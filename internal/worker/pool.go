// Package worker renders batches of swatches in parallel.
//
// Tasks that share a color share one output file, so the pool renders each
// distinct color once and hands the outcome to every task that asked for it.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

// Renderer renders one swatch.
type Renderer interface {
	Render(ctx context.Context, task Task) (Output, error)
}

// Output describes a finished swatch file.
type Output struct {
	Path string
	// Cached is set when an existing file was kept instead of re-rendered.
	Cached bool
}

// Task is a single swatch to render.
type Task struct {
	Name  string
	Color colorspace.RGB
	Force bool
}

// Label returns the task name, or the color's hex form when unnamed.
func (t Task) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return colorspace.RGBToHex(t.Color)
}

// Result is the outcome of one task.
type Result struct {
	Task Task
	Output
	Err     error
	Elapsed time.Duration
	// Shared is set when an earlier task with the same color did the work.
	Shared bool
}

// Stats counts results by kind.
type Stats struct {
	Rendered int
	Cached   int
	Shared   int
	Failed   int
}

// Done returns the number of results counted.
func (s Stats) Done() int { return s.Rendered + s.Cached + s.Shared + s.Failed }

func (s *Stats) add(r Result) {
	switch {
	case r.Err != nil:
		s.Failed++
	case r.Shared:
		s.Shared++
	case r.Cached:
		s.Cached++
	default:
		s.Rendered++
	}
}

// Event is passed to a ProgressFunc after each result.
type Event struct {
	Result Result
	Stats  Stats
	Total  int
}

// ProgressFunc observes results as they arrive. Calls are serialized.
type ProgressFunc func(Event)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Renderer   Renderer
	OnProgress ProgressFunc
}

// Pool renders swatches with a fixed number of workers.
type Pool struct {
	workers    int
	renderer   Renderer
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		renderer:   cfg.Renderer,
		onProgress: cfg.OnProgress,
	}
}

// job renders one distinct color for the tasks at indexes.
type job struct {
	task    Task
	indexes []int
	done    bool
}

// plan groups tasks by color, keeping first-seen order. A group is forced
// when any of its tasks is.
func plan(tasks []Task) []*job {
	byColor := make(map[colorspace.RGB]*job)
	var jobs []*job
	for i, t := range tasks {
		j, ok := byColor[t.Color]
		if !ok {
			j = &job{task: t}
			byColor[t.Color] = j
			jobs = append(jobs, j)
		}
		j.task.Force = j.task.Force || t.Force
		j.indexes = append(j.indexes, i)
	}
	return jobs
}

// Run renders all tasks and returns one result per task, in task order.
// It blocks until every job has finished or the context is cancelled;
// tasks that never started get the context error.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	jobs := plan(tasks)
	results := make([]Result, len(tasks))

	var (
		mu    sync.Mutex
		stats Stats
	)
	finish := func(j *job, out Output, err error, elapsed time.Duration) {
		mu.Lock()
		defer mu.Unlock()

		j.done = true
		for n, i := range j.indexes {
			r := Result{Task: tasks[i], Output: out, Err: err, Elapsed: elapsed, Shared: n > 0}
			results[i] = r
			stats.add(r)
			if p.onProgress != nil {
				p.onProgress(Event{Result: r, Stats: stats, Total: len(tasks)})
			}
		}
	}

	jobCh := make(chan *job)
	go func() {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case jobCh <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < min(p.workers, len(jobs)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if err := ctx.Err(); err != nil {
					finish(j, Output{}, err, 0)
					continue
				}
				start := time.Now()
				out, err := p.renderer.Render(ctx, j.task)
				finish(j, out, err, time.Since(start))
			}
		}()
	}
	wg.Wait()

	// Workers exit only after the feeder closed jobCh, so nothing else
	// touches the jobs now.
	for _, j := range jobs {
		if !j.done {
			finish(j, Output{}, ctx.Err(), 0)
		}
	}
	return results
}
