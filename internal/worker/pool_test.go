package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

// fakeRenderer pretends to write <hex>.png files.
type fakeRenderer struct {
	delay  time.Duration
	fail   map[string]bool // by task label
	cached map[string]bool // by hex

	calls  atomic.Int32
	active atomic.Int32
	peak   atomic.Int32

	mu   sync.Mutex
	seen []Task
}

func (f *fakeRenderer) Render(ctx context.Context, task Task) (Output, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, task)
	f.mu.Unlock()

	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	select {
	case <-ctx.Done():
		return Output{}, ctx.Err()
	case <-time.After(f.delay):
	}

	if f.fail[task.Label()] {
		return Output{}, errors.New("simulated failure")
	}
	hex := colorspace.RGBToHex(task.Color)
	return Output{Path: filepath.Join("/swatches", hex[1:]+".png"), Cached: f.cached[hex]}, nil
}

func grayTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		v := i * 255 / n
		tasks[i] = Task{Color: colorspace.RGB{R: v, G: v, B: v}}
	}
	return tasks
}

var (
	orange = colorspace.RGB{R: 255, G: 136}
	sky    = colorspace.RGB{R: 51, G: 102, B: 153}
)

func TestPlan(t *testing.T) {
	tasks := []Task{
		{Name: "brand", Color: orange},
		{Name: "sky", Color: sky},
		{Name: "accent", Color: orange, Force: true},
		{Color: orange},
	}

	jobs := plan(tasks)
	require.Len(t, jobs, 2)
	assert.Equal(t, "brand", jobs[0].task.Name)
	assert.True(t, jobs[0].task.Force, "force carries over to the group")
	assert.Equal(t, []int{0, 2, 3}, jobs[0].indexes)
	assert.Equal(t, []int{1}, jobs[1].indexes)
	assert.False(t, jobs[1].task.Force)
}

func TestPool_ResultsInTaskOrder(t *testing.T) {
	r := &fakeRenderer{delay: 5 * time.Millisecond}
	pool := New(Config{Workers: 4, Renderer: r})

	tasks := grayTasks(12)
	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, len(tasks))
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, tasks[i], res.Task)
		assert.Equal(t, "/swatches/"+colorspace.RGBToHex(tasks[i].Color)[1:]+".png", res.Path)
		assert.False(t, res.Shared)
	}
	assert.Equal(t, int32(12), r.calls.Load())
}

func TestPool_SharesDuplicateColors(t *testing.T) {
	r := &fakeRenderer{delay: 5 * time.Millisecond}
	pool := New(Config{Workers: 4, Renderer: r})

	tasks := []Task{
		{Name: "brand", Color: orange},
		{Name: "accent", Color: orange},
		{Name: "sky", Color: sky},
		{Color: orange},
	}
	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, 4)
	assert.Equal(t, int32(2), r.calls.Load(), "one render per distinct color")

	assert.False(t, results[0].Shared)
	assert.True(t, results[1].Shared)
	assert.False(t, results[2].Shared)
	assert.True(t, results[3].Shared)
	assert.Equal(t, results[0].Path, results[1].Path)
	assert.Equal(t, results[0].Path, results[3].Path)
	assert.Equal(t, "accent", results[1].Task.Name, "each result keeps its own task")
}

func TestPool_ForcedDuplicateRendersForced(t *testing.T) {
	r := &fakeRenderer{}
	pool := New(Config{Workers: 2, Renderer: r})

	pool.Run(context.Background(), []Task{{Color: sky}, {Name: "again", Color: sky, Force: true}})

	require.Len(t, r.seen, 1)
	assert.True(t, r.seen[0].Force)
}

func TestPool_Parallelism(t *testing.T) {
	r := &fakeRenderer{delay: 30 * time.Millisecond}
	pool := New(Config{Workers: 4, Renderer: r})

	results := pool.Run(context.Background(), grayTasks(8))
	require.Len(t, results, 8)

	assert.Greater(t, r.peak.Load(), int32(1), "renders should overlap")
	assert.LessOrEqual(t, r.peak.Load(), int32(4), "never more renders than workers")
}

func TestPool_Failures(t *testing.T) {
	r := &fakeRenderer{fail: map[string]bool{"broken": true}}
	pool := New(Config{Workers: 2, Renderer: r})

	tasks := []Task{
		{Name: "fine", Color: orange},
		{Name: "broken", Color: sky},
		{Name: "broken-too", Color: sky},
	}
	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Error(t, results[2].Err, "a shared failure fails every task of the color")
}

func TestPool_Cancellation(t *testing.T) {
	r := &fakeRenderer{delay: 20 * time.Millisecond}
	pool := New(Config{Workers: 2, Renderer: r})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	tasks := grayTasks(20)
	results := pool.Run(ctx, tasks)

	require.Len(t, results, len(tasks), "every task gets a result")
	cancelled := 0
	for i, res := range results {
		assert.Equal(t, tasks[i], res.Task)
		if res.Err != nil {
			require.ErrorIs(t, res.Err, context.Canceled)
			cancelled++
		}
	}
	assert.Positive(t, cancelled)
	assert.Less(t, r.calls.Load(), int32(20))
}

func TestPool_ProgressEvents(t *testing.T) {
	r := &fakeRenderer{
		fail:   map[string]bool{"broken": true},
		cached: map[string]bool{"#336699": true},
	}

	var events []Event
	pool := New(Config{
		Workers:    3,
		Renderer:   r,
		OnProgress: func(ev Event) { events = append(events, ev) },
	})

	tasks := []Task{
		{Name: "brand", Color: orange},
		{Name: "sky", Color: sky},
		{Name: "brand-copy", Color: orange},
		{Name: "broken", Color: colorspace.RGB{}},
	}
	pool.Run(context.Background(), tasks)

	require.Len(t, events, len(tasks))
	for i, ev := range events {
		assert.Equal(t, len(tasks), ev.Total)
		assert.Equal(t, i+1, ev.Stats.Done(), "events arrive one result at a time")
	}
	assert.Equal(t, Stats{Rendered: 1, Cached: 1, Shared: 1, Failed: 1}, events[len(events)-1].Stats)
}

func TestPool_EmptyTasks(t *testing.T) {
	pool := New(Config{Workers: 2, Renderer: &fakeRenderer{}})
	assert.Empty(t, pool.Run(context.Background(), nil))
}

func TestTask_Label(t *testing.T) {
	assert.Equal(t, "brand", Task{Name: "brand", Color: orange}.Label())
	assert.Equal(t, "#ff8800", Task{Color: orange}.Label())
}
