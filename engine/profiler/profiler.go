package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"go.uber.org/zap"
)

// Report is one interval's worth of statistics.
type Report struct {
	FPS float64
	// DrawCalls and Triangles are per-frame averages over the interval.
	DrawCalls float64
	Triangles float64
	// Uploads counts buffer and texture uploads over the interval.
	Uploads       int
	BytesUploaded int
	HeapMB        float64
	AllocRateMB   float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
}

// Profiler tracks frame rate, draw work and memory statistics.
// Outputs a Report to the logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	totals renderer.FrameStats
	last   Report
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with that frame's renderer stats.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - stats: the counters of the frame just rendered
//
// Returns:
//   - bool: true if a report was produced this tick, false otherwise
func (p *Profiler) Tick(stats renderer.FrameStats) bool {
	p.frameCount++
	p.totals.DrawCalls += stats.DrawCalls
	p.totals.Triangles += stats.Triangles
	p.totals.BufferUploads += stats.BufferUploads
	p.totals.TextureUploads += stats.TextureUploads
	p.totals.BytesUploaded += stats.BytesUploaded

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	r := Report{
		FPS:           frames / elapsed.Seconds(),
		DrawCalls:     float64(p.totals.DrawCalls) / frames,
		Triangles:     float64(p.totals.Triangles) / frames,
		Uploads:       p.totals.BufferUploads + p.totals.TextureUploads,
		BytesUploaded: p.totals.BytesUploaded,
	}

	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()
	r.GCCount = p.memStats.NumGC
	if r.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		r.LastPauseUs = p.memStats.PauseNs[(r.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if r.GCCount-start > 256 {
			start = r.GCCount - 256
		}
		for i := start; i < r.GCCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("frame stats",
		zap.Float64("fps", r.FPS),
		zap.Float64("drawCalls", r.DrawCalls),
		zap.Float64("triangles", r.Triangles),
		zap.Int("uploads", r.Uploads),
		zap.Int("bytesUploaded", r.BytesUploaded),
		zap.Float64("heapMB", r.HeapMB),
		zap.Float64("allocRateMB", r.AllocRateMB),
		zap.Uint32("gc", r.GCCount),
		zap.Uint64("lastPauseUs", r.LastPauseUs),
		zap.Uint64("maxPauseUs", r.MaxPauseUs))

	p.last = r
	p.frameCount = 0
	p.totals = renderer.FrameStats{}
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report, or the zero Report before the first interval elapses.
func (p *Profiler) Last() Report {
	return p.last
}
