package profiler_test

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTick_ReportsAtInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	common.SetLogger(zap.New(core))
	t.Cleanup(func() { common.SetLogger(nil) })

	clock := &fakeClock{t: time.Unix(0, 0)}
	p := profiler.NewProfiler(profiler.WithInterval(time.Second), profiler.WithClock(clock.now))

	frame := renderer.FrameStats{DrawCalls: 2, Triangles: 10, BufferUploads: 1, BytesUploaded: 64}
	for range 3 {
		clock.t = clock.t.Add(250 * time.Millisecond)
		assert.False(t, p.Tick(frame))
	}
	assert.Zero(t, p.Last().FPS)

	clock.t = clock.t.Add(250 * time.Millisecond)
	require.True(t, p.Tick(frame))

	r := p.Last()
	assert.InDelta(t, 4.0, r.FPS, 1e-9)
	assert.InDelta(t, 2.0, r.DrawCalls, 1e-9)
	assert.InDelta(t, 10.0, r.Triangles, 1e-9)
	assert.Equal(t, 4, r.Uploads)
	assert.Equal(t, 256, r.BytesUploaded)
	assert.Equal(t, 1, logs.FilterMessage("frame stats").Len())

	// counters restart after a report
	clock.t = clock.t.Add(time.Second)
	require.True(t, p.Tick(renderer.FrameStats{DrawCalls: 1}))
	assert.InDelta(t, 1.0, p.Last().DrawCalls, 1e-9)
	assert.Zero(t, p.Last().Uploads)
}
