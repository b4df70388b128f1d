package preview

import (
	"context"
	"image"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Drift thresholds. While paused, a Seek farther than pausedDriftTolerance
// renders a fresh frame. During playback the playhead always follows the
// wall clock; a jump larger than playingDriftTolerance is only logged.
const (
	pausedDriftTolerance  = 0.08
	playingDriftTolerance = 0.5
)

// Player drives the renderer on a frame-callback loop: produce one frame,
// wait for the next tick. Frames are decoded synchronously inside
// RenderFrame, so a slow extraction delays that tick; a clip whose frame
// cannot be extracted is left out of that frame. During playback the
// difference between wall clock and playhead is recorded as drift.
type Player struct {
	renderer *Renderer
	log      zerolog.Logger

	fps     float64
	playing bool
	time    float64
	started time.Time
	startAt float64

	lastFrame *image.RGBA
	drift     float64

	onFrame func(img *image.RGBA, t float64)
}

// NewPlayer wraps a renderer. onFrame receives every produced frame.
func NewPlayer(r *Renderer, fps float64, onFrame func(*image.RGBA, float64), log zerolog.Logger) *Player {
	if fps <= 0 {
		fps = 30
	}
	return &Player{
		renderer: r,
		log:      log.With().Str("component", "player").Logger(),
		fps:      fps,
		onFrame:  onFrame,
	}
}

// Seek moves the playhead. While paused any drift beyond the tight
// tolerance forces a fresh frame.
func (p *Player) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	moved := math.Abs(t-p.time) > pausedDriftTolerance
	p.time = t
	p.startAt = t
	p.started = time.Now()
	if !p.playing && moved {
		p.produce()
	}
}

// Time returns the current playhead position.
func (p *Player) Time() float64 {
	return p.time
}

// Play starts playback from the current position.
func (p *Player) Play() {
	p.playing = true
	p.started = time.Now()
	p.startAt = p.time
}

// Pause stops playback.
func (p *Player) Pause() {
	p.playing = false
}

// Playing reports playback state.
func (p *Player) Playing() bool {
	return p.playing
}

// Run ticks the frame loop until ctx is done. One frame per tick; the
// renderer is single-threaded and every mutation lands between frames.
func (p *Player) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / p.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.playing {
				wall := p.startAt + time.Since(p.started).Seconds()
				p.drift = wall - p.time
				if math.Abs(p.drift) > playingDriftTolerance {
					p.log.Debug().Float64("drift", p.drift).Msg("resyncing playhead")
				}
				p.time = wall
				if dur := p.renderer.project.Duration(); dur > 0 && p.time >= dur {
					p.time = dur
					p.playing = false
				}
			}
			p.produce()
		}
	}
}

func (p *Player) produce() {
	frame := p.renderer.RenderFrame(p.time)
	if frame != nil {
		p.lastFrame = frame
	}
	if p.onFrame != nil && p.lastFrame != nil {
		p.onFrame(p.lastFrame, p.time)
	}
}
