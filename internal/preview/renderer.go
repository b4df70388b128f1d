// Package preview is the CPU compositor behind the editor viewport. It
// dispatches clips through the same registries as the export compiler so
// the frame on screen matches the frame ffmpeg renders.
package preview

import (
	"image"
	"image/color"

	"github.com/rs/zerolog"

	"github.com/keagan/vibecut/internal/element"
	"github.com/keagan/vibecut/internal/model"
)

// Renderer composites project frames onto an RGBA canvas sized to the
// project output resolution.
type Renderer struct {
	project *model.Project
	frames  element.FrameSource
	beats   map[string]*model.BeatsData
	log     zerolog.Logger

	// LowQuality halves the cartoon edge-pass resolution on every frame.
	LowQuality bool

	// DragTransform substitutes an in-progress drag transform, or nil.
	DragTransform func(clipID string) *model.Transform

	canvas *image.RGBA
}

// NewRenderer builds a renderer for a project.
func NewRenderer(p *model.Project, frames element.FrameSource, beats map[string]*model.BeatsData, log zerolog.Logger) *Renderer {
	return &Renderer{
		project: p,
		frames:  frames,
		beats:   beats,
		log:     log.With().Str("component", "preview").Logger(),
		canvas:  image.NewRGBA(image.Rect(0, 0, p.OutputW, p.OutputH)),
	}
}

// SetProject swaps the project, e.g. after an undo. The next frame
// observes the new state.
func (r *Renderer) SetProject(p *model.Project) {
	r.project = p
	if p.OutputW != r.canvas.Rect.Dx() || p.OutputH != r.canvas.Rect.Dy() {
		r.canvas = image.NewRGBA(image.Rect(0, 0, p.OutputW, p.OutputH))
	}
}

// RenderFrame composites the frame at time t and returns the canvas. The
// canvas is reused between calls; callers that retain frames must copy.
func (r *Renderer) RenderFrame(t float64) *image.RGBA {
	ctx := &element.RenderCtx{
		Project:       r.project,
		Time:          t,
		OutputW:       r.project.OutputW,
		OutputH:       r.project.OutputH,
		Frames:        r.frames,
		Beats:         r.beats,
		LowQuality:    r.LowQuality,
		DragTransform: r.DragTransform,
	}

	clear(r.canvas.Pix)
	drawGrid(r.canvas)

	// Reverse project order: the top-of-timeline track draws last, on top.
	for i := len(r.project.Tracks) - 1; i >= 0; i-- {
		track := r.project.Tracks[i]
		if track.Type == model.TrackAudio || track.Type == model.TrackEffect || track.Muted {
			continue
		}
		for _, c := range track.Clips {
			if !c.Overlaps(t) {
				continue
			}
			el, ok := element.FirstMatching(c, track)
			if !ok {
				r.log.Debug().Str("clip", c.ID).Msg("no element handles clip")
				continue
			}
			tr := ctx.EffectiveTransform(c)
			el.Render(r.canvas, c, track, tr, ctx)
		}
	}

	// Project-level lyrics overlay, via the same helper the lyrics
	// element uses.
	if r.project.Lyrics != nil {
		element.DrawLyricsLine(r.canvas, r.project.Lyrics.Words, r.project.Lyrics.Style, t,
			r.project.OutputW, r.project.OutputH)
	}

	return r.canvas
}

// drawGrid paints the faint background grid behind transparent regions.
func drawGrid(dst *image.RGBA) {
	const cell = 64
	light := color.RGBA{24, 24, 28, 255}
	dark := color.RGBA{16, 16, 20, 255}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 255
		}
	}
}
