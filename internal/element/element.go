// Package element holds the two ordered registries at the center of the
// editor: clip elements (rectangle, text, lyrics, video) and video effects
// (beat-zoom, cutout, cartoon, color-grade). Every entry exposes a preview
// renderer and an export compiler; both pipelines dispatch through the
// same tables so the preview and the rendered file agree.
package element

import (
	"image"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// BuildResult is what an element hands back after appending its filter
// nodes: the pad downstream filters continue from, and the next free
// filter index.
type BuildResult struct {
	OutputPad string
	NextIdx   int
}

// ClipElement is one entry of the clip registry.
type ClipElement interface {
	Name() string

	// CanHandle is the pure dispatch predicate. First match in registry
	// order wins.
	CanHandle(c *model.Clip, t *model.Track) bool

	// BuildFilter appends the element's filter nodes to the graph and
	// returns the new accumulator pad. ok=false means the element cannot
	// contribute (missing input, missing mask, empty lyrics): the
	// compiler skips the clip, leaving prevPad and idx untouched.
	BuildFilter(g *fgraph.Graph, prevPad string, c *model.Clip, t *model.Track, idx int, ctx *ExportCtx) (BuildResult, bool)

	// Render rasterizes the clip onto dst for the preview.
	Render(dst *image.RGBA, c *model.Clip, t *model.Track, tr model.Transform, ctx *RenderCtx)
}

// ClipRegistry is ordered most-specific-first: a clip carrying both
// rectangleStyle and textContent resolves to Rectangle.
var ClipRegistry = []ClipElement{
	rectangleElement{},
	textElement{},
	lyricsElement{},
	videoElement{},
}

// FirstMatching dispatches a clip linearly through the registry.
func FirstMatching(c *model.Clip, t *model.Track) (ClipElement, bool) {
	for _, e := range ClipRegistry {
		if e.CanHandle(c, t) {
			return e, true
		}
	}
	return nil, false
}

// Effect is one entry of the effect registry. Effects only apply to video
// clips; activation is resolved against the effect tracks parented to the
// clip's track.
type Effect interface {
	Name() string
	ActiveExport(c *model.Clip, t *model.Track, ctx *ExportCtx) bool
	ActivePreview(c *model.Clip, t *model.Track, ctx *RenderCtx) bool
}

// BaseModifier is the export side of a phase-1 effect: a filter fragment
// inlined into the clip's base trim chain, before scale. Beat-zoom lives
// here because overlay+enable is unreliable for per-frame t expressions.
type BaseModifier interface {
	BuildBaseModifier(c *model.Clip, t *model.Track, ctx *ExportCtx) (string, bool)
}

// FilterNode is the export side of a phase-2 effect: labeled filter nodes
// chained after the clip's base pad. Returns the effect's output pad.
type FilterNode interface {
	BuildEffectFilter(g *fgraph.Graph, inPad string, c *model.Clip, t *model.Track, idx int, ctx *ExportCtx) (string, bool)
}

// TransformModifier is the preview side of a phase-1 effect: it adjusts
// the clip transform before bounds are computed.
type TransformModifier interface {
	ModifyTransform(tr *model.Transform, c *model.Clip, t *model.Track, ctx *RenderCtx)
}

// PixelProcessor is the preview side of a phase-2 effect: it maps the
// clip's surface to a processed surface. Returning src unchanged is the
// sanctioned fallback when pixel access fails.
type PixelProcessor interface {
	ApplyRender(src *image.RGBA, c *model.Clip, t *model.Track, ctx *RenderCtx) *image.RGBA
}

// EffectRegistry is ordered by render order: geometry first, then masked
// compositing, then stylization, then final color correction. Each effect
// implements exactly one of BaseModifier/FilterNode and exactly one of
// TransformModifier/PixelProcessor.
var EffectRegistry = []Effect{
	beatZoomEffect{},
	cutoutEffect{},
	cartoonEffect{},
	colorGradeEffect{},
}
