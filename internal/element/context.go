package element

import (
	"image"

	"github.com/rs/zerolog"

	"github.com/keagan/vibecut/internal/model"
)

// WriteFileFunc is the compiler's only I/O surface: it writes ASS
// side-files. Injected so compilation stays pure and testable.
type WriteFileFunc func(path string, data []byte) error

// ExportCtx is the resolved asset bundle handed to export builders. All
// maps are built before compilation starts; builders only read.
type ExportCtx struct {
	Project *model.Project

	// AssetPaths maps asset id to the path ffmpeg reads (proxy if present).
	AssetPaths map[string]string
	// AssetInputIdx maps asset id to its ffmpeg input index.
	AssetInputIdx map[string]int
	// MaskInputIdx maps asset id to the input index of its mask video.
	MaskInputIdx map[string]int
	// ClipAudioWAV maps clip id to the input index of its extracted WAV.
	ClipAudioWAV map[string]int
	// Beats maps asset id to its beat track.
	Beats map[string]*model.BeatsData

	MasterAudioClip *model.Clip

	OutputW    int
	OutputH    int
	ProjectDir string

	WriteFile WriteFileFunc
	Log       zerolog.Logger
}

// FrameSource supplies decoded frames to the preview. Implementations may
// return nil when a frame is not ready; the renderer draws what it has.
type FrameSource interface {
	// Frame returns the frame of the asset at source time t, scaled to
	// the requested size.
	Frame(assetID string, t float64, w, h int) *image.RGBA
	// MaskFrame is Frame for the asset's cutout mask video.
	MaskFrame(assetID string, t float64, w, h int) *image.RGBA
}

// RenderCtx carries per-frame preview state.
type RenderCtx struct {
	Project *model.Project

	// Time is the playhead position in timeline seconds.
	Time float64

	OutputW int
	OutputH int

	Frames FrameSource
	Beats  map[string]*model.BeatsData

	// LowQuality halves the resolution of the cartoon effect's edge pass
	// (quarter instead of half) on every preview frame.
	LowQuality bool

	// DragTransform substitutes an in-progress drag transform for a clip,
	// or returns nil.
	DragTransform func(clipID string) *model.Transform
}

// EffectiveTransform resolves the transform the preview should draw with,
// honoring an in-progress drag.
func (ctx *RenderCtx) EffectiveTransform(c *model.Clip) model.Transform {
	if ctx.DragTransform != nil {
		if tr := ctx.DragTransform(c.ID); tr != nil {
			return *tr
		}
	}
	return c.EffectiveTransform()
}

// ScaledSize returns the canvas-fitted size of a video clip after its
// transform scale, matching the export's scale+crop chain.
func ScaledSize(tr model.Transform, outW, outH int) (int, int) {
	scale := tr.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(float64(outW)*scale + 0.5)
	h := int(float64(outH)*scale + 0.5)
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	// Keep even dimensions for yuv420p.
	return w &^ 1, h &^ 1
}

// OverlayPos returns the top-left overlay position for a clip surface of
// size w x h, centered plus the transform offset.
func OverlayPos(tr model.Transform, w, h, outW, outH int) (int, int) {
	x := (outW-w)/2 + int(tr.X)
	y := (outH-h)/2 + int(tr.Y)
	return x, y
}

// EffectConfigFor finds the enabled effect-track config of the given type
// covering any part of the clip's timeline range. videoTrack is the track
// the clip sits on; effect tracks point at it via ParentTrackID.
func EffectConfigFor(p *model.Project, videoTrack *model.Track, c *model.Clip, effectType string) *model.EffectConfig {
	if p == nil || videoTrack == nil {
		return nil
	}
	for _, t := range p.Tracks {
		if t.Type != model.TrackEffect || t.ParentTrackID != videoTrack.ID {
			continue
		}
		for _, ec := range t.Clips {
			cfg := ec.EffectConfig
			if cfg == nil || !cfg.Enabled || cfg.EffectType != effectType {
				continue
			}
			if ec.OverlapsRange(c.TimelineStart, c.TimelineEnd) {
				return cfg
			}
		}
	}
	return nil
}

// EffectConfigAt is EffectConfigFor restricted to a single instant,
// used by the preview where only the playhead time matters.
func EffectConfigAt(p *model.Project, videoTrack *model.Track, effectType string, at float64) *model.EffectConfig {
	if p == nil || videoTrack == nil {
		return nil
	}
	for _, t := range p.Tracks {
		if t.Type != model.TrackEffect || t.ParentTrackID != videoTrack.ID {
			continue
		}
		for _, ec := range t.Clips {
			cfg := ec.EffectConfig
			if cfg == nil || !cfg.Enabled || cfg.EffectType != effectType {
				continue
			}
			if ec.Overlaps(at) {
				return cfg
			}
		}
	}
	return nil
}
