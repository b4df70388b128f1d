package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/vibecut/internal/model"
)

// solidFrames hands out solid-colored frames, standing in for decoded
// video.
type solidFrames struct {
	fill color.RGBA
	mask uint8
}

func (s *solidFrames) Frame(_ string, _ float64, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = s.fill.R
		img.Pix[i+1] = s.fill.G
		img.Pix[i+2] = s.fill.B
		img.Pix[i+3] = 255
	}
	return img
}

func (s *solidFrames) MaskFrame(_ string, _ float64, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = s.mask
		img.Pix[i+1] = s.mask
		img.Pix[i+2] = s.mask
		img.Pix[i+3] = 255
	}
	return img
}

func smallProject() *model.Project {
	clip := &model.Clip{
		ID: "c1", AssetID: "a1", TrackID: "vt",
		TimelineStart: 0, TimelineEnd: 2,
		SourceStart: 0, SourceEnd: 2,
	}
	return &model.Project{
		ID: "p1", OutputW: 64, OutputH: 96,
		Tracks: []*model.Track{
			{ID: "vt", Type: model.TrackVideo, Clips: []*model.Clip{clip}},
		},
	}
}

func TestRenderFrameDrawsVideoClip(t *testing.T) {
	p := smallProject()
	frames := &solidFrames{fill: color.RGBA{200, 10, 10, 255}}
	r := NewRenderer(p, frames, nil, zerolog.Nop())

	img := r.RenderFrame(1)
	c := img.RGBAAt(32, 48)
	if c.R != 200 || c.G != 10 || c.B != 10 {
		t.Errorf("expected clip color at center, got %v", c)
	}
}

func TestRenderFrameOutsideClipShowsBackground(t *testing.T) {
	p := smallProject()
	frames := &solidFrames{fill: color.RGBA{200, 10, 10, 255}}
	r := NewRenderer(p, frames, nil, zerolog.Nop())

	img := r.RenderFrame(5)
	c := img.RGBAAt(32, 48)
	if c.R == 200 {
		t.Error("clip must not draw outside its timeline range")
	}
}

func TestRenderFrameSkipsMutedTrack(t *testing.T) {
	p := smallProject()
	p.Tracks[0].Muted = true
	frames := &solidFrames{fill: color.RGBA{200, 10, 10, 255}}
	r := NewRenderer(p, frames, nil, zerolog.Nop())

	img := r.RenderFrame(1)
	if c := img.RGBAAt(32, 48); c.R == 200 {
		t.Error("muted tracks must not render")
	}
}

func TestCutoutPreviewMasksBackground(t *testing.T) {
	p := smallProject()
	cfg := &model.EffectConfig{
		EffectType: model.EffectCutout, Enabled: true,
		Cutout: &model.CutoutParams{Mode: model.CutoutRemoveBg, BackgroundColor: "#00FF00"},
	}
	p.Tracks = append(p.Tracks, &model.Track{
		ID: "et", Type: model.TrackEffect, EffectType: model.EffectCutout, ParentTrackID: "vt",
		Clips: []*model.Clip{{ID: "ec", TimelineStart: 0, TimelineEnd: 2, EffectConfig: cfg}},
	})

	// Fully black mask: everything is background.
	frames := &solidFrames{fill: color.RGBA{200, 10, 10, 255}, mask: 0}
	r := NewRenderer(p, frames, nil, zerolog.Nop())

	img := r.RenderFrame(1)
	c := img.RGBAAt(32, 48)
	if c.G != 255 || c.R != 0 {
		t.Errorf("black mask should replace subject with background fill, got %v", c)
	}
}

func TestDragTransformOverride(t *testing.T) {
	p := smallProject()
	frames := &solidFrames{fill: color.RGBA{200, 10, 10, 255}}
	r := NewRenderer(p, frames, nil, zerolog.Nop())
	r.DragTransform = func(clipID string) *model.Transform {
		return &model.Transform{Scale: 0.25, X: -100, Y: -100, Opacity: 1}
	}

	// Dragged far off-center, the canvas center shows background again.
	img := r.RenderFrame(1)
	if c := img.RGBAAt(32, 48); c.R == 200 {
		t.Error("drag transform should have moved the clip away")
	}
}
