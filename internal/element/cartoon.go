package element

import (
	"fmt"
	"image"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// cartoonEffect stylizes the clip: denoised flat regions multiplied
// against inverted edge lines, then a saturation push. Preview runs a
// half-resolution Sobel instead of hqdn3d; the denoise pass is
// export-only, a documented cosmetic divergence.
type cartoonEffect struct{}

func (cartoonEffect) Name() string { return model.EffectCartoon }

func (cartoonEffect) ActiveExport(c *model.Clip, t *model.Track, ctx *ExportCtx) bool {
	return EffectConfigFor(ctx.Project, t, c, model.EffectCartoon) != nil
}

func (cartoonEffect) ActivePreview(c *model.Clip, t *model.Track, ctx *RenderCtx) bool {
	return EffectConfigAt(ctx.Project, t, model.EffectCartoon, ctx.Time) != nil
}

func (cartoonEffect) BuildEffectFilter(g *fgraph.Graph, inPad string, c *model.Clip, t *model.Track, idx int, ctx *ExportCtx) (string, bool) {
	cfg := EffectConfigFor(ctx.Project, t, c, model.EffectCartoon)
	if cfg == nil || cfg.Cartoon == nil {
		return "", false
	}
	p := cfg.Cartoon

	a := fmt.Sprintf("cz_a_%d", idx)
	b := fmt.Sprintf("cz_b_%d", idx)
	smooth := fmt.Sprintf("cz_sm_%d", idx)
	edge := fmt.Sprintf("cz_ed_%d", idx)
	blended := fmt.Sprintf("cz_bl_%d", idx)
	out := fmt.Sprintf("cz_%d", idx)

	g.Add("split", []string{inPad}, a, b)
	g.Add(fmt.Sprintf("hqdn3d=%s:%s:%s", fgraph.Param(p.LumaDenoise), fgraph.Param(p.ChromaDenoise), fgraph.Param(p.TemporalDenoise)),
		[]string{a}, smooth)
	g.Add(fmt.Sprintf("edgedetect=low=%s:high=%s,negate", fgraph.Param(p.EdgeLow), fgraph.Param(p.EdgeHigh)),
		[]string{b}, edge)
	g.Add("blend=all_mode=multiply", []string{smooth, edge}, blended)
	g.Add(fmt.Sprintf("eq=saturation=%s", fgraph.Param(p.Saturation)), []string{blended}, out)

	return out, true
}

// ApplyRender runs a Sobel edge pass at half resolution (quarter when
// LowQuality is set) and multiplies the darkened edges into a
// saturation-boosted copy of the source.
func (cartoonEffect) ApplyRender(src *image.RGBA, c *model.Clip, t *model.Track, ctx *RenderCtx) *image.RGBA {
	cfg := EffectConfigAt(ctx.Project, t, model.EffectCartoon, ctx.Time)
	if cfg == nil || cfg.Cartoon == nil {
		return src
	}
	p := cfg.Cartoon

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 4 || h < 4 {
		return src
	}

	step := 2
	if ctx.LowQuality {
		step = 4
	}
	ew, eh := w/step, h/step
	if ew < 3 || eh < 3 {
		return src
	}

	// Downsampled luma plane.
	luma := make([]uint8, ew*eh)
	for y := 0; y < eh; y++ {
		for x := 0; x < ew; x++ {
			i := src.PixOffset(bounds.Min.X+x*step, bounds.Min.Y+y*step)
			luma[y*ew+x] = uint8((299*uint32(src.Pix[i]) + 587*uint32(src.Pix[i+1]) + 114*uint32(src.Pix[i+2])) / 1000)
		}
	}

	threshold := int(p.EdgeLow * 255)
	if threshold <= 0 {
		threshold = 40
	}

	sat := p.Saturation
	if sat <= 0 {
		sat = 1
	}

	out := image.NewRGBA(bounds)
	for y := 0; y < h; y++ {
		ey := y / step
		if ey >= eh-1 {
			ey = eh - 2
		}
		for x := 0; x < w; x++ {
			ex := x / step
			if ex >= ew-1 {
				ex = ew - 2
			}
			if ex < 1 {
				ex = 1
			}
			if ey < 1 {
				ey = 1
			}

			gx := int(luma[ey*ew+ex+1]) - int(luma[ey*ew+ex-1])
			gy := int(luma[(ey+1)*ew+ex]) - int(luma[(ey-1)*ew+ex])
			mag := gx
			if mag < 0 {
				mag = -mag
			}
			if gy < 0 {
				gy = -gy
			}
			mag += gy

			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			r, gr, b := saturate(src.Pix[i], src.Pix[i+1], src.Pix[i+2], sat)
			if mag > threshold {
				r, gr, b = r/4, gr/4, b/4
			}
			o := out.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			out.Pix[o+0] = r
			out.Pix[o+1] = gr
			out.Pix[o+2] = b
			out.Pix[o+3] = 255
		}
	}
	return out
}

// saturate pushes RGB away from its luma by factor s.
func saturate(r, g, b uint8, s float64) (uint8, uint8, uint8) {
	l := (299*float64(r) + 587*float64(g) + 114*float64(b)) / 1000
	return clamp8(l + (float64(r)-l)*s), clamp8(l + (float64(g)-l)*s), clamp8(l + (float64(b)-l)*s)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
