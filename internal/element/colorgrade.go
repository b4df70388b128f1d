package element

import (
	"fmt"
	"image"
	"math"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// colorGradeEffect is the final color correction stage: eq for
// contrast/brightness/saturation, hue rotation, and a geq shadow/highlight
// curve that matches the preview's per-pixel formula exactly. All-neutral
// parameters compile to a passthrough.
type colorGradeEffect struct{}

func (colorGradeEffect) Name() string { return model.EffectColorGrade }

func (colorGradeEffect) ActiveExport(c *model.Clip, t *model.Track, ctx *ExportCtx) bool {
	return EffectConfigFor(ctx.Project, t, c, model.EffectColorGrade) != nil
}

func (colorGradeEffect) ActivePreview(c *model.Clip, t *model.Track, ctx *RenderCtx) bool {
	return EffectConfigAt(ctx.Project, t, model.EffectColorGrade, ctx.Time) != nil
}

// geqExpr builds the shadow/highlight lift expression for one channel:
// clamp(v + shadows*(1-v)^2 + highlights*v^2, 0, 1) with v normalized.
func geqExpr(ch string, shadows, highlights float64) string {
	v := fmt.Sprintf("%s(X,Y)/255", ch)
	return fmt.Sprintf("clip(%s+%s*(1-%s)*(1-%s)+%s*%s*%s,0,1)*255",
		v, fgraph.Param(shadows), v, v, fgraph.Param(highlights), v, v)
}

func (colorGradeEffect) BuildEffectFilter(g *fgraph.Graph, inPad string, c *model.Clip, t *model.Track, idx int, ctx *ExportCtx) (string, bool) {
	cfg := EffectConfigFor(ctx.Project, t, c, model.EffectColorGrade)
	if cfg == nil || cfg.ColorGrade == nil {
		return "", false
	}
	p := *cfg.ColorGrade

	var ops []string
	if p.Contrast != 1 || p.Brightness != 0 || p.Saturation != 1 {
		ops = append(ops, fmt.Sprintf("eq=contrast=%s:brightness=%s:saturation=%s",
			fgraph.Param(p.Contrast), fgraph.Param(p.Brightness), fgraph.Param(p.Saturation)))
	}
	if p.Hue != 0 {
		ops = append(ops, fmt.Sprintf("hue=h=%s", fgraph.Param(p.Hue)))
	}
	if p.Shadows != 0 || p.Highlights != 0 {
		ops = append(ops, fmt.Sprintf("format=rgb24,geq=r='%s':g='%s':b='%s',format=yuv420p",
			geqExpr("r", p.Shadows, p.Highlights),
			geqExpr("g", p.Shadows, p.Highlights),
			geqExpr("b", p.Shadows, p.Highlights)))
	}

	// Neutral grade: no nodes, input pad echoed.
	if len(ops) == 0 {
		return inPad, true
	}

	pad := inPad
	var out string
	for i, op := range ops {
		out = fmt.Sprintf("cg%d_%d", i, idx)
		g.Add(op, []string{pad}, out)
		pad = out
	}
	return out, true
}

// ApplyRender applies the same stack per pixel. Hue rotation uses the
// standard YIQ rotation matrix.
func (colorGradeEffect) ApplyRender(src *image.RGBA, c *model.Clip, t *model.Track, ctx *RenderCtx) *image.RGBA {
	cfg := EffectConfigAt(ctx.Project, t, model.EffectColorGrade, ctx.Time)
	if cfg == nil || cfg.ColorGrade == nil {
		return src
	}
	p := *cfg.ColorGrade
	if p.IsNeutral() {
		return src
	}

	cosH := math.Cos(p.Hue * math.Pi / 180)
	sinH := math.Sin(p.Hue * math.Pi / 180)

	out := image.NewRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r := float64(src.Pix[i+0]) / 255
		g := float64(src.Pix[i+1]) / 255
		b := float64(src.Pix[i+2]) / 255

		if p.Contrast != 1 || p.Brightness != 0 {
			r = (r-0.5)*p.Contrast + 0.5 + p.Brightness
			g = (g-0.5)*p.Contrast + 0.5 + p.Brightness
			b = (b-0.5)*p.Contrast + 0.5 + p.Brightness
		}

		if p.Saturation != 1 {
			l := 0.299*r + 0.587*g + 0.114*b
			r = l + (r-l)*p.Saturation
			g = l + (g-l)*p.Saturation
			b = l + (b-l)*p.Saturation
		}

		if p.Hue != 0 {
			y := 0.299*r + 0.587*g + 0.114*b
			ii := 0.596*r - 0.274*g - 0.322*b
			q := 0.211*r - 0.523*g + 0.312*b
			i2 := ii*cosH - q*sinH
			q2 := ii*sinH + q*cosH
			r = y + 0.956*i2 + 0.621*q2
			g = y - 0.272*i2 - 0.647*q2
			b = y - 1.106*i2 + 1.703*q2
		}

		if p.Shadows != 0 || p.Highlights != 0 {
			r = shade(r, p.Shadows, p.Highlights)
			g = shade(g, p.Shadows, p.Highlights)
			b = shade(b, p.Shadows, p.Highlights)
		}

		out.Pix[i+0] = clamp8(r * 255)
		out.Pix[i+1] = clamp8(g * 255)
		out.Pix[i+2] = clamp8(b * 255)
		out.Pix[i+3] = 255
	}
	return out
}

// shade matches the export geq formula: v + shadows*(1-v)^2 + highlights*v^2.
func shade(v, shadows, highlights float64) float64 {
	v = v + shadows*(1-v)*(1-v) + highlights*v*v
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
