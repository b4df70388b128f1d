package element

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// rectangleElement renders solid rectangles with optional borders.
// Registered first: a clip carrying rectangleStyle always resolves here.
// BorderRadius is ignored: export (drawbox) and preview both draw square
// corners.
type rectangleElement struct{}

func (rectangleElement) Name() string { return "rectangle" }

func (rectangleElement) CanHandle(c *model.Clip, _ *model.Track) bool {
	return c.RectangleStyle != nil
}

func (rectangleElement) BuildFilter(g *fgraph.Graph, prevPad string, c *model.Clip, _ *model.Track, idx int, ctx *ExportCtx) (BuildResult, bool) {
	style := c.RectangleStyle
	tr := c.EffectiveTransform()

	scale := tr.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(style.Width*scale + 0.5)
	h := int(style.Height*scale + 0.5)
	if w <= 0 || h <= 0 {
		return BuildResult{}, false
	}
	x := (ctx.OutputW-w)/2 + int(tr.X)
	y := (ctx.OutputH-h)/2 + int(tr.Y)

	enable := fmt.Sprintf("enable='between(t,%s,%s)'", fgraph.Num(c.TimelineStart), fgraph.Num(c.TimelineEnd))

	parts := []string{fmt.Sprintf("drawbox=x=%d:y=%d:w=%d:h=%d:color=%s@%s:t=fill:%s",
		x, y, w, h, ffColor(style.Color), fgraph.Param(style.FillOpacity), enable)}

	if style.BorderWidth > 0 && style.BorderColor != "" {
		bw := int(style.BorderWidth*scale + 0.5)
		if bw < 1 {
			bw = 1
		}
		parts = append(parts, fmt.Sprintf("drawbox=x=%d:y=%d:w=%d:h=%d:color=%s:t=%d:%s",
			x, y, w, h, ffColor(style.BorderColor), bw, enable))
	}

	if tr.Rotation != 0 {
		parts = append(parts, frameRotate(tr.Rotation, c))
	}

	out := fmt.Sprintf("recto%d", idx)
	g.Add(strings.Join(parts, ","), []string{prevPad}, out)
	return BuildResult{OutputPad: out, NextIdx: idx + 1}, true
}

func (rectangleElement) Render(dst *image.RGBA, c *model.Clip, _ *model.Track, tr model.Transform, ctx *RenderCtx) {
	style := c.RectangleStyle
	scale := tr.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(style.Width * scale)
	h := int(style.Height * scale)
	x := (ctx.OutputW-w)/2 + int(tr.X)
	y := (ctx.OutputH-h)/2 + int(tr.Y)

	r := image.Rect(x, y, x+w, y+h)
	FillRect(dst, r, ParseColor(style.Color), style.FillOpacity*tr.Opacity)
	if style.BorderWidth > 0 && style.BorderColor != "" {
		StrokeRect(dst, r, ParseColor(style.BorderColor), int(style.BorderWidth*scale))
	}
}

// ffColor normalizes "#RRGGBB" to ffmpeg's 0xRRGGBB form.
func ffColor(s string) string {
	if strings.HasPrefix(s, "#") {
		return "0x" + strings.TrimPrefix(s, "#")
	}
	if s == "" {
		return "0xFFFFFF"
	}
	return s
}

// frameRotate rotates the whole frame during the clip's window. Per-layer
// rotation would need an intermediate transparent overlay, so export
// rotation crops edges. The preview draws rectangles and text unrotated.
func frameRotate(deg float64, c *model.Clip) string {
	rad := deg * math.Pi / 180
	return fmt.Sprintf("rotate=%s:enable='between(t,%s,%s)'",
		fgraph.Param(rad), fgraph.Num(c.TimelineStart), fgraph.Num(c.TimelineEnd))
}
