package element

import (
	"fmt"
	"image"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// videoElement handles media clips on video tracks. Export builds the
// trim/setpts/base-modifier/scale chain, threads the pad through every
// active filter-node effect, then overlays onto the accumulator. Preview
// runs the matching two-phase pipeline on decoded frames.
type videoElement struct{}

func (videoElement) Name() string { return "video" }

func (videoElement) CanHandle(c *model.Clip, t *model.Track) bool {
	return t.Type == model.TrackVideo && c.TextContent == nil && c.RectangleStyle == nil
}

func (videoElement) BuildFilter(g *fgraph.Graph, prevPad string, c *model.Clip, t *model.Track, idx int, ctx *ExportCtx) (BuildResult, bool) {
	inIdx, ok := ctx.AssetInputIdx[c.AssetID]
	if !ok {
		ctx.Log.Debug().Str("clip", c.ID).Str("asset", c.AssetID).Msg("asset not registered as input, skipping clip")
		return BuildResult{}, false
	}

	tr := c.EffectiveTransform()
	sw, sh := ScaledSize(tr, ctx.OutputW, ctx.OutputH)

	// Base chain. setpts re-bases PTS to absolute timeline time so every
	// downstream enable='between(t,...)' speaks timeline seconds.
	parts := []string{
		fmt.Sprintf("trim=%s:%s", fgraph.Num(c.SourceStart), fgraph.Num(c.SourceEnd)),
		fmt.Sprintf("setpts=PTS-STARTPTS+%s/TB", fgraph.Num(c.TimelineStart)),
	}

	// Phase 1: inline base modifiers, in registry order.
	for _, eff := range EffectRegistry {
		bm, isBase := eff.(BaseModifier)
		if !isBase || !eff.ActiveExport(c, t, ctx) {
			continue
		}
		if frag, ok := bm.BuildBaseModifier(c, t, ctx); ok {
			parts = append(parts, frag)
		}
	}

	parts = append(parts,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", sw, sh),
		fmt.Sprintf("crop=%d:%d", sw, sh),
		"format=yuv420p",
	)

	clipPad := fmt.Sprintf("clip%d", idx)
	g.Add(strings.Join(parts, ","), []string{fmt.Sprintf("%d:v", inIdx)}, clipPad)

	// Phase 2: chained effect filter nodes, in registry order.
	pad := clipPad
	for _, eff := range EffectRegistry {
		fn, isNode := eff.(FilterNode)
		if !isNode || !eff.ActiveExport(c, t, ctx) {
			continue
		}
		if out, ok := fn.BuildEffectFilter(g, pad, c, t, idx, ctx); ok {
			pad = out
		}
	}

	if tr.Opacity > 0 && tr.Opacity < 1 {
		alphaPad := fmt.Sprintf("alpha%d", idx)
		g.Add(fmt.Sprintf("format=yuva420p,colorchannelmixer=aa=%s", fgraph.Param(tr.Opacity)),
			[]string{pad}, alphaPad)
		pad = alphaPad
	}

	posX, posY := OverlayPos(tr, sw, sh, ctx.OutputW, ctx.OutputH)
	ovPad := fmt.Sprintf("ov%d", idx)
	g.Add(fmt.Sprintf("overlay=%d:%d:enable='between(t,%s,%s)'",
		posX, posY, fgraph.Num(c.TimelineStart), fgraph.Num(c.TimelineEnd)),
		[]string{prevPad, pad}, ovPad)

	return BuildResult{OutputPad: ovPad, NextIdx: idx + 1}, true
}

func (videoElement) Render(dst *image.RGBA, c *model.Clip, t *model.Track, tr model.Transform, ctx *RenderCtx) {
	// Phase 1: transform modifiers run before bounds are computed.
	for _, eff := range EffectRegistry {
		tm, isTM := eff.(TransformModifier)
		if isTM && eff.ActivePreview(c, t, ctx) {
			tm.ModifyTransform(&tr, c, t, ctx)
		}
	}

	sw, sh := ScaledSize(tr, ctx.OutputW, ctx.OutputH)
	srcTime := c.SourceStart + (ctx.Time - c.TimelineStart)
	src := ctx.Frames.Frame(c.AssetID, srcTime, sw, sh)
	if src == nil {
		return
	}

	// Phase 2: pixel processors thread the surface through.
	for _, eff := range EffectRegistry {
		pp, isPP := eff.(PixelProcessor)
		if isPP && eff.ActivePreview(c, t, ctx) {
			if out := pp.ApplyRender(src, c, t, ctx); out != nil {
				src = out
			}
		}
	}

	x, y := OverlayPos(tr, sw, sh, ctx.OutputW, ctx.OutputH)
	target := image.Rect(x, y, x+sw, y+sh)
	if tr.Opacity >= 1 {
		xdraw.Draw(dst, target, src, src.Bounds().Min, xdraw.Over)
		return
	}
	if tr.Opacity <= 0 {
		return
	}
	// image/draw expects premultiplied alpha, so fade every channel.
	faded := image.NewRGBA(src.Bounds())
	a := uint32(tr.Opacity * 255)
	for i := 0; i < len(src.Pix); i++ {
		faded.Pix[i] = uint8(uint32(src.Pix[i]) * a / 255)
	}
	xdraw.Draw(dst, target, faded, faded.Bounds().Min, xdraw.Over)
}
