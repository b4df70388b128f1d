package element

import (
	"fmt"
	"image"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// cutoutEffect separates subject from background using the grayscale mask
// video produced by the external person-segmentation tool. All math is
// yuv multiply/addition blends; no alpha channel, so cartoon and
// color-grade can chain behind it without format churn.
type cutoutEffect struct{}

func (cutoutEffect) Name() string { return model.EffectCutout }

func (cutoutEffect) ActiveExport(c *model.Clip, t *model.Track, ctx *ExportCtx) bool {
	return EffectConfigFor(ctx.Project, t, c, model.EffectCutout) != nil
}

func (cutoutEffect) ActivePreview(c *model.Clip, t *model.Track, ctx *RenderCtx) bool {
	return EffectConfigAt(ctx.Project, t, model.EffectCutout, ctx.Time) != nil
}

// BuildEffectFilter chains: trim+scale the mask, split it, negate one
// copy, fill a background color, multiply subject and background by their
// masks, add the two. removeBg keeps the masked subject; removePerson
// swaps the mask roles.
func (cutoutEffect) BuildEffectFilter(g *fgraph.Graph, inPad string, c *model.Clip, t *model.Track, idx int, ctx *ExportCtx) (string, bool) {
	cfg := EffectConfigFor(ctx.Project, t, c, model.EffectCutout)
	if cfg == nil || cfg.Cutout == nil {
		return "", false
	}
	maskIdx, ok := ctx.MaskInputIdx[c.AssetID]
	if !ok {
		ctx.Log.Debug().Str("clip", c.ID).Str("asset", c.AssetID).Msg("no mask input for cutout, skipping effect")
		return "", false
	}
	params := cfg.Cutout

	tr := c.EffectiveTransform()
	sw, sh := ScaledSize(tr, ctx.OutputW, ctx.OutputH)

	maskT := fmt.Sprintf("cut_maskt_%d", idx)
	maskA := fmt.Sprintf("cut_maska_%d", idx)
	maskB := fmt.Sprintf("cut_maskb_%d", idx)
	maskInv := fmt.Sprintf("cut_minv_%d", idx)
	bg := fmt.Sprintf("cut_bg_%d", idx)
	subj := fmt.Sprintf("cut_subj_%d", idx)
	bgm := fmt.Sprintf("cut_bgm_%d", idx)
	out := fmt.Sprintf("cut_out_%d", idx)

	// The mask runs through the same trim/scale chain as the subject so
	// the two stay in geometric lockstep.
	g.Add(fmt.Sprintf("trim=%s:%s,setpts=PTS-STARTPTS+%s/TB,scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,format=yuv420p",
		fgraph.Num(c.SourceStart), fgraph.Num(c.SourceEnd), fgraph.Num(c.TimelineStart), sw, sh, sw, sh),
		[]string{fmt.Sprintf("%d:v", maskIdx)}, maskT)
	g.Add("split", []string{maskT}, maskA, maskB)
	g.Add("negate", []string{maskA}, maskInv)

	bgColor := params.BackgroundColor
	if bgColor == "" {
		bgColor = "0x000000"
	}
	g.Add(fmt.Sprintf("color=c=%s:s=%dx%d:d=%s,format=yuv420p",
		ffColor(bgColor), sw, sh, fgraph.Num(c.TimelineEnd)), nil, bg)

	subjMask, bgMask := maskB, maskInv
	if params.Mode == model.CutoutRemovePerson {
		subjMask, bgMask = maskInv, maskB
	}

	g.Add("blend=all_mode=multiply", []string{inPad, subjMask}, subj)
	g.Add("blend=all_mode=multiply", []string{bg, bgMask}, bgm)
	g.Add("blend=all_mode=addition", []string{subj, bgm}, out)

	return out, true
}

// ApplyRender is the preview counterpart: per-pixel multiply against the
// mask frame plus background fill. Falls back to the unprocessed source
// when the mask frame is not available.
func (cutoutEffect) ApplyRender(src *image.RGBA, c *model.Clip, t *model.Track, ctx *RenderCtx) *image.RGBA {
	cfg := EffectConfigAt(ctx.Project, t, model.EffectCutout, ctx.Time)
	if cfg == nil || cfg.Cutout == nil {
		return src
	}
	b := src.Bounds()
	srcTime := c.SourceStart + (ctx.Time - c.TimelineStart)
	mask := ctx.Frames.MaskFrame(c.AssetID, srcTime, b.Dx(), b.Dy())
	if mask == nil || len(mask.Pix) < len(src.Pix) {
		return src
	}

	bgCol := ParseColor(cfg.Cutout.BackgroundColor)
	removePerson := cfg.Cutout.Mode == model.CutoutRemovePerson

	out := image.NewRGBA(b)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		m := uint32(mask.Pix[i]) // grayscale mask, any channel
		if removePerson {
			m = 255 - m
		}
		inv := 255 - m
		out.Pix[i+0] = uint8((uint32(src.Pix[i+0])*m + uint32(bgCol.R)*inv) / 255)
		out.Pix[i+1] = uint8((uint32(src.Pix[i+1])*m + uint32(bgCol.G)*inv) / 255)
		out.Pix[i+2] = uint8((uint32(src.Pix[i+2])*m + uint32(bgCol.B)*inv) / 255)
		out.Pix[i+3] = 255
	}
	return out
}
