package element

import (
	"fmt"
	"strings"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// beatZoomEffect pulses a zoom on every beat. Export inlines a per-frame
// crop into the base trim chain (overlay+enable is unreliable for
// per-frame t in current ffmpeg builds); preview scales the transform up
// during the pulse window.
type beatZoomEffect struct{}

func (beatZoomEffect) Name() string { return model.EffectBeatZoom }

func (beatZoomEffect) ActiveExport(c *model.Clip, t *model.Track, ctx *ExportCtx) bool {
	return EffectConfigFor(ctx.Project, t, c, model.EffectBeatZoom) != nil
}

func (beatZoomEffect) ActivePreview(c *model.Clip, t *model.Track, ctx *RenderCtx) bool {
	return EffectConfigAt(ctx.Project, t, model.EffectBeatZoom, ctx.Time) != nil
}

// beatSource picks the beat track that drives the pulse: the master
// audio clip's when one exists, otherwise the clip's own asset. The
// returned reference clip maps source beat times onto the timeline.
func beatSource(beats map[string]*model.BeatsData, master *model.Clip, c *model.Clip) (*model.BeatsData, *model.Clip) {
	if master != nil {
		if b := beats[master.AssetID]; b != nil {
			return b, master
		}
	}
	return beats[c.AssetID], c
}

// clipBeats returns timeline beat times inside the clip's window after
// beat-division filtering. ref anchors beat source time to the timeline.
func clipBeats(c, ref *model.Clip, beats *model.BeatsData, division int) []float64 {
	if beats == nil || len(beats.Beats) == 0 {
		return nil
	}
	if division < 1 {
		division = 1
	}
	var out []float64
	for i, b := range beats.Beats {
		if i%division != 0 {
			continue
		}
		t := ref.TimelineStart + (b - ref.SourceStart)
		if t >= c.TimelineStart && t < c.TimelineEnd {
			out = append(out, t)
		}
	}
	return out
}

// masterClip finds the first clip on the master audio track.
func masterClip(p *model.Project) *model.Clip {
	if p == nil {
		return nil
	}
	if mt := p.MasterAudioTrack(); mt != nil && len(mt.Clips) > 0 {
		return mt.Clips[0]
	}
	return nil
}

// BuildBaseModifier emits a crop whose size switches between iw/ZF and iw
// via a sum of between(t, beat, beat+pulse) terms. Clips spanning many
// beats produce proportionally long expressions; beats are pre-filtered
// to the clip window, which bounds the term count at the clip's beat
// count.
func (beatZoomEffect) BuildBaseModifier(c *model.Clip, t *model.Track, ctx *ExportCtx) (string, bool) {
	cfg := EffectConfigFor(ctx.Project, t, c, model.EffectBeatZoom)
	if cfg == nil || cfg.BeatZoom == nil {
		return "", false
	}
	params := cfg.BeatZoom

	data, ref := beatSource(ctx.Beats, ctx.MasterAudioClip, c)
	beats := clipBeats(c, ref, data, params.BeatDivision)
	if len(beats) == 0 {
		return "", false
	}

	pulse := params.DurationMs / 1000
	terms := make([]string, len(beats))
	for i, b := range beats {
		terms[i] = fmt.Sprintf("between(t,%s,%s)", fgraph.Secs(b), fgraph.Secs(b+pulse))
	}
	sum := strings.Join(terms, "+")

	zf := fgraph.Param(1 + params.Intensity)
	frag := fmt.Sprintf("crop=w='if(gt(%s,0),iw/%s,iw)':h='if(gt(%s,0),ih/%s,ih)':x=(iw-ow)/2:y=(ih-oh)/2",
		sum, zf, sum, zf)
	return frag, true
}

// ModifyTransform is the preview counterpart: scale up while inside a
// pulse window.
func (beatZoomEffect) ModifyTransform(tr *model.Transform, c *model.Clip, t *model.Track, ctx *RenderCtx) {
	cfg := EffectConfigAt(ctx.Project, t, model.EffectBeatZoom, ctx.Time)
	if cfg == nil || cfg.BeatZoom == nil {
		return
	}
	params := cfg.BeatZoom

	data, ref := beatSource(ctx.Beats, masterClip(ctx.Project), c)
	pulse := params.DurationMs / 1000
	for _, b := range clipBeats(c, ref, data, params.BeatDivision) {
		if ctx.Time >= b && ctx.Time < b+pulse {
			tr.Scale *= 1 + params.Intensity
			return
		}
	}
}
