package export

import (
	"fmt"

	"github.com/keagan/vibecut/internal/element"
	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

type audioSource struct {
	inputIdx int
	clip     *model.Clip
	gain     float64
}

// buildAudioMix trims each audio source to its clip range, delays it onto
// the timeline, applies per-clip gain and mixes everything to [aout]. A
// project with no audio sources gets a silent source so the output always
// carries an audio stream.
func buildAudioMix(g *fgraph.Graph, p *model.Project, ctx *element.ExportCtx, dur float64) (string, error) {
	var sources []audioSource

	if mc := ctx.MasterAudioClip; mc != nil {
		if inIdx, ok := ctx.AssetInputIdx[mc.AssetID]; ok {
			sources = append(sources, audioSource{inputIdx: inIdx, clip: mc, gain: clipGain(mc)})
		} else {
			ctx.Log.Debug().Str("clip", mc.ID).Msg("master audio asset not registered as input, skipping")
		}
	}

	// Video clips that bring their own audio, in track-then-timeline
	// order to keep enumeration stable.
	for _, t := range p.Tracks {
		if t.Type != model.TrackVideo {
			continue
		}
		for _, c := range clipsInOrder(t) {
			if !c.UseClipAudio {
				continue
			}
			inIdx, ok := ctx.ClipAudioWAV[c.ID]
			if !ok {
				ctx.Log.Debug().Str("clip", c.ID).Msg("no extracted audio for clip, skipping")
				continue
			}
			sources = append(sources, audioSource{inputIdx: inIdx, clip: c, gain: clipGain(c)})
		}
	}

	if len(sources) == 0 {
		g.Add(fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=44100:d=%s", fgraph.Num(dur)), nil, "aout")
		return "aout", nil
	}

	pads := make([]string, len(sources))
	for k, s := range sources {
		pad := fmt.Sprintf("am%d", k)
		delayMs := int(s.clip.TimelineStart*1000 + 0.5)
		g.Add(fmt.Sprintf("atrim=%s:%s,asetpts=PTS-STARTPTS,adelay=%d|%d,volume=%s",
			fgraph.Num(s.clip.SourceStart), fgraph.Num(s.clip.SourceEnd),
			delayMs, delayMs, fgraph.Param(s.gain)),
			[]string{fmt.Sprintf("%d:a", s.inputIdx)}, pad)
		pads[k] = pad
	}

	g.Add(fmt.Sprintf("amix=inputs=%d:duration=longest", len(pads)), pads, "aout")
	return "aout", nil
}

func clipGain(c *model.Clip) float64 {
	if c.ClipAudioVolume > 0 {
		return c.ClipAudioVolume
	}
	return 1
}
