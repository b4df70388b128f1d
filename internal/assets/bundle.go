package assets

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/keagan/vibecut/internal/element"
	"github.com/keagan/vibecut/internal/export"
	"github.com/keagan/vibecut/internal/model"
)

// BuildBundle resolves a project against the asset index into the bundle
// the compiler consumes. All maps are complete before compilation starts;
// the compiler never touches the index. Enumeration order is the
// determinism contract: referenced assets in ascending id order, then
// per-clip audio WAVs in track order, then cutout masks in ascending
// asset-id order.
func BuildBundle(p *model.Project, idx *Index, projectDir string, log zerolog.Logger) (*export.Bundle, error) {
	ctx := &element.ExportCtx{
		Project:       p,
		AssetPaths:    make(map[string]string),
		AssetInputIdx: make(map[string]int),
		MaskInputIdx:  make(map[string]int),
		ClipAudioWAV:  make(map[string]int),
		Beats:         make(map[string]*model.BeatsData),
		OutputW:       p.OutputW,
		OutputH:       p.OutputH,
		ProjectDir:    projectDir,
		WriteFile: func(path string, data []byte) error {
			return os.WriteFile(path, data, 0644)
		},
		Log: log,
	}

	var inputs []export.InputSpec

	// Referenced assets, ascending id order.
	referenced := make(map[string]bool)
	for _, t := range p.Tracks {
		for _, c := range t.Clips {
			if c.AssetID != "" && idx.Get(c.AssetID) != nil {
				referenced[c.AssetID] = true
			}
		}
	}
	for _, id := range sortedIDs(referenced) {
		a := idx.Get(id)
		ctx.AssetPaths[id] = a.RenderPath()
		ctx.AssetInputIdx[id] = len(inputs)
		inputs = append(inputs, export.InputSpec{Path: a.RenderPath(), Kind: export.InputVideo})

		if a.BeatsPath != "" {
			beats, err := LoadBeats(a.BeatsPath)
			if err != nil {
				log.Warn().Err(err).Str("asset", id).Msg("failed to load beats, beat effects will skip")
			} else {
				ctx.Beats[id] = beats
			}
		}
	}

	// Per-clip audio WAVs, track order then timeline order.
	for _, t := range p.Tracks {
		if t.Type != model.TrackVideo {
			continue
		}
		for _, c := range t.Clips {
			if !c.UseClipAudio {
				continue
			}
			a := idx.Get(c.AssetID)
			if a == nil || a.AudioPath == "" {
				log.Debug().Str("clip", c.ID).Msg("clip audio requested but no extracted wav")
				continue
			}
			ctx.ClipAudioWAV[c.ID] = len(inputs)
			inputs = append(inputs, export.InputSpec{Path: a.AudioPath, Kind: export.InputAudio})
		}
	}

	// Mask inputs for assets whose clips have an active cutout.
	needMask := make(map[string]bool)
	for _, t := range p.Tracks {
		if t.Type != model.TrackVideo {
			continue
		}
		for _, c := range t.Clips {
			if c.AssetID == "" || !referenced[c.AssetID] {
				continue
			}
			if element.EffectConfigFor(p, t, c, model.EffectCutout) != nil {
				needMask[c.AssetID] = true
			}
		}
	}
	for _, id := range sortedIDs(needMask) {
		a := idx.Get(id)
		if a.MaskPath == "" {
			log.Debug().Str("asset", id).Msg("cutout active but asset has no mask")
			continue
		}
		ctx.MaskInputIdx[id] = len(inputs)
		inputs = append(inputs, export.InputSpec{Path: a.MaskPath, Kind: export.InputMask})
	}

	// Master audio: the first clip on the single master track.
	if mt := p.MasterAudioTrack(); mt != nil && len(mt.Clips) > 0 {
		ctx.MasterAudioClip = mt.Clips[0]
	}

	return &export.Bundle{Ctx: ctx, Inputs: inputs}, nil
}
