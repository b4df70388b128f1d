// Package export compiles a project into an FFmpeg filter graph. Compile
// is a pure function of the project and the resolved asset bundle: given
// byte-identical inputs it emits byte-identical filter_complex strings.
// Its only I/O is the injected file writer used for ASS side-files.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/keagan/vibecut/internal/element"
	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
	"github.com/keagan/vibecut/internal/subtitle"
)

// InputKind classifies an enumerated ffmpeg input.
type InputKind string

const (
	InputVideo InputKind = "video"
	InputAudio InputKind = "audio"
	InputMask  InputKind = "mask"
)

// InputSpec is one -i argument, in enumeration order.
type InputSpec struct {
	Path string
	Kind InputKind
}

// Bundle couples the element export context with the ordered input list
// it was enumerated from.
type Bundle struct {
	Ctx    *element.ExportCtx
	Inputs []InputSpec
}

// Compiled is the compiler's output, consumed by the ffmpeg driver.
type Compiled struct {
	Inputs        []InputSpec
	FilterComplex string
	VideoPad      string
	AudioPad      string
	Duration      float64
}

// ErrEmptyTimeline is returned when there is nothing to render and no
// manual work area to give the output a duration.
var ErrEmptyTimeline = errors.New("timeline is empty and no work area is set")

// Compile walks the project bottom-to-top and emits the filter graph.
// Elements that cannot contribute (missing input, missing mask, empty
// lyrics) are skipped; graph invariant violations are hard errors.
func Compile(p *model.Project, b *Bundle) (*Compiled, error) {
	ctx := b.Ctx
	start, end := p.ExportSpan()
	dur := end - start
	if dur <= 0 {
		return nil, ErrEmptyTimeline
	}

	g := fgraph.New()

	// Seed the canvas with a black source sized to the output.
	g.Add(fmt.Sprintf("color=c=black:s=%dx%d:d=%s", ctx.OutputW, ctx.OutputH, fgraph.Num(dur)), nil, "bg")
	prevPad := "bg"
	idx := 0

	// Bottom-to-top so the top timeline track overlays last.
	for i := len(p.Tracks) - 1; i >= 0; i-- {
		t := p.Tracks[i]
		if t.Type == model.TrackAudio || t.Type == model.TrackEffect || t.Muted {
			continue
		}
		for _, c := range clipsInOrder(t) {
			el, ok := element.FirstMatching(c, t)
			if !ok {
				ctx.Log.Debug().Str("clip", c.ID).Str("track", t.ID).Msg("no element handles clip, skipping")
				continue
			}
			res, ok := el.BuildFilter(g, prevPad, c, t, idx, ctx)
			if !ok {
				continue
			}
			prevPad = res.OutputPad
			idx = res.NextIdx
		}
	}

	// Project-level lyrics render over everything.
	if p.Lyrics != nil && len(p.Lyrics.Words) > 0 {
		content := subtitle.Generate(p.Lyrics.Words, p.Lyrics.Style)
		path := filepath.Join(ctx.ProjectDir, "lyrics.ass")
		if err := ctx.WriteFile(path, []byte(content)); err != nil {
			return nil, fmt.Errorf("failed to write project lyrics sidecar: %w", err)
		}
		g.Add(fmt.Sprintf("subtitles='%s'", subtitle.EscapeFilterPath(path)), []string{prevPad}, "subbed")
		prevPad = "subbed"
	}

	audioPad, err := buildAudioMix(g, p, ctx, dur)
	if err != nil {
		return nil, err
	}

	fc, err := g.String()
	if err != nil {
		return nil, fmt.Errorf("filter graph invalid: %w", err)
	}

	return &Compiled{
		Inputs:        b.Inputs,
		FilterComplex: fc,
		VideoPad:      prevPad,
		AudioPad:      audioPad,
		Duration:      dur,
	}, nil
}

// clipsInOrder returns the track's clips sorted by timeline start without
// mutating the track.
func clipsInOrder(t *model.Track) []*model.Clip {
	clips := make([]*model.Clip, len(t.Clips))
	copy(clips, t.Clips)
	sort.Slice(clips, func(i, j int) bool {
		if clips[i].TimelineStart != clips[j].TimelineStart {
			return clips[i].TimelineStart < clips[j].TimelineStart
		}
		return clips[i].ID < clips[j].ID
	})
	return clips
}
