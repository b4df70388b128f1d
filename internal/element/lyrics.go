package element

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
	"github.com/keagan/vibecut/internal/subtitle"
)

// lyricsElement burns karaoke-style word timing into the frame. Export
// writes an ASS side-file through the injected writer and references it
// with a subtitles filter; preview draws through the shared lyrics helper.
type lyricsElement struct{}

func (lyricsElement) Name() string { return "lyrics" }

func (lyricsElement) CanHandle(c *model.Clip, t *model.Track) bool {
	return t.Type == model.TrackLyrics && len(c.LyricsWords) > 0
}

func (lyricsElement) BuildFilter(g *fgraph.Graph, prevPad string, c *model.Clip, _ *model.Track, idx int, ctx *ExportCtx) (BuildResult, bool) {
	if len(c.LyricsWords) == 0 {
		return BuildResult{}, false
	}

	content := subtitle.Generate(c.LyricsWords, c.LyricsStyle)
	path := filepath.Join(ctx.ProjectDir, fmt.Sprintf("lyrics_%d.ass", idx))
	if err := ctx.WriteFile(path, []byte(content)); err != nil {
		ctx.Log.Warn().Err(err).Str("path", path).Msg("failed to write lyrics sidecar, skipping clip")
		return BuildResult{}, false
	}

	out := fmt.Sprintf("lyr%d", idx)
	g.Add(fmt.Sprintf("subtitles='%s'", subtitle.EscapeFilterPath(path)), []string{prevPad}, out)
	return BuildResult{OutputPad: out, NextIdx: idx + 1}, true
}

func (lyricsElement) Render(dst *image.RGBA, c *model.Clip, _ *model.Track, _ model.Transform, ctx *RenderCtx) {
	DrawLyricsLine(dst, c.LyricsWords, c.LyricsStyle, ctx.Time, ctx.OutputW, ctx.OutputH)
}
