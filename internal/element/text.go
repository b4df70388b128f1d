package element

import (
	"fmt"
	"image"
	"strings"

	"github.com/keagan/vibecut/internal/fgraph"
	"github.com/keagan/vibecut/internal/model"
)

// textElement renders styled text via drawtext on export and a scaled
// bitmap face on preview.
type textElement struct{}

func (textElement) Name() string { return "text" }

func (textElement) CanHandle(c *model.Clip, _ *model.Track) bool {
	return c.TextContent != nil
}

func (textElement) BuildFilter(g *fgraph.Graph, prevPad string, c *model.Clip, _ *model.Track, idx int, ctx *ExportCtx) (BuildResult, bool) {
	text := *c.TextContent
	if text == "" {
		return BuildResult{}, false
	}
	tr := c.EffectiveTransform()
	style := c.TextStyle
	if style == nil {
		style = &model.TextStyle{FontSize: 64, Color: "#FFFFFF"}
	}

	scale := tr.Scale
	if scale <= 0 {
		scale = 1
	}
	// Font size is authored against a 1920-tall canvas.
	fontSize := style.FontSize * float64(ctx.OutputH) / 1920 * scale
	if fontSize < 1 {
		fontSize = 1
	}

	enable := fmt.Sprintf("enable='between(t,%s,%s)'", fgraph.Num(c.TimelineStart), fgraph.Num(c.TimelineEnd))

	draw := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2+%s:y=(h-text_h)/2+%s",
		escapeDrawText(text), int(fontSize+0.5), ffColor(style.Color), fgraph.Num(tr.X), fgraph.Num(tr.Y))
	if style.BackgroundColor != "" {
		draw += fmt.Sprintf(":box=1:boxcolor=%s:boxborderw=%d", ffColor(style.BackgroundColor), int(fontSize/4))
	}
	draw += ":" + enable

	parts := []string{draw}
	if tr.Rotation != 0 {
		parts = append(parts, frameRotate(tr.Rotation, c))
	}

	out := fmt.Sprintf("txt%d", idx)
	g.Add(strings.Join(parts, ","), []string{prevPad}, out)
	return BuildResult{OutputPad: out, NextIdx: idx + 1}, true
}

func (textElement) Render(dst *image.RGBA, c *model.Clip, _ *model.Track, tr model.Transform, ctx *RenderCtx) {
	if c.TextContent == nil || *c.TextContent == "" {
		return
	}
	style := c.TextStyle
	if style == nil {
		style = &model.TextStyle{FontSize: 64, Color: "#FFFFFF"}
	}
	scale := tr.Scale
	if scale <= 0 {
		scale = 1
	}
	size := style.FontSize * float64(ctx.OutputH) / 1920 * scale
	cx := ctx.OutputW/2 + int(tr.X)
	cy := ctx.OutputH/2 + int(tr.Y)

	if style.BackgroundColor != "" {
		w := MeasureString(*c.TextContent, size)
		pad := int(size / 4)
		FillRect(dst, image.Rect(cx-w/2-pad, cy-int(size)/2-pad, cx+w/2+pad, cy+int(size)/2+pad),
			ParseColor(style.BackgroundColor), tr.Opacity)
	}
	DrawString(dst, *c.TextContent, ParseColor(style.Color), cx, cy, size)
}

// escapeDrawText escapes text for a single-quoted drawtext argument.
func escapeDrawText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\\\\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, "%", "\\\\%")
	return s
}
