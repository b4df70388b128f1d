package element

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/keagan/vibecut/internal/model"
)

// ParseColor parses "#RRGGBB" or "0xRRGGBB" into an opaque RGBA. Unknown
// strings come back white so a bad style never blanks the preview.
func ParseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(s) != 6 {
		return color.RGBA{255, 255, 255, 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// FillRect alpha-blends a solid rectangle onto dst.
func FillRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	r = r.Intersect(dst.Bounds())
	a := uint32(opacity * 255)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Pix[i+0] = blend8(dst.Pix[i+0], col.R, a)
			dst.Pix[i+1] = blend8(dst.Pix[i+1], col.G, a)
			dst.Pix[i+2] = blend8(dst.Pix[i+2], col.B, a)
			dst.Pix[i+3] = 255
			i += 4
		}
	}
}

// StrokeRect draws a rectangle border of the given width.
func StrokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, width int) {
	if width <= 0 {
		return
	}
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col, 1)
	FillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col, 1)
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), col, 1)
	FillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), col, 1)
}

func blend8(dst, src uint8, a uint32) uint8 {
	return uint8((uint32(src)*a + uint32(dst)*(255-a)) / 255)
}

const baseFontHeight = 13 // basicfont.Face7x13 glyph height

// MeasureString returns the pixel width of s at the given size.
func MeasureString(s string, size float64) int {
	w := font.MeasureString(basicfont.Face7x13, s).Ceil()
	return int(float64(w) * size / baseFontHeight)
}

// DrawString rasterizes s centered at (cx, cy) at roughly size pixels
// tall. The preview face is a bitmap font scaled up; the export uses the
// real font via drawtext, which is a documented cosmetic divergence.
func DrawString(dst *image.RGBA, s string, col color.RGBA, cx, cy int, size float64) {
	if s == "" || size <= 0 {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	if w == 0 {
		return
	}
	tmp := image.NewRGBA(image.Rect(0, 0, w, baseFontHeight))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	scale := size / baseFontHeight
	sw := int(float64(w) * scale)
	sh := int(size)
	if sw < 1 || sh < 1 {
		return
	}
	target := image.Rect(cx-sw/2, cy-sh/2, cx-sw/2+sw, cy-sh/2+sh)
	xdraw.ApproxBiLinear.Scale(dst, target, tmp, tmp.Bounds(), xdraw.Over, nil)
}

// DrawLyricsLine draws one chunk of lyric words with the active word
// highlighted. Shared by the clip-level lyrics element and the
// project-level overlay so the two render identically.
func DrawLyricsLine(dst *image.RGBA, words []model.LyricWord, style *model.LyricsStyle, t float64, outW, outH int) {
	if len(words) == 0 {
		return
	}

	size := 64.0
	col := ParseColor("#FFFFFF")
	highlight := ParseColor("#FFE14D")
	position := "bottom"
	if style != nil {
		if style.FontSize > 0 {
			size = style.FontSize
		}
		if style.Color != "" {
			col = ParseColor(style.Color)
		}
		if style.HighlightColor != "" {
			highlight = ParseColor(style.HighlightColor)
		}
		if style.Position != "" {
			position = style.Position
		}
	}

	active := -1
	for i, w := range words {
		if t >= w.Start && t < w.End {
			active = i
			break
		}
	}
	if active < 0 {
		return
	}

	const chunkSize = 4
	base := active / chunkSize * chunkSize
	chunk := words[base:min(base+chunkSize, len(words))]

	var cy int
	switch position {
	case "top":
		cy = outH / 8
	case "center":
		cy = outH / 2
	default:
		cy = outH - outH/8
	}

	space := MeasureString(" ", size)
	total := 0
	for i, w := range chunk {
		if i > 0 {
			total += space
		}
		total += MeasureString(w.Word, size)
	}

	x := (outW - total) / 2
	for i, w := range chunk {
		ww := MeasureString(w.Word, size)
		c := col
		if base+i == active {
			c = highlight
		}
		DrawString(dst, w.Word, c, x+ww/2, cy, size)
		x += ww + space
	}
}
