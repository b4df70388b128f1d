// Package subtitle generates Advanced SubStation Alpha files for lyrics
// overlays. Generation is pure; the export compiler decides where the
// bytes land via its injected file writer.
package subtitle

import (
	"fmt"
	"strings"

	"github.com/keagan/vibecut/internal/model"
)

const (
	playResX = 1080
	playResY = 1920

	// Words per rendered line. Each word gets its own Dialogue event
	// showing the whole chunk with the active word recolored.
	chunkSize = 4
)

// Defaults when the style leaves fields unset.
const (
	defaultFont      = "Arial"
	defaultFontSize  = 96.0
	defaultColor     = "#FFFFFF"
	defaultHighlight = "#FFE14D"
)

// Alignment returns the ASS numpad alignment for a lyrics position.
func Alignment(position string) int {
	switch position {
	case "top":
		return 8
	case "center":
		return 5
	default:
		return 2
	}
}

// Generate renders words into a complete ASS document. Word times are
// timeline seconds. A nil style uses defaults with bottom alignment.
func Generate(words []model.LyricWord, style *model.LyricsStyle) string {
	font := defaultFont
	size := defaultFontSize
	color := defaultColor
	highlight := defaultHighlight
	position := "bottom"
	if style != nil {
		if style.FontFamily != "" {
			font = style.FontFamily
		}
		if style.FontSize > 0 {
			size = style.FontSize
		}
		if style.Color != "" {
			color = style.Color
		}
		if style.HighlightColor != "" {
			highlight = style.HighlightColor
		}
		if style.Position != "" {
			position = style.Position
		}
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", playResX)
	fmt.Fprintf(&b, "PlayResY: %d\n", playResY)
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,3,0,%d,40,40,120,1\n",
		font, int(size), assColor(color), assColor(highlight), Alignment(position))
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	primary := inlineColor(color)
	active := inlineColor(highlight)

	for base := 0; base < len(words); base += chunkSize {
		chunk := words[base:min(base+chunkSize, len(words))]
		for i, w := range chunk {
			var line strings.Builder
			for j, other := range chunk {
				if j > 0 {
					line.WriteString(" ")
				}
				if j == i {
					line.WriteString(active + escapeText(other.Word) + primary)
				} else {
					line.WriteString(escapeText(other.Word))
				}
			}
			fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
				assTime(w.Start), assTime(w.End), line.String())
		}
	}

	return b.String()
}

// assTime formats seconds as H:MM:SS.CC (centiseconds).
func assTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	cs := int(sec*100 + 0.5)
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	c := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, c)
}

// assColor converts "#RRGGBB" to the style-sheet form &H00BBGGRR.
func assColor(hex string) string {
	r, g, b := parseHex(hex)
	return fmt.Sprintf("&H00%02X%02X%02X", b, g, r)
}

// inlineColor converts "#RRGGBB" to a dialogue override {\c&HBBGGRR&}.
func inlineColor(hex string) string {
	r, g, b := parseHex(hex)
	return fmt.Sprintf("{\\c&H%02X%02X%02X&}", b, g, r)
}

func parseHex(hex string) (r, g, b int) {
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "#"), "0x")
	if len(hex) != 6 {
		return 255, 255, 255
	}
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return s
}
