package ffmpeg

import (
	"fmt"

	"github.com/keagan/vibecut/internal/export"
	"github.com/keagan/vibecut/internal/fgraph"
)

// ExportArgs turns the compiler's output into the ffmpeg argv: one -i per
// enumerated input, the filter graph, the mapped output pads and the
// fixed H.264/AAC encode settings.
func ExportArgs(c *export.Compiled, outPath string) []string {
	args := make([]string, 0, len(c.Inputs)*2+20)
	for _, in := range c.Inputs {
		args = append(args, "-i", in.Path)
	}
	args = append(args,
		"-filter_complex", c.FilterComplex,
		"-map", fmt.Sprintf("[%s]", c.VideoPad),
		"-map", fmt.Sprintf("[%s]", c.AudioPad),
		"-c:v", ExportVideoCodec,
		"-crf", fmt.Sprintf("%d", ExportCRF),
		"-preset", ExportPreset,
		"-pix_fmt", ExportPixFmt,
		"-c:a", ExportAudioCodec,
		"-b:a", ExportAudioBitrate,
		"-t", fgraph.Num(c.Duration),
		outPath,
	)
	return args
}
