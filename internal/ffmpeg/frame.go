package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"time"

	"github.com/keagan/vibecut/pkg/util"
)

// ExtractFrame decodes a single frame at source time t, scaled to w x h,
// and returns it as RGBA. The preview's frame source sits on top of this.
func (e *Executor) ExtractFrame(ctx context.Context, input string, t float64, w, h int) (*image.RGBA, error) {
	if input == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", w, h)
	}

	args := []string{
		"-ss", util.FormatDuration(durationOf(t)),
		"-i", input,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", w, h),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("frame extraction failed: %w (%s)", err, errBuf.String())
	}

	want := w * h * 4
	if out.Len() < want {
		return nil, fmt.Errorf("short frame: got %d bytes, want %d", out.Len(), want)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, out.Bytes()[:want])
	return img, nil
}

func durationOf(sec float64) time.Duration {
	if sec < 0 {
		sec = 0
	}
	return time.Duration(sec * float64(time.Second))
}
