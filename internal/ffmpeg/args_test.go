package ffmpeg

import (
	"strings"
	"testing"

	"github.com/keagan/vibecut/internal/export"
)

func TestExportArgsShape(t *testing.T) {
	c := &export.Compiled{
		Inputs: []export.InputSpec{
			{Path: "/media/a.mp4", Kind: export.InputVideo},
			{Path: "/media/a.wav", Kind: export.InputAudio},
			{Path: "/media/a_mask.mp4", Kind: export.InputMask},
		},
		FilterComplex: "color=c=black:s=1080x1920:d=3[bg]",
		VideoPad:      "ov2",
		AudioPad:      "aout",
		Duration:      3,
	}

	args := ExportArgs(c, "/out/final.mp4")
	joined := strings.Join(args, " ")

	want := "-i /media/a.mp4 -i /media/a.wav -i /media/a_mask.mp4 " +
		"-filter_complex color=c=black:s=1080x1920:d=3[bg] " +
		"-map [ov2] -map [aout] " +
		"-c:v libx264 -crf 20 -preset medium -pix_fmt yuv420p " +
		"-c:a aac -b:a 192k -t 3 /out/final.mp4"
	if joined != want {
		t.Errorf("argv mismatch:\nwant %s\ngot  %s", want, joined)
	}
}

func TestExportArgsInputOrderPreserved(t *testing.T) {
	c := &export.Compiled{
		Inputs: []export.InputSpec{
			{Path: "b.mp4"}, {Path: "a.mp4"}, {Path: "c.mp4"},
		},
		FilterComplex: "x",
		VideoPad:      "v",
		AudioPad:      "a",
		Duration:      1,
	}
	args := ExportArgs(c, "out.mp4")

	var paths []string
	for i, a := range args {
		if a == "-i" {
			paths = append(paths, args[i+1])
		}
	}
	if len(paths) != 3 || paths[0] != "b.mp4" || paths[1] != "a.mp4" || paths[2] != "c.mp4" {
		t.Errorf("input order must match enumeration, got %v", paths)
	}
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		time string
		dur  float64
		want float64
	}{
		{"00:00:01.50", 3, 50},
		{"00:00:03.00", 3, 100},
		{"00:01:00.00", 30, 100}, // clamped
		{"garbage", 3, 0},
	}
	for _, c := range cases {
		if got := percentOf(c.time, c.dur); got != c.want {
			t.Errorf("percentOf(%q, %v): expected %v, got %v", c.time, c.dur, got, c.want)
		}
	}
}
