package element

import (
	"testing"

	"github.com/keagan/vibecut/internal/model"
)

func strptr(s string) *string { return &s }

func TestFirstMatchingIsDeterministic(t *testing.T) {
	track := &model.Track{ID: "t1", Type: model.TrackVideo}
	clip := &model.Clip{ID: "c1", AssetID: "a1", TimelineStart: 0, TimelineEnd: 1}

	first, ok := FirstMatching(clip, track)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 50; i++ {
		again, ok := FirstMatching(clip, track)
		if !ok || again.Name() != first.Name() {
			t.Fatalf("dispatch changed between calls: %v vs %v", first.Name(), again.Name())
		}
	}
}

func TestRectanglePrecedesText(t *testing.T) {
	track := &model.Track{ID: "t1", Type: model.TrackVideo}
	clip := &model.Clip{
		ID:             "c1",
		TimelineStart:  0,
		TimelineEnd:    1,
		TextContent:    strptr("hello"),
		RectangleStyle: &model.RectangleStyle{Color: "#FF0000", FillOpacity: 1, Width: 10, Height: 10},
	}

	el, ok := FirstMatching(clip, track)
	if !ok {
		t.Fatal("expected a match")
	}
	if el.Name() != "rectangle" {
		t.Errorf("expected rectangle to win, got %s", el.Name())
	}
}

func TestTextOnVideoTrackResolvesToText(t *testing.T) {
	track := &model.Track{ID: "t1", Type: model.TrackVideo}
	clip := &model.Clip{ID: "c1", TimelineStart: 0, TimelineEnd: 1, TextContent: strptr("hello")}

	el, ok := FirstMatching(clip, track)
	if !ok {
		t.Fatal("expected a match")
	}
	if el.Name() != "text" {
		t.Errorf("expected text, got %s", el.Name())
	}
}

func TestLyricsRequiresLyricsTrackAndWords(t *testing.T) {
	lyricsTrack := &model.Track{ID: "t1", Type: model.TrackLyrics}
	videoTrack := &model.Track{ID: "t2", Type: model.TrackVideo}

	withWords := &model.Clip{
		ID: "c1", TimelineStart: 0, TimelineEnd: 1,
		LyricsWords: []model.LyricWord{{Word: "hi", Start: 0, End: 1}},
	}
	noWords := &model.Clip{ID: "c2", TimelineStart: 0, TimelineEnd: 1}

	if el, ok := FirstMatching(withWords, lyricsTrack); !ok || el.Name() != "lyrics" {
		t.Error("lyrics clip on lyrics track should match lyrics")
	}
	if _, ok := FirstMatching(noWords, lyricsTrack); ok {
		t.Error("wordless clip on lyrics track should not match")
	}
	// Words on a video track dispatch to video, not lyrics.
	withWords2 := withWords.Clone()
	withWords2.AssetID = "a1"
	if el, ok := FirstMatching(withWords2, videoTrack); !ok || el.Name() != "video" {
		t.Error("clip with words on video track should match video")
	}
}

func TestAudioAndEffectClipsMatchNothing(t *testing.T) {
	audioTrack := &model.Track{ID: "t1", Type: model.TrackAudio}
	effectTrack := &model.Track{ID: "t2", Type: model.TrackEffect, EffectType: model.EffectCutout, ParentTrackID: "t3"}

	audioClip := &model.Clip{ID: "c1", AssetID: "a1", TimelineStart: 0, TimelineEnd: 1}
	effectClip := &model.Clip{
		ID: "c2", TimelineStart: 0, TimelineEnd: 1,
		EffectConfig: &model.EffectConfig{EffectType: model.EffectCutout, Enabled: true},
	}

	if _, ok := FirstMatching(audioClip, audioTrack); ok {
		t.Error("audio clips are handled by the mixer, not an element")
	}
	if _, ok := FirstMatching(effectClip, effectTrack); ok {
		t.Error("effect clips are handled by the effect registry, not an element")
	}
}

func TestEffectRegistryShape(t *testing.T) {
	names := []string{model.EffectBeatZoom, model.EffectCutout, model.EffectCartoon, model.EffectColorGrade}
	if len(EffectRegistry) != len(names) {
		t.Fatalf("expected %d effects, got %d", len(names), len(EffectRegistry))
	}
	for i, eff := range EffectRegistry {
		if eff.Name() != names[i] {
			t.Errorf("effect %d: expected %s, got %s", i, names[i], eff.Name())
		}

		// Exactly one export backend and one preview backend per effect.
		_, isBase := eff.(BaseModifier)
		_, isNode := eff.(FilterNode)
		if isBase == isNode {
			t.Errorf("effect %s: want exactly one of BaseModifier/FilterNode", eff.Name())
		}
		_, isTM := eff.(TransformModifier)
		_, isPP := eff.(PixelProcessor)
		if isTM == isPP {
			t.Errorf("effect %s: want exactly one of TransformModifier/PixelProcessor", eff.Name())
		}
	}
}
