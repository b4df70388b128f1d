package model

import (
	"errors"
	"testing"
)

func validProject() *Project {
	return &Project{
		ID: "p1", Name: "test", OutputW: 1080, OutputH: 1920,
		Tracks: []*Track{
			{ID: "vt", Type: TrackVideo, Clips: []*Clip{
				{ID: "c1", AssetID: "a1", TrackID: "vt", TimelineStart: 0, TimelineEnd: 2, SourceStart: 0, SourceEnd: 2},
				{ID: "c2", AssetID: "a1", TrackID: "vt", TimelineStart: 2, TimelineEnd: 3, SourceStart: 0, SourceEnd: 1},
			}},
			{ID: "at", Type: TrackAudio, IsMaster: true, Clips: []*Clip{
				{ID: "c3", AssetID: "a2", TrackID: "at", TimelineStart: 0, TimelineEnd: 3, SourceStart: 0, SourceEnd: 3},
			}},
		},
	}
}

func TestValidProject(t *testing.T) {
	p := validProject()
	if err := p.Validate(map[string]float64{"a1": 10, "a2": 10}); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
}

func TestDuration(t *testing.T) {
	p := validProject()
	if d := p.Duration(); d != 3 {
		t.Errorf("expected duration 3, got %v", d)
	}
}

func TestInvalidTimeRange(t *testing.T) {
	p := validProject()
	p.Tracks[0].Clips[0].TimelineEnd = 0
	err := p.Validate(nil)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestSourceRangePastAssetDuration(t *testing.T) {
	p := validProject()
	p.Tracks[0].Clips[0].SourceEnd = 99
	err := p.Validate(map[string]float64{"a1": 10, "a2": 10})
	if !errors.Is(err, ErrInvalidSourceRange) {
		t.Errorf("expected ErrInvalidSourceRange, got %v", err)
	}
}

func TestOverlapRejected(t *testing.T) {
	p := validProject()
	p.Tracks[0].Clips[1].TimelineStart = 1.5
	err := p.Validate(nil)
	if !errors.Is(err, ErrClipOverlap) {
		t.Errorf("expected ErrClipOverlap, got %v", err)
	}
}

func TestTwoMasterTracksRejected(t *testing.T) {
	p := validProject()
	p.Tracks = append(p.Tracks, &Track{ID: "at2", Type: TrackAudio, IsMaster: true})
	err := p.Validate(nil)
	if !errors.Is(err, ErrMultipleMasters) {
		t.Errorf("expected ErrMultipleMasters, got %v", err)
	}
}

func TestEffectTrackNeedsParent(t *testing.T) {
	p := validProject()
	p.Tracks = append(p.Tracks, &Track{ID: "et", Type: TrackEffect, EffectType: EffectCutout})
	err := p.Validate(nil)
	if !errors.Is(err, ErrEffectTrackConfig) {
		t.Errorf("expected ErrEffectTrackConfig, got %v", err)
	}

	p2 := validProject()
	p2.Tracks = append(p2.Tracks, &Track{ID: "et", Type: TrackEffect, EffectType: EffectCutout, ParentTrackID: "missing"})
	err = p2.Validate(nil)
	if !errors.Is(err, ErrEffectTrackConfig) {
		t.Errorf("expected ErrEffectTrackConfig for dangling parent, got %v", err)
	}
}

func TestAudioClipTransformRejected(t *testing.T) {
	p := validProject()
	tr := DefaultTransform()
	p.Tracks[1].Clips[0].Transform = &tr
	err := p.Validate(nil)
	if !errors.Is(err, ErrAudioTransform) {
		t.Errorf("expected ErrAudioTransform, got %v", err)
	}
}

func TestExportSpan(t *testing.T) {
	p := validProject()
	if s, e := p.ExportSpan(); s != 0 || e != 3 {
		t.Errorf("expected 0..3, got %v..%v", s, e)
	}
	p.WorkArea = &WorkArea{Start: 1, End: 2, IsManual: true}
	if s, e := p.ExportSpan(); s != 1 || e != 2 {
		t.Errorf("expected 1..2, got %v..%v", s, e)
	}
	// Non-manual work areas don't trim the export.
	p.WorkArea.IsManual = false
	if s, e := p.ExportSpan(); s != 0 || e != 3 {
		t.Errorf("expected 0..3 for automatic work area, got %v..%v", s, e)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := validProject()
	tr := DefaultTransform()
	p.Tracks[0].Clips[0].Transform = &tr

	cp := p.Clone()
	cp.Tracks[0].Clips[0].Transform.Scale = 99
	cp.Tracks[0].Clips[0].TimelineEnd = 42

	if p.Tracks[0].Clips[0].Transform.Scale == 99 {
		t.Error("clone aliases transform")
	}
	if p.Tracks[0].Clips[0].TimelineEnd == 42 {
		t.Error("clone aliases clip")
	}
}

func TestColorGradeNeutral(t *testing.T) {
	n := NeutralColorGrade()
	if !n.IsNeutral() {
		t.Error("NeutralColorGrade must be neutral")
	}
	n.Shadows = 0.1
	if n.IsNeutral() {
		t.Error("non-zero shadows is not neutral")
	}
}
