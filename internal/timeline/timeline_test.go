package timeline

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/vibecut/internal/model"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	p := &model.Project{
		ID: "p1", Name: "test", OutputW: 1080, OutputH: 1920,
		Tracks: []*model.Track{},
	}
	return NewEditor(p, map[string]float64{"a1": 100, "a2": 100}, zerolog.Nop())
}

func TestAddTrackAndClip(t *testing.T) {
	e := newEditor(t)

	trackID, err := e.AddTrack(model.TrackVideo, "V1")
	require.NoError(t, err)

	clipID, err := e.AddClip(trackID, "a1", 0, 5)
	require.NoError(t, err)

	c, track := e.Project().ClipByID(clipID)
	require.NotNil(t, c)
	assert.Equal(t, trackID, track.ID)
	assert.Equal(t, 5.0, c.TimelineEnd)
	assert.NotNil(t, c.Transform, "video clips get a default transform")
}

func TestAddEffectTrackAndClip(t *testing.T) {
	e := newEditor(t)
	v1, _ := e.AddTrack(model.TrackVideo, "V1")

	etID, err := e.AddEffectTrack(model.EffectBeatZoom, v1)
	require.NoError(t, err)

	_, err = e.AddEffectClip(etID, 0, 4, &model.EffectConfig{
		EffectType: model.EffectBeatZoom, Enabled: true,
		BeatZoom: &model.BeatZoomParams{Intensity: 0.1, DurationMs: 150},
	})
	require.NoError(t, err)

	// Effect tracks require a live parent.
	_, err = e.AddEffectTrack(model.EffectCutout, "no-such-track")
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestAddClipRejectsOverlap(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	_, err := e.AddClip(trackID, "a1", 0, 5)
	require.NoError(t, err)

	_, err = e.AddClip(trackID, "a1", 3, 5)
	require.ErrorIs(t, err, model.ErrClipOverlap)

	// The failed mutation must not leave partial state behind.
	total := 0
	for _, tr := range e.Project().Tracks {
		total += len(tr.Clips)
	}
	assert.Equal(t, 1, total)
}

func TestUpdateClipRejectsInvalid(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	clipID, _ := e.AddClip(trackID, "a1", 0, 5)

	bad := -1.0
	err := e.UpdateClip(clipID, ClipPatch{TimelineEnd: &bad})
	require.Error(t, err)

	c, _ := e.Project().ClipByID(clipID)
	assert.Equal(t, 5.0, c.TimelineEnd, "rejected mutation must not apply")
}

func TestSplitRoundTrip(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	clipID, _ := e.AddClip(trackID, "a1", 1, 6)

	orig, _ := e.Project().ClipByID(clipID)
	origStart, origEnd := orig.TimelineStart, orig.TimelineEnd
	origSrcStart, origSrcEnd := orig.SourceStart, orig.SourceEnd

	rightID, err := e.SplitClip(clipID, 4)
	require.NoError(t, err)

	left, _ := e.Project().ClipByID(clipID)
	right, _ := e.Project().ClipByID(rightID)
	require.NotNil(t, left)
	require.NotNil(t, right)

	// Contiguous halves that concatenate back to the original.
	assert.Equal(t, left.TimelineEnd, right.TimelineStart)
	assert.Equal(t, left.SourceEnd, right.SourceStart)
	assert.Equal(t, origStart, left.TimelineStart)
	assert.Equal(t, origEnd, right.TimelineEnd)
	assert.Equal(t, origSrcStart, left.SourceStart)
	assert.Equal(t, origSrcEnd, right.SourceEnd)
}

func TestSplitOutsideClipRejected(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	clipID, _ := e.AddClip(trackID, "a1", 0, 5)

	_, err := e.SplitClip(clipID, 5)
	assert.ErrorIs(t, err, ErrSplitOutOfRange)
	_, err = e.SplitClip(clipID, -1)
	assert.ErrorIs(t, err, ErrSplitOutOfRange)
}

func TestMoveClipToTrack(t *testing.T) {
	e := newEditor(t)
	v1, _ := e.AddTrack(model.TrackVideo, "V1")
	v2, _ := e.AddTrack(model.TrackVideo, "V2")
	a1, _ := e.AddTrack(model.TrackAudio, "A1")
	clipID, _ := e.AddClip(v1, "a1", 0, 5)

	require.NoError(t, e.MoveClipToTrack(clipID, v2, 2, 7))
	_, track := e.Project().ClipByID(clipID)
	assert.Equal(t, v2, track.ID)

	err := e.MoveClipToTrack(clipID, a1, 0, 5)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestMoveClipToNewTrackAt(t *testing.T) {
	e := newEditor(t)
	v1, _ := e.AddTrack(model.TrackVideo, "V1")
	_, _ = e.AddTrack(model.TrackText, "T1")
	clipID, _ := e.AddClip(v1, "a1", 0, 5)

	newTrackID, err := e.MoveClipToNewTrackAt(clipID, model.TrackVideo, 0, 5, 0)
	require.NoError(t, err)

	require.Len(t, e.Project().Tracks, 3)
	assert.Equal(t, newTrackID, e.Project().Tracks[1].ID, "new track inserted after index 0")

	_, track := e.Project().ClipByID(clipID)
	assert.Equal(t, newTrackID, track.ID)
}

func TestReorderTrack(t *testing.T) {
	e := newEditor(t)
	v1, _ := e.AddTrack(model.TrackVideo, "V1")
	v2, _ := e.AddTrack(model.TrackVideo, "V2")
	v3, _ := e.AddTrack(model.TrackVideo, "V3")

	require.NoError(t, e.ReorderTrack(2, 0))
	ids := []string{e.Project().Tracks[0].ID, e.Project().Tracks[1].ID, e.Project().Tracks[2].ID}
	assert.Equal(t, []string{v3, v1, v2}, ids)

	assert.ErrorIs(t, e.ReorderTrack(5, 0), ErrBadTrackIndex)
}

func TestUndoRedo(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	clipID, _ := e.AddClip(trackID, "a1", 0, 5)

	require.True(t, e.Undo())
	c, _ := e.Project().ClipByID(clipID)
	assert.Nil(t, c, "undo removes the clip")

	require.True(t, e.Redo())
	c, _ = e.Project().ClipByID(clipID)
	assert.NotNil(t, c, "redo restores the clip")

	// Walk back to the empty project.
	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.Empty(t, e.Project().Tracks)
	assert.False(t, e.Undo(), "history bottom")
}

func TestDeleteClip(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	clipID, _ := e.AddClip(trackID, "a1", 0, 5)

	require.NoError(t, e.DeleteClip(clipID))
	c, _ := e.Project().ClipByID(clipID)
	assert.Nil(t, c)

	err := e.DeleteClip(clipID)
	assert.True(t, errors.Is(err, ErrClipNotFound))
}

func TestSnapNearestWithinThreshold(t *testing.T) {
	targets := []float64{0, 2, 5}

	assert.Equal(t, 2.0, Snap(2.2, targets, 0.3))
	assert.Equal(t, 2.4, Snap(2.4, targets, 0.3), "outside threshold stays put")
	assert.Equal(t, 0.0, Snap(0.25, targets, 0.3))
}

func TestSnapIdempotent(t *testing.T) {
	targets := []float64{0, 1.5, 3, 7.25}
	for _, x := range []float64{0.1, 1.4, 2.9, 5, 7.3} {
		once := Snap(x, targets, 0.25)
		twice := Snap(once, targets, 0.25)
		assert.Equalf(t, once, twice, "snap(snap(%v)) != snap(%v)", x, x)
	}
}

func TestSnapClipStartSmallerDeltaWins(t *testing.T) {
	// Clip of duration 2. Start candidate 0.9 (delta 0.1 to target 1),
	// end candidate 2.9 (delta 0.05 to target 2.95): the end edge wins.
	targets := []float64{1, 2.95}
	got := SnapClipStart(0.9, 2, targets, 0.3)
	assert.InDelta(t, 0.95, got, 1e-9)

	// With only the start near a target, the start edge snaps.
	got = SnapClipStart(0.9, 2, []float64{1}, 0.3)
	assert.Equal(t, 1.0, got)
}

func TestSnapTargets(t *testing.T) {
	e := newEditor(t)
	trackID, _ := e.AddTrack(model.TrackVideo, "V1")
	c1, _ := e.AddClip(trackID, "a1", 0, 2)
	_, _ = e.AddClip(trackID, "a1", 5, 2)

	targets := e.SnapTargets(SnapClips, c1, nil)
	assert.ElementsMatch(t, []float64{0, 5, 7}, targets)

	beatTargets := e.SnapTargets(SnapBeats, "", []float64{0.5, 1.0})
	assert.ElementsMatch(t, []float64{0, 0.5, 1.0}, beatTargets)

	assert.Nil(t, e.SnapTargets(SnapNone, "", nil))
}
