// Package timeline is the interactive editing model: every mutation is a
// synchronous, atomic transition from one valid project to the next, or a
// rejection. Undo history is naive full snapshots taken after a mutation
// commits.
package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/vibecut/internal/ids"
	"github.com/keagan/vibecut/internal/model"
)

var (
	ErrClipNotFound    = errors.New("clip not found")
	ErrTrackNotFound   = errors.New("track not found")
	ErrIncompatible    = errors.New("clip cannot move to that track type")
	ErrSplitOutOfRange = errors.New("split point outside clip")
	ErrBadTrackIndex   = errors.New("track index out of range")
)

// Editor owns a project and applies invariant-preserving mutations.
// AssetDurations feeds source-range validation; it may be nil.
type Editor struct {
	project        *model.Project
	history        *History
	assetDurations map[string]float64
	log            zerolog.Logger
}

// NewEditor wraps a project.
func NewEditor(p *model.Project, assetDurations map[string]float64, log zerolog.Logger) *Editor {
	return &Editor{
		project:        p,
		history:        NewHistory(p),
		assetDurations: assetDurations,
		log:            log.With().Str("component", "timeline").Logger(),
	}
}

// Project returns the current project state.
func (e *Editor) Project() *model.Project {
	return e.project
}

// commit validates the candidate state and swaps it in, pushing a
// snapshot. On failure the current project is untouched.
func (e *Editor) commit(candidate *model.Project) error {
	if err := candidate.Validate(e.assetDurations); err != nil {
		return err
	}
	candidate.UpdatedAt = time.Now()
	e.project = candidate
	e.history.Push(candidate)
	return nil
}

// AddTrack appends a track of the given type.
func (e *Editor) AddTrack(typ model.TrackType, name string) (string, error) {
	next := e.project.Clone()
	t := &model.Track{ID: ids.New(), Type: typ, Name: name}
	next.Tracks = append(next.Tracks, t)
	if err := e.commit(next); err != nil {
		return "", err
	}
	e.log.Debug().Str("track", t.ID).Str("type", string(typ)).Msg("track added")
	return t.ID, nil
}

// AddEffectTrack appends an effect track bound to a parent video track.
func (e *Editor) AddEffectTrack(effectType, parentTrackID string) (string, error) {
	next := e.project.Clone()
	parent := next.TrackByID(parentTrackID)
	if parent == nil {
		return "", fmt.Errorf("%w: %s", ErrTrackNotFound, parentTrackID)
	}
	t := &model.Track{
		ID:            ids.New(),
		Type:          model.TrackEffect,
		Name:          effectType,
		EffectType:    effectType,
		ParentTrackID: parentTrackID,
	}
	next.Tracks = append(next.Tracks, t)
	if err := e.commit(next); err != nil {
		return "", err
	}
	return t.ID, nil
}

// AddClip places a media clip on a track. Rejects overlaps.
func (e *Editor) AddClip(trackID, assetID string, timelineStart, duration float64) (string, error) {
	next := e.project.Clone()
	t := next.TrackByID(trackID)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	c := &model.Clip{
		ID:            ids.New(),
		AssetID:       assetID,
		TrackID:       trackID,
		TimelineStart: timelineStart,
		TimelineEnd:   timelineStart + duration,
		SourceStart:   0,
		SourceEnd:     duration,
	}
	if t.Type == model.TrackVideo {
		tr := model.DefaultTransform()
		c.Transform = &tr
	}
	insertClip(t, c)
	if err := e.commit(next); err != nil {
		return "", err
	}
	return c.ID, nil
}

// AddEffectClip places an effect time range on an effect track.
func (e *Editor) AddEffectClip(trackID string, start, end float64, cfg *model.EffectConfig) (string, error) {
	next := e.project.Clone()
	t := next.TrackByID(trackID)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	c := &model.Clip{
		ID:            ids.New(),
		TrackID:       trackID,
		TimelineStart: start,
		TimelineEnd:   end,
		EffectConfig:  cfg.Clone(),
	}
	insertClip(t, c)
	if err := e.commit(next); err != nil {
		return "", err
	}
	return c.ID, nil
}

// ClipPatch is a partial clip update. Nil fields are left alone.
type ClipPatch struct {
	TimelineStart *float64
	TimelineEnd   *float64
	SourceStart   *float64
	SourceEnd     *float64
	Transform     *model.Transform
	TextContent   *string
	TextStyle     *model.TextStyle
	Rectangle     *model.RectangleStyle
	EffectConfig  *model.EffectConfig
	UseClipAudio  *bool
	AudioVolume   *float64
}

// UpdateClip applies a patch, rejecting any result that violates
// invariants.
func (e *Editor) UpdateClip(clipID string, patch ClipPatch) error {
	next := e.project.Clone()
	c, t := next.ClipByID(clipID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	if patch.TimelineStart != nil {
		c.TimelineStart = *patch.TimelineStart
	}
	if patch.TimelineEnd != nil {
		c.TimelineEnd = *patch.TimelineEnd
	}
	if patch.SourceStart != nil {
		c.SourceStart = *patch.SourceStart
	}
	if patch.SourceEnd != nil {
		c.SourceEnd = *patch.SourceEnd
	}
	if patch.Transform != nil {
		tr := *patch.Transform
		c.Transform = &tr
	}
	if patch.TextContent != nil {
		c.TextContent = patch.TextContent
	}
	if patch.TextStyle != nil {
		ts := *patch.TextStyle
		c.TextStyle = &ts
	}
	if patch.Rectangle != nil {
		rs := *patch.Rectangle
		c.RectangleStyle = &rs
	}
	if patch.EffectConfig != nil {
		c.EffectConfig = patch.EffectConfig.Clone()
	}
	if patch.UseClipAudio != nil {
		c.UseClipAudio = *patch.UseClipAudio
	}
	if patch.AudioVolume != nil {
		c.ClipAudioVolume = *patch.AudioVolume
	}
	sortClips(t)
	return e.commit(next)
}

// DeleteClip removes a clip.
func (e *Editor) DeleteClip(clipID string) error {
	next := e.project.Clone()
	c, t := next.ClipByID(clipID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	removeClip(t, c.ID)
	return e.commit(next)
}

// SplitClip cuts a clip at timeline position at, producing two contiguous
// clips. The source range splits at the matching offset so concatenating
// the halves reproduces the original.
func (e *Editor) SplitClip(clipID string, at float64) (string, error) {
	next := e.project.Clone()
	c, t := next.ClipByID(clipID)
	if c == nil {
		return "", fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	if at <= c.TimelineStart || at >= c.TimelineEnd {
		return "", fmt.Errorf("%w: %.4f not inside (%.4f, %.4f)", ErrSplitOutOfRange, at, c.TimelineStart, c.TimelineEnd)
	}

	frac := (at - c.TimelineStart) / (c.TimelineEnd - c.TimelineStart)
	srcSplit := c.SourceStart + frac*(c.SourceEnd-c.SourceStart)

	right := c.Clone()
	right.ID = ids.New()
	right.TimelineStart = at
	right.SourceStart = srcSplit

	c.TimelineEnd = at
	c.SourceEnd = srcSplit

	insertClip(t, right)
	if err := e.commit(next); err != nil {
		return "", err
	}
	return right.ID, nil
}

// movableTo reports whether a clip from fromType may land on toType.
// Effect tracks never accept moves.
func movableTo(fromType, toType model.TrackType) bool {
	return fromType == toType && toType != model.TrackEffect
}

// MoveClipToTrack moves a clip to an existing track of compatible type,
// updating its timeline range.
func (e *Editor) MoveClipToTrack(clipID, toTrackID string, newStart, newEnd float64) error {
	next := e.project.Clone()
	c, from := next.ClipByID(clipID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	to := next.TrackByID(toTrackID)
	if to == nil {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, toTrackID)
	}
	if !movableTo(from.Type, to.Type) {
		return fmt.Errorf("%w: %s to %s", ErrIncompatible, from.Type, to.Type)
	}
	removeClip(from, c.ID)
	c.TrackID = to.ID
	c.TimelineStart = newStart
	c.TimelineEnd = newEnd
	insertClip(to, c)
	return e.commit(next)
}

// MoveClipToNewTrack appends a new track of the given type and moves the
// clip there.
func (e *Editor) MoveClipToNewTrack(clipID string, newType model.TrackType, start, end float64) (string, error) {
	return e.moveClipToNewTrackAt(clipID, newType, start, end, -1)
}

// MoveClipToNewTrackAt is MoveClipToNewTrack with the new track inserted
// after a specific index instead of appended.
func (e *Editor) MoveClipToNewTrackAt(clipID string, newType model.TrackType, start, end float64, insertAfterIdx int) (string, error) {
	return e.moveClipToNewTrackAt(clipID, newType, start, end, insertAfterIdx)
}

func (e *Editor) moveClipToNewTrackAt(clipID string, newType model.TrackType, start, end float64, insertAfterIdx int) (string, error) {
	next := e.project.Clone()
	c, from := next.ClipByID(clipID)
	if c == nil {
		return "", fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	if !movableTo(from.Type, newType) {
		return "", fmt.Errorf("%w: %s to %s", ErrIncompatible, from.Type, newType)
	}

	t := &model.Track{ID: ids.New(), Type: newType, Name: string(newType)}
	if insertAfterIdx < 0 || insertAfterIdx >= len(next.Tracks) {
		next.Tracks = append(next.Tracks, t)
	} else {
		next.Tracks = append(next.Tracks[:insertAfterIdx+1],
			append([]*model.Track{t}, next.Tracks[insertAfterIdx+1:]...)...)
	}

	removeClip(from, c.ID)
	c.TrackID = t.ID
	c.TimelineStart = start
	c.TimelineEnd = end
	insertClip(t, c)
	if err := e.commit(next); err != nil {
		return "", err
	}
	return t.ID, nil
}

// ReorderTrack moves the track at fromIdx to toIdx.
func (e *Editor) ReorderTrack(fromIdx, toIdx int) error {
	n := len(e.project.Tracks)
	if fromIdx < 0 || fromIdx >= n || toIdx < 0 || toIdx >= n {
		return ErrBadTrackIndex
	}
	next := e.project.Clone()
	t := next.Tracks[fromIdx]
	next.Tracks = append(next.Tracks[:fromIdx], next.Tracks[fromIdx+1:]...)
	next.Tracks = append(next.Tracks[:toIdx], append([]*model.Track{t}, next.Tracks[toIdx:]...)...)
	return e.commit(next)
}

// Undo restores the previous snapshot; returns false at the start of
// history.
func (e *Editor) Undo() bool {
	p, ok := e.history.Undo()
	if ok {
		e.project = p
	}
	return ok
}

// Redo re-applies an undone snapshot.
func (e *Editor) Redo() bool {
	p, ok := e.history.Redo()
	if ok {
		e.project = p
	}
	return ok
}

func insertClip(t *model.Track, c *model.Clip) {
	c.TrackID = t.ID
	t.Clips = append(t.Clips, c)
	sortClips(t)
}

func removeClip(t *model.Track, id string) {
	for i, c := range t.Clips {
		if c.ID == id {
			t.Clips = append(t.Clips[:i], t.Clips[i+1:]...)
			return
		}
	}
}

func sortClips(t *model.Track) {
	sort.Slice(t.Clips, func(i, j int) bool {
		return t.Clips[i].TimelineStart < t.Clips[j].TimelineStart
	})
}
