package model

import (
	"errors"
	"fmt"
	"sort"
)

// Validation sentinels. Callers match with errors.Is.
var (
	ErrInvalidTimeRange   = errors.New("timeline start must be before end")
	ErrInvalidSourceRange = errors.New("invalid source range")
	ErrClipOverlap        = errors.New("clips overlap on track")
	ErrTrackTypeMismatch  = errors.New("clip kind incompatible with track type")
	ErrMultipleMasters    = errors.New("more than one master audio track")
	ErrEffectTrackConfig  = errors.New("effect track missing effect type or parent")
	ErrAudioTransform     = errors.New("audio clips cannot carry a transform")
)

// ValidateClip checks the clip's own invariants. assetDuration is 0 when
// the clip carries no media (text, rectangle, lyrics, effect).
func ValidateClip(c *Clip, assetDuration float64) error {
	if c.TimelineStart >= c.TimelineEnd {
		return fmt.Errorf("clip %s: %w (%.4f >= %.4f)", c.ID, ErrInvalidTimeRange, c.TimelineStart, c.TimelineEnd)
	}
	if c.AssetID != "" && assetDuration > 0 {
		if c.SourceStart < 0 || c.SourceStart >= c.SourceEnd || c.SourceEnd > assetDuration {
			return fmt.Errorf("clip %s: %w (%.4f..%.4f outside 0..%.4f)",
				c.ID, ErrInvalidSourceRange, c.SourceStart, c.SourceEnd, assetDuration)
		}
	}
	return nil
}

// ValidateTrack checks per-track invariants: clip ordering, overlap, and
// clip-kind compatibility.
func ValidateTrack(t *Track) error {
	if t.Type == TrackEffect && (t.EffectType == "" || t.ParentTrackID == "") {
		return fmt.Errorf("track %s: %w", t.ID, ErrEffectTrackConfig)
	}

	clips := make([]*Clip, len(t.Clips))
	copy(clips, t.Clips)
	sort.Slice(clips, func(i, j int) bool { return clips[i].TimelineStart < clips[j].TimelineStart })

	var prev *Clip
	for _, c := range clips {
		if prev != nil && c.TimelineStart < prev.TimelineEnd {
			return fmt.Errorf("track %s: %w (%s and %s)", t.ID, ErrClipOverlap, prev.ID, c.ID)
		}
		prev = c

		if err := clipKindAllowed(c, t); err != nil {
			return err
		}
	}
	return nil
}

func clipKindAllowed(c *Clip, t *Track) error {
	switch t.Type {
	case TrackAudio:
		if c.Transform != nil {
			return fmt.Errorf("clip %s: %w", c.ID, ErrAudioTransform)
		}
	case TrackText:
		if c.TextContent == nil {
			return fmt.Errorf("clip %s on text track %s: %w", c.ID, t.ID, ErrTrackTypeMismatch)
		}
	case TrackLyrics:
		if len(c.LyricsWords) == 0 {
			return fmt.Errorf("clip %s on lyrics track %s: %w", c.ID, t.ID, ErrTrackTypeMismatch)
		}
	case TrackEffect:
		if c.EffectConfig == nil {
			return fmt.Errorf("clip %s on effect track %s: %w", c.ID, t.ID, ErrTrackTypeMismatch)
		}
	}
	return nil
}

// Validate checks all project invariants. assetDurations maps asset id to
// duration for source range checks; nil skips those.
func (p *Project) Validate(assetDurations map[string]float64) error {
	masters := 0
	for _, t := range p.Tracks {
		if t.Type == TrackAudio && t.IsMaster {
			masters++
		}
	}
	if masters > 1 {
		return ErrMultipleMasters
	}

	for _, t := range p.Tracks {
		if err := ValidateTrack(t); err != nil {
			return err
		}
		if t.Type == TrackEffect && p.TrackByID(t.ParentTrackID) == nil {
			return fmt.Errorf("track %s: %w (parent %s not found)", t.ID, ErrEffectTrackConfig, t.ParentTrackID)
		}
		for _, c := range t.Clips {
			var dur float64
			if assetDurations != nil {
				dur = assetDurations[c.AssetID]
			}
			if err := ValidateClip(c, dur); err != nil {
				return err
			}
		}
	}
	return nil
}

// MasterAudioTrack returns the single master audio track, or nil.
func (p *Project) MasterAudioTrack() *Track {
	for _, t := range p.Tracks {
		if t.Type == TrackAudio && t.IsMaster {
			return t
		}
	}
	return nil
}
