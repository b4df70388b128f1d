package timeline

import "math"

// SnapMode selects the target set candidate drag positions attract to.
type SnapMode string

const (
	SnapNone  SnapMode = "none"
	SnapBeats SnapMode = "beats"
	SnapClips SnapMode = "clips"
)

// Snap returns the target nearest to candidate within threshold, or the
// candidate unchanged. Idempotent: a snapped value re-snaps to itself.
func Snap(candidate float64, targets []float64, threshold float64) float64 {
	best := candidate
	bestDelta := threshold
	for _, t := range targets {
		d := math.Abs(candidate - t)
		if d <= bestDelta {
			best = t
			bestDelta = d
		}
	}
	return best
}

// SnapTargets builds the target set for a drag: zero plus all other
// clips' edges for SnapClips, or the master-asset beats for SnapBeats.
func (e *Editor) SnapTargets(mode SnapMode, excludeClipID string, beats []float64) []float64 {
	switch mode {
	case SnapClips:
		targets := []float64{0}
		for _, t := range e.project.Tracks {
			for _, c := range t.Clips {
				if c.ID == excludeClipID {
					continue
				}
				targets = append(targets, c.TimelineStart, c.TimelineEnd)
			}
		}
		return targets
	case SnapBeats:
		targets := make([]float64, 0, len(beats)+1)
		targets = append(targets, 0)
		targets = append(targets, beats...)
		return targets
	default:
		return nil
	}
}

// SnapClipStart snaps a candidate start position for a clip of the given
// duration. Both the moved clip's start and end edges are evaluated
// against the targets; the edge with the smaller snap delta wins and the
// returned value is the adjusted start.
func SnapClipStart(candidateStart, duration float64, targets []float64, threshold float64) float64 {
	if len(targets) == 0 {
		return candidateStart
	}
	hit := func(x float64) bool {
		for _, t := range targets {
			if math.Abs(x-t) <= threshold {
				return true
			}
		}
		return false
	}
	startHit := hit(candidateStart)
	endHit := hit(candidateStart + duration)

	snappedStart := Snap(candidateStart, targets, threshold)
	snappedEnd := Snap(candidateStart+duration, targets, threshold)

	startDelta := math.Abs(snappedStart - candidateStart)
	endDelta := math.Abs(snappedEnd - (candidateStart + duration))

	if endHit && (!startHit || endDelta < startDelta) {
		return snappedEnd - duration
	}
	return snappedStart
}
