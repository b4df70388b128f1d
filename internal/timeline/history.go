package timeline

import "github.com/keagan/vibecut/internal/model"

// History is a naive undo stack of full project snapshots. Snapshots are
// deep copies, so later mutations never leak into history.
type History struct {
	snapshots []*model.Project
	pos       int
	limit     int
}

// NewHistory seeds the stack with the initial state.
func NewHistory(initial *model.Project) *History {
	return &History{
		snapshots: []*model.Project{initial.Clone()},
		pos:       0,
		limit:     100,
	}
}

// Push records a new state, truncating any redo tail.
func (h *History) Push(p *model.Project) {
	h.snapshots = append(h.snapshots[:h.pos+1], p.Clone())
	h.pos = len(h.snapshots) - 1
	if len(h.snapshots) > h.limit {
		h.snapshots = h.snapshots[1:]
		h.pos--
	}
}

// Undo steps back one snapshot.
func (h *History) Undo() (*model.Project, bool) {
	if h.pos == 0 {
		return nil, false
	}
	h.pos--
	return h.snapshots[h.pos].Clone(), true
}

// Redo steps forward one snapshot.
func (h *History) Redo() (*model.Project, bool) {
	if h.pos >= len(h.snapshots)-1 {
		return nil, false
	}
	h.pos++
	return h.snapshots[h.pos].Clone(), true
}
