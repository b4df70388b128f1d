package ids

import "github.com/google/uuid"

// New returns a fresh opaque id for projects, tracks, clips and assets.
func New() string {
	return uuid.NewString()
}
