package ffmpeg

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keagan/vibecut/internal/export"
	"github.com/keagan/vibecut/pkg/util"
)

// JobState is an export job's lifecycle.
type JobState string

const (
	JobQueued  JobState = "queued"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobError   JobState = "error"
)

// stderrTail is how many trailing log lines a job retains for display.
const stderrTail = 30

// progressInterval coalesces progress callbacks.
const progressInterval = 500 * time.Millisecond

// Job tracks one export run. Fields are guarded by mu; reads go through
// Snapshot.
type Job struct {
	ID         string
	OutputPath string

	mu       sync.Mutex
	state    JobState
	progress Progress
	tail     []string
	err      error
}

// JobStatus is a consistent read of a job.
type JobStatus struct {
	ID         string
	State      JobState
	Progress   Progress
	Tail       []string
	OutputPath string
	Err        error
}

// Snapshot returns the job's current status.
func (j *Job) Snapshot() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	tail := make([]string, len(j.tail))
	copy(tail, j.tail)
	return JobStatus{
		ID:         j.ID,
		State:      j.state,
		Progress:   j.progress,
		Tail:       tail,
		OutputPath: j.OutputPath,
		Err:        j.err,
	}
}

func (j *Job) appendLine(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tail = append(j.tail, line)
	if len(j.tail) > stderrTail {
		j.tail = j.tail[len(j.tail)-stderrTail:]
	}
}

// RunExport executes a compiled export as a job. Progress callbacks are
// coalesced; cancelling ctx kills ffmpeg and removes the partial output.
func (e *Executor) RunExport(ctx context.Context, id string, c *export.Compiled, outPath string, onProgress func(JobStatus)) *Job {
	job := &Job{ID: id, OutputPath: outPath, state: JobQueued}

	e.logger.Info().
		Str("job", id).
		Int("inputs", len(c.Inputs)).
		Str("output", outPath).
		Msg("starting export")

	job.mu.Lock()
	job.state = JobRunning
	job.mu.Unlock()

	var lastUpdate time.Time
	opts := RunOptions{
		Args: ExportArgs(c, outPath),
		ProgressHandler: func(p *Progress) {
			job.mu.Lock()
			job.progress = *p
			if c.Duration > 0 {
				job.progress.Percentage = percentOf(p.Time, c.Duration)
			}
			job.mu.Unlock()
			if onProgress != nil && time.Since(lastUpdate) >= progressInterval {
				lastUpdate = time.Now()
				onProgress(job.Snapshot())
			}
		},
		LogHandler: job.appendLine,
	}

	err := e.Run(ctx, opts)

	job.mu.Lock()
	if err != nil {
		job.state = JobError
		job.err = err
		job.mu.Unlock()
		// Canceled or failed jobs leave no partial output behind.
		util.CleanupFiles(outPath)
		e.logger.Error().Err(err).Str("job", id).Msg("export failed")
	} else {
		job.state = JobDone
		job.mu.Unlock()
		e.logger.Info().Str("job", id).Str("output", outPath).Msg("export complete")
	}

	if onProgress != nil {
		onProgress(job.Snapshot())
	}
	return job
}

// percentOf converts an ffmpeg HH:MM:SS.cc time string into percent of
// the target duration.
func percentOf(timeStr string, dur float64) float64 {
	var h, m int
	var s float64
	if _, err := fmt.Sscanf(timeStr, "%d:%d:%f", &h, &m, &s); err != nil {
		return 0
	}
	elapsed := float64(h*3600+m*60) + s
	pct := elapsed / dur * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
