package compile

import (
	"errors"
	"fmt"
	"log"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
)

// ErrClipUnreadable means the clip's duration could not be determined.
// The clip is not queued and the accumulated total is unchanged.
var ErrClipUnreadable = errors.New("clip unreadable")

// ClipProbe measures the duration of a clip on disk
type ClipProbe interface {
	Duration(path string) (float64, error)
}

// AddResult reports the accumulator state after a successful Add
type AddResult struct {
	AccumulatedSec float64
	TargetSec      float64
	Ready          bool
}

// Accumulator tracks pending clips against a target duration and decides
// when enough content exists for a compilation. Mutated only by the
// scheduler goroutine; no locking needed under the single-cycle model.
type Accumulator struct {
	probe       ClipProbe
	pending     []types.ClipRef
	accumulated float64
	target      float64
}

// NewAccumulator creates an accumulator with the given target in seconds
func NewAccumulator(probe ClipProbe, targetSec float64) *Accumulator {
	return &Accumulator{probe: probe, target: targetSec}
}

// Add probes the clip, queues it and adds its duration to the running total.
// A probe failure rejects the whole clip: nothing is queued and the total is
// untouched.
func (a *Accumulator) Add(path, prompt string) (AddResult, error) {
	dur, err := a.probe.Duration(path)
	if err != nil {
		return AddResult{}, fmt.Errorf("%w: %s: %v", ErrClipUnreadable, path, err)
	}

	a.pending = append(a.pending, types.ClipRef{Path: path, Prompt: prompt, DurationSec: dur})
	a.accumulated += dur

	log.Printf("[compile] Queued clip %s (%.1fs) — accumulated %.1fs / %.1fs",
		path, dur, a.accumulated, a.target)

	return AddResult{
		AccumulatedSec: a.accumulated,
		TargetSec:      a.target,
		Ready:          a.IsReady(),
	}, nil
}

// IsReady reports whether accumulated duration has reached the target
func (a *Accumulator) IsReady() bool {
	return a.accumulated >= a.target
}

// AccumulatedSec returns the current running total in seconds
func (a *Accumulator) AccumulatedSec() float64 {
	return a.accumulated
}

// TargetSec returns the configured target in seconds
func (a *Accumulator) TargetSec() float64 {
	return a.target
}

// PendingCount returns the number of queued clips
func (a *Accumulator) PendingCount() int {
	return len(a.pending)
}

// Drain returns the queued clips and their total duration, then resets the
// queue to empty and the total to zero. Draining an empty queue returns
// empty/0 with no effect.
func (a *Accumulator) Drain() ([]types.ClipRef, float64) {
	clips := a.pending
	total := a.accumulated
	a.pending = nil
	a.accumulated = 0
	return clips, total
}
