// Package carousel implements the rotating testimonial/slide selector.
package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrSlideOutOfRange = errors.New("slide index out of range")

const (
	DefaultInterval = 5 * time.Second
	DefaultCooldown = 10 * time.Second
)

// State of a rotator
type State string

const (
	StateAuto    State = "auto"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// Snapshot is the observable state of a rotator
type Snapshot struct {
	Index int   `json:"index"`
	Count int   `json:"count"`
	State State `json:"state"`
}

// Options configures a Rotator
type Options struct {
	Interval time.Duration
	Cooldown time.Duration
	Clock    Clock
	// OnChange is called after timer-driven changes only (auto advance and
	// cooldown expiry), outside the rotator's lock. Manual calls return
	// their snapshot instead.
	OnChange func(Snapshot)
}

// Rotator is a zero-based index into a fixed number of slides. It advances
// every Interval while auto; a manual move pauses it for Cooldown.
type Rotator struct {
	mu       sync.Mutex
	count    int
	index    int
	state    State
	interval time.Duration
	cooldown time.Duration
	clock    Clock
	onChange func(Snapshot)

	timer Timer
	gen   uint64
}

// New creates a rotator over count slides. It does not tick until Start.
func New(count int, opts Options) *Rotator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if count < 0 {
		count = 0
	}
	return &Rotator{
		count:    count,
		state:    StateAuto,
		interval: opts.Interval,
		cooldown: opts.Cooldown,
		clock:    opts.Clock,
		onChange: opts.OnChange,
	}
}

// Start arms automatic advancement
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateAuto {
		return
	}
	r.armLocked(r.interval, r.advanceLocked)
}

// Next moves forward one slide, wrapping at the end
func (r *Rotator) Next() Snapshot {
	return r.manual(func() { r.index = (r.index + 1) % r.count })
}

// Prev moves back one slide, wrapping at the start
func (r *Rotator) Prev() Snapshot {
	return r.manual(func() { r.index = (r.index - 1 + r.count) % r.count })
}

// GoTo jumps to slide i
func (r *Rotator) GoTo(i int) (Snapshot, error) {
	r.mu.Lock()
	count := r.count
	r.mu.Unlock()
	if i < 0 || i >= count {
		return r.Snapshot(), fmt.Errorf("%w: %d not in [0,%d)", ErrSlideOutOfRange, i, count)
	}
	return r.manual(func() { r.index = i }), nil
}

// Stop cancels every pending timer. A stopped rotator never changes again.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.state = StateStopped
}

// Snapshot returns the current state
func (r *Rotator) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Rotator) snapshotLocked() Snapshot {
	return Snapshot{Index: r.index, Count: r.count, State: r.state}
}

func (r *Rotator) manual(move func()) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 || r.state == StateStopped {
		return r.snapshotLocked()
	}
	move()
	r.state = StatePaused
	r.armLocked(r.cooldown, r.resumeLocked)
	return r.snapshotLocked()
}

func (r *Rotator) advanceLocked() {
	r.index = (r.index + 1) % r.count
	r.armLocked(r.interval, r.advanceLocked)
}

func (r *Rotator) resumeLocked() {
	r.state = StateAuto
	r.armLocked(r.interval, r.advanceLocked)
}

// armLocked replaces the pending timer. Only the most recently armed timer
// may act; earlier ones see a stale generation and return.
func (r *Rotator) armLocked(d time.Duration, fn func()) {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.count < 2 && r.state == StateAuto {
		return
	}

	gen := r.gen
	r.timer = r.clock.AfterFunc(d, func() {
		r.mu.Lock()
		if gen != r.gen || r.state == StateStopped {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		fn()
		snap := r.snapshotLocked()
		onChange := r.onChange
		r.mu.Unlock()

		if onChange != nil {
			onChange(snap)
		}
	})
}
