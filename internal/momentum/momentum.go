// Package momentum turns a stream of pointer samples into a release
// velocity for inertial scrolling.
package momentum

import (
	"math"
	"time"

	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/vmath"
)

const (
	// WindowSize is the number of samples retained, oldest evicted first.
	WindowSize = 5

	instantWeight  = 0.7
	previousWeight = 0.3

	shortGesture      = 300 * time.Millisecond
	minDurationScale  = 0.5
	maxDurationScale  = 1.0
	durationReference = 300.0 // ms
)

type Sample struct {
	Time time.Time
	X, Y float64
}

func (s Sample) Point() vmath.Vec2 { return vmath.V2(s.X, s.Y) }

// Axis names the dominant direction of a release.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "none"
	}
}

type Result struct {
	Velocity         vmath.Vec2
	PrimaryDirection Axis
	Distance         float64
	Duration         time.Duration
	ShouldAnimate    bool
}

// Apply launches s with the release velocity when the gesture qualifies.
func (r Result) Apply(s *inertia.Solver2D) bool {
	if !r.ShouldAnimate {
		return false
	}
	s.Launch(r.Velocity)
	return true
}

type Tracker struct {
	cfg Config
	now func() time.Time

	samples     []Sample
	origin      Sample
	velocity    vmath.Vec2
	hasVelocity bool
	tracking    bool
}

type Option func(*Tracker)

// WithClock replaces time.Now for Start, Update and End.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(cfg Config, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:     cfg.Sanitize(),
		now:     time.Now,
		samples: make([]Sample, 0, WindowSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Config() Config { return t.cfg }

func (t *Tracker) UpdateConfig(o Overrides) { t.cfg = t.cfg.Apply(o) }

func (t *Tracker) Tracking() bool { return t.tracking }

// Velocity is the current smoothed estimate.
func (t *Tracker) Velocity() vmath.Vec2 { return t.velocity }

// Samples returns a copy of the window, oldest first.
func (t *Tracker) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

func (t *Tracker) Start(x, y float64) { t.StartAt(t.now(), x, y) }

// StartAt begins a gesture at an explicit timestamp and clears the window.
func (t *Tracker) StartAt(at time.Time, x, y float64) {
	s := Sample{Time: at, X: x, Y: y}
	t.samples = append(t.samples[:0], s)
	t.origin = s
	t.velocity = vmath.Zero2
	t.hasVelocity = false
	t.tracking = true
}

func (t *Tracker) Update(x, y float64) { t.UpdateAt(t.now(), x, y) }

// UpdateAt appends a sample and refreshes the velocity estimate from the
// last two samples. Samples that do not advance time are recorded but
// leave the estimate untouched. An update without Start starts a gesture.
func (t *Tracker) UpdateAt(at time.Time, x, y float64) {
	if !t.tracking {
		t.StartAt(at, x, y)
		return
	}
	s := Sample{Time: at, X: x, Y: y}
	if len(t.samples) == WindowSize {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:WindowSize-1]
	}
	t.samples = append(t.samples, s)

	prev := t.samples[len(t.samples)-2]
	elapsed := s.Time.Sub(prev.Time).Seconds()
	if elapsed <= 0 {
		return
	}
	instant := s.Point().Sub(prev.Point()).Scale(1 / elapsed)
	if t.hasVelocity {
		t.velocity = instant.Scale(instantWeight).Add(t.velocity.Scale(previousWeight))
	} else {
		t.velocity = instant
		t.hasVelocity = true
	}
}

func (t *Tracker) End() Result { return t.EndAt(t.now()) }

// EndAt finalizes the gesture. The duration runs from Start to at.
func (t *Tracker) EndAt(at time.Time) Result {
	if !t.tracking {
		return Result{}
	}
	t.tracking = false

	last := t.samples[len(t.samples)-1]
	duration := at.Sub(t.origin.Time)
	if duration < 0 {
		duration = 0
	}
	distance := last.Point().Distance(t.origin.Point())
	v := t.velocity.Scale(t.cfg.VelocityMultiplier)

	if distance < t.cfg.MinimumDistance && duration < shortGesture {
		v = v.Scale(t.cfg.SmallGestureMultiplier)
	}
	if t.cfg.DurationScaling && duration > 0 {
		ms := float64(duration) / float64(time.Millisecond)
		v = v.Scale(vmath.Clamp(durationReference/ms, minDurationScale, maxDurationScale))
	}

	switch t.cfg.Direction {
	case Horizontal:
		v.Y = 0
	case Vertical:
		v.X = 0
	}

	primary := dominantAxis(v)
	if t.cfg.AxisLock {
		switch primary {
		case AxisX:
			v.Y = 0
		case AxisY:
			v.X = 0
		}
	}

	v = v.ClampLength(t.cfg.MaxVelocity)
	speed := math.Max(math.Abs(v.X), math.Abs(v.Y))

	return Result{
		Velocity:         v,
		PrimaryDirection: primary,
		Distance:         distance,
		Duration:         duration,
		ShouldAnimate:    speed >= t.cfg.MinimumVelocity && distance >= t.cfg.MinimumDistance,
	}
}

// Cancel drops the gesture without producing a result.
func (t *Tracker) Cancel() {
	t.samples = t.samples[:0]
	t.velocity = vmath.Zero2
	t.hasVelocity = false
	t.tracking = false
}

func dominantAxis(v vmath.Vec2) Axis {
	ax, ay := math.Abs(v.X), math.Abs(v.Y)
	switch {
	case ax > ay:
		return AxisX
	case ay > ax:
		return AxisY
	default:
		return AxisNone
	}
}
