package metrics

import (
	"math"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/vmath"
)

// SettleTime reports the snapshot time of the first frame after which every
// entity stayed at rest. It is -1 while anything is still moving.
type SettleTime struct {
	settledAt float64
}

func NewSettleTime() *SettleTime { return &SettleTime{settledAt: -1} }

func (m *SettleTime) Name() string { return "settle_time" }

func (m *SettleTime) Observe(s dynamo.Snapshot) {
	if !s.AtRest() {
		m.settledAt = -1
		return
	}
	if m.settledAt < 0 {
		m.settledAt = s.Time
	}
}

func (m *SettleTime) Value() float64 { return m.settledAt }
func (m *SettleTime) Reset()         { m.settledAt = -1 }

// MaxSpeed is the largest entity speed seen.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s dynamo.Snapshot) {
	for _, e := range s.Entities {
		m.max = math.Max(m.max, e.Velocity.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// Overshoot measures how far one entity travels past target, projected on
// the direction from its first observed position to target.
type Overshoot struct {
	id     string
	target vmath.Vec2
	dir    vmath.Vec2
	seen   bool
	max    float64
}

func NewOvershoot(id string, target vmath.Vec2) *Overshoot {
	return &Overshoot{id: id, target: target}
}

func (m *Overshoot) Name() string { return "overshoot" }

func (m *Overshoot) Observe(s dynamo.Snapshot) {
	e, ok := s.Entity(m.id)
	if !ok {
		return
	}
	if !m.seen {
		m.seen = true
		dir, ok := m.target.Sub(e.Position).TryNormalize()
		if !ok {
			return
		}
		m.dir = dir
	}
	past := e.Position.Sub(m.target).Dot(m.dir)
	m.max = math.Max(m.max, past)
}

func (m *Overshoot) Value() float64 { return m.max }

func (m *Overshoot) Reset() {
	m.seen = false
	m.dir = vmath.Vec2{}
	m.max = 0
}
