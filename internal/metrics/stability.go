package metrics

import (
	"github.com/san-kum/motionsim/internal/dynamo"
)

// Stability is the fraction of frames in which every entity stayed within
// radius of the origin and had a finite state.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap dynamo.Snapshot) {
	s.samples++
	if !snap.IsValid() {
		s.violations++
		return
	}
	for _, e := range snap.Entities {
		if e.Position.Len() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
