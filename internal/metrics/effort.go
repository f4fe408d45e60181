package metrics

import (
	"github.com/san-kum/motionsim/internal/dynamo"
)

// ForceEffort is the mean per-frame sum of |force| over entities. It is zero
// for tickers that report no forces.
type ForceEffort struct {
	name    string
	sum     float64
	samples int
}

func NewForceEffort() *ForceEffort {
	return &ForceEffort{
		name: "force_effort",
	}
}

func (c *ForceEffort) Name() string {
	return c.name
}

func (c *ForceEffort) Observe(s dynamo.Snapshot) {
	for _, e := range s.Entities {
		c.sum += e.Force.Len()
	}
	c.samples++
}

func (c *ForceEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ForceEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
