package field

import "math"

// Decay maps a normalized distance in [0,1] to a force multiplier. Every
// decay is monotonically non-increasing over that range.
type Decay int

const (
	Linear Decay = iota
	Quadratic
	Exponential
	Inverse
	Constant
)

var decayNames = map[Decay]string{
	Linear:      "linear",
	Quadratic:   "quadratic",
	Exponential: "exponential",
	Inverse:     "inverse",
	Constant:    "constant",
}

func (d Decay) String() string {
	if n, ok := decayNames[d]; ok {
		return n
	}
	return "linear"
}

func (d Decay) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Decay) UnmarshalText(b []byte) error {
	*d = ParseDecay(string(b))
	return nil
}

// ParseDecay falls back to Linear for unknown names.
func ParseDecay(s string) Decay {
	for d, n := range decayNames {
		if n == s {
			return d
		}
	}
	return Linear
}

// Apply evaluates the decay at d. d is clamped into [0,1].
func (d Decay) Apply(nd float64) float64 {
	if math.IsNaN(nd) {
		return 0
	}
	nd = math.Min(math.Max(nd, 0), 1)
	switch d {
	case Quadratic:
		return 1 - nd*nd
	case Exponential:
		return math.Exp(-4 * nd)
	case Inverse:
		if nd < 0.1 {
			return 1
		}
		return 1 / (10 * nd)
	case Constant:
		return 1
	default:
		return 1 - nd
	}
}
