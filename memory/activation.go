package memory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// baseActivation computes a chunk's base-level activation from its
// reinforcement history, the current time, and the decay parameter, under
// the configured optimized-learning mode.
func (m *Memory) baseActivation(c *Chunk) (float64, error) {
	if !m.decayEnabled {
		return 0, nil
	}
	n := len(c.references)
	if n == 0 {
		return 0, fmt.Errorf("chunk %s has no reinforcements: %w", c.name, ErrInvalidTime)
	}
	switch {
	case m.optimized == OptimizedOff:
		return m.baseExact(c, c.references)
	case m.optimized == OptimizedOn:
		return m.baseApproximate(c)
	default:
		return m.baseMixed(c, int(m.optimized))
	}
}

// baseExact is ln Σ (t - t_j)^-d over the given reinforcement times. A
// reinforcement at the current time has no well-defined age when decay is
// positive; computing activation then is an error, matching the rule that
// time must be advanced between learning and retrieving.
func (m *Memory) baseExact(c *Chunk, refs []float64) (float64, error) {
	if m.decay == 0 {
		return math.Log(float64(len(refs))), nil
	}
	last := refs[len(refs)-1]
	if m.time <= last {
		return 0, fmt.Errorf(
			"can't compute activation of chunk %s at or before the time of its most recent reinforcement (%v): %w",
			c.name, last, ErrInvalidTime)
	}
	sum := 0.0
	for _, ref := range refs {
		sum += math.Pow(m.time-ref, -m.decay)
	}
	return math.Log(sum), nil
}

// baseApproximate is ln(n / (1-d)) - d ln(L), with L the age of the first
// reinforcement.
func (m *Memory) baseApproximate(c *Chunk) (float64, error) {
	n := float64(len(c.references))
	if m.decay == 0 {
		return math.Log(n), nil
	}
	first := c.references[0]
	if m.time <= first {
		return 0, fmt.Errorf(
			"can't compute activation of chunk %s at or before the time it was created (%v): %w",
			c.name, first, ErrInvalidTime)
	}
	return math.Log(n/(1-m.decay)) - m.decay*math.Log(m.time-first), nil
}

// baseMixed keeps the k most recent reinforcements exact and approximates
// the older ones as uniformly spread between the first reinforcement and
// the oldest retained one.
func (m *Memory) baseMixed(c *Chunk, k int) (float64, error) {
	n := len(c.references)
	if n <= k || m.decay == 0 {
		return m.baseExact(c, c.references)
	}
	recent := c.references[n-k:]
	last := recent[len(recent)-1]
	if m.time <= last {
		return 0, fmt.Errorf(
			"can't compute activation of chunk %s at or before the time of its most recent reinforcement (%v): %w",
			c.name, last, ErrInvalidTime)
	}
	sum := 0.0
	for _, ref := range recent {
		sum += math.Pow(m.time-ref, -m.decay)
	}
	first := c.references[0]
	oldest := recent[0]
	count := float64(n - k)
	if oldest == first {
		// the dropped reinforcements all coincide with the first
		sum += count * math.Pow(m.time-first, -m.decay)
	} else {
		// mean of (t-u)^-d for u uniform on [first, oldest]
		a, b := m.time-first, m.time-oldest
		sum += count * (math.Pow(a, 1-m.decay) - math.Pow(b, 1-m.decay)) / ((1 - m.decay) * (a - b))
	}
	return math.Log(sum), nil
}

// sampleNoise draws the chunk's activation noise: logistic with scale
// noise, from the memory's private generator. Inside a fixed-noise scope
// the first sample drawn for a chunk is reused until time advances.
func (m *Memory) sampleNoise(c *Chunk) float64 {
	if m.noise == 0 {
		return 0
	}
	if m.fixedNoise != nil {
		if v, ok := m.fixedNoise[c.name]; ok {
			return v
		}
	}
	dist := distuv.Logistic{Mu: 0, S: m.noise}
	v := dist.Quantile(m.rng.Float64())
	if m.fixedNoise != nil {
		m.fixedNoise[c.name] = v
	}
	return v
}
