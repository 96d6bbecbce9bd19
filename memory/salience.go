package memory

import "fmt"

// Salience returns the partial derivative of the most recent blended value
// with respect to the probe attribute attr at the target value: how
// strongly a small perturbation of that probe attribute would move the
// blend. It is computed from the trace of the most recent Blend, so the
// activation history must have been recording when the blend ran.
//
// The attribute's derivative function is called as fn(target, chunkValue)
// and differentiates with respect to its first argument. Where a chunk's
// value equals the target the derivative is undefined; the derivative
// policy chooses between substituting zero (the default) and surfacing
// ErrUndefinedDerivative.
func (m *Memory) Salience(attr string, target any) (float64, error) {
	if m.lastBlend == nil {
		return 0, fmt.Errorf("salience: no blend trace recorded; enable the activation history and blend first")
	}
	if !m.lastBlend.mismatchSet {
		return 0, fmt.Errorf("salience: the blend ran without a mismatch penalty: %w", ErrInvalidParameter)
	}
	entry := m.sims[attr]
	if entry == nil || entry.derivative == nil {
		return 0, fmt.Errorf("salience: attribute %q has no derivative function: %w", attr, ErrUndefinedDerivative)
	}
	normalized, err := normalizeValue(target)
	if err != nil {
		return 0, fmt.Errorf("salience: target: %w", err)
	}

	weight := m.similarityWeight(attr)
	derivs := make([]float64, len(m.lastBlend.entries))
	present := false
	for i, e := range m.lastBlend.entries {
		value, ok := e.chunk.attrs[attr]
		if !ok {
			continue
		}
		present = true
		if value == normalized {
			if m.derivPolicy == DerivativeError {
				return 0, fmt.Errorf("salience: derivative of %q is undefined at %v: %w",
					attr, value, ErrUndefinedDerivative)
			}
			continue // derivative taken as zero
		}
		d, err := m.derivativeAt(normalized, value, attr)
		if err != nil {
			return 0, fmt.Errorf("salience: %w", err)
		}
		derivs[i] = d * m.lastBlend.mismatch * weight
	}
	if !present {
		return 0, fmt.Errorf("salience: attribute %q absent from every blend candidate: %w", attr, ErrUnknownAttribute)
	}

	mean := 0.0
	for i, e := range m.lastBlend.entries {
		mean += e.probability * derivs[i]
	}
	salience := 0.0
	for i, e := range m.lastBlend.entries {
		salience += e.probability * e.outcome * (derivs[i] - mean)
	}
	return salience, nil
}
