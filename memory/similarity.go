package memory

import "fmt"

// SimilarityFn compares two attribute values. On the natural scale it
// returns 1 for complete similarity and 0 for complete dissimilarity; on
// the ACT-R scale (see UseACTRSimilarity) 0 and -1 respectively. It must be
// deterministic and symmetric.
type SimilarityFn func(x, y any) float64

// DerivativeFn returns the partial derivative of the attribute's
// similarity with respect to its first argument, evaluated at (x, y). It
// must be deterministic and defined whenever x differs from y; it need not
// be symmetric.
type DerivativeFn func(x, y any) float64

type similarityEntry struct {
	fn         SimilarityFn
	exact      bool // built-in equality similarity, scale independent
	derivative DerivativeFn
	weight     float64
	generation int // bumped on reassignment to invalidate cached values
}

// SetSimilarity assigns fn, with the given weight, as the similarity
// function for each named attribute, replacing any previous assignment and
// invalidating cached values for those attributes. A nil fn clears the
// attribute, restoring exact matching. The weight must be positive.
func (m *Memory) SetSimilarity(attrs []string, fn SimilarityFn, weight float64) error {
	if len(attrs) == 0 {
		return fmt.Errorf("no attributes named: %w", ErrInvalidParameter)
	}
	if fn != nil && (weight <= 0) {
		return fmt.Errorf("the similarity weight, %v, must be positive: %w", weight, ErrInvalidParameter)
	}
	for _, a := range attrs {
		if a == "" {
			return fmt.Errorf("empty attribute name: %w", ErrInvalidParameter)
		}
	}
	for _, a := range attrs {
		old := m.sims[a]
		if fn == nil {
			delete(m.sims, a)
			continue
		}
		m.simGen++
		entry := &similarityEntry{fn: fn, weight: weight, generation: m.simGen}
		if old != nil {
			entry.derivative = old.derivative
		}
		m.sims[a] = entry
	}
	return nil
}

// SetExactSimilarity assigns the built-in equality similarity, completely
// similar for equal values and completely dissimilar otherwise, to each
// named attribute. Unlike exact matching, partially matched chunks remain
// eligible and are merely penalized.
func (m *Memory) SetExactSimilarity(attrs []string, weight float64) error {
	if err := m.SetSimilarity(attrs, func(x, y any) float64 { return 0 }, weight); err != nil {
		return err
	}
	for _, a := range attrs {
		m.sims[a].exact = true
	}
	return nil
}

// SetDerivative attaches a derivative function to each named attribute,
// used by Salience. Every named attribute must already have a similarity
// function assigned.
func (m *Memory) SetDerivative(attrs []string, fn DerivativeFn) error {
	if len(attrs) == 0 {
		return fmt.Errorf("no attributes named: %w", ErrInvalidParameter)
	}
	for _, a := range attrs {
		if m.sims[a] == nil {
			return fmt.Errorf("attribute %q has no similarity function: %w", a, ErrInvalidParameter)
		}
	}
	for _, a := range attrs {
		m.simGen++
		entry := m.sims[a]
		entry.derivative = fn
		entry.generation = m.simGen
	}
	return nil
}

// UseACTRSimilarity returns whether similarity functions are interpreted on
// the traditional ACT-R scale, -1 for completely dissimilar through 0 for
// identical, instead of the natural 0 through 1.
func (m *Memory) UseACTRSimilarity() bool { return m.actrSimilarity }

// SetUseACTRSimilarity switches the similarity scale. Cached similarities
// are discarded, as their interpretation changes.
func (m *Memory) SetUseACTRSimilarity(on bool) {
	if on != m.actrSimilarity {
		m.actrSimilarity = on
		m.simCache.Purge()
		m.derivCache.Purge()
	}
}

// similarity returns the natural-scale similarity of x and y under the
// named attribute, or (0, false) when the attribute has no similarity
// function. Values are memoized under an unordered key, relying on the
// declared symmetry of similarity functions.
func (m *Memory) similarity(x, y any, attr string) (float64, bool, error) {
	entry := m.sims[attr]
	if entry == nil {
		return 0, false, nil
	}
	if x == y {
		return 1, true, nil
	}
	if entry.exact {
		return 0, true, nil
	}
	kx, ky := valueKey(x), valueKey(y)
	if ky < kx {
		kx, ky = ky, kx
		x, y = y, x
	}
	key := fmt.Sprintf("%s/%d:%s|%s", attr, entry.generation, kx, ky)
	if v, ok := m.simCache.Get(key); ok {
		return v, true, nil
	}
	v := entry.fn(x, y)
	if m.actrSimilarity {
		v++
	}
	if v < 0 || v > 1 {
		return 0, true, fmt.Errorf("similarity of %v and %v on %q is out of range (%v): %w",
			x, y, attr, v, ErrSimilarityContract)
	}
	m.simCache.Add(key, v)
	return v, true, nil
}

// derivativeAt returns the derivative of the named attribute's similarity
// with respect to its first argument at (x, y), memoized under an ordered
// key since derivatives need not be symmetric.
func (m *Memory) derivativeAt(x, y any, attr string) (float64, error) {
	entry := m.sims[attr]
	if entry == nil || entry.derivative == nil {
		return 0, fmt.Errorf("attribute %q has no derivative function: %w", attr, ErrUndefinedDerivative)
	}
	key := fmt.Sprintf("%s/%d:%s>%s", attr, entry.generation, valueKey(x), valueKey(y))
	if v, ok := m.derivCache.Get(key); ok {
		return v, nil
	}
	v := entry.derivative(x, y)
	m.derivCache.Add(key, v)
	return v, nil
}

// similarityWeight returns the mismatch weight of the named attribute,
// defaulting to 1.
func (m *Memory) similarityWeight(attr string) float64 {
	if entry := m.sims[attr]; entry != nil {
		return entry.weight
	}
	return 1
}
