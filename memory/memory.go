package memory

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/exp/rand"
)

// Default parameter values.
const (
	DefaultNoise     = 0.25
	DefaultDecay     = 0.5
	DefaultThreshold = -10.0

	minTemperature      = 0.01
	similarityCacheSize = 10_000
	derivativeCacheSize = 10_000
)

// OptimizedLearning selects how base-level activation is computed from a
// chunk's reinforcement history. The zero value uses the full history.
type OptimizedLearning int

const (
	// OptimizedOff computes base-level activation from every
	// reinforcement time exactly.
	OptimizedOff OptimizedLearning = 0

	// OptimizedOn approximates the whole history from the first
	// reinforcement time and the reinforcement count.
	OptimizedOn OptimizedLearning = -1

	// Positive values keep that many most recent reinforcements exact and
	// approximate the older ones as uniformly spread over their span.
)

// DerivativePolicy selects what Salience does at a point where the
// similarity derivative is undefined, i.e. where a chunk's attribute value
// equals the probe target.
type DerivativePolicy int

const (
	// DerivativeZero treats the undefined derivative as zero.
	DerivativeZero DerivativePolicy = iota

	// DerivativeError surfaces ErrUndefinedDerivative instead.
	DerivativeError
)

// Memory is a collection of chunks plus the clock and parameters governing
// their retrieval. The zero value is not usable; call New.
type Memory struct {
	noise          float64
	decay          float64
	decayEnabled   bool
	temperature    float64 // meaningful only when temperatureSet
	temperatureSet bool
	threshold      float64 // meaningful only when thresholdSet
	thresholdSet   bool
	mismatch       float64 // meaningful only when mismatchSet
	mismatchSet    bool
	optimized      OptimizedLearning
	actrSimilarity bool
	derivPolicy    DerivativePolicy

	time        float64
	chunks      map[string]*Chunk
	order       []*Chunk
	nameCounter int

	indexAttrs []string
	indexed    map[string][]*Chunk

	sims       map[string]*similarityEntry
	simGen     int // monotone, stamps registry entries for cache invalidation
	simCache   *lru.Cache[string, float64]
	derivCache *lru.Cache[string, float64]

	rng        *rand.Rand
	fixedNoise map[string]float64 // non-nil while a fixed-noise scope is active
	fixedDepth int

	history   []Record
	recording bool
	lastBlend *blendTrace
}

// New creates an empty Memory with the default parameters: noise 0.25,
// decay 0.5, threshold -10, automatic temperature, mismatch disabled, and
// optimized learning off. The supplied seed initializes the memory's
// private random number generator, used for activation noise and
// tie-breaking.
func New(seed uint64) *Memory {
	simCache, _ := lru.New[string, float64](similarityCacheSize)
	derivCache, _ := lru.New[string, float64](derivativeCacheSize)
	return &Memory{
		noise:        DefaultNoise,
		decay:        DefaultDecay,
		decayEnabled: true,
		threshold:    DefaultThreshold,
		thresholdSet: true,
		chunks:       make(map[string]*Chunk),
		sims:         make(map[string]*similarityEntry),
		simCache:     simCache,
		derivCache:   derivCache,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Seed reinitializes the memory's random number generator.
func (m *Memory) Seed(seed uint64) {
	m.rng.Seed(seed)
}

// Len returns the number of distinct chunks held.
func (m *Memory) Len() int { return len(m.order) }

// Chunks returns the memory's chunks in insertion order.
func (m *Memory) Chunks() []*Chunk {
	out := make([]*Chunk, len(m.order))
	copy(out, m.order)
	return out
}

// Time returns the memory's current time, a dimensionless quantity whose
// interpretation is up to the model.
func (m *Memory) Time() float64 { return m.time }

// Advance adds amount to the memory's time and returns the new time.
func (m *Memory) Advance(amount float64) (float64, error) {
	if amount < 0 || math.IsNaN(amount) {
		return m.time, fmt.Errorf("time cannot be advanced backward (%v): %w", amount, ErrInvalidTime)
	}
	if amount > 0 {
		m.time += amount
		m.clearNoiseCache()
	}
	return m.time, nil
}

// WithRevertedTime runs fn, restoring the memory's time afterward however
// fn exits. fn receives the time at entry. Learning inside the scope leaves
// reinforcements in what will again be the future once time reverts, so the
// scope is meant for probing hypothetical retrievals, not for learning.
func (m *Memory) WithRevertedTime(fn func(entry float64)) {
	old := m.time
	defer func() {
		m.time = old
		m.clearNoiseCache()
	}()
	fn(old)
}

// WithFixedNoise runs fn with noise stabilization: within the scope, every
// activation of a given chunk at the same time reuses the first noise
// sample drawn for it. The cache is flushed when time advances. Scopes
// nest.
func (m *Memory) WithFixedNoise(fn func()) {
	if m.fixedDepth == 0 {
		m.fixedNoise = make(map[string]float64)
	}
	m.fixedDepth++
	defer func() {
		m.fixedDepth--
		if m.fixedDepth == 0 {
			m.fixedNoise = nil
		}
	}()
	fn()
}

func (m *Memory) clearNoiseCache() {
	if m.fixedNoise != nil {
		m.fixedNoise = make(map[string]float64)
	}
}

// Learn adds or reinforces the chunk with the given attributes, then
// advances time by advance. It returns the chunk's name and whether a new
// chunk was created. Learning without advancing leaves the reinforcement at
// the current time; activation cannot then be computed until time moves
// past it.
func (m *Memory) Learn(attrs map[string]any, advance float64) (string, bool, error) {
	if advance < 0 || math.IsNaN(advance) {
		return "", false, fmt.Errorf("learn cannot advance time backward (%v): %w", advance, ErrInvalidTime)
	}
	normalized, err := normalizeAttributes(attrs)
	if err != nil {
		return "", false, fmt.Errorf("learn: %w", err)
	}
	sig := signatureOf(normalized)
	chunk, ok := m.chunks[sig]
	created := false
	if !ok {
		chunk = newChunk(fmt.Sprintf("%04d", m.nameCounter), normalized, m.time)
		m.nameCounter++
		m.chunks[sig] = chunk
		m.order = append(m.order, chunk)
		m.indexInsert(chunk)
		created = true
	}
	chunk.cite(m.time)
	if advance > 0 {
		m.time += advance
		m.clearNoiseCache()
	}
	return chunk.name, created, nil
}

// Forget undoes one Learn of the given attributes performed at time when.
// The chunk is deleted once its last reinforcement is removed. Reports
// whether a matching reinforcement was found.
func (m *Memory) Forget(attrs map[string]any, when float64) (bool, error) {
	normalized, err := normalizeAttributes(attrs)
	if err != nil {
		return false, fmt.Errorf("forget: %w", err)
	}
	sig := signatureOf(normalized)
	chunk, ok := m.chunks[sig]
	if !ok {
		return false, nil
	}
	if !chunk.uncite(when) {
		return false, nil
	}
	if len(chunk.references) == 0 {
		delete(m.chunks, sig)
		for i, c := range m.order {
			if c == chunk {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		m.indexRemove(chunk)
	}
	return true, nil
}

// Reset deletes the memory's chunks and returns its time to zero. When
// preservePrepopulated is true, chunks created at time zero survive with
// their histories collapsed to a single time-zero reinforcement. The
// memory's parameters are unchanged; the activation history is cleared.
func (m *Memory) Reset(preservePrepopulated bool) {
	var keep []*Chunk
	if preservePrepopulated {
		for _, c := range m.order {
			if c.creation == 0 {
				keep = append(keep, c)
			}
		}
	}
	m.chunks = make(map[string]*Chunk)
	m.order = nil
	m.indexed = nil
	if len(m.indexAttrs) > 0 {
		m.indexed = make(map[string][]*Chunk)
	}
	m.time = 0
	for _, c := range keep {
		c.references = []float64{0}
		m.chunks[signatureOf(c.attrs)] = c
		m.order = append(m.order, c)
		m.indexInsert(c)
	}
	m.clearNoiseCache()
	m.history = nil
	m.lastBlend = nil
}

// Noise returns the logistic activation noise scale.
func (m *Memory) Noise() float64 { return m.noise }

// SetNoise sets the logistic activation noise scale. Zero disables noise.
func (m *Memory) SetNoise(noise float64) error {
	if noise < 0 || math.IsNaN(noise) {
		return fmt.Errorf("the noise, %v, must not be negative: %w", noise, ErrInvalidParameter)
	}
	if noise != m.noise {
		m.noise = noise
		m.clearNoiseCache()
	}
	return nil
}

// Decay returns the base-level decay exponent and whether base-level
// activation is enabled at all.
func (m *Memory) Decay() (float64, bool) { return m.decay, m.decayEnabled }

// SetDecay sets the base-level decay exponent. Zero means no decay while
// still counting reinforcements; to disable base-level activation entirely
// use ClearDecay.
func (m *Memory) SetDecay(decay float64) error {
	if decay < 0 || math.IsNaN(decay) {
		return fmt.Errorf("the decay, %v, must not be negative: %w", decay, ErrInvalidParameter)
	}
	if m.optimized != OptimizedOff && decay >= 1 {
		return fmt.Errorf("the decay, %v, must be less than 1 with optimized learning: %w", decay, ErrInvalidParameter)
	}
	m.decay = decay
	m.decayEnabled = true
	return nil
}

// ClearDecay disables base-level activation; every chunk's base level
// becomes zero.
func (m *Memory) ClearDecay() {
	m.decayEnabled = false
}

// Temperature returns the blending temperature and whether it was set
// explicitly; when not set the effective temperature is noise times √2.
func (m *Memory) Temperature() (float64, bool) { return m.temperature, m.temperatureSet }

// SetTemperature sets the blending temperature.
func (m *Memory) SetTemperature(t float64) error {
	if t < minTemperature || math.IsNaN(t) {
		return fmt.Errorf("the temperature, %v, must not be less than %v: %w", t, minTemperature, ErrInvalidParameter)
	}
	m.temperature = t
	m.temperatureSet = true
	return nil
}

// AutoTemperature reverts to the default temperature of noise times √2.
func (m *Memory) AutoTemperature() error {
	if m.noise*math.Sqrt2 < minTemperature {
		return fmt.Errorf("the noise, %v, is too low for an automatic temperature: %w", m.noise, ErrInvalidParameter)
	}
	m.temperatureSet = false
	return nil
}

// blendTemperature resolves the effective temperature for blending.
func (m *Memory) blendTemperature() (float64, error) {
	t := m.temperature
	if !m.temperatureSet {
		t = m.noise * math.Sqrt2
	}
	if t < minTemperature {
		return 0, fmt.Errorf("the effective temperature, %v, is too low; set one explicitly: %w", t, ErrInvalidParameter)
	}
	return t, nil
}

// Threshold returns the minimum activation required for retrieval and
// whether one is in force.
func (m *Memory) Threshold() (float64, bool) { return m.threshold, m.thresholdSet }

// SetThreshold sets the minimum activation required for retrieval.
func (m *Memory) SetThreshold(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("the threshold must be a real number: %w", ErrInvalidParameter)
	}
	m.threshold = v
	m.thresholdSet = true
	return nil
}

// ClearThreshold removes the retrieval threshold.
func (m *Memory) ClearThreshold() {
	m.thresholdSet = false
}

// Mismatch returns the mismatch penalty and whether partial matching is
// enabled.
func (m *Memory) Mismatch() (float64, bool) { return m.mismatch, m.mismatchSet }

// SetMismatch sets the mismatch penalty, enabling partial matching on
// attributes with similarity functions.
func (m *Memory) SetMismatch(mu float64) error {
	if mu < 0 || math.IsNaN(mu) {
		return fmt.Errorf("the mismatch penalty, %v, must not be negative: %w", mu, ErrInvalidParameter)
	}
	m.mismatch = mu
	m.mismatchSet = true
	return nil
}

// ClearMismatch disables partial matching; only exact matches are
// retrieved.
func (m *Memory) ClearMismatch() {
	m.mismatchSet = false
}

// Optimized returns the optimized-learning mode.
func (m *Memory) Optimized() OptimizedLearning { return m.optimized }

// SetOptimizedLearning selects the base-level approximation: OptimizedOff,
// OptimizedOn, or a positive count of recent reinforcements to keep exact.
// Any mode other than OptimizedOff requires decay below one.
func (m *Memory) SetOptimizedLearning(mode OptimizedLearning) error {
	if mode < OptimizedOn {
		return fmt.Errorf("optimized learning mode %d is not recognized: %w", mode, ErrInvalidParameter)
	}
	if mode != OptimizedOff && m.decayEnabled && m.decay >= 1 {
		return fmt.Errorf("optimized learning requires decay below 1, not %v: %w", m.decay, ErrInvalidParameter)
	}
	m.optimized = mode
	return nil
}

// DerivativePolicy returns the salience derivative policy.
func (m *Memory) DerivativePolicy() DerivativePolicy { return m.derivPolicy }

// SetDerivativePolicy selects the Salience behavior where a chunk's value
// equals the probe target: DerivativeZero or DerivativeError.
func (m *Memory) SetDerivativePolicy(p DerivativePolicy) error {
	if p != DerivativeZero && p != DerivativeError {
		return fmt.Errorf("derivative policy %d is not recognized: %w", p, ErrInvalidParameter)
	}
	m.derivPolicy = p
	return nil
}
