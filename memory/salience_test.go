package memory

import (
	"errors"
	"math"
	"testing"
)

// sqrtSim is 1 - sqrt(|x-y| / scale) over numeric values.
func sqrtSim(scale float64) SimilarityFn {
	return func(x, y any) float64 {
		return 1 - math.Sqrt(math.Abs(x.(float64)-y.(float64))/scale)
	}
}

// sqrtSimDeriv differentiates sqrtSim with respect to its first argument.
func sqrtSimDeriv(scale float64) DerivativeFn {
	return func(x, y any) float64 {
		diff := x.(float64) - y.(float64)
		d := 1 / (2 * math.Sqrt(scale) * math.Sqrt(math.Abs(diff)))
		if diff > 0 {
			return -d
		}
		return d
	}
}

// linearSim is 1 - |x-y| / scale.
func linearSim(scale float64) SimilarityFn {
	return func(x, y any) float64 {
		return 1 - math.Abs(x.(float64)-y.(float64))/scale
	}
}

func linearSimDeriv(scale float64) DerivativeFn {
	return func(x, y any) float64 {
		if x.(float64) > y.(float64) {
			return -1 / scale
		}
		return 1 / scale
	}
}

// learnedTrials builds the shared test state: six trials of (r, h, v) with
// v = r²h, learned a unit of time apart, observed at time 6.
func learnedTrials(t *testing.T) *Memory {
	t.Helper()
	m := quiet(t)
	mustSet(t, m.SetMismatch(1))
	for _, trial := range [][3]float64{
		{1, 1, 1}, {3, 3, 27}, {1, 3, 3}, {1, 1, 1}, {1, 1, 1}, {3, 1, 9},
	} {
		mustLearn(t, m, map[string]any{"r": trial[0], "h": trial[1], "v": trial[2]}, 1)
	}
	m.EnableActivationHistory()
	return m
}

var trialProbe = map[string]any{"r": 2, "h": 2}

// Retrieval probabilities of the four distinct trial chunks at time 6 with
// every candidate equally penalized: the softmax of the base levels
// ln(6^-½+3^-½+2^-½), ln(5^-½), ln(4^-½), ln(1).
var trialProbabilities = []float64{0.4650393, 0.1228636, 0.1373657, 0.2747314}

func TestBlendedValueOverTrials(t *testing.T) {
	m := learnedTrials(t)
	mustSet(t, m.SetSimilarity([]string{"r", "h"}, sqrtSim(16), 1))

	got := mustBlend(t, m, "v", trialProbe)
	if !isclose(got, 6.6670365) {
		t.Errorf("blended v = %v, want 6.6670365", got)
	}
	records := lastRecords(t, m, 4)
	for i, want := range trialProbabilities {
		if !isclose(records[i].RetrievalProbability, want) {
			t.Errorf("p[%d] = %v, want %v", i, records[i].RetrievalProbability, want)
		}
	}
	// each candidate differs from the probe by one unit in r and in h, so
	// every mismatch penalty is the same
	for _, r := range records {
		if !isclose(r.Mismatch, -0.5) {
			t.Errorf("mismatch of %s = %v, want -0.5", r.Name, r.Mismatch)
		}
	}
}

func TestSalienceOverTrials(t *testing.T) {
	m := learnedTrials(t)
	mustSet(t, m.SetSimilarity([]string{"r", "h"}, sqrtSim(16), 1))
	mustSet(t, m.SetDerivative([]string{"r", "h"}, sqrtSimDeriv(16)))
	mustBlend(t, m, "v", trialProbe)

	got, err := m.Salience("r", 2)
	if err != nil {
		t.Fatalf("Salience r: %v", err)
	}
	if !isclose(got, 0.7847799) {
		t.Errorf("salience(r, 2) = %v, want 0.7847799", got)
	}
	got, err = m.Salience("h", 2)
	if err != nil {
		t.Fatalf("Salience h: %v", err)
	}
	if !isclose(got, 0.4986141) {
		t.Errorf("salience(h, 2) = %v, want 0.4986141", got)
	}
}

func TestSalienceLinearSimilarity(t *testing.T) {
	m := learnedTrials(t)
	mustSet(t, m.SetSimilarity([]string{"r", "h"}, linearSim(16), 1))
	mustSet(t, m.SetDerivative([]string{"r", "h"}, linearSimDeriv(16)))
	mustBlend(t, m, "v", trialProbe)

	// all probe distances are 1, so the linear similarity also penalizes
	// every candidate equally and only the derivative magnitudes change:
	// half those of the square-root similarity at distance 1
	got, err := m.Salience("r", 2)
	if err != nil {
		t.Fatalf("Salience r: %v", err)
	}
	if !isclose(got, 0.3923900) {
		t.Errorf("salience(r, 2) = %v, want 0.3923900", got)
	}
	got, err = m.Salience("h", 2)
	if err != nil {
		t.Fatalf("Salience h: %v", err)
	}
	if !isclose(got, 0.2493070) {
		t.Errorf("salience(h, 2) = %v, want 0.2493070", got)
	}
}

func TestSalienceShrinksWithSimilarityRange(t *testing.T) {
	prev := math.Inf(1)
	for _, scale := range []float64{4, 8, 16, 32, 128} {
		m := learnedTrials(t)
		mustSet(t, m.SetSimilarity([]string{"r", "h"}, linearSim(scale), 1))
		mustSet(t, m.SetDerivative([]string{"r", "h"}, linearSimDeriv(scale)))
		mustBlend(t, m, "v", trialProbe)
		got, err := m.Salience("r", 2)
		if err != nil {
			t.Fatalf("Salience at scale %v: %v", scale, err)
		}
		if !isclose(got, 6.2782394/scale) {
			t.Errorf("salience at scale %v = %v, want %v", scale, got, 6.2782394/scale)
		}
		if got >= prev {
			t.Errorf("salience did not shrink: %v at scale %v after %v", got, scale, prev)
		}
		prev = got
	}
}

func TestSalienceWeights(t *testing.T) {
	// doubling the attribute weight doubles every dᵢ, and with a uniform
	// penalty shift the salience doubles too
	m := learnedTrials(t)
	mustSet(t, m.SetSimilarity([]string{"r", "h"}, linearSim(16), 2))
	mustSet(t, m.SetDerivative([]string{"r", "h"}, linearSimDeriv(16)))
	mustBlend(t, m, "v", trialProbe)
	got, err := m.Salience("r", 2)
	if err != nil {
		t.Fatalf("Salience: %v", err)
	}
	if !isclose(got, 2*0.3923900) {
		t.Errorf("weighted salience = %v, want %v", got, 2*0.3923900)
	}
}

func TestSalienceErrors(t *testing.T) {
	m := learnedTrials(t)
	mustSet(t, m.SetSimilarity([]string{"r", "h"}, sqrtSim(16), 1))

	if _, err := m.Salience("r", 2); err == nil {
		t.Error("salience without a blend trace should fail")
	}
	mustBlend(t, m, "v", trialProbe)
	if _, err := m.Salience("r", 2); !errors.Is(err, ErrUndefinedDerivative) {
		t.Errorf("salience without a derivative = %v, want ErrUndefinedDerivative", err)
	}
	mustSet(t, m.SetDerivative([]string{"r", "h"}, sqrtSimDeriv(16)))
	if _, err := m.Salience("v", 2); !errors.Is(err, ErrUndefinedDerivative) {
		t.Errorf("salience of attribute without similarity = %v, want ErrUndefinedDerivative", err)
	}

	// probing at a learned value hits the undefined point; the default
	// policy substitutes zero, the strict one surfaces the error
	if _, err := m.Salience("r", 1); err != nil {
		t.Errorf("salience at learned value under zero policy = %v", err)
	}
	mustSet(t, m.SetDerivativePolicy(DerivativeError))
	if _, err := m.Salience("r", 1); !errors.Is(err, ErrUndefinedDerivative) {
		t.Errorf("salience at learned value under strict policy = %v, want ErrUndefinedDerivative", err)
	}

	// a blend without partial matching has no mismatch term to perturb
	m2 := quiet(t)
	mustLearn(t, m2, map[string]any{"r": 1, "v": 5}, 1)
	m2.EnableActivationHistory()
	mustBlend(t, m2, "v", nil)
	if _, err := m2.Salience("r", 2); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("salience after unpenalized blend = %v, want ErrInvalidParameter", err)
	}
}
