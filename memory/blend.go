package memory

import (
	"fmt"
	"math"
)

// Blend returns the probability-weighted average of outputAttr over the
// chunks matching the probe, weighting each eligible candidate by
// exp(activation / temperature). The second return is false when no
// candidate matches or every candidate falls below the threshold.
func (m *Memory) Blend(outputAttr string, probe map[string]any) (float64, bool, error) {
	if outputAttr == "" {
		return 0, false, fmt.Errorf("blend: empty output attribute: %w", ErrInvalidParameter)
	}
	temperature, err := m.blendTemperature()
	if err != nil {
		return 0, false, fmt.Errorf("blend: %w", err)
	}
	candidates, err := m.matchCandidates(probe)
	if err != nil {
		return 0, false, fmt.Errorf("blend: %w", err)
	}
	if len(candidates) == 0 {
		return 0, false, nil
	}

	type member struct {
		index   int // into records
		chunk   *Chunk
		weight  float64
		outcome float64
	}
	records := make([]Record, 0, len(candidates))
	var members []member
	seen := false
	for i := range candidates {
		c := &candidates[i]
		outcome, ok := c.chunk.attrs[outputAttr]
		if !ok {
			continue
		}
		seen = true
		value, ok := numericValue(outcome)
		if !ok {
			return 0, false, fmt.Errorf("blend: chunk %s value %v of %q is not numeric: %w",
				c.chunk.name, outcome, outputAttr, ErrNonNumericBlend)
		}
		if m.thresholdSet && c.activation < m.threshold {
			c.record.Eligible = false
			records = append(records, c.record)
			continue
		}
		members = append(members, member{
			index:   len(records),
			chunk:   c.chunk,
			weight:  math.Exp(c.activation / temperature),
			outcome: value,
		})
		records = append(records, c.record)
	}
	if !seen {
		return 0, false, fmt.Errorf("blend: no candidate has attribute %q: %w", outputAttr, ErrUnknownAttribute)
	}
	if len(members) == 0 {
		return 0, false, nil
	}

	total := 0.0
	for _, mem := range members {
		total += mem.weight
	}
	blended := 0.0
	trace := &blendTrace{outputAttr: outputAttr, mismatch: m.mismatch, mismatchSet: m.mismatchSet}
	for _, mem := range members {
		p := mem.weight / total
		blended += p * mem.outcome
		records[mem.index].RetrievalProbability = p
		records[mem.index].HasProbability = true
		trace.entries = append(trace.entries, blendEntry{
			chunk:       mem.chunk,
			probability: p,
			outcome:     mem.outcome,
		})
	}
	m.appendHistory(records)
	if m.recording {
		m.lastBlend = trace
	}
	return blended, true, nil
}

// DiscreteBlend returns the value of outputAttr whose holders jointly
// capture the greatest retrieval probability among the chunks matching the
// probe. The output values need not be numeric. Ties are broken uniformly
// at random; the second return is false when nothing matches.
func (m *Memory) DiscreteBlend(outputAttr string, probe map[string]any) (any, bool, error) {
	if outputAttr == "" {
		return nil, false, fmt.Errorf("discrete blend: empty output attribute: %w", ErrInvalidParameter)
	}
	temperature, err := m.blendTemperature()
	if err != nil {
		return nil, false, fmt.Errorf("discrete blend: %w", err)
	}
	candidates, err := m.matchCandidates(probe)
	if err != nil {
		return nil, false, fmt.Errorf("discrete blend: %w", err)
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}

	records := make([]Record, 0, len(candidates))
	masses := make(map[string]float64)
	values := make(map[string]any)
	keys := []string{} // first-seen order, for deterministic tie pools
	total := 0.0
	seen := false
	for i := range candidates {
		c := &candidates[i]
		outcome, ok := c.chunk.attrs[outputAttr]
		if !ok {
			continue
		}
		seen = true
		if m.thresholdSet && c.activation < m.threshold {
			c.record.Eligible = false
			records = append(records, c.record)
			continue
		}
		w := math.Exp(c.activation / temperature)
		key := valueKey(outcome)
		if _, ok := masses[key]; !ok {
			keys = append(keys, key)
			values[key] = outcome
		}
		masses[key] += w
		total += w
		records = append(records, c.record)
	}
	if !seen {
		return nil, false, fmt.Errorf("discrete blend: no candidate has attribute %q: %w", outputAttr, ErrUnknownAttribute)
	}
	if total == 0 || len(keys) == 0 {
		return nil, false, nil
	}
	m.appendHistory(records)

	var ties []string
	bestMass := math.Inf(-1)
	for _, key := range keys {
		switch mass := masses[key]; {
		case mass > bestMass:
			ties = ties[:0]
			ties = append(ties, key)
			bestMass = mass
		case mass == bestMass:
			ties = append(ties, key)
		}
	}
	return values[ties[m.rng.Intn(len(ties))]], true, nil
}

// BestBlend blends outputAttr once per choice, constraining choiceAttr to
// that choice merged over any additional probe, and returns the choice with
// the greatest blended value along with that value. Choices with no
// eligible candidates are skipped; ties are broken uniformly at random. The
// third return is false when no choice yields a blended value.
func (m *Memory) BestBlend(outputAttr string, choices []any, choiceAttr string, probe map[string]any) (any, float64, bool, error) {
	if choiceAttr == "" {
		return nil, 0, false, fmt.Errorf("best blend: empty choice attribute: %w", ErrInvalidParameter)
	}
	if len(choices) == 0 {
		return nil, 0, false, nil
	}
	var ties []any
	bestValue := math.Inf(-1)
	for _, choice := range choices {
		merged := make(map[string]any, len(probe)+1)
		for k, v := range probe {
			merged[k] = v
		}
		merged[choiceAttr] = choice
		value, ok, err := m.Blend(outputAttr, merged)
		if err != nil {
			return nil, 0, false, fmt.Errorf("best blend: choice %v: %w", choice, err)
		}
		if !ok {
			continue
		}
		switch {
		case len(ties) == 0 || value > bestValue:
			ties = ties[:0]
			ties = append(ties, choice)
			bestValue = value
		case value == bestValue:
			ties = append(ties, choice)
		}
	}
	if len(ties) == 0 {
		return nil, 0, false, nil
	}
	return ties[m.rng.Intn(len(ties))], bestValue, true, nil
}
