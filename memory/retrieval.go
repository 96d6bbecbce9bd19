package memory

import (
	"fmt"
	"sort"
)

// A candidate is a chunk that survived probe filtering, with its computed
// activation and the record describing the computation.
type candidate struct {
	chunk      *Chunk
	activation float64
	record     Record
}

// matchCandidates filters the store against the probe and computes each
// survivor's activation. Chunks missing a probe attribute are skipped;
// probe attributes without partial matching must match exactly. The probe
// may be nil or empty, matching every chunk.
func (m *Memory) matchCandidates(probe map[string]any) ([]candidate, error) {
	normalized, err := normalizeProbe(probe)
	if err != nil {
		return nil, err
	}

	// Partition the probe: attributes with a similarity function are
	// partially matched when the mismatch penalty is enabled, the rest
	// must match exactly.
	var exact, partial []string
	for a := range normalized {
		if m.mismatchSet && m.sims[a] != nil {
			partial = append(partial, a)
		} else {
			exact = append(exact, a)
		}
	}
	sort.Strings(exact)
	sort.Strings(partial)

	var out []candidate
scan:
	for _, chunk := range m.indexCandidates(normalized) {
		for a := range normalized {
			if _, ok := chunk.attrs[a]; !ok {
				continue scan
			}
		}
		for _, a := range exact {
			if chunk.attrs[a] != normalized[a] {
				continue scan
			}
		}
		penalty := 0.0
		for _, a := range partial {
			s, ok, err := m.similarity(normalized[a], chunk.attrs[a], a)
			if err != nil {
				return nil, err
			}
			if !ok {
				// unreachable: partial attributes have similarity functions
				continue
			}
			penalty += m.similarityWeight(a) * (s - 1)
		}
		if m.mismatchSet {
			penalty *= m.mismatch
		}
		base, err := m.baseActivation(chunk)
		if err != nil {
			return nil, err
		}
		noise := m.sampleNoise(chunk)
		activation := base + noise + penalty
		out = append(out, candidate{
			chunk:      chunk,
			activation: activation,
			record: Record{
				Name:           chunk.name,
				Attributes:     chunk.Attributes(),
				CreationTime:   chunk.creation,
				References:     chunk.References(),
				ReferenceCount: len(chunk.references),
				BaseActivation: base,
				Noise:          noise,
				Mismatch:       penalty,
				Activation:     activation,
				Eligible:       true,
			},
		})
	}
	return out, nil
}

func normalizeProbe(probe map[string]any) (map[string]any, error) {
	if len(probe) == 0 {
		return nil, nil
	}
	normalized, err := normalizeAttributes(probe)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	return normalized, nil
}

// Retrieve returns the chunk matching the probe with the highest activation
// at or above the threshold, or nil when there is none. Ties are broken
// uniformly at random. When rehearse is true the retrieved chunk is
// reinforced at the current time.
func (m *Memory) Retrieve(probe map[string]any, rehearse bool) (*Chunk, error) {
	candidates, err := m.matchCandidates(probe)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	records := make([]Record, 0, len(candidates))
	var best []*Chunk
	bestActivation := 0.0
	for i := range candidates {
		c := &candidates[i]
		if m.thresholdSet && c.activation < m.threshold {
			c.record.Eligible = false
			records = append(records, c.record)
			continue
		}
		switch {
		case len(best) == 0 || c.activation > bestActivation:
			best = best[:0]
			best = append(best, c.chunk)
			bestActivation = c.activation
		case c.activation == bestActivation:
			best = append(best, c.chunk)
		}
		records = append(records, c.record)
	}
	m.appendHistory(records)
	if len(best) == 0 {
		return nil, nil
	}
	chosen := best[m.rng.Intn(len(best))]
	if rehearse {
		chosen.cite(m.time)
	}
	return chosen, nil
}
