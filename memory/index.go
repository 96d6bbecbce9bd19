package memory

import "strings"

// The optional index maps the value tuple over a declared set of attributes
// to the chunks sharing those exact values. Retrieval consults it when
// every indexed attribute appears in the probe as an exact-match condition;
// otherwise candidates are scanned linearly.

// Index returns the indexed attribute names, nil when no index is declared.
func (m *Memory) Index() []string {
	if len(m.indexAttrs) == 0 {
		return nil
	}
	out := make([]string, len(m.indexAttrs))
	copy(out, m.indexAttrs)
	return out
}

// SetIndex declares the attributes to index, rebuilding the index over the
// chunks already held. An empty list removes the index.
func (m *Memory) SetIndex(attrs ...string) {
	m.indexAttrs = append([]string(nil), attrs...)
	if len(attrs) == 0 {
		m.indexed = nil
		return
	}
	m.indexed = make(map[string][]*Chunk)
	for _, c := range m.order {
		m.indexInsert(c)
	}
}

// indexKeyFor builds the index key over the given attribute lookup; the
// second return is false when some indexed attribute is missing.
func (m *Memory) indexKeyFor(get func(string) (any, bool)) (string, bool) {
	var b strings.Builder
	for i, a := range m.indexAttrs {
		v, ok := get(a)
		if !ok {
			return "", false
		}
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(valueKey(v))
	}
	return b.String(), true
}

func (m *Memory) indexInsert(c *Chunk) {
	if m.indexed == nil {
		return
	}
	key, ok := m.indexKeyFor(c.Get)
	if !ok {
		return
	}
	m.indexed[key] = append(m.indexed[key], c)
}

func (m *Memory) indexRemove(c *Chunk) {
	if m.indexed == nil {
		return
	}
	key, ok := m.indexKeyFor(c.Get)
	if !ok {
		return
	}
	bucket := m.indexed[key]
	for i, other := range bucket {
		if other == c {
			m.indexed[key] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(m.indexed[key]) == 0 {
		delete(m.indexed, key)
	}
}

// indexCandidates returns the chunks to scan for the given probe: the
// index bucket when the probe pins every indexed attribute exactly, the
// full insertion-ordered chunk list otherwise. The probe pins an attribute
// exactly when partial matching does not apply to it.
func (m *Memory) indexCandidates(probe map[string]any) []*Chunk {
	if m.indexed == nil || len(m.indexAttrs) == 0 {
		return m.order
	}
	for _, a := range m.indexAttrs {
		if _, ok := probe[a]; !ok {
			return m.order
		}
		if m.mismatchSet && m.sims[a] != nil {
			return m.order
		}
	}
	key, ok := m.indexKeyFor(func(a string) (any, bool) {
		v, ok := probe[a]
		return v, ok
	})
	if !ok {
		return m.order
	}
	return m.indexed[key]
}
