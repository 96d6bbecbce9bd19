package memory

import (
	"fmt"
	"sort"
	"strings"
)

// Chunk is a learned experience: an immutable attribute-value mapping plus
// the times at which it has been reinforced. Chunks are created by
// Memory.Learn and identified by their attribute contents; relearning the
// same contents reinforces the existing chunk.
type Chunk struct {
	name       string
	attrs      map[string]any
	attrNames  []string // sorted, for deterministic rendering
	creation   float64
	references []float64 // non-decreasing
}

func newChunk(name string, attrs map[string]any, creation float64) *Chunk {
	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return &Chunk{
		name:      name,
		attrs:     attrs,
		attrNames: names,
		creation:  creation,
	}
}

// Name returns the chunk's identity, a zero-padded ordinal assigned when
// the chunk was first learned.
func (c *Chunk) Name() string { return c.name }

// Get returns the value of the named attribute. Numeric values are always
// float64.
func (c *Chunk) Get(name string) (any, bool) {
	v, ok := c.attrs[name]
	return v, ok
}

// Attributes returns a copy of the chunk's attribute mapping.
func (c *Chunk) Attributes() map[string]any {
	out := make(map[string]any, len(c.attrs))
	for k, v := range c.attrs {
		out[k] = v
	}
	return out
}

// CreatedAt returns the time the chunk was first learned.
func (c *Chunk) CreatedAt() float64 { return c.creation }

// References returns a copy of the chunk's reinforcement times, sorted
// non-decreasingly.
func (c *Chunk) References() []float64 {
	out := make([]float64, len(c.references))
	copy(out, c.references)
	return out
}

// ReferenceCount returns how many times the chunk has been reinforced.
func (c *Chunk) ReferenceCount() int { return len(c.references) }

// cite appends a reinforcement at the given time, keeping the list sorted.
func (c *Chunk) cite(when float64) {
	i := sort.SearchFloat64s(c.references, when)
	for i < len(c.references) && c.references[i] == when {
		i++
	}
	c.references = append(c.references, 0)
	copy(c.references[i+1:], c.references[i:])
	c.references[i] = when
}

// uncite removes one reinforcement equal to the given time. Reports whether
// one was found.
func (c *Chunk) uncite(when float64) bool {
	i := sort.SearchFloat64s(c.references, when)
	if i >= len(c.references) || c.references[i] != when {
		return false
	}
	c.references = append(c.references[:i], c.references[i+1:]...)
	return true
}

func (c *Chunk) String() string {
	return fmt.Sprintf("<Chunk %s {%s} %d>", c.name, c.contents(), len(c.references))
}

func (c *Chunk) contents() string {
	parts := make([]string, 0, len(c.attrNames))
	for _, n := range c.attrNames {
		parts = append(parts, fmt.Sprintf("%s=%s", n, formatValue(c.attrs[n])))
	}
	return strings.Join(parts, ", ")
}
