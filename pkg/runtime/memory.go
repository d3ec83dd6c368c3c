package runtime

import "sort"

// Memory maps variable names to numeric readings. It is owned by exactly one
// Context; conditionals and logging read it, Sense instructions write it.
type Memory struct {
	values map[string]float64
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]float64)}
}

// Set inserts or replaces a reading.
func (m *Memory) Set(name string, value float64) {
	m.values[name] = value
}

// Reading returns the stored value and whether the name is bound.
func (m *Memory) Reading(name string) (float64, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *Memory) Len() int {
	return len(m.values)
}

// Clear drops every binding; used on context reset.
func (m *Memory) Clear() {
	m.values = make(map[string]float64)
}

// Keys returns the bound names in sorted order (useful for determinism in tests).
func (m *Memory) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current bindings.
func (m *Memory) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
