package paramspace

// State is a complete assignment of values to all tunable parameters: a
// mapping from parameter name to its string-encoded value. Two states are
// equal iff every parameter maps to the same value.
type State map[string]string

// Clone returns an independent copy so State can be handed between workers
// by value without aliasing the backing map.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether s and other assign the same value to every key.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// With returns a clone of s with name set to value, leaving s untouched.
func (s State) With(name, value string) State {
	out := s.Clone()
	out[name] = value
	return out
}
