package expr

import "sort"

// Binding maps variable names to values for one evaluation. Names are
// matched exactly and case-sensitively.
type Binding map[string]float64

// Lookup resolves name, failing with *VariableNotDefinedError if absent.
func (b Binding) Lookup(name string) (float64, error) {
	v, ok := b[name]
	if !ok {
		return 0, &VariableNotDefinedError{Name: name}
	}
	return v, nil
}

// Names returns the bound names in sorted order.
func (b Binding) Names() []string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// WidenInts converts an integer binding to a Binding.
func WidenInts(vars map[string]int) Binding {
	b := make(Binding, len(vars))
	for k, v := range vars {
		b[k] = float64(v)
	}
	return b
}
