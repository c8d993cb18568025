package engine

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/formula/pkg/expr"
)

// ParseBinding converts loosely typed values (ints, floats, numeric
// strings) into a Binding.
func ParseBinding(raw map[string]interface{}) (expr.Binding, error) {
	vars := make(expr.Binding, len(raw))
	for name, v := range raw {
		if v == nil {
			return nil, errors.Errorf("variable %q has no value", name)
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %q", name)
		}
		vars[name] = f
	}
	return vars, nil
}

// ParseAssignment splits a "name=value" command-line assignment.
func ParseAssignment(s string) (string, float64, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", 0, errors.Errorf("malformed assignment %q (want name=value)", s)
	}
	f, err := cast.ToFloat64E(strings.TrimSpace(value))
	if err != nil {
		return "", 0, errors.Wrapf(err, "variable %q", name)
	}
	return name, f, nil
}

// ParseAssignments merges a list of "name=value" assignments over base.
// base is not modified.
func ParseAssignments(base expr.Binding, assignments []string) (expr.Binding, error) {
	vars := make(expr.Binding, len(base)+len(assignments))
	for k, v := range base {
		vars[k] = v
	}
	for _, a := range assignments {
		name, f, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		vars[name] = f
	}
	return vars, nil
}

// DecodeBindings reads a YAML or JSON list of bindings.
func DecodeBindings(data []byte) ([]expr.Binding, error) {
	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding bindings")
	}
	bindings := make([]expr.Binding, len(raw))
	for i, r := range raw {
		vars, err := ParseBinding(r)
		if err != nil {
			return nil, errors.Wrapf(err, "binding %d", i)
		}
		bindings[i] = vars
	}
	return bindings, nil
}

// LoadBindings reads a bindings file.
func LoadBindings(path string) ([]expr.Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading bindings %s", path)
	}
	bindings, err := DecodeBindings(data)
	return bindings, errors.Wrapf(err, "%s", path)
}

// LoadOperation reads an operation tree document.
func LoadOperation(path string) (expr.Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading operation %s", path)
	}
	op, err := expr.Decode(data)
	return op, errors.Wrapf(err, "%s", path)
}
