package expr

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Node tags used in YAML/JSON tree documents.
const (
	tagInt   = "int"
	tagFloat = "float"
	tagVar   = "var"
	tagFn    = "fn"
)

var binaryTags = map[string]BinaryOp{
	"add": OpAdd,
	"sub": OpSub,
	"mul": OpMul,
	"div": OpDiv,
	"pow": OpPow,
}

// document is the serialized form of one node.
type document struct {
	Op    string      `yaml:"op"`
	Value yaml.Node   `yaml:"value,omitempty"`
	Name  string      `yaml:"name,omitempty"`
	Func  string      `yaml:"func,omitempty"`
	Left  *document   `yaml:"left,omitempty"`
	Right *document   `yaml:"right,omitempty"`
	Args  []*document `yaml:"args,omitempty"`
}

// Decode reads an Operation tree from a YAML or JSON document.
func Decode(data []byte) (Operation, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding operation document")
	}
	return doc.operation("root")
}

// Encode writes node as a YAML document that Decode accepts.
func Encode(node Operation) ([]byte, error) {
	doc, err := newDocument(node)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

func (d *document) operation(path string) (Operation, error) {
	if d == nil {
		return nil, errors.Wrapf(ErrNullOperation, "%s", path)
	}

	switch d.Op {
	case tagInt:
		var v int64
		if err := d.decodeValue(path, &v); err != nil {
			return nil, err
		}
		return &IntegerConstant{Value: v}, nil

	case tagFloat:
		var v float64
		if err := d.decodeValue(path, &v); err != nil {
			return nil, err
		}
		return &FloatingPointConstant{Value: v}, nil

	case tagVar:
		if d.Name == "" {
			return nil, errors.Errorf("%s: variable has no name", path)
		}
		return &Variable{Name: d.Name}, nil

	case tagFn:
		kind, ok := ParseFunctionKind(d.Func)
		if !ok {
			return nil, errors.Wrapf(&UnsupportedOperationError{Kind: "fn:" + d.Func}, "%s", path)
		}
		args := make([]Operation, len(d.Args))
		for i, a := range d.Args {
			arg, err := a.operation(path + "." + d.Func + "[" + strconv.Itoa(i) + "]")
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &FunctionNode{Kind: kind, Args: args}, nil
	}

	op, ok := binaryTags[d.Op]
	if !ok {
		return nil, errors.Wrapf(&UnsupportedOperationError{Kind: d.Op}, "%s", path)
	}
	left, err := d.Left.operation(path + "." + d.Op + ".left")
	if err != nil {
		return nil, err
	}
	right, err := d.Right.operation(path + "." + d.Op + ".right")
	if err != nil {
		return nil, err
	}
	return &BinaryNode{Op: op, Left: left, Right: right}, nil
}

func (d *document) decodeValue(path string, out interface{}) error {
	if d.Value.Kind == 0 {
		return errors.Errorf("%s: %s node has no value", path, d.Op)
	}
	// yaml truncates floats into integers, so int values must be tagged !!int.
	switch tag := d.Value.ShortTag(); {
	case d.Op == tagInt && tag != "!!int",
		d.Op == tagFloat && tag != "!!int" && tag != "!!float":
		return errors.Errorf("%s: %s value %q is not a number of that kind", path, d.Op, d.Value.Value)
	}
	return errors.Wrapf(d.Value.Decode(out), "%s: %s value", path, d.Op)
}

func newDocument(node Operation) (*document, error) {
	if IsNil(node) {
		return nil, ErrNullOperation
	}

	switch n := node.(type) {
	case *IntegerConstant:
		return valueDocument(tagInt, n.Value)
	case *FloatingPointConstant:
		doc, err := valueDocument(tagFloat, n.Value)
		if err == nil && n.Value == 0 && math.Signbit(n.Value) {
			// A bare -0 resolves as the integer 0.
			doc.Value.Value = "-0.0"
		}
		return doc, err
	case *Variable:
		return &document{Op: tagVar, Name: n.Name}, nil
	case *BinaryNode:
		var tag string
		for t, op := range binaryTags {
			if op == n.Op {
				tag = t
			}
		}
		if tag == "" {
			return nil, &UnsupportedOperationError{Kind: n.Op.String()}
		}
		left, err := newDocument(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := newDocument(n.Right)
		if err != nil {
			return nil, err
		}
		return &document{Op: tag, Left: left, Right: right}, nil
	case *FunctionNode:
		if n.Kind.Arity() < 0 {
			return nil, &UnsupportedFunctionError{Kind: n.Kind}
		}
		doc := &document{Op: tagFn, Func: n.Kind.String()}
		for _, a := range n.Args {
			arg, err := newDocument(a)
			if err != nil {
				return nil, err
			}
			doc.Args = append(doc.Args, arg)
		}
		return doc, nil
	default:
		return nil, &UnsupportedOperationError{Kind: fmt.Sprintf("%T", node)}
	}
}

func valueDocument(tag string, v interface{}) (*document, error) {
	var value yaml.Node
	if err := value.Encode(v); err != nil {
		return nil, errors.Wrapf(err, "encoding %s value", tag)
	}
	return &document{Op: tag, Value: value}, nil
}
