package pool

import (
	"math/rand"

	"github.com/wildfunctions/formula/pkg/expr"
)

// MutationType identifies a kind of mutation.
type MutationType int

const (
	MutPoint        MutationType = iota // replace a leaf, operator, or function kind
	MutSubtree                          // replace a random subtree with a new random tree
	MutHoist                            // replace the tree with one of its subtrees
	MutConstPerturb                     // adjust a constant by ±1-3
	MutGrow                             // wrap a node in a new operation
	MutShrink                           // replace a node with one of its children

	numMutations
)

const maxMutationDepth = 3

// Mutate returns a randomly mutated copy of root. root itself is not
// modified.
func Mutate(root expr.Operation, p Pool, rng *rand.Rand) expr.Operation {
	return MutateWith(MutationType(rng.Intn(int(numMutations))), root, p, rng)
}

// MutateWith applies one mutation of the given type to a copy of root.
func MutateWith(mut MutationType, root expr.Operation, p Pool, rng *rand.Rand) expr.Operation {
	root = root.Clone()
	switch mut {
	case MutPoint:
		return pointMutate(root, p, rng)
	case MutSubtree:
		return subtreeMutate(root, p, rng)
	case MutHoist:
		return hoistMutate(root, rng)
	case MutConstPerturb:
		return constPerturb(root, rng)
	case MutGrow:
		return growMutate(root, p, rng)
	case MutShrink:
		return shrinkMutate(root, rng)
	default:
		return root
	}
}

// pointMutate replaces a random node's operation (keeping children).
func pointMutate(root expr.Operation, p Pool, rng *rand.Rand) expr.Operation {
	nodes := collectNodes(&root)
	target := nodes[rng.Intn(len(nodes))]

	switch n := (*target).(type) {
	case *expr.IntegerConstant, *expr.FloatingPointConstant, *expr.Variable:
		*target = p.RandomLeaf(rng)
	case *expr.BinaryNode:
		n.Op = p.RandomBinary(rng)
	case *expr.FunctionNode:
		// Only swap for a kind that takes the same arguments.
		if kind, ok := p.RandomFunction(rng); ok && kind.Arity() == len(n.Args) {
			n.Kind = kind
		}
	}
	return root
}

// subtreeMutate replaces a random subtree with a new random tree.
func subtreeMutate(root expr.Operation, p Pool, rng *rand.Rand) expr.Operation {
	nodes := collectNodes(&root)
	*nodes[rng.Intn(len(nodes))] = p.RandomTree(rng, maxMutationDepth)
	return root
}

// hoistMutate replaces the tree with one of its subtrees.
func hoistMutate(root expr.Operation, rng *rand.Rand) expr.Operation {
	nodes := collectNodes(&root)
	return *nodes[rng.Intn(len(nodes))]
}

// constPerturb adjusts a random constant by ±1 to ±3.
func constPerturb(root expr.Operation, rng *rand.Rand) expr.Operation {
	var consts []*expr.Operation
	for _, n := range collectNodes(&root) {
		switch (*n).(type) {
		case *expr.IntegerConstant, *expr.FloatingPointConstant:
			consts = append(consts, n)
		}
	}
	if len(consts) == 0 {
		return root
	}

	delta := int64(rng.Intn(3) + 1)
	if rng.Float64() < 0.5 {
		delta = -delta
	}
	switch c := (*consts[rng.Intn(len(consts))]).(type) {
	case *expr.IntegerConstant:
		c.Value += delta
	case *expr.FloatingPointConstant:
		c.Value += float64(delta)
	}
	return root
}

// growMutate wraps a random node in a new function call or binary operation.
func growMutate(root expr.Operation, p Pool, rng *rand.Rand) expr.Operation {
	nodes := collectNodes(&root)
	target := nodes[rng.Intn(len(nodes))]
	old := *target

	if kind, ok := p.RandomFunction(rng); ok && rng.Float64() < 0.5 {
		args := []expr.Operation{old}
		for len(args) < kind.Arity() {
			args = append(args, p.RandomLeaf(rng))
		}
		*target = expr.Call(kind, args...)
		return root
	}
	if rng.Float64() < 0.5 {
		*target = &expr.BinaryNode{Op: p.RandomBinary(rng), Left: old, Right: p.RandomLeaf(rng)}
	} else {
		*target = &expr.BinaryNode{Op: p.RandomBinary(rng), Left: p.RandomLeaf(rng), Right: old}
	}
	return root
}

// shrinkMutate replaces a non-leaf node with one of its children.
func shrinkMutate(root expr.Operation, rng *rand.Rand) expr.Operation {
	nodes := collectNodes(&root)
	target := nodes[rng.Intn(len(nodes))]
	if children := childrenOf(*target); len(children) > 0 {
		*target = children[rng.Intn(len(children))]
	}
	return root
}

// Shrink greedily replaces nodes of tree with their children for as long as
// the result still satisfies keep, and returns the smallest tree found.
// tree itself is not modified.
func Shrink(tree expr.Operation, keep func(expr.Operation) bool) expr.Operation {
	best := tree.Clone()
	for shrunk := true; shrunk; {
		shrunk = false
	search:
		for i := range collectNodes(&best) {
			// Work on a fresh copy so rejected candidates leave best intact.
			for c := range childrenOf(*collectNodes(&best)[i]) {
				candidate := best.Clone()
				slot := collectNodes(&candidate)[i]
				*slot = childrenOf(*slot)[c]
				if keep(candidate) {
					best = candidate
					shrunk = true
					break search
				}
			}
		}
	}
	return best
}

func childrenOf(op expr.Operation) []expr.Operation {
	switch n := op.(type) {
	case *expr.BinaryNode:
		return []expr.Operation{n.Left, n.Right}
	case *expr.FunctionNode:
		return n.Args
	default:
		return nil
	}
}

// collectNodes returns pointers to every slot holding a node, root first,
// in evaluation order.
func collectNodes(root *expr.Operation) []*expr.Operation {
	var result []*expr.Operation
	collectNodesHelper(root, &result)
	return result
}

func collectNodesHelper(node *expr.Operation, result *[]*expr.Operation) {
	*result = append(*result, node)
	switch n := (*node).(type) {
	case *expr.BinaryNode:
		collectNodesHelper(&n.Left, result)
		collectNodesHelper(&n.Right, result)
	case *expr.FunctionNode:
		for i := range n.Args {
			collectNodesHelper(&n.Args[i], result)
		}
	}
}
