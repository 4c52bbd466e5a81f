// Copyright 2020 ConsenSys AG
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package circuit

import (
	"math/bits"
	"sort"

	"github.com/nume-crypto/zerok/dag"
	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/field"
)

// kind mirrors GateOp but also covers the input (witness leaf) case, which
// has no gate operation of its own.
type kind int

const (
	kInput kind = iota
	kAdd
	kMul
	kRelay
)

// internalNode is a compiler-private wire: either a witness leaf or a
// gate. Constant subtrees of the dag never become internalNodes — they are
// folded directly into the Operand of whichever gate consumes them, per
// the Design Notes decision recorded in DESIGN.md.
type internalNode struct {
	id        int
	kind      kind
	depth     int // leaf-based: 0 at witness leaves, increasing toward the root
	data      field.Element
	srcIndex  int // witness index, valid only for kInput
	left      operandRef
	right     operandRef
	layerIdx  int // dense index within its layer, assigned in layerize
}

// operandRef is the compiler-private twin of Operand: either a folded
// constant or a reference to another internalNode (resolved to a concrete
// Operand.WireIndex once layer indices are assigned).
type operandRef struct {
	isConst bool
	constV  field.Element
	node    *internalNode
}

type relayKey struct {
	v     *dag.Value
	depth int
}

type compiler struct {
	depthOf   map[*dag.Value]int
	canonical map[*dag.Value]*internalNode
	relays    map[relayKey]*internalNode
	nextID    int
	f         field.Field
}

// Compile implements spec §4.3's five-step layering algorithm: depth
// assignment, relay-chain insertion with structural dedup, dense per-layer
// indexing, power-of-two padding, and witness vector extraction.
//
// ctx pins the arithmetization mode: RELAY gates and padding gates need the
// mode's own encoding of 0 and 1 (e.g. FLOAT_SYMMETRIC's quantize(1) is not
// the raw field element 1), so they stay consistent with the rest of the
// circuit's values. A nil ctx uses the process-wide active mode.
//
// It returns the layered circuit and the witness vector in witness-index
// order.
func Compile(root *dag.Value, witness dag.Witness, ctx *field.Context) (*Circuit, dag.Witness, error) {
	if root == nil {
		return nil, nil, errs.New(errs.CircuitShape, "circuit.Compile", "nil root")
	}

	c := &compiler{
		depthOf:   make(map[*dag.Value]int),
		canonical: make(map[*dag.Value]*internalNode),
		relays:    make(map[relayKey]*internalNode),
		f:         ctx.Field(),
	}

	if root.IsConstant {
		// Degenerate case: the whole expression folds to a constant. A
		// single-layer circuit with one ADD gate over two constant
		// operands still satisfies I2 (root present exactly once at
		// depth 0) without requiring an input layer.
		zero := c.f.Zero()
		gate := Gate{Op: OpAdd, Left: Operand{IsConst: true, ConstValue: root.Data}, Right: Operand{IsConst: true, ConstValue: zero}, Value: root.Data}
		return &Circuit{Layers: []Layer{{Gates: []Gate{gate}, BitLength: 0}}}, nil, nil
	}

	c.computeDepth(root)
	maxDepth := c.depthOf[root]

	rootNode := c.canonicalNode(root)

	nodesByDepth := make(map[int][]*internalNode)
	seen := make(map[*internalNode]bool)
	var collect func(n *internalNode)
	collect = func(n *internalNode) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		nodesByDepth[n.depth] = append(nodesByDepth[n.depth], n)
		if !n.left.isConst {
			collect(n.left.node)
		}
		if !n.right.isConst {
			collect(n.right.node)
		}
	}
	collect(rootNode)

	layers := make([]Layer, maxDepth+1)
	for depth := 0; depth <= maxDepth; depth++ {
		layerIdx := maxDepth - depth
		nodes := nodesByDepth[depth]
		if depth == 0 {
			sort.Slice(nodes, func(i, j int) bool { return nodes[i].srcIndex < nodes[j].srcIndex })
		} else {
			sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
		}
		for i, n := range nodes {
			n.layerIdx = i
		}
		layers[layerIdx] = c.buildLayer(depth, nodes)
	}

	circ := &Circuit{Layers: layers}
	return circ, witness, nil
}

// computeDepth assigns v (and every non-constant node reachable from it)
// its leaf-based depth, memoised by pointer identity so a node reached
// through multiple paths is visited once, per step 1 of spec §4.3.
func (c *compiler) computeDepth(v *dag.Value) int {
	if d, ok := c.depthOf[v]; ok {
		return d
	}
	var d int
	switch v.Op {
	case dag.OpVar:
		d = 0
	case dag.OpAdd, dag.OpMul:
		d = 0
		if !v.Left.IsConstant {
			ld := c.computeDepth(v.Left)
			if ld+1 > d {
				d = ld + 1
			}
		}
		if !v.Right.IsConstant {
			rd := c.computeDepth(v.Right)
			if rd+1 > d {
				d = rd + 1
			}
		}
	default:
		d = 0
	}
	c.depthOf[v] = d
	return d
}

// canonicalNode builds (once) the internalNode for v at its own intrinsic
// depth, recursing into its non-constant operands via liftTo.
func (c *compiler) canonicalNode(v *dag.Value) *internalNode {
	if n, ok := c.canonical[v]; ok {
		return n
	}
	n := &internalNode{id: c.nextID, data: v.Data}
	c.nextID++
	switch v.Op {
	case dag.OpVar:
		n.kind = kInput
		n.depth = 0
		n.srcIndex = v.Index
	case dag.OpAdd, dag.OpMul:
		d := c.depthOf[v]
		n.depth = d
		if v.Op == dag.OpAdd {
			n.kind = kAdd
		} else {
			n.kind = kMul
		}
		n.left = c.operandFor(v.Left, d-1)
		n.right = c.operandFor(v.Right, d-1)
	}
	c.canonical[v] = n
	return n
}

// operandFor resolves child as an operand of a gate at depth targetDepth+1:
// a constant subtree folds in directly with no wire; otherwise child is
// lifted (via relay chain if needed) to targetDepth.
func (c *compiler) operandFor(child *dag.Value, targetDepth int) operandRef {
	if child.IsConstant {
		return operandRef{isConst: true, constV: child.Data}
	}
	return operandRef{node: c.liftTo(child, targetDepth)}
}

// liftTo returns the internalNode representing v's value at exactly
// targetDepth, inserting a chain of RELAY gates if v's intrinsic depth is
// shallower. Relay chains for the same (source, depth) pair are shared, per
// spec step 2's structural dedup requirement.
func (c *compiler) liftTo(v *dag.Value, targetDepth int) *internalNode {
	key := relayKey{v: v, depth: targetDepth}
	if n, ok := c.relays[key]; ok {
		return n
	}

	intrinsic := c.depthOf[v]
	var n *internalNode
	if intrinsic == targetDepth {
		n = c.canonicalNode(v)
	} else if intrinsic > targetDepth {
		// Every operand must live strictly deeper than its consumer
		// (invariant a); a gate can only ever request an operand at a
		// depth below its own, so this cannot occur for a well-formed
		// DAG produced by dag.Builder.
		n = c.canonicalNode(v)
	} else {
		inner := c.liftTo(v, targetDepth-1)
		n = &internalNode{
			id:    c.nextID,
			kind:  kRelay,
			depth: targetDepth,
			data:  inner.data,
			left:  operandRef{node: inner},
			right: operandRef{isConst: true, constV: c.f.One()},
		}
		c.nextID++
	}
	c.relays[key] = n
	return n
}

// buildLayer renders the internalNodes at a given depth into a padded,
// dense Layer. depth 0 (witness leaves) becomes the Inputs-bearing layer;
// every other depth becomes a Gates-bearing layer referencing the next
// deeper layer's dense indices, which were assigned in the previous
// iteration of Compile's depth loop, since that loop runs from depth 0
// (the leaves) toward the root.
func (c *compiler) buildLayer(depth int, nodes []*internalNode) Layer {
	if depth == 0 {
		inputs := make([]field.Element, nextPow2(len(nodes)))
		zero := c.f.Zero()
		for i := range inputs {
			inputs[i] = zero
		}
		for _, n := range nodes {
			inputs[n.layerIdx] = n.data
		}
		return Layer{Inputs: inputs, BitLength: log2(len(inputs))}
	}

	padded := nextPow2(len(nodes))
	gates := make([]Gate, padded)
	for i, n := range nodes {
		gates[i] = Gate{
			Op:    gateOpFor(n.kind),
			Left:  resolveOperand(n.left),
			Right: resolveOperand(n.right),
			Value: n.data,
		}
	}
	zero := c.f.Zero()
	for i := len(nodes); i < padded; i++ {
		gates[i] = Gate{
			Op:    OpMul,
			Left:  Operand{WireIndex: 0},
			Right: Operand{IsConst: true, ConstValue: zero},
			Value: zero,
		}
	}
	return Layer{Gates: gates, BitLength: log2(padded)}
}

func resolveOperand(ref operandRef) Operand {
	if ref.isConst {
		return Operand{IsConst: true, ConstValue: ref.constV}
	}
	return Operand{WireIndex: ref.node.layerIdx}
}

func gateOpFor(k kind) GateOp {
	switch k {
	case kAdd:
		return OpAdd
	case kMul:
		return OpMul
	case kRelay:
		return OpRelay
	default:
		return OpAdd
	}
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func log2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}
