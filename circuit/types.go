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

// Package circuit implements the layering compiler of spec §4.3: it turns a
// dag.Value expression tree into a strictly-layered arithmetic circuit that
// the gkr package can run sum-check over.
package circuit

import "github.com/nume-crypto/zerok/field"

// GateOp tags a gate's role, per spec §3. RELAY is a degenerate MUL-by-one
// gate used to bridge a value from a deeper layer to a shallower one.
type GateOp int

const (
	OpAdd GateOp = iota
	OpMul
	OpRelay
)

func (o GateOp) String() string {
	switch o {
	case OpAdd:
		return "ADD"
	case OpMul:
		return "MUL"
	case OpRelay:
		return "RELAY"
	default:
		return "UNKNOWN"
	}
}

// Operand references one input to a gate. A constant operand (e.g. the "1"
// in a RELAY, or a folded scalar from the DAG) carries its value inline and
// has no wire into the next layer; a wire operand indexes into the next
// deeper layer's Gates (or Inputs, for the layer above the input layer).
type Operand struct {
	IsConst    bool
	ConstValue field.Element
	WireIndex  int
}

// Gate is one node of a layer: an operation over two Operands, plus its
// evaluated Value (cached for witness extraction, dedup, and tests).
type Gate struct {
	Op    GateOp
	Left  Operand
	Right Operand
	Value field.Element
}

// Layer is one depth-slice of the circuit. The deepest layer (the last
// element of Circuit.Layers) is the input layer: its Inputs field holds the
// witness leaves in witness order, padded with zero elements; its Gates
// field is empty. Every other layer's Gates field is dense and
// power-of-two-padded, per spec invariants (c)/(d).
type Layer struct {
	Gates     []Gate
	Inputs    []field.Element
	BitLength int
}

// Size returns the padded width of the layer.
func (l Layer) Size() int {
	if l.Inputs != nil {
		return len(l.Inputs)
	}
	return len(l.Gates)
}

// IsInputLayer reports whether l is the deepest (witness) layer.
func (l Layer) IsInputLayer() bool { return l.Inputs != nil }

// Circuit is the layered circuit of spec §3: Layers[0] is the output layer,
// Layers[len-1] is the input layer.
type Circuit struct {
	Layers []Layer
}

// Depth returns the number of layers.
func (c *Circuit) Depth() int { return len(c.Layers) }

// Output returns the single value at the root of the output layer. Layer 0
// always has exactly one real gate at index 0 once padding is excluded from
// consideration for evaluation purposes; padding never perturbs index 0.
func (c *Circuit) Output() field.Element {
	l := c.Layers[0]
	if l.IsInputLayer() {
		return l.Inputs[0]
	}
	return l.Gates[0].Value
}
