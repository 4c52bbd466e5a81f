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

	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/field"
)

// Validate checks the structural invariants of spec §4.3 (I1, power-of-two
// sizing, and the operand-wiring rule) against an already-compiled Circuit.
// I3/I5 (value-level correctness) are exercised by package tests comparing
// against dag evaluation directly, since Validate has no access to the
// source dag.Value tree.
func Validate(c *Circuit) error {
	if c == nil || len(c.Layers) == 0 {
		return errs.New(errs.CircuitShape, "circuit.Validate", "empty circuit")
	}

	for i, l := range c.Layers {
		size := l.Size()
		if size&(size-1) != 0 {
			return errs.New(errs.CircuitShape, "circuit.Validate", "layer size not a power of two")
		}
		if l.BitLength != bits.Len(uint(size))-1 {
			return errs.New(errs.CircuitShape, "circuit.Validate", "bit_length mismatch")
		}

		if l.IsInputLayer() {
			if i != len(c.Layers)-1 {
				return errs.New(errs.CircuitShape, "circuit.Validate", "input layer must be the deepest layer")
			}
			continue
		}

		if i == len(c.Layers)-1 {
			return errs.New(errs.CircuitShape, "circuit.Validate", "deepest layer must be the input layer")
		}

		nextSize := c.Layers[i+1].Size()
		for _, g := range l.Gates {
			for _, op := range []Operand{g.Left, g.Right} {
				if op.IsConst {
					continue
				}
				// Invariant (a): every non-input gate's operands reside
				// exactly one layer deeper.
				if op.WireIndex < 0 || op.WireIndex >= nextSize {
					return errs.New(errs.CircuitShape, "circuit.Validate", "wire index out of range for next layer")
				}
			}
		}
	}

	// I2: the output layer has exactly one occupied slot (the root); any
	// padding beyond index 0 in layer 0 would mean the root is not alone.
	if len(c.Layers[0].Gates) != 1 && !c.Layers[0].IsInputLayer() {
		return errs.New(errs.CircuitShape, "circuit.Validate", "output layer must hold exactly the root gate")
	}

	return nil
}

// Evaluate recomputes every gate's Value bottom-up from the input layer
// using f, and returns the recomputed output. Comparing this against
// Circuit.Output() (computed at compile time from the source dag) is the
// I3/I5 check exercised in tests: dequantize(root.data) must equal
// dequantize(layered_circuit_evaluation(witness)).
func Evaluate(c *Circuit, f field.Field) field.Element {
	values := make([][]field.Element, len(c.Layers))
	last := len(c.Layers) - 1
	values[last] = append([]field.Element(nil), c.Layers[last].Inputs...)

	for i := last - 1; i >= 0; i-- {
		layer := c.Layers[i]
		out := make([]field.Element, len(layer.Gates))
		for gi, g := range layer.Gates {
			left := resolveValue(g.Left, values[i+1], f)
			right := resolveValue(g.Right, values[i+1], f)
			switch g.Op {
			case OpAdd:
				out[gi] = f.Add(left, right)
			case OpMul, OpRelay:
				out[gi] = f.Mul(left, right)
			}
		}
		values[i] = out
	}
	return values[0][0]
}

func resolveValue(op Operand, next []field.Element, f field.Field) field.Element {
	if op.IsConst {
		return op.ConstValue
	}
	return next[op.WireIndex]
}
