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

package gkr

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/circuit"
)

// pairWeight is one two-wire ADD/MUL gate's contribution: weight at the
// point (left, right) in the next layer's domain.
type pairWeight struct {
	left, right int
	weight      fr.Element
}

// wiring captures, for one layer transition, the sparse add/mul/linear
// contributions weighted by a fixed per-gate scalar (gateWeight[g], usually
// eq(rG, g) or an alpha/beta combination of two such equalities from a prior
// merge). Everything here is public circuit-shape information plus the
// caller-supplied weights; it never touches witness values.
//
// A gate with two wire operands contributes a genuine bivariate add/mult
// term. A gate with exactly one constant operand contributes a term linear
// in the remaining wire (folded into `linear`, plus any additive constant
// folded into `baseline`). A gate with two constant operands contributes a
// value independent of the next layer entirely, folded straight into
// `baseline`.
type wiring struct {
	nextSize int
	nextBits int

	addPairs []pairWeight
	mulPairs []pairWeight
	linear   []fr.Element // coefficient of W(idx), size nextSize
	baseline fr.Element
}

func buildWiring(layer circuit.Layer, nextSize int, gateWeight []fr.Element) *wiring {
	w := &wiring{
		nextSize: nextSize,
		nextBits: log2Ceil(nextSize),
		linear:   make([]fr.Element, nextSize),
	}
	for g, gate := range layer.Gates {
		if g >= len(gateWeight) {
			break
		}
		gw := gateWeight[g]
		if gw.IsZero() {
			continue
		}
		l, r := gate.Left, gate.Right
		switch {
		case !l.IsConst && !r.IsConst:
			pw := pairWeight{left: l.WireIndex, right: r.WireIndex, weight: gw}
			if gate.Op == circuit.OpAdd {
				w.addPairs = append(w.addPairs, pw)
			} else {
				w.mulPairs = append(w.mulPairs, pw)
			}
		case !l.IsConst && r.IsConst:
			w.foldOneWire(gate.Op, l.WireIndex, r.ConstValue.Fr(), gw)
		case l.IsConst && !r.IsConst:
			w.foldOneWire(gate.Op, r.WireIndex, l.ConstValue.Fr(), gw)
		default:
			lv, rv := l.ConstValue.Fr(), r.ConstValue.Fr()
			var contrib, tmp fr.Element
			if gate.Op == circuit.OpAdd {
				contrib.Add(&lv, &rv)
			} else {
				contrib.Mul(&lv, &rv)
			}
			tmp.Mul(&gw, &contrib)
			w.baseline.Add(&w.baseline, &tmp)
		}
	}
	return w
}

// foldOneWire handles a gate with exactly one wire operand at wireIdx and one
// constant c: ADD contributes weight*(W(wireIdx)+c), MUL contributes
// weight*c*W(wireIdx).
func (w *wiring) foldOneWire(op circuit.GateOp, wireIdx int, c fr.Element, weight fr.Element) {
	switch op {
	case circuit.OpAdd:
		w.linear[wireIdx].Add(&w.linear[wireIdx], &weight)
		var offset fr.Element
		offset.Mul(&weight, &c)
		w.baseline.Add(&w.baseline, &offset)
	default: // OpMul, OpRelay (RELAY's constant side is always field one)
		var coeff fr.Element
		coeff.Mul(&weight, &c)
		w.linear[wireIdx].Add(&w.linear[wireIdx], &coeff)
	}
}

func log2Ceil(n int) int {
	b := 0
	for (1 << uint(b)) < n {
		b++
	}
	return b
}

// addWeight evaluates the MLE of the ADD-pair wiring predicate at (x,y).
func (w *wiring) addWeight(x, y []fr.Element) fr.Element {
	return evalPairs(w.addPairs, w.nextBits, x, y)
}

// mulWeight evaluates the MLE of the MUL/RELAY-pair wiring predicate at
// (x,y).
func (w *wiring) mulWeight(x, y []fr.Element) fr.Element {
	return evalPairs(w.mulPairs, w.nextBits, x, y)
}

func evalPairs(pairs []pairWeight, bits int, x, y []fr.Element) fr.Element {
	var sum fr.Element
	for _, p := range pairs {
		ex := eqIndex(p.left, bits, x)
		ey := eqIndex(p.right, bits, y)
		var term fr.Element
		term.Mul(&ex, &ey)
		term.Mul(&term, &p.weight)
		sum.Add(&sum, &term)
	}
	return sum
}

// linWeight evaluates the MLE of the linear (one-wire) wiring coefficient at
// x, i.e. the coefficient multiplying W(x) in this layer's combined
// integrand.
func (w *wiring) linWeight(x []fr.Element) fr.Element {
	return EvalMLE(w.linear, x)
}
