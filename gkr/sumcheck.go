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

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// phase1RoundEval computes, for round k = len(prior), the value of the
// remaining-sum function at X_k = X, with the remaining (not-yet-fixed) x
// bits and every y bit still ranging over the full Boolean hypercube. This
// is the brute-force restriction of:
//
//	sum_{x,y} [ addWeight(x,y)(W(x)+W(y)) + mulWeight(x,y)W(x)W(y) ] + sum_x linWeight(x)W(x)
//
// to the single free variable X_k, everything else either already bound
// (prior) or still Boolean (enumerated here).
func phase1RoundEval(w *wiring, W []fr.Element, prior []fr.Element, X fr.Element) fr.Element {
	b := w.nextBits
	k := len(prior)
	remX := b - k - 1
	nx := 1 << uint(remX)
	ny := 1 << uint(b)

	var sum fr.Element
	for rx := 0; rx < nx; rx++ {
		xPoint := concatPoint(prior, X, bitsMSB(rx, remX))
		wx := EvalMLE(W, xPoint)
		for ry := 0; ry < ny; ry++ {
			yPoint := pointFromBits(bitsMSB(ry, b))
			wy := EvalMLE(W, yPoint)
			av := w.addWeight(xPoint, yPoint)
			mv := w.mulWeight(xPoint, yPoint)

			var wsum, t1, t2 fr.Element
			wsum.Add(&wx, &wy)
			t1.Mul(&av, &wsum)
			t2.Mul(&mv, &wx)
			t2.Mul(&t2, &wy)
			sum.Add(&sum, &t1)
			sum.Add(&sum, &t2)
		}
		lv := w.linWeight(xPoint)
		var t fr.Element
		t.Mul(&lv, &wx)
		sum.Add(&sum, &t)
	}
	return sum
}

// phase2RoundEval is phase1RoundEval's counterpart over y, with x fully
// bound to rU (and the already-resolved scalar vU = W(rU) substituted for
// every occurrence of W(x)). The linear term, which depends only on x, is
// folded in once per round (it no longer varies with y).
func phase2RoundEval(w *wiring, W []fr.Element, vU fr.Element, rU []fr.Element, prior []fr.Element, Y fr.Element) fr.Element {
	b := w.nextBits
	k := len(prior)
	remY := b - k - 1
	ny := 1 << uint(remY)

	var sum fr.Element
	for ry := 0; ry < ny; ry++ {
		yPoint := concatPoint(prior, Y, bitsMSB(ry, remY))
		wy := EvalMLE(W, yPoint)
		av := w.addWeight(rU, yPoint)
		mv := w.mulWeight(rU, yPoint)

		var wsum, t1, t2 fr.Element
		wsum.Add(&vU, &wy)
		t1.Mul(&av, &wsum)
		t2.Mul(&mv, &vU)
		t2.Mul(&t2, &wy)
		sum.Add(&sum, &t1)
		sum.Add(&sum, &t2)
	}

	lv := w.linWeight(rU)
	var lin fr.Element
	lin.Mul(&lv, &vU)
	sum.Add(&sum, &lin)
	return sum
}

// concatPoint builds [prior..., X, bits of the remaining tail] as a single
// field-element point.
func concatPoint(prior []fr.Element, X fr.Element, tailBits []int) []fr.Element {
	out := make([]fr.Element, 0, len(prior)+1+len(tailBits))
	out = append(out, prior...)
	out = append(out, X)
	out = append(out, pointFromBits(tailBits)...)
	return out
}
