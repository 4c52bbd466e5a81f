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

// Package gkr implements the sum-check/GKR prover and verifier of spec
// §4.4: for each layer boundary, the prover argues that the multilinear
// extension of the shallower layer, evaluated at a random point, equals a
// sum over the Boolean hypercube of a polynomial built from the add/mul
// wiring predicates and the deeper layer's MLE. Non-interactivity comes
// from hashing the running transcript for verifier randomness.
//
// Round polynomials here are computed by direct (brute-force) enumeration
// of the remaining Boolean hypercube rather than the linear-time
// incremental-table technique real GKR implementations use at scale: this
// keeps the protocol's structure easy to verify by inspection, which
// matches this module's prototype scope (spec's worked examples are all
// single-digit circuit sizes).
//
// The witness commitment uses the univariate KZG scheme of the kzg
// package, opened at a point folded from the final multilinear evaluation
// point (see foldPoint) rather than through a dedicated multilinear
// commitment scheme; this is a deliberate, declared simplification.
package gkr

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// bitsMSB returns the width-bit, most-significant-bit-first binary
// representation of n.
func bitsMSB(n, width int) []int {
	out := make([]int, width)
	for i := 0; i < width; i++ {
		shift := width - 1 - i
		out[i] = (n >> uint(shift)) & 1
	}
	return out
}

// pointFromBits maps a 0/1 bit vector to the corresponding field point.
func pointFromBits(bits []int) []fr.Element {
	out := make([]fr.Element, len(bits))
	for i, b := range bits {
		if b == 1 {
			out[i].SetOne()
		}
	}
	return out
}

// EvalMLE evaluates the multilinear extension of values (length 2^n, MSB
// first index convention matching bitsMSB) at point (length n, need not be
// Boolean).
func EvalMLE(values []fr.Element, point []fr.Element) fr.Element {
	cur := append([]fr.Element(nil), values...)
	for i := 0; i < len(point); i++ {
		half := len(cur) / 2
		next := make([]fr.Element, half)
		for j := 0; j < half; j++ {
			var diff fr.Element
			diff.Sub(&cur[half+j], &cur[j])
			diff.Mul(&diff, &point[i])
			next[j].Add(&cur[j], &diff)
		}
		cur = next
	}
	if len(cur) == 0 {
		return values[0]
	}
	return cur[0]
}

// eqIndex returns the multilinear extension of the indicator "argument ==
// idx" (idx a concrete integer in [0, 2^len(point))), evaluated at point.
func eqIndex(idx int, width int, point []fr.Element) fr.Element {
	bits := bitsMSB(idx, width)
	var res fr.Element
	res.SetOne()
	var one fr.Element
	one.SetOne()
	for i, b := range bits {
		var factor fr.Element
		if b == 1 {
			factor = point[i]
		} else {
			factor.Sub(&one, &point[i])
		}
		res.Mul(&res, &factor)
	}
	return res
}

// eqExpand materialises eqIndex(idx,...) densely over every idx in
// [0, 2^width), evaluated at a field point `at` such as a sum-check
// challenge point (used to collapse
// a random gate-selection point rG into a per-gate scalar weight once per
// layer transition).
func eqExpand(at []fr.Element, width int) []fr.Element {
	size := 1 << uint(width)
	out := make([]fr.Element, size)
	for i := 0; i < size; i++ {
		out[i] = eqIndex(i, width, at)
	}
	return out
}

// foldPoint collapses a multilinear evaluation point (one field element per
// bit, MSB first) into the single scalar the witness's univariate KZG
// commitment is opened at, via Horner's method with base 2. On a genuine
// Boolean corner this recovers the corner's integer index; off the corners
// it is simply a canonical, verifier-reproducible scalar. The final witness
// opening therefore binds the commitment to this derived point rather than
// to a true multilinear evaluation at the point itself, which would need a
// dedicated multilinear commitment scheme beyond this package's scope.
func foldPoint(point []fr.Element) fr.Element {
	var two fr.Element
	two.SetInt64(2)
	var acc fr.Element
	for _, p := range point {
		acc.Mul(&acc, &two)
		acc.Add(&acc, &p)
	}
	return acc
}
