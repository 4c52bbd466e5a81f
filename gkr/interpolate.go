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

// interpolateAtSmallInts recovers the monomial coefficients of the unique
// degree-<len(ys) polynomial through (0,ys[0]), (1,ys[1]), ..., via
// Lagrange interpolation. Every round polynomial in this package is
// recovered this way from a handful of brute-force sample evaluations.
func interpolateAtSmallInts(ys []fr.Element) []fr.Element {
	n := len(ys)
	xs := make([]fr.Element, n)
	for i := range xs {
		xs[i].SetInt64(int64(i))
	}
	result := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		basis := []fr.Element{{}}
		basis[0].SetOne()
		var denom fr.Element
		denom.SetOne()
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			basis = polyMulLinearRoot(basis, xs[j])
			var diff fr.Element
			diff.Sub(&xs[i], &xs[j])
			denom.Mul(&denom, &diff)
		}
		var denomInv, coeff fr.Element
		denomInv.Inverse(&denom)
		coeff.Mul(&ys[i], &denomInv)
		for k := range basis {
			var term fr.Element
			term.Mul(&basis[k], &coeff)
			result[k].Add(&result[k], &term)
		}
	}
	return result
}

// polyMulLinearRoot multiplies p(x) (monomial coefficients) by (x - root).
func polyMulLinearRoot(p []fr.Element, root fr.Element) []fr.Element {
	out := make([]fr.Element, len(p)+1)
	for i, c := range p {
		var t fr.Element
		t.Mul(&c, &root)
		out[i].Sub(&out[i], &t)
		out[i+1].Add(&out[i+1], &c)
	}
	return out
}
