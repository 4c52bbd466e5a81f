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

package polynomial

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// QuadraticPoly is a degree-≤2 univariate polynomial in monomial basis
// (a0 + a1*X + a2*X^2), the shape every phase_1/phase_2 sum-check round
// polynomial takes, named to match the reference proof transcript's
// coefficient-length-based decoding contract.
type QuadraticPoly [3]fr.Element

// Eval evaluates the polynomial at x.
func (q QuadraticPoly) Eval(x fr.Element) fr.Element {
	var res, term fr.Element
	res.Set(&q[0])
	term.Mul(&q[1], &x)
	res.Add(&res, &term)
	var x2 fr.Element
	x2.Square(&x)
	term.Mul(&q[2], &x2)
	res.Add(&res, &term)
	return res
}

// SumAtBooleanHypercube returns q(0) + q(1), the value a sum-check round
// must match against the running claim.
func (q QuadraticPoly) SumAtBooleanHypercube() fr.Element {
	var zero, one fr.Element
	one.SetOne()
	a, b := q.Eval(zero), q.Eval(one)
	var sum fr.Element
	sum.Add(&a, &b)
	return sum
}

// QuintuplePoly is a degree-≤5 univariate polynomial in monomial basis,
// the shape the final_gkr_round polynomial takes.
type QuintuplePoly [6]fr.Element

// Eval evaluates the polynomial at x via Horner's method.
func (q QuintuplePoly) Eval(x fr.Element) fr.Element {
	var res fr.Element
	for i := len(q) - 1; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &q[i])
	}
	return res
}

// SumAtBooleanHypercube returns q(0) + q(1).
func (q QuintuplePoly) SumAtBooleanHypercube() fr.Element {
	var zero, one fr.Element
	one.SetOne()
	a, b := q.Eval(zero), q.Eval(one)
	var sum fr.Element
	sum.Add(&a, &b)
	return sum
}
