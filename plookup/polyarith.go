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

package plookup

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/errs"
)

// Small monomial-basis polynomial helpers (coefficients, lowest degree
// first) used to build the plookup quotient polynomial directly, the way
// gnark-crypto's computeQuotientCanonical builds its own quotient, but via
// plain convolution/division instead of a coset FFT: the domains this
// module's worked examples use are small enough that O(n^2) arithmetic here
// is not a bottleneck.

func polyAdd(a, b []fr.Element) []fr.Element {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]fr.Element, n)
	copy(out, a)
	for i, v := range b {
		out[i].Add(&out[i], &v)
	}
	return out
}

func polySub(a, b []fr.Element) []fr.Element {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]fr.Element, n)
	copy(out, a)
	for i, v := range b {
		out[i].Sub(&out[i], &v)
	}
	return out
}

func polyMul(a, b []fr.Element) []fr.Element {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]fr.Element, len(a)+len(b)-1)
	for i, ai := range a {
		if ai.IsZero() {
			continue
		}
		for j, bj := range b {
			var t fr.Element
			t.Mul(&ai, &bj)
			out[i+j].Add(&out[i+j], &t)
		}
	}
	return out
}

func polyScale(a []fr.Element, c fr.Element) []fr.Element {
	out := make([]fr.Element, len(a))
	for i, v := range a {
		out[i].Mul(&v, &c)
	}
	return out
}

func polyAddConst(a []fr.Element, c fr.Element) []fr.Element {
	out := make([]fr.Element, len(a))
	copy(out, a)
	if len(out) == 0 {
		return []fr.Element{c}
	}
	out[0].Add(&out[0], &c)
	return out
}

// shiftByGenerator returns the coefficients of p(g*X) given p's coefficients,
// i.e. coeff i scaled by g^i.
func shiftByGenerator(p []fr.Element, g fr.Element) []fr.Element {
	out := make([]fr.Element, len(p))
	var gi fr.Element
	gi.SetOne()
	for i, c := range p {
		out[i].Mul(&c, &gi)
		gi.Mul(&gi, &g)
	}
	return out
}

// vanishingExceptLast returns the coefficients of prod_{i=0}^{n-2} (X - g^i),
// the monic polynomial of degree n-1 vanishing at every n-th-root-of-unity
// domain point except the last one (g^{n-1}). Since X^n-1 = (X-g^{n-1}) *
// this polynomial (every root of X^n-1 is some g^i, and g^{n-1} is the one
// factored out), its coefficients are the geometric-series expansion
// X^{n-1} + r*X^{n-2} + r^2*X^{n-3} + ... + r^{n-1}, where r = g^{n-1}.
func vanishingExceptLast(n uint64, r fr.Element) []fr.Element {
	out := make([]fr.Element, n)
	var ri fr.Element
	ri.SetOne()
	for k := uint64(0); k < n; k++ {
		out[n-1-k] = ri
		ri.Mul(&ri, &r)
	}
	return out
}

// evalVanishingExceptLast evaluates vanishingExceptLast's polynomial at x
// directly via (x^n - 1)/(x - r), without building its coefficient vector.
func evalVanishingExceptLast(x fr.Element, n uint64, r fr.Element) (fr.Element, error) {
	var denom fr.Element
	denom.Sub(&x, &r)
	if denom.IsZero() {
		return fr.Element{}, errs.New(errs.Protocol, "plookup", "evaluation point collided with the domain's last root of unity")
	}
	var xn, one, numer, res fr.Element
	one.SetOne()
	xn.Exp(x, new(big.Int).SetUint64(n))
	numer.Sub(&xn, &one)
	var denomInv fr.Element
	denomInv.Inverse(&denom)
	res.Mul(&numer, &denomInv)
	return res, nil
}

// polyDivide performs exact polynomial long division of dividend by the
// monic divisor (leading coefficient 1), returning the quotient and
// remainder in ascending-degree coefficient order. Used only where the
// division is known to be exact (remainder is checked by the caller).
func polyDivide(dividend, divisor []fr.Element) (quotient, remainder []fr.Element) {
	remainder = make([]fr.Element, len(dividend))
	copy(remainder, dividend)

	dDeg := len(divisor) - 1
	if len(remainder)-1 < dDeg {
		return nil, remainder
	}
	qDeg := len(remainder) - 1 - dDeg
	quotient = make([]fr.Element, qDeg+1)

	for i := len(remainder) - 1; i >= dDeg; i-- {
		if remainder[i].IsZero() {
			continue
		}
		coeff := remainder[i]
		qIdx := i - dDeg
		quotient[qIdx] = coeff
		for j := 0; j <= dDeg; j++ {
			var t fr.Element
			t.Mul(&coeff, &divisor[j])
			remainder[i-dDeg+j].Sub(&remainder[i-dDeg+j], &t)
		}
	}
	return quotient, remainder
}

func allZero(vals []fr.Element) bool {
	for i := range vals {
		if !vals[i].IsZero() {
			return false
		}
	}
	return true
}
