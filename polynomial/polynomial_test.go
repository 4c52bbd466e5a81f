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

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func elements(vals ...int64) []fr.Element {
	out := make([]fr.Element, len(vals))
	for i, v := range vals {
		out[i].SetInt64(v)
	}
	return out
}

func TestMonomialEval(t *testing.T) {
	// p(X) = 1 + 2X + 3X^2, p(2) = 1+4+12 = 17
	p := NewMonomial(elements(1, 2, 3))
	var x fr.Element
	x.SetInt64(2)
	var want fr.Element
	want.SetInt64(17)
	require.True(t, want.Equal(ptr(p.Eval(x))))
}

func TestLagrangeRoundTripThroughMonomial(t *testing.T) {
	coeffs := elements(5, -3, 2, 0)
	mono := NewMonomial(coeffs)
	lagrange, err := mono.ToLagrange(4)
	require.NoError(t, err)
	require.Equal(t, Lagrange, lagrange.Basis)

	back, err := lagrange.ToMonomial()
	require.NoError(t, err)
	for i := range coeffs {
		require.True(t, coeffs[i].Equal(&back.Values[i]))
	}
}

func TestBarycentricEvalMatchesDomainPoint(t *testing.T) {
	evals := elements(10, 20, 30, 40)
	lagrange, err := NewLagrange(evals)
	require.NoError(t, err)

	d := domains.get(4)
	got := BarycentricEval(lagrange.Values, d.Generator, d)
	require.True(t, ptr(got).Equal(&evals[1]))
}

func TestQuadraticPolySumMatchesClaim(t *testing.T) {
	var q QuadraticPoly
	q[0].SetInt64(1)
	q[1].SetInt64(2)
	q[2].SetInt64(3)
	// q(0) = 1, q(1) = 1+2+3 = 6, sum = 7
	var want fr.Element
	want.SetInt64(7)
	require.True(t, want.Equal(ptr(q.SumAtBooleanHypercube())))
}

func ptr(e fr.Element) *fr.Element { return &e }
