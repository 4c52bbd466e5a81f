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
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// evaluateAccumulatorZ computes the plookup grand-product accumulator Z, in
// Lagrange basis over the same domain as f/t/h1/h2: Z[0] = 1, and each
// subsequent entry folds in the ratio of the partial products built from
// f/t against the sorted split h1/h2 (cf. https://eprint.iacr.org/2020/315.pdf),
// the same recurrence gnark-crypto's plookup vector argument uses.
func evaluateAccumulatorZ(f, t, h1, h2 []fr.Element, beta, gamma fr.Element) []fr.Element {
	n := len(t)
	z := make([]fr.Element, n)

	d := make([]fr.Element, n-1)
	var onePlusBeta, c fr.Element
	onePlusBeta.SetOne().Add(&onePlusBeta, &beta)
	c.Mul(&onePlusBeta, &gamma)

	for i := 0; i < n-1; i++ {
		var dd, u fr.Element
		dd.Mul(&beta, &h1[i+1]).Add(&dd, &h1[i]).Add(&dd, &c)
		u.Mul(&beta, &h2[i+1]).Add(&u, &h2[i]).Add(&u, &c)
		d[i].Mul(&dd, &u)
	}
	d = fr.BatchInvert(d)

	z[0].SetOne()
	for i := 0; i < n-1; i++ {
		var a, b fr.Element
		a.Add(&gamma, &f[i])
		b.Mul(&beta, &t[i+1]).Add(&b, &t[i]).Add(&b, &c)
		a.Mul(&a, &b).Mul(&a, &onePlusBeta)
		z[i+1].Mul(&z[i], &a).Mul(&z[i+1], &d[i])
	}
	return z
}

// sortedConcat merges t (length n) with the first n-1 entries of f by value
// and returns the 2n-1 sorted entries: only f[0..n-2] enter
// evaluateAccumulatorZ's recurrence, so the last witness row is left out of
// the merge, while every table row appears at least once.
func sortedConcat(t, f []fr.Element) []fr.Element {
	n := len(t)
	merged := make([]fr.Element, 0, 2*n-1)
	merged = append(merged, t...)
	merged = append(merged, f[:n-1]...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Cmp(&merged[j]) < 0 })
	return merged
}
