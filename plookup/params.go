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

	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/field"
)

// Params is the public lookup table a plookup proof argues witness
// membership against, named after the reference zerok.lookup.plookup.program
// contract (Params(table)).
type Params struct {
	Table []fr.Element
}

// NewParams wraps a public lookup table. The table need not be sorted or
// padded to a power of two; Prove pads and sorts its own working copy once
// it knows the witness length.
func NewParams(table []field.Element) (*Params, error) {
	if len(table) == 0 {
		return nil, errs.New(errs.Arithmetization, "plookup.NewParams", "table must not be empty")
	}
	t := make([]fr.Element, len(table))
	for i, v := range table {
		t[i] = v.Fr()
	}
	return &Params{Table: t}, nil
}

// domainSize returns the smallest power of two at least tableLen and at
// least witnessLen+1, matching the reference sizing convention: the table
// column is padded to the full domain, the witness column to one short of
// it, so the sorted concatenation splits evenly into two overlapping
// domain-sized halves.
func domainSize(tableLen, witnessLen int) uint64 {
	need := tableLen
	if witnessLen+1 > need {
		need = witnessLen + 1
	}
	n := uint64(1)
	for int(n) < need {
		n <<= 1
	}
	if n < 2 {
		n = 2
	}
	return n
}

// paddedSortedTable pads the table up to size n by repeating its last
// element, then sorts ascending: the "t" column of the argument.
func (p *Params) paddedSortedTable(n uint64) []fr.Element {
	out := make([]fr.Element, n)
	copy(out, p.Table)
	last := p.Table[len(p.Table)-1]
	for i := len(p.Table); i < int(n); i++ {
		out[i] = last
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(&out[j]) < 0 })
	return out
}

// paddedWitness pads witness up to size n by repeating its last element:
// the "f" column.
func paddedWitness(witness []fr.Element, n int) ([]fr.Element, error) {
	if len(witness) == 0 {
		return nil, errs.New(errs.Arithmetization, "plookup", "witness must not be empty")
	}
	out := make([]fr.Element, n)
	copy(out, witness)
	last := witness[len(witness)-1]
	for i := len(witness); i < n; i++ {
		out[i] = last
	}
	return out, nil
}

// containsSorted reports whether v appears in the ascending-sorted slice t.
func containsSorted(t []fr.Element, v fr.Element) bool {
	i := sort.Search(len(t), func(i int) bool { return t[i].Cmp(&v) >= 0 })
	return i < len(t) && t[i].Equal(&v)
}
