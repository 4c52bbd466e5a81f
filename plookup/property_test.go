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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestWitnessDrawnFromTableAlwaysVerifiesProperty mirrors spec §8's
// membership property: for any witness whose every value is drawn from the
// public table (table rows 1..16 here), proving then verifying always
// accepts, regardless of how many rows or which table entries are chosen.
func TestWitnessDrawnFromTableAlwaysVerifiesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	const tableSize = 16
	table := make([]int64, tableSize)
	for i := range table {
		table[i] = int64(i + 1)
	}

	properties.Property("witness drawn entirely from the table always verifies", prop.ForAll(
		func(indices []int) bool {
			if len(indices) == 0 {
				return true
			}
			witnessInts := make([]int64, len(indices))
			for i, idx := range indices {
				witnessInts[i] = table[idx%tableSize]
			}

			params, err := NewParams(elementsFromInts(table...))
			if err != nil {
				return false
			}
			srs, err := Setup(64, big.NewInt(100))
			if err != nil {
				return false
			}
			prover := &Prover{SRS: srs, Params: params}
			verifier := &Verifier{SRS: srs, Params: params}

			witness := elementsFromInts(witnessInts...)
			proof, err := prover.Prove(witness)
			if err != nil {
				return false
			}
			ok, err := verifier.Verify(proof)
			if err != nil {
				return false
			}
			return ok
		},
		gen.SliceOfN(6, gen.IntRange(0, tableSize-1)),
	))

	properties.TestingRun(t)
}

// TestWitnessWithForeignValueNeverVerifiesProperty mirrors the negative half
// of spec §8's membership property: a witness containing a single value
// absent from the table must never produce a verifying proof, because
// Prove itself refuses to build one.
func TestWitnessWithForeignValueNeverVerifiesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	table := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	properties.Property("witness containing a value outside the table is rejected by Prove", prop.ForAll(
		func(foreign int64) bool {
			for _, v := range table {
				if v == foreign {
					return true // not actually foreign, skip
				}
			}
			params, err := NewParams(elementsFromInts(table...))
			if err != nil {
				return false
			}
			srs, err := Setup(64, big.NewInt(100))
			if err != nil {
				return false
			}
			prover := &Prover{SRS: srs, Params: params}

			witness := elementsFromInts(1, 2, foreign)
			_, err = prover.Prove(witness)
			return err != nil
		},
		gen.Int64Range(1000, 2000),
	))

	properties.TestingRun(t)
}
