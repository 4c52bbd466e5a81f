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

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/zerok/field"
)

func elementsFromInts(vs ...int64) []field.Element {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		var e fr.Element
		e.SetInt64(v)
		out[i] = field.FromFr(e)
	}
	return out
}

func newTestSetup(t *testing.T, size uint64) (*Params, *Prover, *Verifier) {
	t.Helper()
	table := elementsFromInts(1, 2, 3, 4, 5, 6, 7, 8)
	params, err := NewParams(table)
	require.NoError(t, err)

	srs, err := Setup(size, big.NewInt(100))
	require.NoError(t, err)

	return params, &Prover{SRS: srs, Params: params}, &Verifier{SRS: srs, Params: params}
}

// TestPlookupAcceptsValidWitness mirrors spec §8 scenario 4: every witness
// value is drawn from the public table, so the proof must verify.
func TestPlookupAcceptsValidWitness(t *testing.T) {
	_, prover, verifier := newTestSetup(t, 64)

	witness := elementsFromInts(1, 1, 5, 5, 6, 6, 5)
	proof, err := prover.Prove(witness)
	require.NoError(t, err)

	ok, err := verifier.Verify(proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestProveRejectsValueOutsideTable checks that Prove itself refuses to
// build a proof for a witness containing a value absent from the table,
// rather than producing a proof that would later fail verification.
func TestProveRejectsValueOutsideTable(t *testing.T) {
	_, prover, _ := newTestSetup(t, 64)

	witness := elementsFromInts(1, 2, 42)
	_, err := prover.Prove(witness)
	require.Error(t, err)
}

// TestVerifyRejectsTamperedClaim checks that altering an opening's claimed
// value after proving is caught, without Verify ever returning a Go error.
func TestVerifyRejectsTamperedClaim(t *testing.T) {
	_, prover, verifier := newTestSetup(t, 64)

	witness := elementsFromInts(2, 3, 4, 4, 1)
	proof, err := prover.Prove(witness)
	require.NoError(t, err)

	tampered := *proof
	var bogus fr.Element
	bogus.SetInt64(1)
	bogus.Add(&bogus, &tampered.OpenFZeta.ClaimedValue)
	tampered.OpenFZeta.ClaimedValue = bogus

	ok, err := verifier.Verify(&tampered)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestVerifyRejectsForeignTable checks that a proof built against one
// table fails verification against a Verifier configured with a different
// table, since the table commitment is recomputed from Params rather than
// trusted from the proof.
func TestVerifyRejectsForeignTable(t *testing.T) {
	_, prover, verifier := newTestSetup(t, 64)

	witness := elementsFromInts(1, 1, 5, 5, 6, 6, 5)
	proof, err := prover.Prove(witness)
	require.NoError(t, err)

	otherTable := elementsFromInts(10, 20, 30, 40, 50, 60, 70, 80)
	otherParams, err := NewParams(otherTable)
	require.NoError(t, err)
	otherVerifier := &Verifier{SRS: verifier.SRS, Params: otherParams}

	ok, err := otherVerifier.Verify(proof)
	require.NoError(t, err)
	require.False(t, ok)
}
