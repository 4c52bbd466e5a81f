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

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/zerok/circuit"
	"github.com/nume-crypto/zerok/dag"
	"github.com/nume-crypto/zerok/field"
	"github.com/nume-crypto/zerok/kzg"
)

func newTestSRS(t *testing.T, size uint64) *kzg.SRS {
	t.Helper()
	srs, err := kzg.NewSRSInsecure(size, big.NewInt(424242))
	require.NoError(t, err)
	return srs
}

// TestProveVerifyScalarMultiply mirrors spec §8 scenario 1: C = A*B, a
// single-boundary circuit (output gate reads the two input wires directly).
func TestProveVerifyScalarMultiply(t *testing.T) {
	ctx := field.NewContext(field.FloatSymmetric)
	b := dag.NewBuilder(ctx)
	a := b.NewVar(1)
	bb := b.NewVar(2)
	c := b.Mul(a, bb)

	circ, _, err := circuit.Compile(c, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, circuit.Validate(circ))

	srs := newTestSRS(t, 8)
	proof, err := Prover{SRS: srs}.Prove(circ, nil)
	require.NoError(t, err)

	ok, err := (Verifier{SRS: srs}).Verify(circ, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestProveVerifyDotProduct mirrors spec §8 scenario 2's shape.
func TestProveVerifyDotProduct(t *testing.T) {
	ctx := field.NewContext(field.FloatSymmetric)
	b := dag.NewBuilder(ctx)

	a0 := b.NewVar(1.129)
	a1 := b.NewVar(2.2)
	b0 := b.NewVar(-100.12)
	b1 := b.NewVar(4)
	root := b.Add(b.Mul(a0, b0), b.Mul(a1, b1))

	circ, _, err := circuit.Compile(root, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, circuit.Validate(circ))

	srs := newTestSRS(t, 8)
	proof, err := Prover{SRS: srs}.Prove(circ, nil)
	require.NoError(t, err)

	ok, err := (Verifier{SRS: srs}).Verify(circ, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestProveVerifyRelayBridge mirrors circuit's relay-bridging test: D =
// (A*B) + A, forcing a RELAY gate to carry A across the skipped depth so
// the middle layer mixes a MUL pair and a one-wire RELAY term, exercising
// both the bivariate and linear branches of the same wiring.
func TestProveVerifyRelayBridge(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := dag.NewBuilder(ctx)

	a := b.NewVar(3)
	bb := b.NewVar(4)
	mul := b.Mul(a, bb)
	root := b.Add(mul, a)

	circ, _, err := circuit.Compile(root, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, circuit.Validate(circ))
	require.Equal(t, 3, circ.Depth())

	srs := newTestSRS(t, 8)
	proof, err := Prover{SRS: srs}.Prove(circ, nil)
	require.NoError(t, err)

	ok, err := (Verifier{SRS: srs}).Verify(circ, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestVerifyRejectsTamperedOpening checks that a proof whose witness-opening
// claimed value was altered after proving fails verification, either via the
// check against the opening value recorded in the transcript or the KZG
// pairing check itself.
func TestVerifyRejectsTamperedOpening(t *testing.T) {
	ctx := field.NewContext(field.FloatSymmetric)
	b := dag.NewBuilder(ctx)
	a := b.NewVar(1)
	bb := b.NewVar(2)
	c := b.Mul(a, bb)

	circ, _, err := circuit.Compile(c, b.Witness(), ctx)
	require.NoError(t, err)

	srs := newTestSRS(t, 8)
	proof, err := Prover{SRS: srs}.Prove(circ, nil)
	require.NoError(t, err)

	tampered := *proof
	var bogus fr.Element
	bogus.SetInt64(1)
	bogus.Add(&bogus, &tampered.OpeningU.ClaimedValue)
	tampered.OpeningU.ClaimedValue = bogus

	ok, err := (Verifier{SRS: srs}).Verify(circ, &tampered)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestDirectRelayValueIdentity unit-tests the direct-relay fast path in
// isolation: a size-1 layer consisting of a single identity-wired RELAY
// gate should be detected and its value forwarded without a sum-check
// round, while a MUL gate with the same wiring must fall through to the
// general path.
func TestDirectRelayValueIdentity(t *testing.T) {
	var one field.Element
	one = field.NewContext(field.Pure).Field().One()

	next := circuit.Layer{Inputs: []field.Element{one}, BitLength: 0}
	layer := circuit.Layer{
		Gates: []circuit.Gate{
			{Op: circuit.OpRelay, Left: circuit.Operand{WireIndex: 0}, Right: circuit.Operand{IsConst: true, ConstValue: one}, Value: one},
		},
		BitLength: 0,
	}

	gateWeight := []fr.Element{one.Fr()}
	relayed, value := directRelayValue(layer, next, gateWeight)
	require.True(t, relayed)
	require.Equal(t, one.Fr(), value)

	// A MUL gate (not RELAY) must not trigger the fast path even with
	// identical wiring.
	layer.Gates[0].Op = circuit.OpMul
	relayed, _ = directRelayValue(layer, next, gateWeight)
	require.False(t, relayed)
}
