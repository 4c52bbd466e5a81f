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

package circuit

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/zerok/dag"
	"github.com/nume-crypto/zerok/field"
)

// TestScalarMultiplyCircuitSize mirrors spec §8 scenario 1: A=1, B=2,
// C=A*B compiles to an input layer of size 2 and dequantizes to 2.0.
func TestScalarMultiplyCircuitSize(t *testing.T) {
	ctx := field.NewContext(field.FloatSymmetric)
	b := dag.NewBuilder(ctx)
	a := b.NewVar(1)
	bb := b.NewVar(2)
	c := b.Mul(a, bb)

	circ, witness, err := Compile(c, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, Validate(circ))

	input := circ.Layers[circ.Depth()-1]
	require.Equal(t, 2, input.Size())
	require.Len(t, witness, 2)

	got := Evaluate(circ, ctx.Field())
	require.InDelta(t, 2.0, ctx.Field().Dequantize(got), 1e-8)
	require.InDelta(t, 2.0, ctx.Field().Dequantize(circ.Output()), 1e-8)
}

// TestDotProductLikeExpression mirrors spec §8 scenario 2's shape: a
// dot product of two length-2 vectors, built directly from Values since
// matrix/tensor wrappers are out of scope here.
func TestDotProductLikeExpression(t *testing.T) {
	ctx := field.NewContext(field.FloatSymmetric)
	b := dag.NewBuilder(ctx)

	a0 := b.NewVar(1.129)
	a1 := b.NewVar(2.2)
	b0 := b.NewVar(-100.12)
	b1 := b.NewVar(4)

	root := b.Add(b.Mul(a0, b0), b.Mul(a1, b1))

	circ, _, err := Compile(root, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, Validate(circ))

	want := 1.129*(-100.12) + 2.2*4
	got := ctx.Field().Dequantize(Evaluate(circ, ctx.Field()))
	require.InDelta(t, want, got, 1e-6)
}

// TestChainedMultiplyByZeroThenOne mirrors spec §8 scenario 3.
func TestChainedMultiplyByZeroThenOne(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := dag.NewBuilder(ctx)

	v1 := b.NewVar(1)
	v2 := b.NewVar(2)
	a := b.Add(v1, v2)
	c := b.Mul(a, 0.0)
	c = b.Mul(c, 1.0)

	require.Equal(t, "0", c.Data.DecimalString())

	circ, _, err := Compile(c, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, Validate(circ))
	require.True(t, Evaluate(circ, ctx.Field()).IsZero())
}

// TestTensorAddLikeExpression mirrors spec §8 scenario 6's shape: an
// element-wise add between two Values, the tensor wrapper itself being out
// of scope here.
func TestTensorAddLikeExpression(t *testing.T) {
	ctx := field.NewContext(field.FloatSymmetric)
	b := dag.NewBuilder(ctx)

	a := b.NewVar(1)
	c := b.NewVar(3)
	root := b.Add(a, c)

	circ, _, err := Compile(root, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, Validate(circ))
	require.InDelta(t, 4.0, ctx.Field().Dequantize(Evaluate(circ, ctx.Field())), 1e-8)
}

// TestRelayBridgesSkippedLayers forces a depth gap: D = (A*B) + A reuses A
// at depth 0 directly as an operand of a depth-2 gate, requiring one RELAY
// gate at depth 1 to bridge it.
func TestRelayBridgesSkippedLayers(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := dag.NewBuilder(ctx)

	a := b.NewVar(3)
	bb := b.NewVar(4)
	mul := b.Mul(a, bb)
	root := b.Add(mul, a)

	circ, _, err := Compile(root, b.Witness(), ctx)
	require.NoError(t, err)
	require.NoError(t, Validate(circ))
	require.Equal(t, 3, circ.Depth())

	// The middle layer must contain the mul gate plus a relay carrying A.
	middle := circ.Layers[1]
	require.GreaterOrEqual(t, len(middle.Gates), 2)

	foundRelay := false
	for _, g := range middle.Gates {
		if g.Op == OpRelay {
			foundRelay = true
		}
	}
	require.True(t, foundRelay, "expected a relay gate bridging A from the input layer")

	want := int64(3*4 + 3)
	got, err := strconv.ParseInt(Evaluate(circ, ctx.Field()).DecimalString(), 10, 64)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
