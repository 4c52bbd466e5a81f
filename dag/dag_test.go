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

package dag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/zerok/field"
)

func TestScalarMultiply(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := NewBuilder(ctx)

	a := b.NewVar(1)
	v := b.NewVar(2)
	c := b.Mul(a, v)

	require.Equal(t, "2", c.Data.DecimalString())
	require.Len(t, b.Witness(), 2)
	require.Equal(t, 0, a.Index)
	require.Equal(t, 1, v.Index)
}

func TestScalarAddWithConstCoercion(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := NewBuilder(ctx)

	a := b.NewVar(3)
	c := b.Add(a, 4.0)

	require.Equal(t, "7", c.Data.DecimalString())
	require.True(t, c.Left.IsConstant == false)
	require.True(t, c.Right.IsConstant)
}

func TestReluSelectsZeroOrIdentity(t *testing.T) {
	ctx := field.NewContext(field.FloatAsymmetric)
	b := NewBuilder(ctx)

	pos := b.NewVar(5)
	neg := b.NewVar(-5)

	require.InDelta(t, 5.0, ctx.Field().Dequantize(b.Relu(pos).Data), 1.0/(1<<16))
	require.InDelta(t, 0.0, ctx.Field().Dequantize(b.Relu(neg).Data), 1.0/(1<<16))
}

func TestSerializeRoundTrip(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := NewBuilder(ctx)

	a := b.NewVar(1)
	v := b.NewVar(2)
	c := b.Mul(a, v)

	blob, err := c.Serialize()
	require.NoError(t, err)

	restored, err := FromJSON(blob, ctx.Field(), b.Witness())
	require.NoError(t, err)
	require.Equal(t, c.Data.DecimalString(), restored.Data.DecimalString())
	require.Equal(t, OpMul, restored.Op)
}

func TestSerializeConstLeaf(t *testing.T) {
	ctx := field.NewContext(field.Pure)
	b := NewBuilder(ctx)

	c := b.NewConst(42)
	blob, err := c.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(blob), "const_value")

	restored, err := FromJSON(blob, ctx.Field(), nil)
	require.NoError(t, err)
	require.Equal(t, "42", restored.Data.DecimalString())
}

func TestMatrixMultiplyLikeExpression(t *testing.T) {
	// Mirrors spec §8 scenario 2's shape: a 2x2 dot-product built from four
	// variables and summed via two muls and one add.
	ctx := field.NewContext(field.FloatSymmetric)
	b := NewBuilder(ctx)

	a0 := b.NewVar(1)
	a1 := b.NewVar(2)
	b0 := b.NewVar(3)
	b1 := b.NewVar(4)

	sum := b.Add(b.Mul(a0, b0), b.Mul(a1, b1))

	got := ctx.Field().Dequantize(sum.Data)
	require.InDelta(t, 11.0, got, 1e-6)
	require.Len(t, b.Witness(), 4)
}
