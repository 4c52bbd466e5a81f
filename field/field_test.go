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

package field

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestPureArithmetic(t *testing.T) {
	f := For(Pure)
	a := f.Quantize(3)
	b := f.Quantize(4)
	require.Equal(t, "12", f.Mul(a, b).DecimalString())
	require.Equal(t, "7", f.Add(a, b).DecimalString())
}

func TestSymmetricMultiplicationRoundTrips(t *testing.T) {
	f := For(FloatSymmetric)
	a := f.Quantize(1.5)
	b := f.Quantize(2.0)
	got := f.Dequantize(f.Mul(a, b))
	require.InDelta(t, 3.0, got, symmetricTolerance)
}

func TestSymmetricNegativeEncoding(t *testing.T) {
	f := For(FloatSymmetric)
	neg := f.Quantize(-2.5)
	require.InDelta(t, -2.5, f.Dequantize(neg), symmetricTolerance)
}

func TestAsymmetricAddOppositeSign(t *testing.T) {
	f := For(FloatAsymmetric)
	a := f.Quantize(3)
	b := f.Quantize(-5)
	got := f.Dequantize(f.Add(a, b))
	require.InDelta(t, -2.0, got, 1.0/(1<<16))
}

func TestPureCompareUndefined(t *testing.T) {
	f := For(Pure)
	_, err := f.Compare(f.Quantize(1), f.Quantize(2))
	require.Error(t, err)
}

func TestSwitchIsProcessWide(t *testing.T) {
	defer Switch(FloatSymmetric)
	Switch(Pure)
	require.Equal(t, Pure, ActiveMode())
	Switch(FloatAsymmetric)
	require.Equal(t, FloatAsymmetric, ActiveMode())
}

func TestQuantizeDequantizeRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	tolerances := map[Mode]float64{
		FloatSymmetric:  symmetricTolerance,
		FloatAsymmetric: 1.0 / (1 << 16),
	}

	for mode, tol := range tolerances {
		mode, tol := mode, tol
		properties.Property(mode.String()+" quantize/dequantize round trip", prop.ForAll(
			func(x float64) bool {
				f := For(mode)
				got := f.Dequantize(f.Quantize(x))
				diff := got - x
				if diff < 0 {
					diff = -diff
				}
				return diff <= tol*(1+absF(x))
			},
			gen.Float64Range(-1_000_000, 1_000_000),
		))
	}

	properties.TestingRun(t)
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
