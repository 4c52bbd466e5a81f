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
	"math"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// symmetricPrecisionBits is the fixed scale for FLOAT_SYMMETRIC, per spec §3.
const symmetricPrecisionBits = 64

// symmetricTolerance bounds the quantize/dequantize round trip, per spec §8.
const symmetricTolerance = 1e-8

var symmetricScale = new(big.Float).SetFloat64(math.Pow(2, symmetricPrecisionBits))

// negativePoint is p/2: values whose canonical representative exceeds it
// are interpreted as negative on dequantization.
func negativePoint() *big.Int {
	p := fr.Modulus()
	n := new(big.Int).Rsh(p, 1)
	return n
}

// symmetricField implements FLOAT_SYMMETRIC. Multiplication deliberately
// rescales by round-tripping through host floats rather than performing a
// pure field multiplication: this reproduces the reference prototype's
// contract exactly, per the Design Notes open question, option (a). It is
// numerically surprising (see SPEC_FULL §9) but implementers MUST NOT
// silently change it, since proofs are computed against these exact values.
type symmetricField struct{}

func (symmetricField) Mode() Mode { return FloatSymmetric }

func (symmetricField) Zero() Element { return Element{} }

func (symmetricField) One() Element {
	return symmetricField{}.Quantize(1)
}

func (symmetricField) Add(a, b Element) Element {
	var r fr.Element
	r.Add(&a.fe, &b.fe)
	return Element{fe: r}
}

func (symmetricField) Sub(a, b Element) Element {
	var r fr.Element
	r.Sub(&a.fe, &b.fe)
	return Element{fe: r}
}

// Mul is the "trades cryptographic cleanliness for numerical predictability"
// contract of spec §4.1: mul(a,b) = quantize(dequantize(a) * dequantize(b)).
func (f symmetricField) Mul(a, b Element) Element {
	fa := f.Dequantize(a)
	fb := f.Dequantize(b)
	return f.Quantize(fa * fb)
}

func (f symmetricField) Div(a, b Element) (Element, error) {
	fa := f.Dequantize(a)
	fb := f.Dequantize(b)
	return f.Quantize(fa / fb), nil
}

func (f symmetricField) Pow(a Element, e Element) Element {
	fa := f.Dequantize(a)
	fe := f.Dequantize(e)
	return f.Quantize(math.Pow(fa, fe))
}

func (symmetricField) Neg(a Element) Element {
	var r fr.Element
	r.Neg(&a.fe)
	return Element{fe: r}
}

func (f symmetricField) Compare(a, b Element) (int, error) {
	fa, fb := f.Dequantize(a), f.Dequantize(b)
	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}

// Quantize computes round(|x|*2^64) mod p, storing p-that when x<0, per
// spec §3/§4.1.
func (symmetricField) Quantize(x float64) Element {
	neg := x < 0
	mag := new(big.Float).SetPrec(256).SetFloat64(math.Abs(x))
	mag.Mul(mag, symmetricScale)
	mag.Add(mag, big.NewFloat(0.5))
	rounded, _ := mag.Int(nil)

	var fe fr.Element
	fe.SetBigInt(rounded)
	if neg {
		fe.Neg(&fe)
	}
	return Element{fe: fe}
}

// Dequantize interprets canonical representatives above p/2 as negative,
// per spec §3.
func (symmetricField) Dequantize(a Element) float64 {
	var z big.Int
	a.fe.BigInt(&z)

	neg := z.Cmp(negativePoint()) > 0
	if neg {
		p := fr.Modulus()
		z.Sub(p, &z)
	}

	f := new(big.Float).SetInt(&z)
	f.Quo(f, symmetricScale)
	out, _ := f.Float64()
	if neg {
		out = -out
	}
	return out
}

func (symmetricField) Random() Element {
	var r fr.Element
	_, _ = r.SetRandom()
	return Element{fe: r}
}

// equalWithinTolerance implements the spec's "Equality uses a dequantized
// tolerance of 1e-8" rule for FLOAT_SYMMETRIC.
func equalWithinTolerance(a, b float64) bool {
	return math.Abs(a-b) <= symmetricTolerance
}
