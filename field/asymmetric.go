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
	"github.com/nume-crypto/zerok/fp16x16"
)

// asymmetricField implements FLOAT_ASYMMETRIC: elements are (magnitude,
// sign) pairs at a scale of 2^16, per spec §4.1. Arithmetic is delegated to
// fp16x16.Base; the canonical mod-p representation is re-derived after
// every operation so the circuit/KZG/sum-check layers still see a
// consistent field element.
type asymmetricField struct{}

func toBase(e Element) fp16x16.Base { return fp16x16.Base{Mag: e.mag, Sign: e.sign} }

func fromBase(b fp16x16.Base) Element { return asymmetric(b.Mag, b.Sign) }

func (asymmetricField) Mode() Mode { return FloatAsymmetric }

func (asymmetricField) Zero() Element { return fromBase(fp16x16.Zero()) }

func (asymmetricField) One() Element { return fromBase(fp16x16.OneV()) }

func (asymmetricField) Add(a, b Element) Element { return fromBase(toBase(a).Add(toBase(b))) }

func (asymmetricField) Sub(a, b Element) Element { return fromBase(toBase(a).Sub(toBase(b))) }

func (asymmetricField) Mul(a, b Element) Element { return fromBase(toBase(a).Mul(toBase(b))) }

func (asymmetricField) Div(a, b Element) (Element, error) {
	return fromBase(toBase(a).Div(toBase(b))), nil
}

func (asymmetricField) Pow(a, e Element) Element {
	return fromBase(toBase(a).Pow(toBase(e)))
}

func (asymmetricField) Neg(a Element) Element { return fromBase(toBase(a).Neg()) }

func (asymmetricField) Compare(a, b Element) (int, error) {
	return toBase(a).Cmp(toBase(b)), nil
}

func (asymmetricField) Quantize(x float64) Element { return fromBase(fp16x16.Quantize(x)) }

func (asymmetricField) Dequantize(a Element) float64 { return fp16x16.Dequantize(toBase(a)) }

// asymmetricRandomBound matches the reference's ModularInteger.random(),
// which samples a non-negative magnitude in [0, 2^16), not the full Max
// fp16x16 range.
const asymmetricRandomBound = uint64(1) << 16

func (asymmetricField) Random() Element {
	return asymmetric(randUint64(asymmetricRandomBound), false)
}
