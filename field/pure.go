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
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// pureField is the identity arithmetization: elements are plain integers
// mod p, no scaling. Division uses the Fermat inverse a*b^(p-2). Comparisons
// are undefined because sign has no meaning once a value is reduced mod p.
type pureField struct{}

func (pureField) Mode() Mode { return Pure }

func (pureField) Zero() Element { return Element{} }

func (pureField) One() Element {
	var one fr.Element
	one.SetOne()
	return Element{fe: one}
}

func (pureField) Add(a, b Element) Element {
	var r fr.Element
	r.Add(&a.fe, &b.fe)
	return Element{fe: r}
}

func (pureField) Sub(a, b Element) Element {
	var r fr.Element
	r.Sub(&a.fe, &b.fe)
	return Element{fe: r}
}

func (pureField) Mul(a, b Element) Element {
	var r fr.Element
	r.Mul(&a.fe, &b.fe)
	return Element{fe: r}
}

func (pureField) Div(a, b Element) (Element, error) {
	var r fr.Element
	r.Div(&a.fe, &b.fe)
	return Element{fe: r}, nil
}

func (pureField) Pow(a, e Element) Element {
	var expBig big.Int
	e.fe.BigInt(&expBig)
	var r fr.Element
	r.Exp(a.fe, &expBig)
	return Element{fe: r}
}

func (pureField) Neg(a Element) Element {
	var r fr.Element
	r.Neg(&a.fe)
	return Element{fe: r}
}

func (pureField) Compare(a, b Element) (int, error) {
	return 0, errCompareUndefined("field.pureField.Compare")
}

func (pureField) Quantize(x float64) Element {
	var r fr.Element
	r.SetInt64(int64(x))
	return Element{fe: r}
}

func (pureField) Dequantize(a Element) float64 {
	var z big.Int
	a.fe.BigInt(&z)
	f := new(big.Float).SetInt(&z)
	out, _ := f.Float64()
	return out
}

func (pureField) Random() Element {
	var r fr.Element
	_, _ = r.SetRandom()
	return Element{fe: r}
}
