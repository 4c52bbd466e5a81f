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

// Package field implements the three interchangeable arithmetization modes
// (PURE, FLOAT_SYMMETRIC, FLOAT_ASYMMETRIC) over the BN254 scalar field, per
// spec §3/§4.1. Every mode exposes the same Field operation contract so the
// dag/circuit/gkr layers above never need to know which one is active.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/errs"
)

// Mode selects the active arithmetization, per spec §3.
type Mode int

const (
	Pure Mode = iota
	FloatSymmetric
	FloatAsymmetric
)

func (m Mode) String() string {
	switch m {
	case Pure:
		return "PURE"
	case FloatSymmetric:
		return "FLOAT_SYMMETRIC"
	case FloatAsymmetric:
		return "FLOAT_ASYMMETRIC"
	default:
		return "UNKNOWN"
	}
}

// Element is the tagged representation described in SPEC_FULL §3: fe is the
// canonical mod-p value every mode agrees on for circuit wiring, KZG and
// sum-check; mag/sign are the FLOAT_ASYMMETRIC sign-magnitude view, kept
// consistent with fe (fe == mag if !sign, fe == p-mag if sign).
type Element struct {
	fe   fr.Element
	mag  uint64
	sign bool
}

// FromFr wraps a raw BN254 scalar as a PURE/FLOAT_SYMMETRIC-style element.
func FromFr(e fr.Element) Element {
	return Element{fe: e}
}

// Fr returns the canonical mod-p representation.
func (e Element) Fr() fr.Element { return e.fe }

// Magnitude returns the FLOAT_ASYMMETRIC magnitude component.
func (e Element) Magnitude() uint64 { return e.mag }

// Sign returns the FLOAT_ASYMMETRIC sign component.
func (e Element) Sign() bool { return e.sign }

// IsZero reports whether the canonical representation is zero.
func (e Element) IsZero() bool { return e.fe.IsZero() }

// Bytes returns the canonical big-endian encoding, used by the transcript
// and by the DAG JSON handoff.
func (e Element) Bytes() []byte {
	b := e.fe.Bytes()
	return b[:]
}

// DecimalString is the canonical decimal encoding the compiler handoff
// artifact (§6) requires: always the unsigned mod-p representative, never a
// leading '-'.
func (e Element) DecimalString() string {
	var z big.Int
	e.fe.BigInt(&z)
	return z.String()
}

// Equal reports whether two elements have the same canonical representation.
func (e Element) Equal(o Element) bool { return e.fe.Equal(&o.fe) }

// FromDecimalString parses the canonical unsigned decimal encoding produced
// by DecimalString, as used by the compiler handoff artifact (§6) to reload
// serialized constants. The mag/sign view is left unset; callers that need
// it should go through a mode's Quantize instead.
func FromDecimalString(s string) (Element, error) {
	var z big.Int
	if _, ok := z.SetString(s, 10); !ok {
		return Element{}, errs.New(errs.IO, "field.FromDecimalString", "invalid decimal integer: "+s)
	}
	var fe fr.Element
	fe.SetBigInt(&z)
	return Element{fe: fe}, nil
}

// asymmetric constructs the tagged representation for a (magnitude, sign)
// pair, deriving the canonical fe = mag or p-mag.
func asymmetric(mag uint64, sign bool) Element {
	var fe fr.Element
	fe.SetUint64(mag)
	if sign && mag != 0 {
		fe.Neg(&fe)
	}
	return Element{fe: fe, mag: mag, sign: sign}
}

// Field is the uniform operation contract every arithmetization mode must
// expose, per spec §4.1.
type Field interface {
	Mode() Mode
	Zero() Element
	One() Element
	Add(a, b Element) Element
	Sub(a, b Element) Element
	Mul(a, b Element) Element
	Div(a, b Element) (Element, error)
	Pow(a, e Element) Element
	Neg(a Element) Element
	// Compare returns -1/0/1, or an error in modes (PURE) where sign is
	// undefined.
	Compare(a, b Element) (int, error)
	Quantize(x float64) Element
	Dequantize(a Element) float64
	Random() Element
}

// errCompareUndefined is shared by modes where ordering has no meaning.
func errCompareUndefined(op string) error {
	return errs.New(errs.Arithmetization, op, "comparison undefined for this arithmetization mode")
}
