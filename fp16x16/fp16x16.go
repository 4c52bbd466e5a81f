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

// Package fp16x16 implements the sign-magnitude fixed-point base type used
// by the FLOAT_ASYMMETRIC arithmetization, per spec §4.1. It is a host-side
// runtime: transcendentals (exp, ln, sin, ...) are evaluated here via range
// reduction, small lookup tables and minimax polynomial approximations, and
// never appear inside a proved circuit (relu and friends are evaluated on
// the host and folded into a 0/1 multiplication instead).
package fp16x16

import "math/bits"

// Fixed-point layout constants, mirroring the reference FP16x16Base.
const (
	Half  = 1 << 15
	One   = 1 << 16
	Two   = 1 << 17
	Max   = 1 << 31
	TwoPi = 411775
	Pi    = 205887
	HalfPi = 102944
)

// Base is a sign-magnitude fixed-point number: value = (-1)^sign * mag/One.
// NaN is (mag=0, sign=true); +/-Inf is (mag=2^32-1, sign).
type Base struct {
	Mag  uint64
	Sign bool
}

// Zero, OneV, HalfV, MaxV mirror the reference's static constructors (named
// with a V suffix because Go reserves the bare identifiers for the
// constants above).
func Zero() Base { return Base{} }
func OneV() Base { return Base{Mag: One} }
func HalfV() Base { return Base{Mag: Half} }
func MaxV() Base { return Base{Mag: Max} }

// New builds a Base from a raw fixed-point magnitude.
func New(mag uint64, sign bool) Base { return Base{Mag: mag, Sign: sign} }

// NewUnscaled builds a Base from an unscaled integer (multiplies by One).
func NewUnscaled(mag uint64, sign bool) Base { return Base{Mag: mag * One, Sign: sign} }

// Quantize converts a host float64 into fixed point.
func Quantize(x float64) Base {
	sign := x < 0
	if sign {
		x = -x
	}
	return Base{Mag: uint64(x * One), Sign: sign}
}

// Dequantize converts a fixed-point Base back into a host float64.
func Dequantize(b Base) float64 {
	f := float64(b.Mag) / float64(One)
	if b.Sign {
		return -f
	}
	return f
}

// NaN returns the canonical NaN encoding.
func NaN() Base { return Base{Mag: 0, Sign: true} }

// IsNaN reports whether b is the canonical NaN encoding.
func (b Base) IsNaN() bool { return b.Mag == 0 && b.Sign }

// Inf returns the canonical (signed) infinity encoding.
func Inf(sign bool) Base { return Base{Mag: 1<<32 - 1, Sign: sign} }

// IsInf reports whether b is a (signed) infinity encoding.
func (b Base) IsInf() bool { return b.Mag == 1<<32-1 }

// Abs returns |b|.
func (b Base) Abs() Base { return Base{Mag: b.Mag, Sign: false} }

// Neg returns -b.
func (b Base) Neg() Base {
	if b.Mag == 0 {
		return b
	}
	return Base{Mag: b.Mag, Sign: !b.Sign}
}

// Signum returns the signum of b as a fixed-point -1/0/1.
func (b Base) Signum() Base {
	if b.Mag == 0 {
		return Zero()
	}
	return Base{Mag: One, Sign: b.Sign}
}

// Add implements same-sign magnitude addition / opposite-sign subtraction,
// per spec §4.1.
func (a Base) Add(b Base) Base {
	if a.Sign == b.Sign {
		return Base{Mag: a.Mag + b.Mag, Sign: a.Sign}
	}
	if a.Mag == b.Mag {
		return Zero()
	}
	if a.Mag > b.Mag {
		return Base{Mag: a.Mag - b.Mag, Sign: a.Sign}
	}
	return Base{Mag: b.Mag - a.Mag, Sign: b.Sign}
}

// Sub returns a - b.
func (a Base) Sub(b Base) Base { return a.Add(b.Neg()) }

// Mul multiplies magnitudes and shifts right by the scale, XORing signs,
// per spec §4.1.
func (a Base) Mul(b Base) Base {
	prod := (a.Mag * b.Mag) / One
	return Base{Mag: prod, Sign: a.Sign != b.Sign}
}

// Div performs wide division by pre-scaling the dividend.
func (a Base) Div(b Base) Base {
	dividend := a.Mag * One
	quotient := dividend / b.Mag
	return Base{Mag: quotient, Sign: a.Sign != b.Sign}
}

// Cmp returns -1/0/1 comparing a and b.
func (a Base) Cmp(b Base) int {
	if a.Sign != b.Sign {
		if a.Mag == 0 && b.Mag == 0 {
			return 0
		}
		if a.Sign {
			return -1
		}
		return 1
	}
	if a.Mag == b.Mag {
		return 0
	}
	less := a.Mag < b.Mag
	if a.Sign {
		less = !less
	}
	if less {
		return -1
	}
	return 1
}

func (a Base) Eq(b Base) bool { return a.Mag == b.Mag && a.Sign == b.Sign }
func (a Base) Lt(b Base) bool { return a.Cmp(b) < 0 }
func (a Base) Le(b Base) bool { return a.Cmp(b) <= 0 }
func (a Base) Gt(b Base) bool { return a.Cmp(b) > 0 }
func (a Base) Ge(b Base) bool { return a.Cmp(b) >= 0 }

// Floor rounds towards -Inf.
func (b Base) Floor() Base {
	div, rem := b.Mag/One, b.Mag%One
	if rem == 0 {
		return b
	}
	if !b.Sign {
		return NewUnscaled(div, false)
	}
	return NewUnscaled(div+1, true)
}

// Ceil rounds towards +Inf.
func (b Base) Ceil() Base {
	div, rem := b.Mag/One, b.Mag%One
	if rem == 0 {
		return b
	}
	if !b.Sign {
		return NewUnscaled(div+1, false)
	}
	if div == 0 {
		return NewUnscaled(0, false)
	}
	return NewUnscaled(div, true)
}

// Round rounds to nearest, ties away from zero.
func (b Base) Round() Base {
	div, rem := b.Mag/One, b.Mag%One
	if rem >= Half {
		return NewUnscaled(div+1, b.Sign)
	}
	return NewUnscaled(div, b.Sign)
}

// msbLUT returns the position of the most significant bit of n (n>0) and 2^msb.
func msbLUT(n uint64) (int, uint64) {
	if n == 0 {
		return 0, 1
	}
	msb := bits.Len64(n) - 1
	return msb, uint64(1) << uint(msb)
}
