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

// Package polynomial implements spec §3's Polynomial data model over the
// BN254 scalar field: a basis tag plus a coefficient/evaluation vector,
// with FFT/IFFT and barycentric evaluation grounded on gnark-crypto's
// ecc/bn254/fr/fft.Domain, the same way the reference plookup/kzg vector
// code in this pack uses it.
package polynomial

import (
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/nume-crypto/zerok/errs"
)

// Basis tags whether a Polynomial's Values are coefficients (Monomial) or
// evaluations over a multiplicative subgroup (Lagrange), per spec §3.
type Basis int

const (
	Monomial Basis = iota
	Lagrange
)

// Polynomial is a basis tag plus a coefficient/evaluation vector. In
// Lagrange basis the length must be a power of two, per spec §3.
type Polynomial struct {
	Basis  Basis
	Values []fr.Element
}

// NewMonomial wraps coefficients in Monomial basis, lowest degree first.
func NewMonomial(coeffs []fr.Element) Polynomial {
	return Polynomial{Basis: Monomial, Values: coeffs}
}

// NewLagrange wraps evaluations over a power-of-two domain in Lagrange
// basis.
func NewLagrange(evals []fr.Element) (Polynomial, error) {
	n := len(evals)
	if n == 0 || n&(n-1) != 0 {
		return Polynomial{}, errs.New(errs.Arithmetization, "polynomial.NewLagrange", "length must be a power of two")
	}
	return Polynomial{Basis: Lagrange, Values: evals}, nil
}

// Len returns the number of stored values.
func (p Polynomial) Len() int { return len(p.Values) }

// domainCache memoises fft.Domain instances by cardinality, since building
// one re-derives roots of unity and is not free.
type domainCache struct {
	mu      sync.Mutex
	domains map[uint64]*fft.Domain
}

var domains = &domainCache{domains: make(map[uint64]*fft.Domain)}

func (dc *domainCache) get(size uint64) *fft.Domain {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if d, ok := dc.domains[size]; ok {
		return d
	}
	d := fft.NewDomain(size)
	dc.domains[size] = d
	return d
}

// ToLagrange converts a Monomial polynomial to Lagrange basis over the
// domain of the caller-given power-of-two size, via forward FFT.
func (p Polynomial) ToLagrange(size int) (Polynomial, error) {
	if p.Basis != Monomial {
		return Polynomial{}, errs.New(errs.Arithmetization, "polynomial.ToLagrange", "source must be Monomial")
	}
	if size&(size-1) != 0 {
		return Polynomial{}, errs.New(errs.Arithmetization, "polynomial.ToLagrange", "size must be a power of two")
	}
	vals := make([]fr.Element, size)
	copy(vals, p.Values)
	d := domains.get(uint64(size))
	d.FFT(vals, fft.DIF, true)
	fft.BitReverse(vals)
	return Polynomial{Basis: Lagrange, Values: vals}, nil
}

// ToMonomial converts a Lagrange polynomial back to Monomial basis via
// inverse FFT.
func (p Polynomial) ToMonomial() (Polynomial, error) {
	if p.Basis != Lagrange {
		return Polynomial{}, errs.New(errs.Arithmetization, "polynomial.ToMonomial", "source must be Lagrange")
	}
	vals := make([]fr.Element, len(p.Values))
	copy(vals, p.Values)
	d := domains.get(uint64(len(vals)))
	fft.BitReverse(vals)
	d.FFTInverse(vals, fft.DIT, true)
	return Polynomial{Basis: Monomial, Values: vals}, nil
}

// Eval evaluates p at x by Horner's method (Monomial basis) or by
// BarycentricEval (Lagrange basis).
func (p Polynomial) Eval(x fr.Element) fr.Element {
	if p.Basis == Lagrange {
		d := domains.get(uint64(len(p.Values)))
		return BarycentricEval(p.Values, x, d)
	}
	var res fr.Element
	for i := len(p.Values) - 1; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &p.Values[i])
	}
	return res
}

// BarycentricEval evaluates a Lagrange-basis polynomial (evaluations over
// domain d's subgroup) at an arbitrary point x in O(n), without an IFFT.
// If x happens to be a domain point, its tabulated evaluation is returned
// directly.
func BarycentricEval(evals []fr.Element, x fr.Element, d *fft.Domain) fr.Element {
	n := len(evals)

	// x^n - 1
	var xn, one, numerator fr.Element
	one.SetOne()
	xn.Exp(x, big.NewInt(int64(n)))
	numerator.Sub(&xn, &one)

	g := d.Generator
	omegaI := make([]fr.Element, n)
	omegaI[0].SetOne()
	for i := 1; i < n; i++ {
		omegaI[i].Mul(&omegaI[i-1], &g)
	}

	denominators := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		// x - omega^i
		denominators[i].Sub(&x, &omegaI[i])
		if denominators[i].IsZero() {
			return evals[i]
		}
	}
	denominators = fr.BatchInvert(denominators)

	var res, term fr.Element
	for i := 0; i < n; i++ {
		term.Mul(&evals[i], &omegaI[i])
		term.Mul(&term, &denominators[i])
		res.Add(&res, &term)
	}
	res.Mul(&res, &numerator)
	var invN fr.Element
	invN.SetUint64(uint64(n)).Inverse(&invN)
	res.Mul(&res, &invN)
	return res
}
