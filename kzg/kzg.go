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

// Package kzg implements the KZG polynomial commitment scheme over BN254,
// per spec §4.5/§6: a powers-of-tau SRS, a G1 commitment, and a
// pairing-based single-point opening proof. Grounded on gnark-crypto's own
// ecc/*/fr/kzg package shape (SRS{G1,G2}, Commit/Open/Verify). The package
// derives no challenges of its own; Open records each claimed value in the
// caller's transcript.Transcript, and the opening points come from the
// caller.
package kzg

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/polynomial"
	"github.com/nume-crypto/zerok/transcript"
)

// Digest is a commitment to a polynomial: a single BN254 G1 point.
type Digest = bn254.G1Affine

// SRS stores the structured reference string derived from a powers-of-tau
// ceremony: G1 = [gen, [tau]gen, [tau^2]gen, ...], G2 = [gen, [tau]gen].
type SRS struct {
	G1 []bn254.G1Affine
	G2 [2]bn254.G2Affine
}

// OpeningProof is a KZG single-point opening: the quotient commitment plus
// the point and claimed value it attests to.
type OpeningProof struct {
	H            bn254.G1Affine
	Point        fr.Element
	ClaimedValue fr.Element
}

var (
	ErrInvalidPolynomialSize = errs.New(errs.Arithmetization, "kzg", "invalid polynomial size (larger than SRS or == 0)")
	ErrInvalidDomain         = errs.New(errs.Arithmetization, "kzg", "domain cardinality smaller than polynomial degree")
	ErrVerifyOpeningProof    = errs.New(errs.Protocol, "kzg.Verify", "opening proof failed pairing check")
)

// NewSRSInsecure derives an SRS from an explicit toxic-waste scalar tau.
// Used only by tests and by LoadPtau's caller when no real ceremony output
// is available; a production SRS must come from LoadPtau.
func NewSRSInsecure(size uint64, tau *big.Int) (*SRS, error) {
	if size < 2 {
		return nil, errs.New(errs.Arithmetization, "kzg.NewSRSInsecure", "minimum srs size is 2")
	}
	var srs SRS
	srs.G1 = make([]bn254.G1Affine, size)

	var alpha fr.Element
	alpha.SetBigInt(tau)

	_, _, gen1Aff, gen2Aff := bn254.Generators()
	srs.G1[0] = gen1Aff
	srs.G2[0] = gen2Aff
	srs.G2[1].ScalarMultiplication(&gen2Aff, tau)

	alphas := make([]fr.Element, size-1)
	if len(alphas) > 0 {
		alphas[0] = alpha
		for i := 1; i < len(alphas); i++ {
			alphas[i].Mul(&alphas[i-1], &alpha)
		}
		for i := range alphas {
			alphas[i].FromMont()
		}
		g1s := bn254.BatchScalarMultiplicationG1(&gen1Aff, alphas)
		copy(srs.G1[1:], g1s)
	}

	return &srs, nil
}

// CommitG1 commits to p (Monomial basis) via a multi-exponentiation
// against the SRS's G1 powers.
func CommitG1(p polynomial.Polynomial, srs *SRS) (Digest, error) {
	if len(p.Values) == 0 || len(p.Values) > len(srs.G1) {
		return Digest{}, ErrInvalidPolynomialSize
	}
	var res bn254.G1Affine
	if _, err := res.MultiExp(srs.G1[:len(p.Values)], p.Values, ecc.MultiExpConfig{}); err != nil {
		return Digest{}, errs.Wrap(errs.Arithmetization, "kzg.CommitG1", err)
	}
	return res, nil
}

// Open computes an opening proof of p at point, writing the claimed value
// into tr under LabelPlookupOpening so a verifier can replay the same
// Fiat-Shamir state; Verify itself takes no transcript.
func Open(p polynomial.Polynomial, point fr.Element, srs *SRS, tr *transcript.Transcript) (OpeningProof, error) {
	if len(p.Values) == 0 || len(p.Values) > len(srs.G1) {
		return OpeningProof{}, ErrInvalidPolynomialSize
	}

	claimed := polynomial.NewMonomial(p.Values).Eval(point)
	proof := OpeningProof{Point: point, ClaimedValue: claimed}

	h := dividePolyByXMinusA(p.Values, claimed, point)
	hCommit, err := CommitG1(polynomial.NewMonomial(h), srs)
	if err != nil {
		return OpeningProof{}, err
	}
	proof.H = hCommit

	if tr != nil {
		if err := tr.Append(transcript.LabelPlookupOpening, proof.ClaimedValue.Marshal()); err != nil {
			return OpeningProof{}, err
		}
	}

	return proof, nil
}

// Verify checks a KZG opening proof via the pairing equation
// e(commitment - [claimedValue]G1, G2gen) == e(H, [tau - point]G2).
func Verify(commitment *Digest, proof *OpeningProof, srs *SRS) error {
	var claimedValueG1 bn254.G1Affine
	var claimedValueBigInt big.Int
	proof.ClaimedValue.BigInt(&claimedValueBigInt)
	claimedValueG1.ScalarMultiplication(&srs.G1[0], &claimedValueBigInt)

	var fMinusFaJac, tmpJac bn254.G1Jac
	fMinusFaJac.FromAffine(commitment)
	tmpJac.FromAffine(&claimedValueG1)
	fMinusFaJac.SubAssign(&tmpJac)

	var negH bn254.G1Affine
	negH.Neg(&proof.H)

	var pointBigInt big.Int
	proof.Point.BigInt(&pointBigInt)

	var genG2Jac, tauG2Jac, tauMinusPointG2Jac bn254.G2Jac
	genG2Jac.FromAffine(&srs.G2[0])
	tauG2Jac.FromAffine(&srs.G2[1])
	tauMinusPointG2Jac.ScalarMultiplication(&genG2Jac, &pointBigInt).
		Neg(&tauMinusPointG2Jac).
		AddAssign(&tauG2Jac)

	var tauMinusPointG2 bn254.G2Affine
	tauMinusPointG2.FromJacobian(&tauMinusPointG2Jac)

	var fMinusFaG1 bn254.G1Affine
	fMinusFaG1.FromJacobian(&fMinusFaJac)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{fMinusFaG1, negH},
		[]bn254.G2Affine{srs.G2[0], tauMinusPointG2},
	)
	if err != nil {
		return errs.Wrap(errs.Protocol, "kzg.Verify", err)
	}
	if !ok {
		return ErrVerifyOpeningProof
	}
	return nil
}

// dividePolyByXMinusA computes (f - f(a)) / (x - a) via synthetic division,
// returning the quotient in Monomial basis.
func dividePolyByXMinusA(f []fr.Element, fa, a fr.Element) []fr.Element {
	degree := len(f) - 1
	g := make([]fr.Element, len(f))
	copy(g, f)
	g[0].Sub(&g[0], &fa)

	var c, t fr.Element
	for i := len(g) - 1; i >= 0; i-- {
		t.Mul(&c, &a)
		g[i].Add(&g[i], &t)
		c, g[i] = g[i], c
	}
	return g[:degree]
}
