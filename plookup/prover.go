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

package plookup

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/field"
	"github.com/nume-crypto/zerok/kzg"
	"github.com/nume-crypto/zerok/polynomial"
	"github.com/nume-crypto/zerok/transcript"
)

// Proof bundles the commitments and opening proofs of a plookup argument.
// Size records the padded domain cardinality so a verifier (which never
// sees the witness) can reconstruct the same domain.
type Proof struct {
	Transcript *transcript.Transcript
	Size       uint64

	CommitT, CommitF, CommitH1, CommitH2, CommitZ, CommitQ kzg.Digest

	OpenTZeta, OpenTZetaG               kzg.OpeningProof
	OpenFZeta                           kzg.OpeningProof
	OpenH1Zeta, OpenH1ZetaG, OpenH1Last  kzg.OpeningProof
	OpenH2Zeta, OpenH2ZetaG, OpenH2First kzg.OpeningProof
	OpenZZeta, OpenZZetaG, OpenZFirst, OpenZLast kzg.OpeningProof
	OpenQZeta                                    kzg.OpeningProof
}

// Prover proves that every element of a witness vector appears in Params's
// public table, named after the reference zerok.lookup.plookup.prover
// contract (Prover(setup, params).prove(witness)).
type Prover struct {
	SRS    *kzg.SRS
	Params *Params
}

// Prove builds the sorted-concatenation permutation argument: commits to
// the table, witness, and the two halves of their sorted merge, derives
// beta/gamma to build the grand-product accumulator Z, commits Z, builds
// and commits the quotient polynomial Q that makes the grand-product
// recurrence a genuine off-domain polynomial identity (see buildQuotient),
// then opens every committed polynomial at a transcript-derived point zeta
// (and the shifted point zeta*g where the identity needs the next row) so
// the verifier can check the plookup identity against real KZG pairing
// checks plus the quotient relation, rather than trusting the recurrence
// to hold anywhere off the evaluation domain.
func (p Prover) Prove(witness []field.Element) (*Proof, error) {
	tr := transcript.New()

	w := make([]fr.Element, len(witness))
	for i, v := range witness {
		w[i] = v.Fr()
	}

	n := domainSize(len(p.Params.Table), len(w))
	t := p.Params.paddedSortedTable(n)
	f, err := paddedWitness(w, int(n))
	if err != nil {
		return nil, err
	}
	for _, v := range f {
		if !containsSorted(t, v) {
			return nil, errs.New(errs.Arithmetization, "plookup.Prove", "witness value not present in table")
		}
	}

	merged := sortedConcat(t, f)
	h1 := append([]fr.Element(nil), merged[:n]...)
	h2 := append([]fr.Element(nil), merged[n-1:]...)

	ct, err := toMonomial(t)
	if err != nil {
		return nil, err
	}
	cf, err := toMonomial(f)
	if err != nil {
		return nil, err
	}
	ch1, err := toMonomial(h1)
	if err != nil {
		return nil, err
	}
	ch2, err := toMonomial(h2)
	if err != nil {
		return nil, err
	}

	commitT, err := kzg.CommitG1(ct, p.SRS)
	if err != nil {
		return nil, err
	}
	commitF, err := kzg.CommitG1(cf, p.SRS)
	if err != nil {
		return nil, err
	}
	commitH1, err := kzg.CommitG1(ch1, p.SRS)
	if err != nil {
		return nil, err
	}
	commitH2, err := kzg.CommitG1(ch2, p.SRS)
	if err != nil {
		return nil, err
	}
	if err := appendCommitment(tr, commitT); err != nil {
		return nil, err
	}
	if err := appendCommitment(tr, commitF); err != nil {
		return nil, err
	}
	if err := appendCommitment(tr, commitH1); err != nil {
		return nil, err
	}
	if err := appendCommitment(tr, commitH2); err != nil {
		return nil, err
	}

	beta, err := tr.Challenge(transcript.LabelBeta)
	if err != nil {
		return nil, err
	}
	gamma, err := tr.Challenge(transcript.LabelRho)
	if err != nil {
		return nil, err
	}

	z := evaluateAccumulatorZ(f, t, h1, h2, beta, gamma)
	cz, err := toMonomial(z)
	if err != nil {
		return nil, err
	}
	commitZ, err := kzg.CommitG1(cz, p.SRS)
	if err != nil {
		return nil, err
	}
	if err := appendCommitment(tr, commitZ); err != nil {
		return nil, err
	}

	d := fft.NewDomain(n)
	cq, err := buildQuotient(ct.Values, cf.Values, ch1.Values, ch2.Values, cz.Values, beta, gamma, d)
	if err != nil {
		return nil, err
	}
	commitQ, err := kzg.CommitG1(cq, p.SRS)
	if err != nil {
		return nil, err
	}
	if err := appendCommitment(tr, commitQ); err != nil {
		return nil, err
	}

	zeta, err := tr.Challenge(transcript.LabelRC)
	if err != nil {
		return nil, err
	}
	var zetaG, one fr.Element
	one.SetOne()
	zetaG.Mul(&zeta, &d.Generator)
	var gLast fr.Element
	gLast.Exp(d.Generator, new(big.Int).SetUint64(n-1))

	proof := &Proof{Transcript: tr, Size: n, CommitT: commitT, CommitF: commitF, CommitH1: commitH1, CommitH2: commitH2, CommitZ: commitZ, CommitQ: commitQ}

	if proof.OpenTZeta, err = kzg.Open(ct, zeta, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenTZetaG, err = kzg.Open(ct, zetaG, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenFZeta, err = kzg.Open(cf, zeta, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenH1Zeta, err = kzg.Open(ch1, zeta, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenH1ZetaG, err = kzg.Open(ch1, zetaG, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenH1Last, err = kzg.Open(ch1, gLast, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenH2Zeta, err = kzg.Open(ch2, zeta, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenH2ZetaG, err = kzg.Open(ch2, zetaG, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenH2First, err = kzg.Open(ch2, one, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenZZeta, err = kzg.Open(cz, zeta, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenZZetaG, err = kzg.Open(cz, zetaG, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenZFirst, err = kzg.Open(cz, one, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenZLast, err = kzg.Open(cz, gLast, p.SRS, tr); err != nil {
		return nil, err
	}
	if proof.OpenQZeta, err = kzg.Open(cq, zeta, p.SRS, tr); err != nil {
		return nil, err
	}

	return proof, nil
}

// buildQuotient constructs the quotient polynomial that turns the
// grand-product recurrence evaluateAccumulatorZ encodes row-by-row into a
// single polynomial identity a verifier can check at one out-of-domain
// point. Written in monomial-coefficient form (matching gnark-crypto's
// computeQuotientCanonical, but via plain convolution/division rather than a
// coset FFT):
//
//	numFT(X) = (1+beta)*(gamma+f(X)) * (beta*t(gX)+t(X)+(1+beta)*gamma)
//	dd(X)    = beta*h1(gX)+h1(X)+(1+beta)*gamma
//	uu(X)    = beta*h2(gX)+h2(X)+(1+beta)*gamma
//	middle(X) = z(gX)*dd(X)*uu(X) - z(X)*numFT(X)
//
// evaluateAccumulatorZ's recurrence only runs over indices 0..n-2 (the last
// row is pinned by the separate OpenH1Last/OpenH2First boundary checks
// instead), so middle vanishes at every domain point except the wraparound
// one g^{n-1}: it is divisible by vanishingExceptLast, not by the full
// X^n-1, and the division below must leave a zero remainder for an honest
// witness.
func buildQuotient(tVals, fVals, h1Vals, h2Vals, zVals []fr.Element, beta, gamma fr.Element, d *fft.Domain) (polynomial.Polynomial, error) {
	g := d.Generator
	n := d.Cardinality

	tG := shiftByGenerator(tVals, g)
	h1G := shiftByGenerator(h1Vals, g)
	h2G := shiftByGenerator(h2Vals, g)
	zG := shiftByGenerator(zVals, g)

	var onePlusBeta, c fr.Element
	onePlusBeta.SetOne().Add(&onePlusBeta, &beta)
	c.Mul(&onePlusBeta, &gamma)

	gammaPlusF := polyScale(polyAddConst(fVals, gamma), onePlusBeta)
	innerT := polyAddConst(polyAdd(polyScale(tG, beta), tVals), c)
	numFT := polyMul(gammaPlusF, innerT)

	dd := polyAddConst(polyAdd(polyScale(h1G, beta), h1Vals), c)
	uu := polyAddConst(polyAdd(polyScale(h2G, beta), h2Vals), c)
	denH := polyMul(dd, uu)

	middle := polySub(polyMul(zG, denH), polyMul(zVals, numFT))

	var r fr.Element
	r.Exp(g, new(big.Int).SetUint64(n-1))
	vanish := vanishingExceptLast(n, r)

	q, remainder := polyDivide(middle, vanish)
	if !allZero(remainder) {
		return polynomial.Polynomial{}, errs.New(errs.Protocol, "plookup.buildQuotient", "grand-product identity did not vanish on the domain; witness or accumulator is inconsistent")
	}
	return polynomial.NewMonomial(q), nil
}

func toMonomial(vals []fr.Element) (polynomial.Polynomial, error) {
	lag, err := polynomial.NewLagrange(vals)
	if err != nil {
		return polynomial.Polynomial{}, errs.Wrap(errs.Protocol, "plookup.toMonomial", err)
	}
	return lag.ToMonomial()
}

func appendCommitment(tr *transcript.Transcript, c kzg.Digest) error {
	b := c.Bytes()
	return tr.Append(transcript.LabelPlookupCommitment, b[:])
}
