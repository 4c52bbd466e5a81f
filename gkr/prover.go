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

package gkr

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/circuit"
	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/kzg"
	"github.com/nume-crypto/zerok/log"
	"github.com/nume-crypto/zerok/polynomial"
	"github.com/nume-crypto/zerok/transcript"
)

// Proof bundles the Fiat-Shamir transcript produced by Prove with the two
// KZG openings of the witness polynomial that anchor the final layer
// boundary: the transcript's round polynomials are only sound once the
// witness evaluations they depend on (v_u, v_v) are pinned to the
// committed witness, which needs the pairing-based KZG check rather than a
// transcript byte comparison.
type Proof struct {
	Transcript *transcript.Transcript
	Commitment kzg.Digest
	OpeningU   kzg.OpeningProof
	OpeningV   kzg.OpeningProof
}

// Prover runs the sum-check/GKR argument of spec §4.4 over a compiled
// circuit, shallowest layer (the output) first.
type Prover struct {
	// SRS is the KZG structured reference string used to commit to the
	// witness (input layer). Tests supply an insecure toy SRS; production
	// callers should load one via kzg.LoadPtau.
	SRS *kzg.SRS
}

// Prove walks the circuit's layer boundaries and returns a non-interactive
// proof transcript plus the witness-commitment opening pair.
func (p Prover) Prove(c *circuit.Circuit, insecureTau *big.Int) (*Proof, error) {
	tr := transcript.New()

	input := c.Layers[len(c.Layers)-1]
	witnessVals := layerValues(input)

	srs := p.SRS
	if srs == nil {
		var err error
		srs, err = kzg.NewSRSInsecure(nextPow2U(len(witnessVals)), insecureTau)
		if err != nil {
			return nil, err
		}
	}
	wLagrange, err := polynomial.NewLagrange(witnessVals)
	if err != nil {
		return nil, errs.Wrap(errs.Protocol, "gkr.Prove", err)
	}
	wMonomial, err := wLagrange.ToMonomial()
	if err != nil {
		return nil, errs.Wrap(errs.Protocol, "gkr.Prove", err)
	}
	commitment, err := kzg.CommitG1(wMonomial, srs)
	if err != nil {
		return nil, err
	}
	commitBytes := commitment.Bytes()
	if err := tr.Append(transcript.LabelInput, commitBytes[:]); err != nil {
		return nil, err
	}

	gateWeight := []fr.Element{one()}

	var rU, rV []fr.Element
	var vU, vV fr.Element

	for i := 0; i < c.Depth()-1; i++ {
		layer := c.Layers[i]
		next := c.Layers[i+1]
		isFinal := i == c.Depth()-2
		W := layerValues(next)
		nextBits := next.BitLength

		if relayed, value := directRelayValue(layer, next, gateWeight); relayed {
			if err := tr.AppendElement(transcript.LabelDirectRelayValue, value); err != nil {
				return nil, err
			}
			if err := tr.AppendElement(transcript.LabelVUDirectRelay, value); err != nil {
				return nil, err
			}
			log.Prover().Debug().Int("layer", i).Msg("gkr: direct-relay boundary, sumcheck skipped")
			// identity wiring: gateWeight already indexes the next layer's
			// gates directly, nothing to recompute before the next iteration.
			continue
		}

		w := buildWiring(layer, next.Size(), gateWeight)

		rU, err = runSumcheckPhaseLabeled(tr, transcript.LabelPhase1, transcript.LabelFinalGKRRound, false, transcript.LabelR0, nextBits,
			func(prior []fr.Element, x fr.Element) fr.Element {
				return phase1RoundEval(w, W, prior, x)
			})
		if err != nil {
			return nil, err
		}
		vU = EvalMLE(W, rU)
		if err := tr.AppendElement(transcript.LabelVU, vU); err != nil {
			return nil, err
		}

		rV, err = runSumcheckPhaseLabeled(tr, transcript.LabelPhase2, transcript.LabelFinalGKRRound, isFinal, transcript.LabelR1, nextBits,
			func(prior []fr.Element, y fr.Element) fr.Element {
				return phase2RoundEval(w, W, vU, rU, prior, y)
			})
		if err != nil {
			return nil, err
		}
		vV = EvalMLE(W, rV)
		if err := tr.AppendElement(transcript.LabelVV, vV); err != nil {
			return nil, err
		}

		alpha, err := tr.Challenge(transcript.LabelAlpha)
		if err != nil {
			return nil, err
		}
		beta, err := tr.Challenge(transcript.LabelBeta)
		if err != nil {
			return nil, err
		}
		var merged, t1, t2 fr.Element
		t1.Mul(&alpha, &vU)
		t2.Mul(&beta, &vV)
		merged.Add(&t1, &t2)
		if err := tr.AppendElement(transcript.LabelAlphaBetaSum, merged); err != nil {
			return nil, err
		}

		if !isFinal {
			gateWeight = combineEq(alpha, rU, beta, rV, nextBits)
		}
	}

	openU, err := kzg.Open(wMonomial, foldPoint(rU), srs, tr)
	if err != nil {
		return nil, err
	}
	openV, err := kzg.Open(wMonomial, foldPoint(rV), srs, tr)
	if err != nil {
		return nil, err
	}

	return &Proof{Transcript: tr, Commitment: commitment, OpeningU: openU, OpeningV: openV}, nil
}

func one() fr.Element {
	var e fr.Element
	e.SetOne()
	return e
}

func layerValues(l circuit.Layer) []fr.Element {
	out := make([]fr.Element, l.Size())
	if l.IsInputLayer() {
		for i, v := range l.Inputs {
			out[i] = v.Fr()
		}
		return out
	}
	for i, g := range l.Gates {
		out[i] = g.Value.Fr()
	}
	return out
}

func nextPow2U(n int) uint64 {
	size := uint64(1)
	for size < uint64(n) {
		size <<= 1
	}
	if size < 2 {
		size = 2
	}
	return size
}

// directRelayValue detects the narrow, sound case of an identity-wired,
// all-RELAY layer: layer(x) and next(x) are the same function on the
// hypercube index by index, so the claim forwards unchanged with no
// sum-check round at all. The returned scalar is the claim evaluated at the
// all-zero point, purely for transcript auditability.
func directRelayValue(layer, next circuit.Layer, gateWeight []fr.Element) (bool, fr.Element) {
	if layer.IsInputLayer() || layer.Size() != next.Size() {
		return false, fr.Element{}
	}
	for g, gate := range layer.Gates {
		if gate.Op != circuit.OpRelay || gate.Left.IsConst || gate.Left.WireIndex != g {
			return false, fr.Element{}
		}
	}
	W := layerValues(next)
	return true, W[0]
}

// combineEq materialises alpha*eq(rU,.) + beta*eq(rV,.) densely over the
// domain of size 2^bits, the weight array the next layer boundary's wiring
// is built against.
func combineEq(alpha fr.Element, rU []fr.Element, beta fr.Element, rV []fr.Element, bits int) []fr.Element {
	eu := eqExpand(rU, bits)
	ev := eqExpand(rV, bits)
	out := make([]fr.Element, len(eu))
	for i := range out {
		var a, b fr.Element
		a.Mul(&alpha, &eu[i])
		b.Mul(&beta, &ev[i])
		out[i].Add(&a, &b)
	}
	return out
}

// runSumcheckPhaseLabeled runs `bits` rounds of sum-check, each round
// interpolating a QuadraticPoly from 3 brute-force samples. If lastIsFinal,
// the very last round is written under finalLabel as a QuintuplePoly
// (zero-padded past the quadratic terms) instead of under label.
func runSumcheckPhaseLabeled(tr *transcript.Transcript, label, finalLabel transcript.Label, lastIsFinal bool, challengeLabel transcript.Label, bits int, evalAt func(prior []fr.Element, x fr.Element) fr.Element) ([]fr.Element, error) {
	prior := make([]fr.Element, 0, bits)
	for k := 0; k < bits; k++ {
		isLastRound := lastIsFinal && k == bits-1

		n := 3
		if isLastRound {
			n = 6
		}
		ys := make([]fr.Element, n)
		for s := 0; s < n; s++ {
			var x fr.Element
			x.SetInt64(int64(s))
			ys[s] = evalAt(prior, x)
		}
		coeffs := interpolateAtSmallInts(ys)

		if isLastRound {
			var poly polynomial.QuintuplePoly
			copy(poly[:], coeffs)
			if err := tr.AppendElements(finalLabel, poly[:]); err != nil {
				return nil, err
			}
		} else {
			var poly polynomial.QuadraticPoly
			copy(poly[:], coeffs)
			if err := tr.AppendElements(label, poly[:]); err != nil {
				return nil, err
			}
		}

		r, err := tr.Challenge(challengeLabel)
		if err != nil {
			return nil, err
		}
		prior = append(prior, r)
	}
	return prior, nil
}
