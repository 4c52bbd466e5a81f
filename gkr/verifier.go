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
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/circuit"
	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/kzg"
	"github.com/nume-crypto/zerok/log"
	"github.com/nume-crypto/zerok/polynomial"
	"github.com/nume-crypto/zerok/transcript"
)

// Verifier checks a Proof against a circuit's public shape (gate wiring,
// layer sizes) and a KZG SRS. It never reads a witness value directly: every
// value it uses either comes from its own independently-derived Fiat-Shamir
// challenges, or is pinned to the committed witness polynomial via a KZG
// pairing check at the end.
type Verifier struct {
	SRS *kzg.SRS
}

// Verify replays proof.Transcript's entries into a fresh transcript (so
// every challenge is re-derived rather than trusted as recorded), checks
// round-by-round sum-check consistency at each layer boundary, and finishes
// with the two KZG openings against the committed witness polynomial.
//
// Per the error handling design, a malformed or dishonest proof never
// surfaces as a Go error here: every transcript/protocol failure is logged
// at warn level and reduces to (false, nil). Only truly unexpected
// conditions outside the protocol's own failure taxonomy would propagate,
// and none currently do.
func (v Verifier) Verify(c *circuit.Circuit, proof *Proof) (bool, error) {
	ok, err := v.verify(c, proof)
	if err != nil {
		log.Verifier().Warn().Err(err).Msg("gkr: proof rejected")
		return false, nil
	}
	return ok, nil
}

func (v Verifier) verify(c *circuit.Circuit, proof *Proof) (bool, error) {
	pt := proof.Transcript
	tr := transcript.New()

	commitBytes := proof.Commitment.Bytes()
	if err := tr.Append(transcript.LabelInput, commitBytes[:]); err != nil {
		return false, err
	}
	if gotBytes, err := pt.Read(transcript.LabelInput); err != nil {
		return false, err
	} else if !bytesEqual(gotBytes, commitBytes[:]) {
		return false, errs.New(errs.Protocol, "gkr.Verify", "commitment mismatch between proof and transcript")
	}

	gateWeight := []fr.Element{one()}
	claim := c.Output().Fr()

	var rU, rV []fr.Element
	var vU, vV fr.Element

	for i := 0; i < c.Depth()-1; i++ {
		layer := c.Layers[i]
		next := c.Layers[i+1]
		isFinal := i == c.Depth()-2
		nextBits := next.BitLength

		if relayed, _ := directRelayValue(layer, next, gateWeight); relayed {
			value, err := pt.ReadElement(transcript.LabelDirectRelayValue)
			if err != nil {
				return false, err
			}
			if err := tr.AppendElement(transcript.LabelDirectRelayValue, value); err != nil {
				return false, err
			}
			relayValue, err := pt.ReadElement(transcript.LabelVUDirectRelay)
			if err != nil {
				return false, err
			}
			if err := tr.AppendElement(transcript.LabelVUDirectRelay, relayValue); err != nil {
				return false, err
			}
			if value != relayValue {
				return false, errs.New(errs.Protocol, "gkr.Verify", "direct-relay claim mismatch")
			}
			log.Verifier().Debug().Int("layer", i).Msg("gkr: direct-relay boundary, sumcheck skipped")
			continue
		}

		w := buildWiring(layer, next.Size(), gateWeight)
		claim.Sub(&claim, &w.baseline)

		var err error
		rU, claim, err = verifySumcheckPhase(tr, pt, transcript.LabelPhase1, transcript.LabelFinalGKRRound, false, transcript.LabelR0, nextBits, claim)
		if err != nil {
			return false, err
		}
		vU, err = replayElement(pt, tr, transcript.LabelVU)
		if err != nil {
			return false, err
		}

		rV, claim, err = verifySumcheckPhase(tr, pt, transcript.LabelPhase2, transcript.LabelFinalGKRRound, isFinal, transcript.LabelR1, nextBits, claim)
		if err != nil {
			return false, err
		}
		vV, err = replayElement(pt, tr, transcript.LabelVV)
		if err != nil {
			return false, err
		}

		expected := finalIdentity(w, vU, vV, rU, rV)
		if claim != expected {
			return false, errs.New(errs.Protocol, "gkr.Verify", "final round inconsistent with wiring identity")
		}

		alpha, err := tr.Challenge(transcript.LabelAlpha)
		if err != nil {
			return false, err
		}
		beta, err := tr.Challenge(transcript.LabelBeta)
		if err != nil {
			return false, err
		}
		var merged, t1, t2 fr.Element
		t1.Mul(&alpha, &vU)
		t2.Mul(&beta, &vV)
		merged.Add(&t1, &t2)

		recorded, err := pt.ReadElement(transcript.LabelAlphaBetaSum)
		if err != nil {
			return false, err
		}
		if err := tr.AppendElement(transcript.LabelAlphaBetaSum, merged); err != nil {
			return false, err
		}
		if recorded != merged {
			return false, errs.New(errs.Protocol, "gkr.Verify", "alpha/beta merge mismatch")
		}

		claim = merged
		if !isFinal {
			gateWeight = combineEq(alpha, rU, beta, rV, nextBits)
		}
	}

	if proof.OpeningU.Point != foldPoint(rU) {
		return false, errs.New(errs.Protocol, "gkr.Verify", "opening U is not at the expected folded point")
	}
	if proof.OpeningV.Point != foldPoint(rV) {
		return false, errs.New(errs.Protocol, "gkr.Verify", "opening V is not at the expected folded point")
	}

	// kzg.Open wrote the claimed value of each opening into the prover's
	// transcript under LabelPlookupOpening as a side effect (see kzg.Open);
	// replay both entries here so tr's hash chain matches the prover's
	// exactly, which matters when a plookup argument shares this same
	// transcript instance after the GKR portion completes.
	if err := replayPlookupOpening(pt, tr, proof.OpeningU.ClaimedValue); err != nil {
		return false, err
	}
	if err := replayPlookupOpening(pt, tr, proof.OpeningV.ClaimedValue); err != nil {
		return false, err
	}

	srs := v.SRS
	if err := kzg.Verify(&proof.Commitment, &proof.OpeningU, srs); err != nil {
		return false, err
	}
	if err := kzg.Verify(&proof.Commitment, &proof.OpeningV, srs); err != nil {
		return false, err
	}

	return true, nil
}

// finalIdentity evaluates the layer boundary's combined wiring integrand at
// the fully-bound point (rU,rV), substituting the asserted vU/vV for the
// witness evaluations.
func finalIdentity(w *wiring, vU, vV fr.Element, rU, rV []fr.Element) fr.Element {
	av := w.addWeight(rU, rV)
	mv := w.mulWeight(rU, rV)
	lv := w.linWeight(rU)

	var wsum, t1, t2, t3, sum fr.Element
	wsum.Add(&vU, &vV)
	t1.Mul(&av, &wsum)
	t2.Mul(&mv, &vU)
	t2.Mul(&t2, &vV)
	t3.Mul(&lv, &vU)
	sum.Add(&t1, &t2)
	sum.Add(&sum, &t3)
	return sum
}

// verifySumcheckPhase replays `bits` rounds of sum-check from pt, checking
// each round's additivity against the running claim and deriving a fresh
// challenge per round from tr (never trusting pt's own recorded challenge
// bytes). Returns the bound point and the final round's value at the last
// challenge.
func verifySumcheckPhase(tr, pt *transcript.Transcript, label, finalLabel transcript.Label, lastIsFinal bool, challengeLabel transcript.Label, bits int, claim fr.Element) ([]fr.Element, fr.Element, error) {
	point := make([]fr.Element, 0, bits)
	for k := 0; k < bits; k++ {
		isLastRound := lastIsFinal && k == bits-1

		var sum, next fr.Element
		if isLastRound {
			coeffs, err := pt.ReadElements(finalLabel, 6)
			if err != nil {
				return nil, fr.Element{}, err
			}
			if err := tr.AppendElements(finalLabel, coeffs); err != nil {
				return nil, fr.Element{}, err
			}
			var poly polynomial.QuintuplePoly
			copy(poly[:], coeffs)
			sum = poly.SumAtBooleanHypercube()
			if sum != claim {
				return nil, fr.Element{}, errs.New(errs.Protocol, "gkr.Verify", "round polynomial fails additivity check")
			}
			r, err := tr.Challenge(challengeLabel)
			if err != nil {
				return nil, fr.Element{}, err
			}
			next = poly.Eval(r)
			point = append(point, r)
		} else {
			coeffs, err := pt.ReadElements(label, 3)
			if err != nil {
				return nil, fr.Element{}, err
			}
			if err := tr.AppendElements(label, coeffs); err != nil {
				return nil, fr.Element{}, err
			}
			var poly polynomial.QuadraticPoly
			copy(poly[:], coeffs)
			sum = poly.SumAtBooleanHypercube()
			if sum != claim {
				return nil, fr.Element{}, errs.New(errs.Protocol, "gkr.Verify", "round polynomial fails additivity check")
			}
			r, err := tr.Challenge(challengeLabel)
			if err != nil {
				return nil, fr.Element{}, err
			}
			next = poly.Eval(r)
			point = append(point, r)
		}
		claim = next
	}
	return point, claim, nil
}

// replayPlookupOpening reads the next LabelPlookupOpening entry kzg.Open
// wrote during proving, checks it matches the claimed value the proof
// already carries, and re-appends the raw bytes to tr so tr's hash state
// tracks the prover's exactly.
func replayPlookupOpening(pt, tr *transcript.Transcript, claimed fr.Element) error {
	b, err := pt.Read(transcript.LabelPlookupOpening)
	if err != nil {
		return err
	}
	if !bytesEqual(b, claimed.Marshal()) {
		return errs.New(errs.Protocol, "gkr.Verify", "plookup-opening transcript entry does not match claimed value")
	}
	return tr.Append(transcript.LabelPlookupOpening, b)
}

func replayElement(pt, tr *transcript.Transcript, label transcript.Label) (fr.Element, error) {
	v, err := pt.ReadElement(label)
	if err != nil {
		return fr.Element{}, err
	}
	if err := tr.AppendElement(label, v); err != nil {
		return fr.Element{}, err
	}
	return v, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
