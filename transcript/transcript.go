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

// Package transcript implements the Fiat-Shamir proof transcript: an
// ordered multimap from a fixed closed set of labels to byte-string
// entries, with an independent read cursor per label. It follows the same
// "hash the running transcript to derive the next challenge" idiom
// gnark-crypto's fiat-shamir package uses, extended with the
// append/read-by-cursor semantics the GKR verifier needs to replay a
// prover's transcript label by label.
package transcript

import (
	"crypto/sha256"
	"hash"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/nume-crypto/zerok/errs"
)

// Label identifies one of the fixed transcript channels. Unlike a free-form
// string, values outside the closed set below are rejected by Append/Read.
type Label string

// The closed set of labels the protocol writes to, per spec §3 plus the
// plookup commitment/opening labels of §4.6/§6.
const (
	LabelPhase1           Label = "phase_1"
	LabelPhase2           Label = "phase_2"
	LabelFinalGKRRound    Label = "final_gkr_round"
	LabelAlphaBetaSum     Label = "alpha_beta_sum"
	LabelVU               Label = "v_u"
	LabelVV               Label = "v_v"
	LabelR0               Label = "r_0"
	LabelR1               Label = "r_1"
	LabelRU               Label = "r_u"
	LabelRV               Label = "r_v"
	LabelAlpha            Label = "alpha"
	LabelBeta             Label = "beta"
	LabelRho              Label = "rho"
	LabelDirectRelayValue Label = "direct_relay_value"
	LabelRC               Label = "r_c"
	LabelVUDirectRelay    Label = "v_u_direct_relay"
	LabelInput            Label = "input"

	LabelPlookupCommitment Label = "plookup_commitment"
	LabelPlookupOpening    Label = "plookup_opening"
)

var validLabels = map[Label]bool{
	LabelPhase1: true, LabelPhase2: true, LabelFinalGKRRound: true,
	LabelAlphaBetaSum: true, LabelVU: true, LabelVV: true,
	LabelR0: true, LabelR1: true, LabelRU: true, LabelRV: true,
	LabelAlpha: true, LabelBeta: true, LabelRho: true,
	LabelDirectRelayValue: true, LabelRC: true, LabelVUDirectRelay: true,
	LabelInput: true, LabelPlookupCommitment: true, LabelPlookupOpening: true,
}

// Transcript is append-only per label; the order of entries within a label
// is meaningful, the relative order across labels is not (only the order
// each Append call occurred in feeds the running hash, which is what
// actually binds the whole proof together).
type Transcript struct {
	mu      sync.Mutex
	entries map[Label][][]byte
	cursor  map[Label]int
	h       hash.Hash
}

// New returns an empty transcript seeded with a fresh SHA-256 state.
func New() *Transcript {
	return &Transcript{
		entries: make(map[Label][][]byte),
		cursor:  make(map[Label]int),
		h:       sha256.New(),
	}
}

func checkLabel(op string, label Label) error {
	if !validLabels[label] {
		return errs.New(errs.Transcript, op, "unknown label "+string(label))
	}
	return nil
}

// Append writes data under label, in order, and folds it into the running
// Fiat-Shamir hash state.
func (t *Transcript) Append(label Label, data []byte) error {
	if err := checkLabel("transcript.Append", label); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[label] = append(t.entries[label], data)
	t.h.Write([]byte(label))
	t.h.Write(data)
	return nil
}

// AppendElement is a convenience wrapper for field elements.
func (t *Transcript) AppendElement(label Label, e fr.Element) error {
	b := e.Bytes()
	return t.Append(label, b[:])
}

// AppendElements encodes a slice of field elements as a single entry, used
// for the degree-2/5 round-polynomial coefficient lists.
func (t *Transcript) AppendElements(label Label, es []fr.Element) error {
	buf := make([]byte, 0, len(es)*fr.Bytes)
	for _, e := range es {
		b := e.Bytes()
		buf = append(buf, b[:]...)
	}
	return t.Append(label, buf)
}

// Read returns the next unread entry under label and advances its cursor.
func (t *Transcript) Read(label Label) ([]byte, error) {
	if err := checkLabel("transcript.Read", label); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.cursor[label]
	entries := t.entries[label]
	if idx >= len(entries) {
		return nil, errs.New(errs.Transcript, "transcript.Read", "missing entry for label "+string(label))
	}
	t.cursor[label] = idx + 1
	return entries[idx], nil
}

// ReadAt returns the entry at the explicit index idx under label. Unlike
// Read, it leaves the label's cursor where it was.
func (t *Transcript) ReadAt(label Label, idx int) ([]byte, error) {
	if err := checkLabel("transcript.ReadAt", label); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := t.entries[label]
	if idx < 0 || idx >= len(entries) {
		return nil, errs.New(errs.Transcript, "transcript.ReadAt", "index out of range for label "+string(label))
	}
	return entries[idx], nil
}

// ReadElement reads the next entry under label and decodes it as a single
// field element.
func (t *Transcript) ReadElement(label Label) (fr.Element, error) {
	var e fr.Element
	b, err := t.Read(label)
	if err != nil {
		return e, err
	}
	e.SetBytes(b)
	return e, nil
}

// ReadElements reads the next entry under label and decodes it as a slice of
// n field elements.
func (t *Transcript) ReadElements(label Label, n int) ([]fr.Element, error) {
	b, err := t.Read(label)
	if err != nil {
		return nil, err
	}
	if len(b) != n*fr.Bytes {
		return nil, errs.New(errs.Transcript, "transcript.ReadElements", "malformed coefficient list")
	}
	out := make([]fr.Element, n)
	for i := range out {
		out[i].SetBytes(b[i*fr.Bytes : (i+1)*fr.Bytes])
	}
	return out, nil
}

// Len reports the number of entries written so far under label.
func (t *Transcript) Len(label Label) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries[label])
}

// Challenge derives the next verifier randomness for label by hashing the
// transcript's running state, reducing it into a field element, recording it
// under label (so a verifier replaying the same transcript observes the same
// value via Read), and folding it back into the hash so consecutive
// challenges differ.
func (t *Transcript) Challenge(label Label) (fr.Element, error) {
	if err := checkLabel("transcript.Challenge", label); err != nil {
		return fr.Element{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	sum := t.h.Sum(nil)
	var e fr.Element
	e.SetBytes(sum)
	b := e.Bytes()

	t.entries[label] = append(t.entries[label], b[:])
	t.h.Write([]byte(label))
	t.h.Write(b[:])

	return e, nil
}

// Flatten returns the raw label->entries map, e.g. for diffing in tests.
func (t *Transcript) Flatten() map[Label][][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Label][][]byte, len(t.entries))
	for k, v := range t.entries {
		cp := make([][]byte, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
