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

package transcript

import (
	"crypto/sha256"
	"hash"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/nume-crypto/zerok/config"
	"github.com/nume-crypto/zerok/errs"
)

func newHash() hash.Hash { return sha256.New() }

func parseSemver(s string) (semver.Version, error) {
	return semver.Parse(s)
}

// wireFormat is the single opaque blob persisted to disk: a serialized map
// from label to its ordered list of byte-string entries, tagged with the
// protocol version so an incompatible future label set fails fast.
type wireFormat struct {
	Version string              `cbor:"version"`
	Entries map[string][][]byte `cbor:"entries"`
}

// MarshalBinary encodes the transcript as a cbor blob per §6's "Proof
// transcript on disk" contract.
func (t *Transcript) MarshalBinary() ([]byte, error) {
	t.mu.Lock()
	wf := wireFormat{
		Version: config.ProtocolVersion.String(),
		Entries: make(map[string][][]byte, len(t.entries)),
	}
	for k, v := range t.entries {
		wf.Entries[string(k)] = v
	}
	t.mu.Unlock()

	b, err := cbor.Marshal(wf)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "transcript.MarshalBinary", err)
	}
	return b, nil
}

// UnmarshalBinary decodes a cbor blob produced by MarshalBinary into t,
// replacing its contents. Read cursors are reset to the start of every
// label.
func (t *Transcript) UnmarshalBinary(data []byte) error {
	var wf wireFormat
	if err := cbor.Unmarshal(data, &wf); err != nil {
		return errs.Wrap(errs.IO, "transcript.UnmarshalBinary", err)
	}

	v, err := parseSemver(wf.Version)
	if err != nil {
		return errs.Wrap(errs.IO, "transcript.UnmarshalBinary", err)
	}
	if err := config.CheckCompatible(v); err != nil {
		return errs.Wrap(errs.IO, "transcript.UnmarshalBinary", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[Label][][]byte, len(wf.Entries))
	t.cursor = make(map[Label]int, len(wf.Entries))
	for k, v := range wf.Entries {
		t.entries[Label(k)] = v
	}
	t.h = newHash()
	return nil
}
