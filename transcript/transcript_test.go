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
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAppendReadRoundTrip(t *testing.T) {
	tr := New()
	var e fr.Element
	e.SetInt64(42)
	require.NoError(t, tr.AppendElement(LabelRho, e))

	got, err := tr.ReadElement(LabelRho)
	require.NoError(t, err)
	require.True(t, got.Equal(&e))
}

func TestReadUnknownLabelErrors(t *testing.T) {
	tr := New()
	_, err := tr.Read(Label("not_a_real_label"))
	require.Error(t, err)
}

func TestReadWithoutAppendErrors(t *testing.T) {
	tr := New()
	_, err := tr.Read(LabelBeta)
	require.Error(t, err)
}

func TestChallengeIsDeterministicGivenSameAppends(t *testing.T) {
	build := func() *Transcript {
		tr := New()
		var e fr.Element
		e.SetInt64(7)
		require.NoError(t, tr.AppendElement(LabelInput, e))
		return tr
	}

	a := build()
	b := build()

	ca, err := a.Challenge(LabelAlpha)
	require.NoError(t, err)
	cb, err := b.Challenge(LabelAlpha)
	require.NoError(t, err)

	require.True(t, ca.Equal(&cb))
}

// TestMarshalUnmarshalPreservesEntries round-trips a transcript through the
// cbor wire format and diffs the decoded entries against the original with
// go-cmp, which reports the offending label/index on mismatch rather than
// the single boolean reflect.DeepEqual would give.
func TestMarshalUnmarshalPreservesEntries(t *testing.T) {
	tr := New()
	var e1, e2 fr.Element
	e1.SetInt64(1)
	e2.SetInt64(2)
	require.NoError(t, tr.AppendElement(LabelVU, e1))
	require.NoError(t, tr.AppendElement(LabelVV, e2))
	require.NoError(t, tr.AppendElements(LabelPhase1, []fr.Element{e1, e2}))

	want := tr.Flatten()

	blob, err := tr.MarshalBinary()
	require.NoError(t, err)

	decoded := New()
	require.NoError(t, decoded.UnmarshalBinary(blob))

	got := decoded.Flatten()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded transcript entries differ from original (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRejectsTruncatedBlob(t *testing.T) {
	tr := New()
	blob, err := tr.MarshalBinary()
	require.NoError(t, err)

	corrupted := append([]byte(nil), blob...)
	decoded := New()
	// A malformed cbor blob (truncated) must surface as an error rather
	// than silently decoding to an empty transcript.
	require.Error(t, decoded.UnmarshalBinary(corrupted[:len(corrupted)/2]))
}
