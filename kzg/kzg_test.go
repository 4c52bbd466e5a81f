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

package kzg

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/zerok/polynomial"
)

func testSRS(t *testing.T, size uint64) *SRS {
	t.Helper()
	tau := big.NewInt(987654321)
	srs, err := NewSRSInsecure(size, tau)
	require.NoError(t, err)
	return srs
}

func TestCommitOpenVerifyRoundTrip(t *testing.T) {
	srs := testSRS(t, 8)

	coeffs := make([]fr.Element, 4)
	for i := range coeffs {
		coeffs[i].SetInt64(int64(i + 1))
	}
	p := polynomial.NewMonomial(coeffs)

	commitment, err := CommitG1(p, srs)
	require.NoError(t, err)

	var point fr.Element
	point.SetInt64(5)

	proof, err := Open(p, point, srs, nil)
	require.NoError(t, err)

	require.NoError(t, Verify(&commitment, &proof, srs))
}

func TestVerifyRejectsWrongValue(t *testing.T) {
	srs := testSRS(t, 8)

	coeffs := make([]fr.Element, 4)
	for i := range coeffs {
		coeffs[i].SetInt64(int64(i + 1))
	}
	p := polynomial.NewMonomial(coeffs)

	commitment, err := CommitG1(p, srs)
	require.NoError(t, err)

	var point fr.Element
	point.SetInt64(5)

	proof, err := Open(p, point, srs, nil)
	require.NoError(t, err)

	proof.ClaimedValue.Add(&proof.ClaimedValue, &proof.ClaimedValue)
	require.Error(t, Verify(&commitment, &proof, srs))
}
