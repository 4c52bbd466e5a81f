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

// Package plookup implements the sorted-concatenation permutation argument
// (Gabizon-Williamson plookup) proving that every value of a witness vector
// appears in a public table, grounded on gnark-crypto's
// ecc/bn254/fr/plookup vector argument and committed/challenged through the
// shared kzg and transcript packages rather than a private sha256
// Fiat-Shamir instance, per spec §4.7.
package plookup

import (
	"math/big"

	"github.com/nume-crypto/zerok/kzg"
)

// Setup derives the KZG structured reference string backing a plookup
// argument over a table/witness pair whose padded domain has cardinality
// size, mirroring the reference zerok.lookup.plookup.setup.Setup(powers,
// tau) contract. insecureTau is the toxic-waste scalar; tests and examples
// use a fixed one, production callers should prefer LoadSetup.
func Setup(size uint64, insecureTau *big.Int) (*kzg.SRS, error) {
	return kzg.NewSRSInsecure(size, insecureTau)
}

// LoadSetup loads a production SRS from a powers-of-tau file, the
// non-insecure counterpart of Setup.
func LoadSetup(path string) (*kzg.SRS, error) {
	return kzg.LoadPtau(path)
}
