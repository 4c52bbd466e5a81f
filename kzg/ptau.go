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
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/log"
)

const (
	ptauMagic       = "PTAU"
	ptauVersion     = uint32(1)
	g1PointCompSize = 32 // compressed BN254 G1 point, per bn254.G1Affine.Bytes
	g2PointCompSize = 64 // compressed BN254 G2 point, per bn254.G2Affine.Bytes
)

var (
	ErrBadHeader  = errs.New(errs.IO, "kzg.LoadPtau", "bad ptau header magic or version")
	ErrTruncated  = errs.New(errs.IO, "kzg.LoadPtau", "truncated ptau file")
	ErrBadSection = errs.New(errs.IO, "kzg.LoadPtau", "malformed ptau section table")
)

// LoadPtau reads a powers-of-tau SRS from a binary .ptau file, per spec §6:
// a 4-byte magic ("PTAU"), a uint32 version, a uint32 G1 point count, the
// G1 points in compressed BN254 encoding, then the two G2 points. The file
// handle is always closed, on every return path.
func LoadPtau(path string) (srs *SRS, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, errs.Wrap(errs.IO, "kzg.LoadPtau", openErr)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errs.Wrap(errs.IO, "kzg.LoadPtau", cerr)
		}
	}()

	r := bufio.NewReader(f)

	magic := make([]byte, len(ptauMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, ErrBadHeader
	}
	if string(magic) != ptauMagic {
		return nil, ErrBadHeader
	}

	var version, nbG1 uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, ErrTruncated
	}
	if version != ptauVersion {
		return nil, ErrBadHeader
	}
	if err := binary.Read(r, binary.BigEndian, &nbG1); err != nil {
		return nil, ErrTruncated
	}
	if nbG1 < 1 {
		return nil, ErrBadSection
	}

	result := &SRS{G1: make([]bn254.G1Affine, nbG1)}
	buf := make([]byte, g1PointCompSize)
	for i := range result.G1 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, ErrTruncated
		}
		if _, err := result.G1[i].SetBytes(buf); err != nil {
			return nil, errs.Wrap(errs.IO, "kzg.LoadPtau", err)
		}
	}

	g2buf := make([]byte, g2PointCompSize)
	for i := range result.G2 {
		if _, err := io.ReadFull(r, g2buf); err != nil {
			return nil, ErrTruncated
		}
		if _, err := result.G2[i].SetBytes(g2buf); err != nil {
			return nil, errs.Wrap(errs.IO, "kzg.LoadPtau", err)
		}
	}

	log.Commitments().Info().Int("g1_points", len(result.G1)).Msg("loaded ptau SRS")
	return result, nil
}
