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

// Package config holds the process-wide constants named in the spec's
// Configuration section: recognized arithmetization modes, their precision
// bits, and the protocol version stamped onto on-disk transcript blobs.
package config

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// Mode mirrors field.Mode without importing it, so config has no
// dependency on the arithmetic layer it describes.
type Mode int

const (
	Pure Mode = iota
	FloatSymmetric
	FloatAsymmetric
)

func (m Mode) String() string {
	switch m {
	case Pure:
		return "PURE"
	case FloatSymmetric:
		return "FLOAT_SYMMETRIC"
	case FloatAsymmetric:
		return "FLOAT_ASYMMETRIC"
	default:
		return "UNKNOWN"
	}
}

// Recognized lists every mode the toolkit accepts, in the order the spec
// enumerates them.
var Recognized = []Mode{Pure, FloatSymmetric, FloatAsymmetric}

// PrecisionBits returns the fixed scale, in bits, for the given mode. PURE
// has no scale (returns 0).
func PrecisionBits(m Mode) int {
	switch m {
	case FloatSymmetric:
		return 64
	case FloatAsymmetric:
		return 16
	default:
		return 0
	}
}

// ProtocolVersion is the version stamped onto every on-disk transcript blob.
// Bumping the major component signals an incompatible label-set change.
var ProtocolVersion = semver.MustParse("1.0.0")

// CheckCompatible returns an error if other cannot be decoded by this build,
// i.e. its major version differs from ProtocolVersion's.
func CheckCompatible(other semver.Version) error {
	if other.Major != ProtocolVersion.Major {
		return fmt.Errorf("incompatible transcript protocol version %s (this build supports %s.x.x)",
			other, ProtocolVersion.Major)
	}
	return nil
}
