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

// Package errs defines the typed error kinds shared by every zerok package.
package errs

import "fmt"

// Kind tags the class of failure, per the error handling design.
type Kind int

const (
	// Arithmetization covers invalid scale, disallowed negative magnitude,
	// NaN comparisons and other field-layer misuse.
	Arithmetization Kind = iota
	// CircuitShape covers empty DAGs, cycles, and gate-degree mismatches.
	CircuitShape
	// Transcript covers missing labels, out-of-range reads and malformed
	// coefficient lists.
	Transcript
	// Protocol covers sum-check identity violations, KZG pairing failures
	// and plookup multiset mismatches.
	Protocol
	// IO covers malformed or truncated SRS/transcript files.
	IO
)

func (k Kind) String() string {
	switch k {
	case Arithmetization:
		return "arithmetization"
	case CircuitShape:
		return "circuit_shape"
	case Transcript:
		return "transcript"
	case Protocol:
		return "protocol"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every zerok package. Op names
// the failing operation (e.g. "circuit.Compile"), Kind classifies it, and Err
// carries the underlying cause, if any.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf("%s", msg)}
}

// Wrap builds an *Error around an existing cause.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	for err != nil {
		if asErr, ok := err.(*Error); ok {
			e = asErr
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return 0, false
	}
	return e.Kind, true
}
