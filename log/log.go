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

// Package log centralizes zerolog setup so every package-role (compiler,
// prover, verifier) logs with the same fields and never logs field-element
// values, which would leak witness data.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	base    = zerolog.New(io.Discard).With().Timestamp().Logger()
	inited  bool
)

// Configure sets the output writer and minimum level for all role loggers.
// Call once at process start; safe to call again in tests.
func Configure(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).Level(level).With().Timestamp().Logger()
	inited = true
}

func ensureDefault() {
	mu.Lock()
	defer mu.Unlock()
	if inited {
		return
	}
	base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).With().Timestamp().Logger()
	inited = true
}

func role(name string) zerolog.Logger {
	ensureDefault()
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", name).Logger()
}

// Compiler returns the logger used by the dag/circuit layering compiler.
func Compiler() zerolog.Logger { return role("compiler") }

// Prover returns the logger used by gkr.Prover and plookup.Prover.
func Prover() zerolog.Logger { return role("prover") }

// Verifier returns the logger used by gkr.Verifier and plookup.Verifier.
// Verifier failures are never panics; they are logged here and surfaced as
// a boolean reject.
func Verifier() zerolog.Logger { return role("verifier") }

// Commitments returns the logger used by the kzg package.
func Commitments() zerolog.Logger { return role("kzg") }
