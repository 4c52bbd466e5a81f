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

// Package dag implements the operator-overloaded expression graph of spec
// §4.2: a Value is built from a real number (quantized via the active
// field) or by composing existing Values with Add/Mul. Go has no operator
// overloading, so composition is exposed as named builder methods per the
// Design Notes guidance.
package dag

import (
	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/field"
	"github.com/nume-crypto/zerok/log"
)

// Op tags a Value's role in the graph, per spec §3.
type Op int

const (
	OpConst Op = iota
	OpVar
	OpAdd
	OpMul
)

func (o Op) String() string {
	switch o {
	case OpConst:
		return "const"
	case OpVar:
		return "var"
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	default:
		return "unknown"
	}
}

// Value is a DAG node: a stored field element, an operation tag, ordered
// children (exactly two for Add/Mul, none for leaves), an IsConstant flag,
// and a witness Index (-1 for constants), per spec §3.
type Value struct {
	Data       field.Element
	Op         Op
	Left       *Value
	Right      *Value
	IsConstant bool
	Index      int
}

// Witness is the ordered list of field elements, one per non-constant leaf,
// per spec §3. It is appended to monotonically by a Builder and consumed
// read-only by the layering compiler.
type Witness []field.Element

// Builder owns one witness vector and one pinned field context; a fresh
// proof must start from a fresh Builder, per SPEC_FULL §5.
type Builder struct {
	ctx     *field.Context
	witness Witness
}

// NewBuilder starts a fresh DAG build pinned to ctx. Passing a nil ctx pins
// whatever mode is currently process-wide active at the time of the call.
func NewBuilder(ctx *field.Context) *Builder {
	if ctx == nil {
		ctx = field.ActiveContext()
	}
	return &Builder{ctx: ctx}
}

// Field returns the pinned field implementation.
func (b *Builder) Field() field.Field { return b.ctx.Field() }

// Witness returns the witness vector accumulated so far, in creation order.
func (b *Builder) Witness() Witness { return b.witness }

// NewConst builds a constant leaf from a host float. Constants have no
// witness index.
func (b *Builder) NewConst(x float64) *Value {
	return &Value{
		Data:       b.Field().Quantize(x),
		Op:         OpConst,
		IsConstant: true,
		Index:      -1,
	}
}

// NewVar builds a variable leaf from a host float, appending it to the
// witness vector and recording its assigned index, per spec §4.2.
func (b *Builder) NewVar(x float64) *Value {
	e := b.Field().Quantize(x)
	idx := len(b.witness)
	b.witness = append(b.witness, e)
	return &Value{
		Data:       e,
		Op:         OpVar,
		IsConstant: false,
		Index:      idx,
	}
}

// coerce turns a scalar operand (float64/int) into a constant Value, per
// spec §4.2's automatic coercion of "+"/"*" scalar operands.
func (b *Builder) coerce(other interface{}) (*Value, error) {
	switch o := other.(type) {
	case *Value:
		return o, nil
	case float64:
		return b.NewConst(o), nil
	case int:
		return b.NewConst(float64(o)), nil
	default:
		return nil, errs.New(errs.Arithmetization, "dag.coerce", "unsupported operand type")
	}
}

// Add composes a+other (other may be *Value, float64 or int), mirroring the
// reference's Value.__add__.
func (b *Builder) Add(a *Value, other interface{}) *Value {
	o, err := b.coerce(other)
	if err != nil {
		log.Compiler().Error().Err(err).Msg("dag.Add: bad operand")
		panic(err)
	}
	result := b.Field().Add(a.Data, o.Data)
	return &Value{
		Data:       result,
		Op:         OpAdd,
		Left:       a,
		Right:      o,
		IsConstant: a.IsConstant && o.IsConstant,
		Index:      -1,
	}
}

// Mul composes a*other (other may be *Value, float64 or int), mirroring the
// reference's Value.__mul__.
func (b *Builder) Mul(a *Value, other interface{}) *Value {
	o, err := b.coerce(other)
	if err != nil {
		log.Compiler().Error().Err(err).Msg("dag.Mul: bad operand")
		panic(err)
	}
	result := b.Field().Mul(a.Data, o.Data)
	return &Value{
		Data:       result,
		Op:         OpMul,
		Left:       a,
		Right:      o,
		IsConstant: a.IsConstant && o.IsConstant,
		Index:      -1,
	}
}

// Relu is implemented non-natively: the predicate is evaluated on the host
// and the Value is multiplied by the constant 0 or 1, so the proved circuit
// only ever contains Add/Mul gates, per spec §4.2.
func (b *Builder) Relu(v *Value) *Value {
	cmp, err := b.Field().Compare(v.Data, b.Field().Zero())
	if err != nil {
		// Comparison is undefined in PURE mode; relu has no meaning there
		// either, so surface the same error rather than guessing a sign.
		log.Compiler().Warn().Err(err).Msg("dag.Relu: comparison undefined in this mode")
		panic(err)
	}
	if cmp > 0 {
		return b.Mul(v, 1.0)
	}
	return b.Mul(b.NewConst(0), v)
}

// IsLeaf reports whether v has no children.
func (v *Value) IsLeaf() bool { return v.Left == nil && v.Right == nil }
