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

package dag

import (
	"encoding/json"

	"github.com/nume-crypto/zerok/errs"
	"github.com/nume-crypto/zerok/field"
)

// wireValue is the {const}/{var}/{operation} tree from spec §6. Exactly one
// of the three pointer fields is populated.
type wireValue struct {
	Const     *wireConst     `json:"const,omitempty"`
	Var       *wireVar       `json:"var,omitempty"`
	Operation *wireOperation `json:"operation,omitempty"`
}

type wireConst struct {
	ConstValue string `json:"const_value"`
}

type wireVar struct {
	Var int `json:"var"`
}

type wireOperation struct {
	Op    string    `json:"op"`
	Left  wireValue `json:"left"`
	Right wireValue `json:"right"`
}

// Serialize renders v as the {const}/{var}/{operation} JSON tree of spec §6.
func (v *Value) Serialize() ([]byte, error) {
	w, err := v.toWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (v *Value) toWire() (wireValue, error) {
	switch v.Op {
	case OpConst:
		return wireValue{Const: &wireConst{ConstValue: v.Data.DecimalString()}}, nil
	case OpVar:
		return wireValue{Var: &wireVar{Var: v.Index}}, nil
	case OpAdd, OpMul:
		left, err := v.Left.toWire()
		if err != nil {
			return wireValue{}, err
		}
		right, err := v.Right.toWire()
		if err != nil {
			return wireValue{}, err
		}
		return wireValue{Operation: &wireOperation{Op: v.Op.String(), Left: left, Right: right}}, nil
	default:
		return wireValue{}, errs.New(errs.Arithmetization, "dag.Serialize", "unknown op tag")
	}
}

// FromJSON parses the {const}/{var}/{operation} tree back into a Value tree
// rooted at a fresh node, using f to reconstruct field elements and w to
// resolve variable witness values by index (w must hold at least as many
// entries as the highest var index referenced).
func FromJSON(data []byte, f field.Field, w Witness) (*Value, error) {
	var wv wireValue
	if err := json.Unmarshal(data, &wv); err != nil {
		return nil, errs.Wrap(errs.IO, "dag.FromJSON", err)
	}
	return fromWire(wv, f, w)
}

func fromWire(wv wireValue, f field.Field, w Witness) (*Value, error) {
	switch {
	case wv.Const != nil:
		e, err := parseConst(wv.Const.ConstValue, f)
		if err != nil {
			return nil, err
		}
		return &Value{Data: e, Op: OpConst, IsConstant: true, Index: -1}, nil
	case wv.Var != nil:
		idx := wv.Var.Var
		if idx < 0 || idx >= len(w) {
			return nil, errs.New(errs.Arithmetization, "dag.FromJSON", "var index out of range")
		}
		return &Value{Data: w[idx], Op: OpVar, IsConstant: false, Index: idx}, nil
	case wv.Operation != nil:
		left, err := fromWire(wv.Operation.Left, f, w)
		if err != nil {
			return nil, err
		}
		right, err := fromWire(wv.Operation.Right, f, w)
		if err != nil {
			return nil, err
		}
		var op Op
		var data field.Element
		switch wv.Operation.Op {
		case "add":
			op = OpAdd
			data = f.Add(left.Data, right.Data)
		case "mul":
			op = OpMul
			data = f.Mul(left.Data, right.Data)
		default:
			return nil, errs.New(errs.Arithmetization, "dag.FromJSON", "unknown op: "+wv.Operation.Op)
		}
		return &Value{
			Data:       data,
			Op:         op,
			Left:       left,
			Right:      right,
			IsConstant: left.IsConstant && right.IsConstant,
			Index:      -1,
		}, nil
	default:
		return nil, errs.New(errs.Arithmetization, "dag.FromJSON", "empty wire node")
	}
}

func parseConst(s string, f field.Field) (field.Element, error) {
	_ = f // constants are stored as the canonical unsigned mod-p decimal, §6
	return field.FromDecimalString(s)
}
