// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of MREPORT.
//
//  MREPORT is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  MREPORT is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with MREPORT.  If not, see <https://www.gnu.org/licenses/>.

package messages

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
)

type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueText
	ValueNumber
)

// Value is a result value of a fact. It is either a text
// (e.g. a summary sentence) or a number (a count, a mean, ...).
// The type is comparable so facts can be compared using
// the `==` operator.
type Value struct {
	kind ValueKind
	text string
	num  float64
}

func Text(s string) Value {
	return Value{kind: ValueText, text: s}
}

func Number(v float64) Value {
	return Value{kind: ValueNumber, num: v}
}

func Int(v int) Value {
	return Number(float64(v))
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) Float() (float64, bool) {
	return v.num, v.kind == ValueNumber
}

func (v Value) IsFinite() bool {
	if v.kind != ValueNumber {
		return true
	}
	return !math.IsNaN(v.num) && !math.IsInf(v.num, 0)
}

func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return sonic.Marshal(v.text)
	case ValueNumber:
		return sonic.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var tmp any
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	switch tv := tmp.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = Text(tv)
	case float64:
		*v = Number(tv)
	default:
		return fmt.Errorf("unsupported fact value type %T", tmp)
	}
	return nil
}
