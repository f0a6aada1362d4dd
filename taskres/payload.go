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

package taskres

import (
	"bytes"
	"encoding/json"
	"errors"
)

const (
	ResultSectionKey = "result"
)

// Payload is an analysis specific result structure. Its only
// common property is the (expected) presence of the `result`
// section.
type Payload struct {
	raw      json.RawMessage
	sections map[string]json.RawMessage
}

// Raw returns the whole payload as it was received.
func (p Payload) Raw() json.RawMessage {
	return p.raw
}

// Section returns a top-level section of the payload or nil
// if there is no such section.
func (p Payload) Section(key string) json.RawMessage {
	return p.sections[key]
}

// HasResult tests whether the `result` section is present and
// non-empty (i.e. not null, false, 0, an empty string,
// an empty array or an empty object).
func (p Payload) HasResult() bool {
	return !isFalsy(p.sections[ResultSectionKey])
}

// Decode unmarshals the whole payload into v.
func (p Payload) Decode(v any) error {
	if isNullOrEmpty(p.raw) {
		return errors.New("empty task result payload")
	}
	return json.Unmarshal(p.raw, v)
}

func isFalsy(data json.RawMessage) bool {
	if isNullOrEmpty(data) {
		return true
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return true
	}
	switch tv := v.(type) {
	case bool:
		return !tv
	case float64:
		return tv == 0
	case string:
		return tv == ""
	case []any:
		return len(tv) == 0
	case map[string]any:
		return len(tv) == 0
	}
	return false
}

func NewPayload(data json.RawMessage) Payload {
	ans := Payload{raw: data}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		// an invalid object leaves us with no sections which
		// is handled as an empty result
		json.Unmarshal(data, &ans.sections)
	}
	return ans
}
