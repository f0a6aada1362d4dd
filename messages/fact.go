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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

type TimestampType string

const (
	TimestampAllTime      TimestampType = "all_time"
	TimestampBetweenYears TimestampType = "between_years"
	TimestampDuringYear   TimestampType = "during_year"
)

// Fact is a single statistical observation eligible for
// natural language reporting.
//
// The meaning of TimestampFrom and TimestampTo depends on
// TimestampType:
//   - all_time: both are null
//   - between_years: an inclusive span of years
//   - during_year: a single year (from == to)
type Fact struct {
	Corpus        string        `json:"corpus"`
	CorpusType    string        `json:"corpusType"`
	TimestampFrom NullInt       `json:"timestampFrom"`
	TimestampTo   NullInt       `json:"timestampTo"`
	TimestampType TimestampType `json:"timestampType"`
	AnalysisType  string        `json:"analysisType"`
	ResultKey     string        `json:"resultKey"`
	ResultValue   Value         `json:"resultValue"`
	Outlierness   float64       `json:"outlierness"`
	Extra         string        `json:"extra,omitempty"`
}

// Equal compares all the fields by value. Two facts are
// considered duplicates iff Equal returns true.
func (f Fact) Equal(other Fact) bool {
	return f.Corpus == other.Corpus &&
		f.CorpusType == other.CorpusType &&
		f.TimestampFrom == other.TimestampFrom &&
		f.TimestampTo == other.TimestampTo &&
		f.TimestampType == other.TimestampType &&
		f.AnalysisType == other.AnalysisType &&
		f.ResultKey == other.ResultKey &&
		f.ResultValue == other.ResultValue &&
		f.Outlierness == other.Outlierness &&
		f.Extra == other.Extra
}

// Hash calculates a structural hash over all the fields.
// Facts which are Equal always produce the same hash.
func (f Fact) Hash() uint64 {
	h := xxhash.New()
	writeStr := func(s string) {
		h.WriteString(s)
		h.Write([]byte{0x1f})
	}
	var buff [8]byte
	writeNum := func(v float64) {
		if v == 0 { // -0 == +0
			v = 0
		}
		binary.LittleEndian.PutUint64(buff[:], math.Float64bits(v))
		h.Write(buff[:])
	}
	writeNullInt := func(v NullInt) {
		if v.Valid {
			h.Write([]byte{1})
			binary.LittleEndian.PutUint64(buff[:], uint64(v.Value))
			h.Write(buff[:])

		} else {
			h.Write([]byte{0})
		}
	}
	writeStr(f.Corpus)
	writeStr(f.CorpusType)
	writeNullInt(f.TimestampFrom)
	writeNullInt(f.TimestampTo)
	writeStr(string(f.TimestampType))
	writeStr(f.AnalysisType)
	writeStr(f.ResultKey)
	h.Write([]byte{byte(f.ResultValue.kind)})
	switch f.ResultValue.kind {
	case ValueText:
		writeStr(f.ResultValue.text)
	case ValueNumber:
		writeNum(f.ResultValue.num)
	}
	writeNum(f.Outlierness)
	writeStr(f.Extra)
	return h.Sum64()
}

// Validate tests internal consistency of the fact: numeric
// values must be finite and populated timestamps must
// correspond to the timestamp type.
func (f Fact) Validate() error {
	if f.AnalysisType == "" {
		return fmt.Errorf("missing analysis type")
	}
	if math.IsNaN(f.Outlierness) || math.IsInf(f.Outlierness, 0) {
		return fmt.Errorf("non-finite outlierness in %s fact", f.AnalysisType)
	}
	if !f.ResultValue.IsFinite() {
		return fmt.Errorf("non-finite result value in %s fact", f.AnalysisType)
	}
	switch f.TimestampType {
	case TimestampAllTime:
		if f.TimestampFrom.Valid || f.TimestampTo.Valid {
			return fmt.Errorf("%s fact must not specify timestamps", TimestampAllTime)
		}
	case TimestampBetweenYears:
		if !f.TimestampFrom.Valid || !f.TimestampTo.Valid {
			return fmt.Errorf("%s fact requires both timestamps", TimestampBetweenYears)
		}
		if f.TimestampFrom.Value > f.TimestampTo.Value {
			return fmt.Errorf(
				"invalid span %d-%d in %s fact", f.TimestampFrom.Value, f.TimestampTo.Value, f.AnalysisType)
		}
	case TimestampDuringYear:
		if !f.TimestampFrom.Valid || f.TimestampFrom != f.TimestampTo {
			return fmt.Errorf("%s fact requires a single year", TimestampDuringYear)
		}
	case "":
		return fmt.Errorf("missing timestamp type in %s fact", f.AnalysisType)
	}
	return nil
}

func (f Fact) String() string {
	return fmt.Sprintf(
		"Fact{%s, %s, %s, %s-%s, %s=%s, outlierness: %g}",
		f.AnalysisType, f.Corpus, f.TimestampType, f.TimestampFrom, f.TimestampTo,
		f.ResultKey, f.ResultValue, f.Outlierness,
	)
}
