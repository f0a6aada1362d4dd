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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleFact() Fact {
	return Fact{
		Corpus:        "war",
		CorpusType:    "news",
		TimestampFrom: ValidInt(2000),
		TimestampTo:   ValidInt(2001),
		TimestampType: TimestampBetweenYears,
		AnalysisType:  "TrackNameSentiment:Mean",
		ResultKey:     "[ENTITY:NAME:Foo]",
		ResultValue:   Number(0.1),
		Outlierness:   2.0,
		Extra:         "[LINK:abc]",
	}
}

func TestFactEqualSameValues(t *testing.T) {
	f1 := sampleFact()
	f2 := sampleFact()
	assert.True(t, f1.Equal(f2))
	assert.Equal(t, f1.Hash(), f2.Hash())
}

func TestFactEqualDiffersInEachField(t *testing.T) {
	base := sampleFact()
	variants := []func(f *Fact){
		func(f *Fact) { f.Corpus = "peace" },
		func(f *Fact) { f.CorpusType = "books" },
		func(f *Fact) { f.TimestampFrom = NullInt{} },
		func(f *Fact) { f.TimestampTo = ValidInt(2002) },
		func(f *Fact) { f.TimestampType = TimestampDuringYear },
		func(f *Fact) { f.AnalysisType = "TrackNameSentiment:Max" },
		func(f *Fact) { f.ResultKey = "[ENTITY:NAME:Bar]" },
		func(f *Fact) { f.ResultValue = Text("0.1") },
		func(f *Fact) { f.Outlierness = 2.5 },
		func(f *Fact) { f.Extra = "" },
	}
	for i, modify := range variants {
		other := sampleFact()
		modify(&other)
		assert.False(t, base.Equal(other), "variant %d", i)
		assert.NotEqual(t, base.Hash(), other.Hash(), "variant %d", i)
	}
}

func TestFactHashNegativeZero(t *testing.T) {
	f1 := sampleFact()
	f1.ResultValue = Number(0)
	f2 := sampleFact()
	f2.ResultValue = Number(math.Copysign(0, -1))
	assert.True(t, f1.Equal(f2))
	assert.Equal(t, f1.Hash(), f2.Hash())
}

func TestFactValidateOK(t *testing.T) {
	assert.NoError(t, sampleFact().Validate())
}

func TestFactValidateAllTimeWithTimestamp(t *testing.T) {
	f := sampleFact()
	f.TimestampType = TimestampAllTime
	assert.Error(t, f.Validate())
}

func TestFactValidateDuringYearMismatch(t *testing.T) {
	f := sampleFact()
	f.TimestampType = TimestampDuringYear
	assert.Error(t, f.Validate())
	f.TimestampTo = f.TimestampFrom
	assert.NoError(t, f.Validate())
}

func TestFactValidateReversedSpan(t *testing.T) {
	f := sampleFact()
	f.TimestampFrom = ValidInt(2005)
	assert.Error(t, f.Validate())
}

func TestFactValidateNonFinite(t *testing.T) {
	f := sampleFact()
	f.Outlierness = math.NaN()
	assert.Error(t, f.Validate())
	f = sampleFact()
	f.ResultValue = Number(math.Inf(1))
	assert.Error(t, f.Validate())
}

func TestFactJSONRoundTrip(t *testing.T) {
	f := sampleFact()
	data, err := json.Marshal(f)
	assert.NoError(t, err)
	var decoded Fact
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, f.Equal(decoded))
}

func TestNullFieldsSerializeAsNull(t *testing.T) {
	f := Fact{TimestampType: TimestampAllTime, AnalysisType: "Summarization", ResultValue: Text("S")}
	data, err := json.Marshal(f)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"timestampFrom":null`)
	assert.Contains(t, string(data), `"resultValue":"S"`)
}

func TestMessageMainFact(t *testing.T) {
	f1 := sampleFact()
	f2 := sampleFact()
	f2.Corpus = "other"
	m := NewMessage(f1, f2)
	assert.Len(t, m.Facts, 2)
	assert.True(t, m.MainFact().Equal(f1))
}

func TestMessageValidateEmpty(t *testing.T) {
	assert.Error(t, (&Message{}).Validate())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "2", Int(2).String())
	assert.Equal(t, "0.45", Number(0.45).String())
	assert.Equal(t, "foo", Text("foo").String())
	assert.Equal(t, "", Value{}.String())
}
