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

package results

import (
	"encoding/json"
	"errors"
	"mreport/messages"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedMessagesNoDataJSON(t *testing.T) {
	res := &GeneratedMessages{NoData: true, Fallback: "Nothing interesting found."}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"messages": [], "noData": true, "fallback": "Nothing interesting found.", "numDuplicates": 0, "numFaults": 0}`,
		string(data),
	)
	assert.NoError(t, res.Err())
	assert.Equal(t, ResultTypeMessages, res.Type())
}

func TestGeneratedMessagesJSON(t *testing.T) {
	res := &GeneratedMessages{
		Messages: []*messages.Message{
			messages.NewMessage(messages.Fact{
				Corpus:        "news",
				CorpusType:    "news",
				TimestampType: messages.TimestampAllTime,
				AnalysisType:  "Summarization",
				ResultKey:     "Summary",
				ResultValue:   messages.Text("Hello."),
				Outlierness:   0.5,
			}),
		},
		NumDuplicates: 2,
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded struct {
		Messages      []*messages.Message `json:"messages"`
		NumDuplicates int                 `json:"numDuplicates"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Messages, 1)
	assert.True(t, decoded.Messages[0].MainFact().Equal(res.Messages[0].MainFact()))
	assert.Equal(t, 2, decoded.NumDuplicates)
}

func TestErrorResultErr(t *testing.T) {
	assert.NoError(t, (&ErrorResult{}).Err())
	assert.EqualError(t, (&ErrorResult{Func: "x", Error: "failed"}).Err(), "failed")
}

func TestJobLogJSON(t *testing.T) {
	begin := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	jl := JobLog{
		WorkerID:    "w1",
		Func:        "generateMessages",
		Begin:       begin,
		End:         begin.Add(1500 * time.Millisecond),
		NumMessages: 3,
		Err:         errors.New("partial failure"),
	}
	assert.Equal(t, 1500*time.Millisecond, jl.TimeSpent())
	data, err := jl.ToJSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &decoded))
	assert.Equal(t, "w1", decoded["workerId"])
	assert.Equal(t, "partial failure", decoded["error"])
	assert.EqualValues(t, 3, decoded["numMessages"])
}
