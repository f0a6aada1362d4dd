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

package resources

import (
	"mreport/messages"
	"mreport/taskres"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizationPicksMostInteresting(t *testing.T) {
	task := taskres.FromJSON([]byte(`{
		"uuid": "s-1",
		"dataset": "news",
		"processor": "Summarization",
		"task_result": {
			"result": {"summary": ["S1", "S2"]},
			"interestingness": {"sentence_scores": [0.2, 0.9], "overall": 0.5}
		}
	}`))
	var r Summarization
	msgs, err := r.ParseMessages(task, []*taskres.TaskResult{task}, "en")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	f := msgs[0].MainFact()
	assert.Equal(t, messages.Text("S2"), f.ResultValue)
	assert.InDelta(t, 0.45, f.Outlierness, 1e-9)
	assert.Equal(t, "Summarization", f.AnalysisType)
	assert.Equal(t, "Summary", f.ResultKey)
	assert.Equal(t, messages.TimestampAllTime, f.TimestampType)
	assert.False(t, f.TimestampFrom.Valid)
	assert.Equal(t, "news", f.CorpusType)
	assert.NoError(t, msgs[0].Validate())
}

func TestSummarizationSingleCandidate(t *testing.T) {
	task := taskres.FromJSON([]byte(`{
		"processor": "Summarization",
		"task_result": {
			"result": {"summary": ["Only one"]},
			"interestingness": {"sentence_scores": [0.3], "overall": 2}
		}
	}`))
	var r Summarization
	msgs, err := r.ParseMessages(task, nil, "en")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.Text("Only one"), msgs[0].MainFact().ResultValue)
	assert.InDelta(t, 0.6, msgs[0].MainFact().Outlierness, 1e-9)
}

func TestSummarizationTieFirstWins(t *testing.T) {
	task := taskres.FromJSON([]byte(`{
		"processor": "Summarization",
		"task_result": {
			"result": {"summary": ["A", "B", "C"]},
			"interestingness": {"sentence_scores": [0.1, 0.7, 0.7], "overall": 1}
		}
	}`))
	var r Summarization
	msgs, err := r.ParseMessages(task, nil, "en")
	require.NoError(t, err)
	assert.Equal(t, messages.Text("B"), msgs[0].MainFact().ResultValue)
}

func TestSummarizationNotApplicable(t *testing.T) {
	task := taskres.FromJSON([]byte(`{"processor": "TrackNameSentiment", "task_result": {"result": {"a": 1}}}`))
	var r Summarization
	msgs, err := r.ParseMessages(task, nil, "en")
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Empty(t, msgs)
}

func TestSummarizationLengthMismatch(t *testing.T) {
	task := taskres.FromJSON([]byte(`{
		"processor": "Summarization",
		"task_result": {
			"result": {"summary": ["A", "B"]},
			"interestingness": {"sentence_scores": [0.1], "overall": 1}
		}
	}`))
	var r Summarization
	_, err := r.ParseMessages(task, nil, "en")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotApplicable)
}

func TestSummarizationEmptySummary(t *testing.T) {
	task := taskres.FromJSON([]byte(`{
		"processor": "Summarization",
		"task_result": {"result": {"summary": []}, "interestingness": {"sentence_scores": []}}
	}`))
	var r Summarization
	_, err := r.ParseMessages(task, nil, "en")
	assert.Error(t, err)
}

func TestSummarizationMalformed(t *testing.T) {
	task := taskres.FromJSON([]byte(`{
		"processor": "Summarization",
		"task_result": {"result": {"summary": "not a list"}}
	}`))
	var r Summarization
	_, err := r.ParseMessages(task, nil, "en")
	assert.Error(t, err)
}
