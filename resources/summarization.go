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
	"errors"
	"fmt"
	"mreport/messages"
	"mreport/taskres"
)

const (
	ProcessorSummarization = "Summarization"

	summarizationTemplate = `
en: the following summary of the contents was automatically created: "{result_value}"
fi: teksteistä luotiin automaattisesti seuraava tiivistelmä: "{result_value}"
| analysis_type = Summarization
`
)

type summarizationPayload struct {
	Result struct {
		Summary []string `json:"summary"`
	} `json:"result"`
	Interestingness struct {
		SentenceScores []float64 `json:"sentence_scores"`
		Overall        float64   `json:"overall"`
	} `json:"interestingness"`
}

// Summarization reports the most interesting sentence
// of an automatically created summary.
type Summarization struct{}

func (r *Summarization) Name() string {
	return ProcessorSummarization
}

func (r *Summarization) TemplatesString() string {
	return summarizationTemplate
}

func (r *Summarization) SlotRealizerComponents() []string {
	return []string{}
}

func (r *Summarization) ParseMessages(
	task *taskres.TaskResult,
	batch []*taskres.TaskResult,
	language string,
) ([]*messages.Message, error) {
	if task.Processor != ProcessorSummarization {
		return nil, ErrNotApplicable
	}
	var payload summarizationPayload
	if err := task.Result.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode summarization result: %w", err)
	}
	summary := payload.Result.Summary
	scores := payload.Interestingness.SentenceScores
	if len(summary) != len(scores) {
		return nil, fmt.Errorf(
			"number of summary sentences (%d) does not match number of sentence scores (%d)",
			len(summary), len(scores),
		)
	}
	if len(summary) == 0 {
		return nil, errors.New("empty summary")
	}
	corpus, corpusType := buildCorpusFields(task)

	// we report at most one summary sentence per result
	var best *messages.Message
	for i, sentence := range summary {
		msg := messages.NewMessage(messages.Fact{
			Corpus:        corpus,
			CorpusType:    corpusType,
			TimestampType: messages.TimestampAllTime,
			AnalysisType:  ProcessorSummarization,
			ResultKey:     "Summary",
			ResultValue:   messages.Text(sentence),
			Outlierness:   scores[i] * payload.Interestingness.Overall,
		})
		if best == nil || msg.MainFact().Outlierness > best.MainFact().Outlierness {
			best = msg
		}
	}
	return []*messages.Message{best}, nil
}
