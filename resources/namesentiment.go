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
	"encoding/json"
	"fmt"
	"mreport/messages"
	"mreport/taskres"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	ProcessorTrackNameSentiment = "TrackNameSentiment"

	entityNamesKey = "names"

	trackNameSentimentTemplate = `
en: the most negative sentiment towards {result_key} ( {result_value} ) occurred at {timestamp} {analysis_id}
| analysis_type = TrackNameSentiment:Min

en: the most positive sentiment towards {result_key} ( {result_value} ) occurred at {timestamp} {analysis_id}
| analysis_type = TrackNameSentiment:Max

en: the mean sentiments towards {result_key} between {timestamp_from} and {timestamp_to}  was {result_value} {analysis_id}
| analysis_type = TrackNameSentiment:Mean

en: {result_key} was discussed during {result_value} distinct years between {timestamp_from} and {timestamp_to} {analysis_id}
| analysis_type = TrackNameSentiment:CountYears
`
)

type yearSentiment struct {
	year            int
	sentiment       float64
	interestingness float64
}

// sentimentSummary aggregates sentiment values over all
// the (non-empty) years of an entity
type sentimentSummary struct {
	maxInterestingness float64
	maxSentiment       float64
	maxSentimentYear   int
	minSentiment       float64
	minSentimentYear   int
	meanSentiment      float64
	minYear            int
	maxYear            int
	yearCount          int
}

// summarizeYears calculates aggregate values for provided years.
// In case more years share the highest sentiment, the latest one
// is used. For the lowest sentiment, the earliest one is used.
// The years slice must not be empty.
func summarizeYears(years []yearSentiment) sentimentSummary {
	first := years[0]
	ans := sentimentSummary{
		maxInterestingness: first.interestingness,
		maxSentiment:       first.sentiment,
		maxSentimentYear:   first.year,
		minSentiment:       first.sentiment,
		minSentimentYear:   first.year,
		minYear:            first.year,
		maxYear:            first.year,
		yearCount:          len(years),
	}
	var sum float64
	for _, y := range years {
		sum += y.sentiment
		if y.interestingness > ans.maxInterestingness {
			ans.maxInterestingness = y.interestingness
		}
		if y.sentiment > ans.maxSentiment ||
			y.sentiment == ans.maxSentiment && y.year > ans.maxSentimentYear {
			ans.maxSentiment = y.sentiment
			ans.maxSentimentYear = y.year
		}
		if y.sentiment < ans.minSentiment ||
			y.sentiment == ans.minSentiment && y.year < ans.minSentimentYear {
			ans.minSentiment = y.sentiment
			ans.minSentimentYear = y.year
		}
		if y.year < ans.minYear {
			ans.minYear = y.year
		}
		if y.year > ans.maxYear {
			ans.maxYear = y.year
		}
	}
	ans.meanSentiment = sum / float64(len(years))
	return ans
}

// resolveEntityName finds the best display name for an entity.
// The order of preference is: the name in the requested language,
// the English name, the first name available, the entity key.
func resolveEntityName(
	entity string,
	names *orderedmap.OrderedMap[string, string],
	language string,
) string {
	if names != nil {
		if v, ok := names.Get(language); ok && v != "" {
			return v
		}
		if v, ok := names.Get("en"); ok && v != "" {
			return v
		}
		for pair := names.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value != "" {
				return pair.Value
			}
		}
	}
	return entity
}

// TrackNameSentiment reports development of sentiment towards
// named entities over time.
type TrackNameSentiment struct{}

func (r *TrackNameSentiment) Name() string {
	return ProcessorTrackNameSentiment
}

func (r *TrackNameSentiment) TemplatesString() string {
	return trackNameSentimentTemplate
}

func (r *TrackNameSentiment) SlotRealizerComponents() []string {
	return []string{}
}

func (r *TrackNameSentiment) parseEntityYears(
	task *taskres.TaskResult,
	language string,
) (*orderedmap.OrderedMap[string, []yearSentiment], error) {
	entities := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(task.Result.Section(taskres.ResultSectionKey), entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}
	var interestingness map[string]map[string]float64
	if sect := task.Result.Section("interestingness"); sect != nil {
		if err := json.Unmarshal(sect, &interestingness); err != nil {
			return nil, fmt.Errorf("failed to decode interestingness: %w", err)
		}
	}

	// entries are keyed by display names so two entities
	// with the same name end up as one (the later wins)
	ans := orderedmap.New[string, []yearSentiment]()
	for entity := entities.Oldest(); entity != nil; entity = entity.Next() {
		rows := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(entity.Value, rows); err != nil {
			return nil, fmt.Errorf("failed to decode entity %s: %w", entity.Key, err)
		}
		var names *orderedmap.OrderedMap[string, string]
		if rawNames, ok := rows.Get(entityNamesKey); ok {
			names = orderedmap.New[string, string]()
			if err := json.Unmarshal(rawNames, names); err != nil {
				return nil, fmt.Errorf("failed to decode names of entity %s: %w", entity.Key, err)
			}
		}
		years := make([]yearSentiment, 0, rows.Len())
		for row := rows.Oldest(); row != nil; row = row.Next() {
			if row.Key == entityNamesKey {
				continue
			}
			year, err := strconv.Atoi(row.Key)
			if err != nil {
				return nil, fmt.Errorf("invalid year %s for entity %s: %w", row.Key, entity.Key, err)
			}
			var sentimentVal *float64
			if err := json.Unmarshal(row.Value, &sentimentVal); err != nil {
				return nil, fmt.Errorf("invalid sentiment for entity %s, year %d: %w", entity.Key, year, err)
			}
			if sentimentVal == nil {
				return nil, fmt.Errorf("missing sentiment for entity %s, year %d", entity.Key, year)
			}
			sentiment := *sentimentVal
			intr, ok := interestingness[entity.Key][row.Key]
			if !ok {
				return nil, fmt.Errorf("missing interestingness for entity %s, year %d", entity.Key, year)
			}
			if sentiment != 0 || intr != 0 {
				years = append(years, yearSentiment{year: year, sentiment: sentiment, interestingness: intr})
			}
		}
		ans.Set(resolveEntityName(entity.Key, names, language), years)
	}
	return ans, nil
}

func (r *TrackNameSentiment) ParseMessages(
	task *taskres.TaskResult,
	batch []*taskres.TaskResult,
	language string,
) ([]*messages.Message, error) {
	if task.Processor != ProcessorTrackNameSentiment {
		return nil, ErrNotApplicable
	}
	entries, err := r.parseEntityYears(task, PrimaryLanguage(language))
	if err != nil {
		return nil, err
	}
	corpus, corpusType := buildCorpusFields(task)
	link := fmt.Sprintf("[LINK:%s]", task.UUID)

	ans := make([]*messages.Message, 0, entries.Len()*4)
	for entry := entries.Oldest(); entry != nil; entry = entry.Next() {
		if len(entry.Value) == 0 {
			continue
		}
		summ := summarizeYears(entry.Value)
		mkFact := func(
			tsFrom, tsTo int,
			tsType messages.TimestampType,
			variant string,
			value messages.Value,
		) messages.Fact {
			return messages.Fact{
				Corpus:        corpus,
				CorpusType:    corpusType,
				TimestampFrom: messages.ValidInt(tsFrom),
				TimestampTo:   messages.ValidInt(tsTo),
				TimestampType: tsType,
				AnalysisType:  ProcessorTrackNameSentiment + ":" + variant,
				ResultKey:     fmt.Sprintf("[ENTITY:NAME:%s]", entry.Key),
				ResultValue:   value,
				Outlierness:   summ.maxInterestingness,
				Extra:         link,
			}
		}
		ans = append(
			ans,
			messages.NewMessage(mkFact(
				summ.minYear, summ.maxYear, messages.TimestampBetweenYears,
				"CountYears", messages.Int(summ.yearCount))),
			messages.NewMessage(mkFact(
				summ.minYear, summ.maxYear, messages.TimestampBetweenYears,
				"Mean", messages.Number(summ.meanSentiment))),
			messages.NewMessage(mkFact(
				summ.minSentimentYear, summ.minSentimentYear, messages.TimestampDuringYear,
				"Min", messages.Number(summ.minSentiment))),
			messages.NewMessage(mkFact(
				summ.maxSentimentYear, summ.maxSentimentYear, messages.TimestampDuringYear,
				"Max", messages.Number(summ.maxSentiment))),
		)
	}
	return ans, nil
}
