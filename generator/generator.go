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

package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"mreport/merror"
	"mreport/messages"
	"mreport/payloads"
	"mreport/resources"
	"mreport/taskres"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type payloadWriter interface {
	Write(id string, payload json.RawMessage) error
}

// Stats summarizes a single generator run
type Stats struct {
	NumRecords    int `json:"numRecords"`
	NumSkipped    int `json:"numSkipped"`
	NumFailed     int `json:"numFailed"`
	NumFaults     int `json:"numFaults"`
	NumDuplicates int `json:"numDuplicates"`
	NumMessages   int `json:"numMessages"`
}

type recordOutcome struct {
	messages []*messages.Message
	skipped  bool
	failed   bool
	faults   int
}

// Generator turns a batch of analysis results into
// deduplicated reportable messages.
type Generator struct {
	resources       []resources.ProcessorResource
	unreportable    []string
	payloads        payloadWriter
	erroredPayloads payloadWriter
	numWorkers      int
}

func (g *Generator) Templates() string {
	return resources.Templates(g.resources)
}

func (g *Generator) storePayload(store payloadWriter, rec taskres.Record) {
	if err := store.Write(rec.Task.UUID, rec.Raw); err != nil {
		log.Error().
			Err(err).
			Str("taskId", rec.Task.UUID).
			Msg("failed to store task result payload")
	}
}

// runResourceProtected calls the resource parser and validates
// its output. Any panic is converted into an error.
func (g *Generator) runResourceProtected(
	res resources.ProcessorResource,
	task *taskres.TaskResult,
	batch []*taskres.TaskResult,
	language string,
) (ans []*messages.Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			ans = nil
			err = merror.RecoveredError{Msg: merror.PanicValueToErr(r).Error()}
		}
	}()
	ans, err = res.ParseMessages(task, batch, language)
	if err != nil {
		return nil, err
	}
	for i, msg := range ans {
		if msg == nil {
			return nil, fmt.Errorf("message %d is nil", i)
		}
		if err := msg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid message %d: %w", i, err)
		}
	}
	return ans, nil
}

func (g *Generator) processRecord(
	rec taskres.Record,
	batch []*taskres.TaskResult,
	language string,
) recordOutcome {
	var ans recordOutcome
	task := rec.Task
	log.Info().
		Str("taskId", task.UUID).
		Str("processor", task.Processor).
		Msg("parsing messages from task result")

	if collections.SliceContains(g.unreportable, task.Processor) {
		log.Info().
			Str("taskId", task.UUID).
			Str("processor", task.Processor).
			Msg("processor is not reportable, skipping")
		ans.skipped = true
		return ans
	}
	if !task.Result.HasResult() {
		log.Error().
			Str("taskId", task.UUID).
			Str("processor", task.Processor).
			Msg("task result has an empty result section, skipping")
		ans.skipped = true
		return ans
	}

	var succeeded bool
	for _, res := range g.resources {
		msgs, err := g.runResourceProtected(res, task, batch, language)
		if errors.Is(err, resources.ErrNotApplicable) {
			continue

		} else if err != nil {
			log.Error().
				Err(err).
				Str("resource", res.Name()).
				Str("taskId", task.UUID).
				Str("processor", task.Processor).
				Msg("message parser failed")
			ans.faults++
			g.storePayload(g.erroredPayloads, rec)
			continue
		}
		for _, msg := range msgs {
			log.Debug().Stringer("message", msg).Msg("parsed message")
		}
		succeeded = true
		ans.messages = append(ans.messages, msgs...)
	}

	if succeeded {
		g.storePayload(g.payloads, rec)

	} else {
		log.Error().
			Str("taskId", task.UUID).
			Str("processor", task.Processor).
			Msg("failed to parse any message from task result")
		ans.failed = true
		g.storePayload(g.erroredPayloads, rec)
	}
	return ans
}

// Run parses a JSON batch of task results and produces a non-empty
// list of unique messages. Task results are processed concurrently
// (based on configured number of workers) but the output order
// always follows the order of the batch and the order of
// registered resources.
// In case there is nothing to report, merror.NoReportableDataError
// is returned.
func (g *Generator) Run(data []byte, language string) ([]*messages.Message, Stats, error) {
	var stats Stats
	records, err := taskres.ParseBatch(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to ingest task results")
		return nil, stats, err
	}
	stats.NumRecords = len(records)
	batch := make([]*taskres.TaskResult, len(records))
	for i, rec := range records {
		batch[i] = rec.Task
	}

	outcomes := make([]recordOutcome, len(records))
	var eg errgroup.Group
	eg.SetLimit(g.numWorkers)
	for i, rec := range records {
		eg.Go(func() error {
			outcomes[i] = g.processRecord(rec, batch, language)
			return nil
		})
	}
	eg.Wait()

	var msgs []*messages.Message
	for _, outcome := range outcomes {
		msgs = append(msgs, outcome.messages...)
		stats.NumFaults += outcome.faults
		if outcome.skipped {
			stats.NumSkipped++
		}
		if outcome.failed {
			stats.NumFailed++
		}
	}
	uniq := Deduplicate(msgs)
	stats.NumDuplicates = len(msgs) - len(uniq)
	stats.NumMessages = len(uniq)
	if len(uniq) == 0 {
		err := merror.NoReportableDataError{
			Msg: fmt.Sprintf("no messages generated from %d task result(s)", len(records))}
		log.Error().
			Err(err).
			Int("numSkipped", stats.NumSkipped).
			Int("numFailed", stats.NumFailed).
			Msg("nothing to report")
		return nil, stats, err
	}
	log.Info().
		Int("numMessages", stats.NumMessages).
		Int("numDuplicates", stats.NumDuplicates).
		Int("numFaults", stats.NumFaults).
		Msg("messages generated")
	return uniq, stats, nil
}

// New creates a generator consulting the provided resources
// in the order of the slice.
func New(conf *Conf, res []resources.ProcessorResource) *Generator {
	numWorkers := conf.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Generator{
		resources:       res,
		unreportable:    conf.UnreportableProcessors,
		payloads:        payloads.NewStore(conf.Payloads),
		erroredPayloads: payloads.NewStore(conf.ErroredPayloads),
		numWorkers:      numWorkers,
	}
}
