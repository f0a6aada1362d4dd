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

package worker

import (
	"context"
	"errors"
	"math/rand"
	"mreport/generator"
	"mreport/merror"
	"mreport/messages"
	"mreport/rdb"
	"mreport/results"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTickerInterval = 2 * time.Second
)

type jobLogger interface {
	Log(rec results.JobLog)
}

type queueAdapter interface {
	DequeueQuery() (rdb.Query, error)
	SomeoneListens(query rdb.Query) (bool, error)
	PublishResult(channelName string, value *rdb.WorkerResult) error
}

type messageGenerator interface {
	Run(data []byte, language string) ([]*messages.Message, generator.Stats, error)
}

type Worker struct {
	ID         string
	messages   <-chan *redis.Message
	radapter   queueAdapter
	generator  messageGenerator
	ticker     *time.Ticker
	jobLogger  jobLogger
	currJobLog *results.JobLog
	done       chan struct{}
}

func (w *Worker) publishResult(res results.SerializableResult, query rdb.Query, hasUserError bool) error {
	ans, err := rdb.CreateWorkerResult(res)
	if err != nil {
		return err
	}
	ans.ID = query.Channel
	ans.WorkerID = w.ID
	ans.HasUserError = hasUserError
	if w.currJobLog != nil {
		ans.ProcBegin = w.currJobLog.Begin
		w.currJobLog.End = time.Now()
		ans.ProcEnd = w.currJobLog.End
		w.currJobLog.Err = res.Err()
		w.jobLogger.Log(*w.currJobLog)
		w.currJobLog = nil
	}
	return w.radapter.PublishResult(query.Channel, ans)
}

func (w *Worker) runQueryProtected(query rdb.Query) (ansErr error) {
	defer func() {
		if r := recover(); r != nil {
			ansErr = merror.RecoveredError{Msg: merror.PanicValueToErr(r).Error()}
		}
	}()
	switch query.Func {
	case rdb.FuncGenerateMessages:
		var args rdb.GenerateMessagesArgs
		if err := rdb.DecodeArgs(query, &args); err != nil {
			return merror.InputError{Msg: err.Error()}
		}
		ans, isUserErr := w.generateMessages(args)
		return w.publishResult(ans, query, isUserErr)
	default:
		return merror.InputError{Msg: "unknown query function: " + query.Func}
	}
}

func (w *Worker) tryNextQuery() error {
	time.Sleep(time.Duration(rand.Intn(40)) * time.Millisecond)
	query, err := w.radapter.DequeueQuery()
	if err == rdb.ErrorEmptyQueue {
		return nil

	} else if err != nil {
		return err
	}
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Msg("received query")

	isActive, err := w.radapter.SomeoneListens(query)
	if err != nil {
		return err
	}
	if !isActive {
		log.Warn().
			Str("func", query.Func).
			Str("channel", query.Channel).
			Msg("worker found an inactive query")
		return nil
	}

	w.currJobLog = &results.JobLog{
		WorkerID: w.ID,
		Func:     query.Func,
		Begin:    time.Now(),
	}

	err = w.runQueryProtected(query)
	var rcvErr merror.RecoveredError
	var inpErr merror.InputError
	if errors.As(err, &rcvErr) {
		ans := &results.ErrorResult{
			Error: "worker panicked: " + rcvErr.Error(),
			Func:  query.Func,
		}
		return w.publishResult(ans, query, false)

	} else if errors.As(err, &inpErr) {
		ans := &results.ErrorResult{Error: inpErr.Error(), Func: query.Func}
		return w.publishResult(ans, query, true)
	}
	return err
}

func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("workerId", w.ID).Msg("starting worker")
	go func() {
		defer close(w.done)
		for {
			select {
			case <-w.ticker.C:
				if err := w.tryNextQuery(); err != nil {
					log.Error().Err(err).Msg("failed to process query")
				}
			case <-ctx.Done():
				log.Info().Msg("worker exiting")
				return
			case msg := <-w.messages:
				if msg != nil && msg.Payload == rdb.MsgNewQuery {
					if err := w.tryNextQuery(); err != nil {
						log.Error().Err(err).Msg("failed to process query")
					}
				}
			}
		}
	}()
}

func (w *Worker) Stop(ctx context.Context) error {
	w.ticker.Stop()
	select {
	case <-w.done:
		log.Info().Msg("worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewWorker(
	workerID string,
	radapter queueAdapter,
	messages <-chan *redis.Message,
	generator messageGenerator,
	jobLogger jobLogger,
) *Worker {
	return &Worker{
		ID:        workerID,
		radapter:  radapter,
		messages:  messages,
		generator: generator,
		ticker:    time.NewTicker(DefaultTickerInterval),
		jobLogger: jobLogger,
		done:      make(chan struct{}),
	}
}
