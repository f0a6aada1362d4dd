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

package rdb

import (
	"encoding/json"
	"fmt"
	"mreport/results"
	"time"

	"github.com/bytedance/sonic"
)

type WorkerResult struct {
	ID           string             `json:"id"`
	WorkerID     string             `json:"workerId"`
	ResultType   results.ResultType `json:"resultType"`
	Value        json.RawMessage    `json:"value"`
	HasUserError bool               `json:"hasUserError"`
	ProcBegin    time.Time          `json:"procBegin"`
	ProcEnd      time.Time          `json:"procEnd"`
}

func (wr *WorkerResult) AttachValue(value results.SerializableResult) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to attach worker result value: %w", err)
	}
	wr.Value = data
	wr.ResultType = value.Type()
	return nil
}

// JobLog creates a job log record out of a result generated
// by a worker. The second value is false in case the result
// has not been produced by any worker (e.g. on timeout).
func (wr *WorkerResult) JobLog(fn string, numMessages, numFaults int, err error) (results.JobLog, bool) {
	if wr.WorkerID == "" {
		return results.JobLog{}, false
	}
	return results.JobLog{
		WorkerID:    wr.WorkerID,
		Func:        fn,
		Begin:       wr.ProcBegin,
		End:         wr.ProcEnd,
		NumMessages: numMessages,
		NumFaults:   numFaults,
		Err:         err,
	}, true
}

func CreateWorkerResult(value results.SerializableResult) (*WorkerResult, error) {
	var ans WorkerResult
	if err := ans.AttachValue(value); err != nil {
		return nil, err
	}
	return &ans, nil
}

// DeserializeGeneratedMessages decodes a worker result into generated
// messages. Error results are converted so the caller can always
// inspect a single type.
func DeserializeGeneratedMessages(w *WorkerResult) (*results.GeneratedMessages, error) {
	var ans results.GeneratedMessages
	switch w.ResultType {
	case results.ResultTypeMessages:
		if err := sonic.Unmarshal(w.Value, &ans); err != nil {
			return nil, fmt.Errorf("failed to deserialize generated messages: %w", err)
		}
	case results.ResultTypeError:
		var errRes results.ErrorResult
		if err := sonic.Unmarshal(w.Value, &errRes); err != nil {
			return nil, fmt.Errorf("failed to deserialize error result: %w", err)
		}
		ans.Error = errRes.Error
	default:
		return nil, fmt.Errorf("unexpected worker result type `%s`", w.ResultType)
	}
	return &ans, nil
}
