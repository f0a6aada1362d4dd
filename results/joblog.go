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
	"time"

	"github.com/bytedance/sonic"
)

const (
	ResultWorkerPerformance = "workerPerformance"
)

type JobLog struct {
	WorkerID    string    `json:"workerId"`
	Func        string    `json:"func"`
	Begin       time.Time `json:"begin"`
	End         time.Time `json:"end"`
	NumMessages int       `json:"numMessages"`
	NumFaults   int       `json:"numFaults"`
	Err         error     `json:"error"`
}

func (jl JobLog) TimeSpent() time.Duration {
	return jl.End.Sub(jl.Begin)
}

func (jl JobLog) MarshalJSON() ([]byte, error) {
	var errMsg string
	if jl.Err != nil {
		errMsg = jl.Err.Error()
	}
	return sonic.Marshal(
		struct {
			WorkerID    string    `json:"workerId"`
			Func        string    `json:"func"`
			Begin       time.Time `json:"begin"`
			End         time.Time `json:"end"`
			NumMessages int       `json:"numMessages"`
			NumFaults   int       `json:"numFaults"`
			Error       string    `json:"error,omitempty"`
		}{
			WorkerID:    jl.WorkerID,
			Func:        jl.Func,
			Begin:       jl.Begin,
			End:         jl.End,
			NumMessages: jl.NumMessages,
			NumFaults:   jl.NumFaults,
			Error:       errMsg,
		},
	)
}

func (jl *JobLog) ToJSON() (string, error) {
	ans, err := sonic.Marshal(jl)
	if err != nil {
		return "", err
	}
	return string(ans), nil
}
