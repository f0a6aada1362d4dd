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
	"errors"
	"mreport/messages"

	"github.com/bytedance/sonic"
)

const (
	ResultTypeMessages ResultType = "messages"
	ResultTypeError    ResultType = "error"
)

type ResultType string

func (rt ResultType) String() string {
	return string(rt)
}

// SerializableResult is anything a worker can send back
// to the API server.
type SerializableResult interface {
	Err() error
	Type() ResultType
}

// ----

type GeneratedMessages struct {
	Messages []*messages.Message `json:"messages"`

	// NoData signals that the batch did not contain anything
	// reportable. This is a regular outcome, not an error.
	NoData bool `json:"noData,omitempty"`

	// Fallback is a localized text the client should display
	// instead of generated messages in case NoData is true
	Fallback string `json:"fallback,omitempty"`

	NumDuplicates int    `json:"numDuplicates"`
	NumFaults     int    `json:"numFaults"`
	Error         string `json:"error,omitempty"`
}

func (res *GeneratedMessages) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

func (res *GeneratedMessages) Type() ResultType {
	return ResultTypeMessages
}

func (res *GeneratedMessages) MarshalJSON() ([]byte, error) {
	msgs := res.Messages
	if msgs == nil {
		msgs = []*messages.Message{}
	}
	return sonic.Marshal(
		struct {
			Messages      []*messages.Message `json:"messages"`
			NoData        bool                `json:"noData,omitempty"`
			Fallback      string              `json:"fallback,omitempty"`
			NumDuplicates int                 `json:"numDuplicates"`
			NumFaults     int                 `json:"numFaults"`
			Error         string              `json:"error,omitempty"`
		}{
			Messages:      msgs,
			NoData:        res.NoData,
			Fallback:      res.Fallback,
			NumDuplicates: res.NumDuplicates,
			NumFaults:     res.NumFaults,
			Error:         res.Error,
		},
	)
}

// ----

type ErrorResult struct {
	Func  string `json:"func"`
	Error string `json:"error"`
}

func (res *ErrorResult) Err() error {
	if res.Error == "" {
		return nil
	}
	return errors.New(res.Error)
}

func (res *ErrorResult) Type() ResultType {
	return ResultTypeError
}
