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
	"mreport/merror"

	"github.com/bytedance/sonic"
)

const (
	FuncGenerateMessages = "generateMessages"
)

type Query struct {
	Channel string          `json:"channel"`
	Func    string          `json:"func"`
	Args    json.RawMessage `json:"args"`
}

func (q Query) ToJSON() (string, error) {
	ans, err := sonic.Marshal(q)
	if err != nil {
		return "", err
	}
	return string(ans), nil
}

func DecodeQuery(q string) (Query, error) {
	var ans Query
	err := sonic.Unmarshal([]byte(q), &ans)
	return ans, err
}

// GenerateMessagesArgs are arguments of the `generateMessages` function
type GenerateMessagesArgs struct {
	Batch    json.RawMessage `json:"batch"`
	Language string          `json:"language"`
}

// NewGenerateMessagesQuery creates a query for a batch of task
// results. Malformed JSON is rejected here already so it
// never reaches workers.
func NewGenerateMessagesQuery(batch []byte, language string) (Query, error) {
	if len(batch) == 0 {
		batch = []byte("null")
	}
	if !json.Valid(batch) {
		return Query{}, merror.InputError{Msg: fmt.Sprintf("invalid JSON batch (%d bytes)", len(batch))}
	}
	args, err := sonic.Marshal(GenerateMessagesArgs{Batch: batch, Language: language})
	if err != nil {
		return Query{}, err
	}
	return Query{Func: FuncGenerateMessages, Args: args}, nil
}

func DecodeArgs(query Query, v any) error {
	if len(query.Args) == 0 {
		return fmt.Errorf("missing arguments for function %s", query.Func)
	}
	if err := sonic.Unmarshal(query.Args, v); err != nil {
		return fmt.Errorf("failed to decode arguments for function %s: %w", query.Func, err)
	}
	return nil
}
