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

package taskres

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mreport/merror"
)

// TaskResult represents a single invocation of an analysis
// (a "processor") along with its raw result payload.
// Instances are created by ParseBatch and must be treated
// as read-only afterwards.
type TaskResult struct {
	UUID         string
	SearchQuery  *Collection
	Dataset      string
	Collection1  *Collection
	Collection2  *Collection
	Processor    string
	Parameters   json.RawMessage
	TaskStatus   string
	TaskStarted  string
	TaskFinished string
	Result       Payload
}

func (tr *TaskResult) String() string {
	return fmt.Sprintf("TaskResult{uuid: %s, processor: %s, dataset: %s}", tr.UUID, tr.Processor, tr.Dataset)
}

// Record pairs a typed task result with the original JSON
// object it was created from.
type Record struct {
	Task *TaskResult
	Raw  json.RawMessage
}

func isNullOrEmpty(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ParseBatch decodes a JSON array of analysis records.
// Missing or malformed fields of individual records are
// replaced by empty values - it is up to the respective
// resource parsers to decide whether a record is usable.
func ParseBatch(data []byte) ([]Record, error) {
	if isNullOrEmpty(data) {
		return nil, merror.NoReportableDataError{Msg: "no data at all"}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, merror.InputError{Msg: fmt.Sprintf("failed to parse task results: %s", err)}
	}
	if len(items) == 0 {
		return nil, merror.NoReportableDataError{Msg: "empty batch"}
	}
	ans := make([]Record, len(items))
	for i, item := range items {
		ans[i] = Record{Task: FromJSON(item), Raw: item}
	}
	return ans, nil
}

// FromJSON creates a TaskResult out of a single JSON object.
// In case the value is not an object, an empty TaskResult
// is returned.
func FromJSON(data json.RawMessage) *TaskResult {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return &TaskResult{}
	}
	return &TaskResult{
		UUID:         decodeString(fields["uuid"]),
		SearchQuery:  decodeCollection(fields["search_query"]),
		Dataset:      decodeString(fields["dataset"]),
		Collection1:  decodeCollection(fields["collection1"]),
		Collection2:  decodeCollection(fields["collection2"]),
		Processor:    decodeString(fields["processor"]),
		Parameters:   fields["parameters"],
		TaskStatus:   decodeString(fields["task_status"]),
		TaskStarted:  decodeString(fields["task_started"]),
		TaskFinished: decodeString(fields["task_finished"]),
		Result:       NewPayload(fields["task_result"]),
	}
}

// decodeString returns a string value or a raw JSON text in case
// the value is of a different type (e.g. a numeric uuid).
func decodeString(data json.RawMessage) string {
	if isNullOrEmpty(data) {
		return ""
	}
	var ans string
	if err := json.Unmarshal(data, &ans); err != nil {
		return string(bytes.TrimSpace(data))
	}
	return ans
}
