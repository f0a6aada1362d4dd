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
	"strings"
)

// Terms is a list of query terms. In the source data, it may
// be encoded either as a single string or as a list of strings.
type Terms []string

func (t *Terms) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("\"")) {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Terms{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*t = items
	return nil
}

// Collection describes a (sub)corpus the analysis was
// performed on.
type Collection struct {
	Name  string `json:"name"`
	Query Terms  `json:"query"`
}

// Describe returns a human readable identification of the collection.
func (c *Collection) Describe() string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	return strings.Join(c.Query, " ")
}

func decodeCollection(data json.RawMessage) *Collection {
	if isNullOrEmpty(data) {
		return nil
	}
	var ans Collection
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		if err := json.Unmarshal(trimmed, &ans); err != nil {
			return nil
		}

	} else if err := json.Unmarshal(trimmed, &ans.Query); err != nil {
		return nil
	}
	if ans.Describe() == "" {
		return nil
	}
	return &ans
}
