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

package messages

import (
	"errors"
	"fmt"
	"strings"
)

// Message is a candidate reportable unit. It wraps one or more
// facts where the first one is the main fact (the one
// messages are deduplicated by).
type Message struct {
	Facts []Fact `json:"facts"`
}

func (m *Message) MainFact() Fact {
	return m.Facts[0]
}

func (m *Message) Validate() error {
	if len(m.Facts) == 0 {
		return errors.New("message without facts")
	}
	for i, f := range m.Facts {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("invalid fact %d: %w", i, err)
		}
	}
	return nil
}

func (m *Message) String() string {
	var buff strings.Builder
	buff.WriteString("Message[")
	for i, f := range m.Facts {
		if i > 0 {
			buff.WriteString(", ")
		}
		buff.WriteString(f.String())
	}
	buff.WriteString("]")
	return buff.String()
}

func NewMessage(mainFact Fact, other ...Fact) *Message {
	facts := make([]Fact, 0, len(other)+1)
	facts = append(facts, mainFact)
	facts = append(facts, other...)
	return &Message{Facts: facts}
}
