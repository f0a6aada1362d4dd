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
	"mreport/messages"
	"slices"
)

// Deduplicate removes messages whose main fact equals the main
// fact of some preceding message. The order of the retained
// messages is preserved.
func Deduplicate(msgs []*messages.Message) []*messages.Message {
	seen := make(map[uint64][]messages.Fact)
	ans := make([]*messages.Message, 0, len(msgs))
	for _, m := range msgs {
		fact := m.MainFact()
		key := fact.Hash()
		if slices.ContainsFunc(seen[key], fact.Equal) {
			continue
		}
		seen[key] = append(seen[key], fact)
		ans = append(ans, m)
	}
	return ans
}
