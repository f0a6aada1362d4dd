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
	"encoding/json"
	"strconv"
)

// NullInt is an optional integer (typically a year).
type NullInt struct {
	Value int
	Valid bool
}

func ValidInt(v int) NullInt {
	return NullInt{Value: v, Valid: true}
}

func (ni NullInt) String() string {
	if !ni.Valid {
		return "null"
	}
	return strconv.Itoa(ni.Value)
}

func (ni NullInt) MarshalJSON() ([]byte, error) {
	if !ni.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(ni.Value)), nil
}

func (ni *NullInt) UnmarshalJSON(data []byte) error {
	var v *int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*ni = NullInt{}
		return nil
	}
	*ni = ValidInt(*v)
	return nil
}
