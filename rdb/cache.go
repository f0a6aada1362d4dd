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
	"crypto/sha1"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// ResultCache keeps recent successful worker results so repeated
// identical batches do not have to be processed again.
// A cache of size zero is disabled (all operations are no-ops).
type ResultCache struct {
	data *lru.Cache[string, *WorkerResult]
}

func (rc *ResultCache) mkKey(query Query) string {
	h := sha1.New()
	h.Write([]byte(query.Func))
	h.Write([]byte{0})
	h.Write(query.Args)
	return hex.EncodeToString(h.Sum(nil))
}

func (rc *ResultCache) Get(query Query) (*WorkerResult, bool) {
	if rc.data == nil {
		return nil, false
	}
	ans, ok := rc.data.Get(rc.mkKey(query))
	if ok {
		log.Debug().Str("func", query.Func).Msg("using cached worker result")
	}
	return ans, ok
}

func (rc *ResultCache) Set(query Query, result *WorkerResult) {
	if rc.data == nil || result == nil {
		return
	}
	rc.data.Add(rc.mkKey(query), result)
}

func (rc *ResultCache) Len() int {
	if rc.data == nil {
		return 0
	}
	return rc.data.Len()
}

func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		return &ResultCache{}, nil
	}
	data, err := lru.New[string, *WorkerResult](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{data: data}, nil
}
