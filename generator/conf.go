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
	"fmt"
	"mreport/payloads"

	"github.com/rs/zerolog/log"
)

const (
	dfltPayloadsDir        = "payloads"
	dfltErroredPayloadsDir = "errored_payloads"
	dfltNumWorkers         = 1
)

// DefaultUnreportableProcessors lists analyses producing only
// intermediate artifacts (splits, query expansions etc.)
var DefaultUnreportableProcessors = []string{
	"FindBestSplitFromTimeseries",
	"SplitByFacet",
	"ExpandQuery",
}

type Conf struct {
	Payloads               payloads.Conf `json:"payloads"`
	ErroredPayloads        payloads.Conf `json:"erroredPayloads"`
	UnreportableProcessors []string      `json:"unreportableProcessors"`

	// NumWorkers specifies how many task results can be
	// processed concurrently
	NumWorkers int `json:"numWorkers"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing `%s` section", confContext)
	}
	if err := conf.Payloads.ValidateAndDefaults(confContext+".payloads", dfltPayloadsDir); err != nil {
		return err
	}
	if err := conf.ErroredPayloads.ValidateAndDefaults(
		confContext+".erroredPayloads", dfltErroredPayloadsDir); err != nil {
		return err
	}
	if conf.Payloads.Dir == conf.ErroredPayloads.Dir {
		return fmt.Errorf(
			"`%s.payloads.dir` and `%s.erroredPayloads.dir` must differ", confContext, confContext)
	}
	if conf.UnreportableProcessors == nil {
		conf.UnreportableProcessors = DefaultUnreportableProcessors
		log.Warn().
			Strs("processors", conf.UnreportableProcessors).
			Msgf("`%s.unreportableProcessors` not specified, using defaults", confContext)
	}
	if conf.NumWorkers == 0 {
		conf.NumWorkers = dfltNumWorkers

	} else if conf.NumWorkers < 0 {
		return fmt.Errorf("invalid `%s.numWorkers` value: %d", confContext, conf.NumWorkers)
	}
	return nil
}
