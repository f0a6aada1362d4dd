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

package worker

import (
	"errors"
	"fmt"
	"mreport/merror"
	"mreport/rdb"
	"mreport/results"

	"github.com/rs/zerolog/log"
)

// generateMessages runs the generator on the batch. The second returned
// value specifies whether a possible error was caused by invalid input.
func (w *Worker) generateMessages(args rdb.GenerateMessagesArgs) (*results.GeneratedMessages, bool) {
	msgs, stats, err := w.generator.Run(args.Batch, args.Language)
	if w.currJobLog != nil {
		w.currJobLog.NumMessages = stats.NumMessages
		w.currJobLog.NumFaults = stats.NumFaults
	}
	ans := &results.GeneratedMessages{
		Messages:      msgs,
		NumDuplicates: stats.NumDuplicates,
		NumFaults:     stats.NumFaults,
	}
	if err == nil {
		return ans, false
	}
	var nrdErr merror.NoReportableDataError
	var inpErr merror.InputError
	if errors.As(err, &nrdErr) {
		ans.NoData = true
		return ans, false

	} else if errors.As(err, &inpErr) {
		ans.Error = err.Error()
		return ans, true
	}
	intErr := merror.InternalError{Msg: fmt.Sprintf("failed to generate messages: %s", err)}
	log.Error().Err(err).Msg("failed to generate messages")
	ans.Error = intErr.Error()
	return ans, false
}
