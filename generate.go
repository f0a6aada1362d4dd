// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"mreport/cnf"
	"mreport/generator"
	"mreport/merror"
	"mreport/resources"
	"mreport/results"
	"os"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// runGenerate processes a batch file locally (without Redis and workers)
// and writes the result JSON to out.
func runGenerate(conf *cnf.Conf, batchPath, lang string, out io.Writer) error {
	if batchPath == "" {
		return errors.New("missing path to a batch of task results")
	}
	if lang == "" {
		lang = conf.Locales.DefaultLocale()
	}
	data, err := os.ReadFile(batchPath)
	if err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}
	gen := generator.New(conf.Generator, resources.Default())
	msgs, stats, err := gen.Run(data, lang)
	ans := &results.GeneratedMessages{
		Messages:      msgs,
		NumDuplicates: stats.NumDuplicates,
		NumFaults:     stats.NumFaults,
	}
	var nrdErr merror.NoReportableDataError
	if errors.As(err, &nrdErr) {
		ans.NoData = true
		ans.Fallback = conf.FallbackMessages.Get(lang)

	} else if err != nil {
		return err
	}
	log.Info().
		Int("numRecords", stats.NumRecords).
		Int("numSkipped", stats.NumSkipped).
		Int("numFailed", stats.NumFailed).
		Msg("batch processed")
	data, err = sonic.ConfigDefault.MarshalIndent(ans, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
