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
	"mreport/cnf"
	"mreport/generator"
	"mreport/monitoring"
	"mreport/rdb"
	"mreport/resources"
	"mreport/worker"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

func getWorkerID() (workerID string) {
	workerID = os.Getenv("WORKER_ID")
	if workerID == "" {
		workerID = strconv.Itoa(os.Getpid())
	}
	return
}

func runWorker(conf *cnf.Conf) {
	workerID := getWorkerID()

	ctx, stop := signalContext()
	defer stop()

	radapter := rdb.NewAdapter(conf.Redis, ctx)
	if err := radapter.TestConnection(redisConnectionTestTimeout); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
		return
	}

	gen := generator.New(conf.Generator, resources.Default())
	ch := radapter.Subscribe()
	wrk := worker.NewWorker(workerID, radapter, ch, gen, &monitoring.JobLogWriter{})
	runServices(ctx, []service{wrk})
}
