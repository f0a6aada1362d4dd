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
	"context"
	"fmt"
	"mreport/cnf"
	"mreport/docs"
	genActions "mreport/generator/handlers"
	"mreport/monitoring"
	monitoringActions "mreport/monitoring/handlers"
	"mreport/rdb"
	"mreport/resources"
	"net/http"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type apiServer struct {
	server    *http.Server
	conf      *cnf.Conf
	radapter  *rdb.Adapter
	cache     *rdb.ResultCache
	jobLogger *monitoring.WorkerJobLogger
	version   VersionInfo
}

func mkServerInfo(conf *cnf.Conf, version VersionInfo) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uniresp.WriteJSONResponse(
			ctx.Writer,
			map[string]any{
				"name":      "MReport",
				"version":   version,
				"publicUrl": conf.PublicURL,
				"locales":   conf.Locales,
			},
		)
	}
}

func (api *apiServer) mkEngine() *gin.Engine {
	if !api.conf.Logging.Level.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(additionalLogEvents())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	protected := engine.Group("/").Use(AuthRequired(api.conf))

	genHandlers := genActions.NewActions(
		api.conf,
		api.radapter,
		api.cache,
		api.jobLogger,
		resources.Templates(resources.Default()),
	)

	engine.GET("/", mkServerInfo(api.conf, api.version))

	docs.SwaggerInfo.Version = api.version.Version
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// JSON variant of the docs for non-browser clients
	engine.GET(
		"/openapi",
		func(ctx *gin.Context) {
			uniresp.WriteRawJSONResponse(ctx.Writer, []byte(docs.SwaggerInfo.ReadDoc()))
		},
	)

	protected.POST(
		"/messages", genHandlers.GenerateMessages)

	engine.GET(
		"/templates", genHandlers.Templates)

	monHandlers := monitoringActions.NewActions(api.jobLogger)

	engine.GET(
		"/monitoring/workers-load", monHandlers.WorkersLoad)

	engine.GET(
		"/monitoring/worker-load/:workerId", monHandlers.SingleWorkerLoad)

	engine.GET(
		"/monitoring/recent-records", monHandlers.RecentRecords)

	return engine
}

func (api *apiServer) Start(ctx context.Context) {
	engine := api.mkEngine()
	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

func (api *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down MReport HTTP API server")
	return api.server.Shutdown(ctx)
}

func runApiServer(conf *cnf.Conf, version VersionInfo) {
	ctx, stop := signalContext()
	defer stop()

	radapter := rdb.NewAdapter(conf.Redis, ctx)
	if err := radapter.TestConnection(redisConnectionTestTimeout); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
		return
	}
	cache, err := rdb.NewResultCache(conf.Redis.ResultCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize result cache")
		return
	}

	services := []service{}
	var statusWriter monitoring.StatusWriter = &monitoring.NullStatusWriter{}
	if conf.TimescaleDB != nil {
		tsWriter, err := monitoring.NewTimescaleDBWriter(ctx, *conf.TimescaleDB, conf.TimezoneLocation())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize TimescaleDB writer")
			return
		}
		statusWriter = tsWriter
		services = append(services, tsWriter)

	} else {
		log.Warn().Msg("`timescaleDb` not configured, job statistics will not be stored")
	}
	jobLogger := monitoring.NewWorkerJobLogger(statusWriter, conf.TimezoneLocation())

	server := &apiServer{
		conf:      conf,
		radapter:  radapter,
		cache:     cache,
		jobLogger: jobLogger,
		version:   version,
	}
	services = append(services, jobLogger, server)
	runServices(ctx, services)
}
