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

package handlers

import (
	"errors"
	"fmt"
	"io"
	"mreport/cnf"
	"mreport/merror"
	"mreport/rdb"
	"mreport/results"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	maxBatchSize = 64 * 1024 * 1024
)

type queryPublisher interface {
	PublishQuery(query rdb.Query) (<-chan *rdb.WorkerResult, error)
}

type jobLogger interface {
	Log(rec results.JobLog)
}

type Actions struct {
	conf      *cnf.Conf
	radapter  queryPublisher
	cache     *rdb.ResultCache
	jobLogger jobLogger
	templates string
}

func (a *Actions) language(ctx *gin.Context) (string, error) {
	lang := ctx.Query("lang")
	if lang == "" {
		return a.conf.Locales.DefaultLocale(), nil
	}
	if !a.conf.Locales.SupportsLocale(lang) {
		return "", fmt.Errorf("unsupported language `%s`", lang)
	}
	return lang, nil
}

func (a *Actions) waitForResult(query rdb.Query) (*rdb.WorkerResult, bool, error) {
	if cached, ok := a.cache.Get(query); ok {
		return cached, true, nil
	}
	wait, err := a.radapter.PublishQuery(query)
	if err != nil {
		return nil, false, err
	}
	return <-wait, false, nil
}

// GenerateMessages takes a JSON list of task results from the request
// body and responds with generated messages.
// A batch identical to a recently processed one is answered from
// the result cache, i.e. no worker runs the generator and no payload
// is captured for it again.
func (a *Actions) GenerateMessages(ctx *gin.Context) {
	lang, err := a.language(ctx)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxBatchSize))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	query, err := rdb.NewGenerateMessagesQuery(body, lang)
	var inpErr merror.InputError
	if errors.As(err, &inpErr) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}

	wr, fromCache, err := a.waitForResult(query)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	ans, err := rdb.DeserializeGeneratedMessages(wr)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	if !fromCache {
		if rec, ok := wr.JobLog(query.Func, len(ans.Messages), ans.NumFaults, ans.Err()); ok {
			a.jobLogger.Log(rec)
		}
	}
	if err := ans.Err(); err != nil {
		status := http.StatusInternalServerError
		if wr.HasUserError {
			status = http.StatusBadRequest
		}
		uniresp.WriteJSONErrorResponse(ctx.Writer, uniresp.NewActionErrorFrom(err), status)
		return
	}
	if !fromCache {
		a.cache.Set(query, wr)
	}
	if ans.NoData {
		ans.Fallback = a.conf.FallbackMessages.Get(lang)
		log.Info().Str("lang", lang).Msg("no reportable data, responding with fallback message")
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// Templates provides raw templates of all the registered
// message resources.
func (a *Actions) Templates(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, map[string]string{"templates": a.templates})
}

func NewActions(
	conf *cnf.Conf,
	radapter queryPublisher,
	cache *rdb.ResultCache,
	jobLogger jobLogger,
	templates string,
) *Actions {
	return &Actions{
		conf:      conf,
		radapter:  radapter,
		cache:     cache,
		jobLogger: jobLogger,
		templates: templates,
	}
}
