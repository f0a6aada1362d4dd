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
	"encoding/json"
	"mreport/cnf"
	"mreport/generator"
	"mreport/rdb"
	"mreport/results"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	result  results.SerializableResult
	userErr bool
	queries []rdb.Query
}

func (p *fakePublisher) PublishQuery(query rdb.Query) (<-chan *rdb.WorkerResult, error) {
	p.queries = append(p.queries, query)
	wr, err := rdb.CreateWorkerResult(p.result)
	if err != nil {
		return nil, err
	}
	wr.WorkerID = "w1"
	wr.HasUserError = p.userErr
	wr.ProcBegin = time.Now()
	wr.ProcEnd = wr.ProcBegin.Add(time.Millisecond)
	ans := make(chan *rdb.WorkerResult, 1)
	ans <- wr
	close(ans)
	return ans, nil
}

type recordingLogger struct {
	records []results.JobLog
}

func (l *recordingLogger) Log(rec results.JobLog) {
	l.records = append(l.records, rec)
}

func newTestConf() *cnf.Conf {
	return &cnf.Conf{
		Locales: cnf.LocalesConf{
			{Name: "en", IsDefault: true},
			{Name: "cs"},
		},
		FallbackMessages: cnf.FallbackMessages{"en": "Nothing.", "cs": "Nic."},
		Generator:        &generator.Conf{},
	}
}

func setupRouter(t *testing.T, pub *fakePublisher, logger *recordingLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cache, err := rdb.NewResultCache(10)
	require.NoError(t, err)
	actions := NewActions(newTestConf(), pub, cache, logger, "tpl1\n\ntpl2\n\n")
	engine := gin.New()
	engine.POST("/messages", actions.GenerateMessages)
	engine.GET("/templates", actions.Templates)
	return engine
}

func doPost(engine *gin.Engine, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	engine.ServeHTTP(w, req)
	return w
}

func TestGenerateMessagesNoData(t *testing.T) {
	pub := &fakePublisher{result: &results.GeneratedMessages{NoData: true}}
	logger := &recordingLogger{}
	engine := setupRouter(t, pub, logger)
	resp := doPost(engine, "/messages?lang=cs", `[]`)
	require.Equal(t, http.StatusOK, resp.Code)
	var ans map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ans))
	assert.Equal(t, true, ans["noData"])
	assert.Equal(t, "Nic.", ans["fallback"])
	assert.Equal(t, []any{}, ans["messages"])
	assert.Len(t, logger.records, 1)
}

func TestGenerateMessagesUsesCache(t *testing.T) {
	pub := &fakePublisher{result: &results.GeneratedMessages{NoData: true}}
	logger := &recordingLogger{}
	engine := setupRouter(t, pub, logger)
	for i := 0; i < 3; i++ {
		resp := doPost(engine, "/messages", `[{"uuid": "a"}]`)
		require.Equal(t, http.StatusOK, resp.Code)
	}
	assert.Len(t, pub.queries, 1)
	assert.Len(t, logger.records, 1)
}

func TestGenerateMessagesInvalidBatch(t *testing.T) {
	pub := &fakePublisher{}
	engine := setupRouter(t, pub, &recordingLogger{})
	resp := doPost(engine, "/messages", `[{"uuid": `)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, pub.queries)
}

func TestGenerateMessagesUnsupportedLanguage(t *testing.T) {
	pub := &fakePublisher{}
	engine := setupRouter(t, pub, &recordingLogger{})
	resp := doPost(engine, "/messages?lang=de", `[]`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGenerateMessagesWorkerError(t *testing.T) {
	pub := &fakePublisher{result: &results.ErrorResult{Func: rdb.FuncGenerateMessages, Error: "boom"}}
	engine := setupRouter(t, pub, &recordingLogger{})
	resp := doPost(engine, "/messages", `[]`)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	// error results must not be cached
	resp = doPost(engine, "/messages", `[]`)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Len(t, pub.queries, 2)
}

func TestGenerateMessagesUserError(t *testing.T) {
	pub := &fakePublisher{
		result:  &results.GeneratedMessages{Error: "bad input"},
		userErr: true,
	}
	engine := setupRouter(t, pub, &recordingLogger{})
	resp := doPost(engine, "/messages", `[]`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTemplates(t *testing.T) {
	engine := setupRouter(t, &fakePublisher{}, &recordingLogger{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/templates", nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var ans map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ans))
	assert.Equal(t, "tpl1\n\ntpl2\n\n", ans["templates"])
}
