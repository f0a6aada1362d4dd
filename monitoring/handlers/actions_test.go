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
	"mreport/monitoring"
	"mreport/results"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := monitoring.NewWorkerJobLogger(nil, time.UTC)
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		logger.Log(results.JobLog{
			WorkerID: "w1",
			Func:     "generateMessages",
			Begin:    t0.Add(time.Duration(i) * time.Second),
			End:      t0.Add(time.Duration(i+1) * time.Second),
		})
	}
	actions := NewActions(logger)
	engine := gin.New()
	engine.GET("/monitoring/workers-load", actions.WorkersLoad)
	engine.GET("/monitoring/worker-load/:workerId", actions.SingleWorkerLoad)
	engine.GET("/monitoring/recent-records", actions.RecentRecords)
	return engine
}

func doGet(engine *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestWorkersLoad(t *testing.T) {
	engine := setupRouter(t)
	resp := doGet(engine, "/monitoring/workers-load?span=total")
	require.Equal(t, http.StatusOK, resp.Code)
	var ans map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ans))
	assert.EqualValues(t, 3, ans["numJobs"])
	assert.EqualValues(t, 1, ans["numWorkers"])
}

func TestWorkersLoadInvalidSpan(t *testing.T) {
	engine := setupRouter(t)
	resp := doGet(engine, "/monitoring/workers-load?span=yesterday")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSingleWorkerLoadNotFound(t *testing.T) {
	engine := setupRouter(t)
	resp := doGet(engine, "/monitoring/worker-load/w2")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = doGet(engine, "/monitoring/worker-load/w1")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRecentRecordsLimit(t *testing.T) {
	engine := setupRouter(t)
	resp := doGet(engine, "/monitoring/recent-records?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)
	var ans []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ans))
	assert.Len(t, ans, 2)

	resp = doGet(engine, "/monitoring/recent-records?limit=x")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
