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

package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndDefaultsMinimal(t *testing.T) {
	conf, err := parseConfig([]byte(`{"listenAddress": "127.0.0.1", "listenPort": 8080}`))
	require.NoError(t, err)
	require.NoError(t, ValidateAndDefaults(conf, false))
	assert.Equal(t, "http://127.0.0.1", conf.PublicURL)
	assert.Equal(t, "en", conf.Locales.DefaultLocale())
	assert.Equal(t, "Europe/Prague", conf.TimeZone)
	assert.Equal(t, "payloads", conf.Generator.Payloads.Dir)
	assert.Equal(t, "errored_payloads", conf.Generator.ErroredPayloads.Dir)
	assert.Equal(t, 25, conf.Generator.Payloads.MaxFiles)
	assert.Equal(t, 1, conf.Generator.NumWorkers)
	assert.Equal(t, dfltFallbackMessage, conf.FallbackMessages.Get("en"))
	assert.NotNil(t, conf.TimezoneLocation())
}

func TestValidateAndDefaultsRequiresRedis(t *testing.T) {
	conf, err := parseConfig([]byte(`{}`))
	require.NoError(t, err)
	assert.Error(t, ValidateAndDefaults(conf, true))

	conf, err = parseConfig([]byte(`{"redis": {"host": "localhost"}}`))
	require.NoError(t, err)
	require.NoError(t, ValidateAndDefaults(conf, true))
	assert.Equal(t, 6379, conf.Redis.Port)
}

func TestValidateAndDefaultsSamePayloadDirs(t *testing.T) {
	conf, err := parseConfig([]byte(`{
		"generator": {
			"payloads": {"dir": "/tmp/x"},
			"erroredPayloads": {"dir": "/tmp/x"}
		}
	}`))
	require.NoError(t, err)
	assert.Error(t, ValidateAndDefaults(conf, false))
}

func TestValidateAndDefaultsLocales(t *testing.T) {
	conf, err := parseConfig([]byte(`{"locales": [{"name": "cs", "isDefault": true}]}`))
	require.NoError(t, err)
	require.NoError(t, ValidateAndDefaults(conf, false))
	assert.True(t, conf.Locales.SupportsLocale("en-US"))
	assert.True(t, conf.Locales.SupportsLocale("cs_CZ"))
	assert.False(t, conf.Locales.SupportsLocale("de"))
	assert.Equal(t, "cs", conf.Locales.DefaultLocale())

	conf, err = parseConfig([]byte(`{"locales": [{"name": "cs"}, {"name": "en"}]}`))
	require.NoError(t, err)
	assert.Error(t, ValidateAndDefaults(conf, false))
}

func TestValidateAndDefaultsInvalidTimeZone(t *testing.T) {
	conf, err := parseConfig([]byte(`{"timeZone": "Mars/Olympus"}`))
	require.NoError(t, err)
	assert.Error(t, ValidateAndDefaults(conf, false))
}

func TestValidateAndDefaultsAuth(t *testing.T) {
	conf, err := parseConfig([]byte(`{"authHeaderName": "X-Api-Key"}`))
	require.NoError(t, err)
	assert.Error(t, ValidateAndDefaults(conf, false))
}

func TestFallbackMessages(t *testing.T) {
	fm := FallbackMessages{"en": "Nothing.", "cs": "Nic."}
	assert.Equal(t, "Nic.", fm.Get("cs"))
	assert.Equal(t, "Nic.", fm.Get("cs-CZ"))
	assert.Equal(t, "Nothing.", fm.Get("de"))
	assert.Equal(t, dfltFallbackMessage, FallbackMessages{}.Get("de"))
}

func TestLoadConfigResolvesPayloadDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"generator": {
			"payloads": {"dir": "data/ok"},
			"erroredPayloads": {"dir": "/var/tmp/errored"}
		}
	}`), 0644))
	conf := LoadConfig(path)
	require.NoError(t, ValidateAndDefaults(conf, false))
	assert.Equal(t, filepath.Join(dir, "data/ok"), conf.Generator.Payloads.Dir)
	assert.Equal(t, "/var/tmp/errored", conf.Generator.ErroredPayloads.Dir)
	assert.Equal(t, path, conf.GetSourcePath())
}
