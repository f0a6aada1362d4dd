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
	"encoding/json"
	"fmt"
	"mreport/generator"
	"mreport/rdb"
	"mreport/resources"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltLanguage               = "en"
	dfltTimeZone               = "Europe/Prague"
	dfltFallbackMessage        = "The analysis did not find anything interesting enough to report."
)

type LocaleConf struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

type LocalesConf []LocaleConf

func (conf LocalesConf) SupportsLocale(name string) bool {
	lang := resources.PrimaryLanguage(name)
	for _, locConf := range conf {
		if locConf.Name == lang {
			return true
		}
	}
	return false
}

func (conf LocalesConf) DefaultLocale() string {
	for _, v := range conf {
		if v.IsDefault {
			return v.Name
		}
	}
	return dfltLanguage
}

// FallbackMessages maps languages to a text shown
// in case there is nothing to report
type FallbackMessages map[string]string

// Get returns a fallback message for the language. In case the
// language is not configured, English variant is returned.
func (fm FallbackMessages) Get(lang string) string {
	if v, ok := fm[lang]; ok {
		return v
	}
	if v, ok := fm[resources.PrimaryLanguage(lang)]; ok {
		return v
	}
	if v, ok := fm[dfltLanguage]; ok {
		return v
	}
	return dfltFallbackMessage
}

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string              `json:"listenAddress"`
	PublicURL              string              `json:"publicUrl"`
	ListenPort             int                 `json:"listenPort"`
	ServerReadTimeoutSecs  int                 `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string            `json:"corsAllowedOrigins"`
	Redis                  *rdb.Conf           `json:"redis"`
	Generator              *generator.Conf     `json:"generator"`
	Logging                logging.LoggingConf `json:"logging"`
	Locales                LocalesConf         `json:"locales"`
	FallbackMessages       FallbackMessages    `json:"fallbackMessages"`
	TimeZone               string              `json:"timeZone"`
	TimescaleDB            *hltscl.PgConf      `json:"timescaleDb"`
	AuthHeaderName         string              `json:"authHeaderName"`
	AuthTokens             []string            `json:"authTokens"`

	srcPath string
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call c.Validate()
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// resolvePath makes relative paths relative to the
// config file location
func (conf *Conf) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || conf.srcPath == "" {
		return path
	}
	return filepath.Join(filepath.Dir(conf.GetSourcePath()), path)
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	conf, err := parseConfig(rawData)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	conf.srcPath = path
	return conf
}

func parseConfig(data []byte) (*Conf, error) {
	var conf Conf
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ValidateAndDefaults checks the configuration and fills in
// default values where needed. Only the sections required
// by the running action are validated (e.g. the `generate`
// action does not need Redis).
func ValidateAndDefaults(conf *Conf, requireRedis bool) error {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s", conf.ListenAddress)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}

	// check locales conf.
	if len(conf.Locales) == 0 {
		conf.Locales = []LocaleConf{{
			Name:      dfltLanguage,
			IsDefault: true,
		}}
		log.Warn().Msgf("language not specified, using default: %s", conf.Locales.DefaultLocale())

	} else if !conf.Locales.SupportsLocale(dfltLanguage) {
		log.Warn().Msgf("missing `%s` locale - adding", dfltLanguage)
		conf.Locales = append(conf.Locales, LocaleConf{
			Name: dfltLanguage,
		})
	}
	var numDefault int
	for _, v := range conf.Locales {
		if v.IsDefault {
			numDefault++
		}
	}
	if numDefault != 1 {
		return fmt.Errorf("exactly one locale must be set as default")
	}
	if conf.FallbackMessages == nil {
		conf.FallbackMessages = make(FallbackMessages)
	}
	if _, ok := conf.FallbackMessages[dfltLanguage]; !ok {
		conf.FallbackMessages[dfltLanguage] = dfltFallbackMessage
		log.Warn().Msgf("missing `fallbackMessages.%s`, using default", dfltLanguage)
	}

	if conf.Generator == nil {
		conf.Generator = &generator.Conf{}
		log.Warn().Msg("`generator` section not specified, using defaults")
	}
	if err := conf.Generator.ValidateAndDefaults("generator"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	conf.Generator.Payloads.Dir = conf.resolvePath(conf.Generator.Payloads.Dir)
	conf.Generator.ErroredPayloads.Dir = conf.resolvePath(conf.Generator.ErroredPayloads.Dir)

	if requireRedis {
		if err := conf.Redis.ValidateAndDefaults("redis"); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if len(conf.AuthHeaderName) > 0 && len(conf.AuthTokens) == 0 {
		return fmt.Errorf("`authHeaderName` set but no `authTokens` provided")
	}
	conf.AuthHeaderName = strings.TrimSpace(conf.AuthHeaderName)

	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	return nil
}
