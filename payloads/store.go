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

package payloads

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DfltMaxFiles   = 25
	DfltFileSuffix = "txt"
)

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_")

type Conf struct {
	Dir        string `json:"dir"`
	MaxFiles   int    `json:"maxFiles"`
	FileSuffix string `json:"fileSuffix"`
}

func (conf *Conf) ValidateAndDefaults(confContext, dfltDir string) error {
	if conf.Dir == "" {
		conf.Dir = dfltDir
		log.Warn().
			Str("dir", conf.Dir).
			Msgf("`%s.dir` not specified, using default", confContext)
	}
	if conf.MaxFiles == 0 {
		conf.MaxFiles = DfltMaxFiles
		log.Warn().
			Int("maxFiles", conf.MaxFiles).
			Msgf("`%s.maxFiles` not specified, using default", confContext)

	} else if conf.MaxFiles < 0 {
		return fmt.Errorf("invalid `%s.maxFiles` value: %d", confContext, conf.MaxFiles)
	}
	if conf.FileSuffix == "" {
		conf.FileSuffix = DfltFileSuffix
	}
	conf.FileSuffix = strings.TrimPrefix(conf.FileSuffix, ".")
	isFile, err := fs.IsFile(conf.Dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to test `%s.dir`: %w", confContext, err)
	}
	if isFile {
		return fmt.Errorf("`%s.dir` is a file", confContext)
	}
	return nil
}

type storedFile struct {
	path  string
	mtime time.Time
}

// Store keeps the most recent payloads (raw task results) in a directory
// for later inspection. Each payload is stored as `<id>.<suffix>`.
// After each write, all but `maxFiles` most recently modified files
// are removed. Store is safe for concurrent use.
type Store struct {
	dir      string
	suffix   string
	maxFiles int
	lock     sync.Mutex
	now      func() time.Time
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) fileName(id string) string {
	if id == "" {
		id = "unknown-" + uuid.New().String()
	}
	return fileNameReplacer.Replace(id) + "." + s.suffix
}

func (s *Store) ensureDir() error {
	isDir, err := fs.IsDir(s.dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if !isDir {
		return os.MkdirAll(s.dir, 0755)
	}
	return nil
}

// Write stores the payload under the provided id (overwriting any
// previous payload with the same id) and removes old payloads.
func (s *Store) Write(id string, payload json.RawMessage) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.ensureDir(); err != nil {
		return fmt.Errorf("failed to store payload %s: %w", id, err)
	}
	data := []byte(payload)
	if len(data) == 0 {
		data = []byte("null")
	}
	path := filepath.Join(s.dir, s.fileName(id))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to store payload %s: %w", id, err)
	}
	t := s.now()
	if err := os.Chtimes(path, t, t); err != nil {
		return fmt.Errorf("failed to store payload %s: %w", id, err)
	}
	return s.rotate()
}

func (s *Store) listFiles() ([]storedFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	ans := make([]storedFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), "."+s.suffix) {
			continue
		}
		info, err := entry.Info()
		if os.IsNotExist(err) {
			continue

		} else if err != nil {
			return nil, err
		}
		ans = append(ans, storedFile{path: filepath.Join(s.dir, entry.Name()), mtime: info.ModTime()})
	}
	sort.SliceStable(ans, func(i, j int) bool {
		if ans[i].mtime.Equal(ans[j].mtime) {
			return ans[i].path > ans[j].path
		}
		return ans[i].mtime.After(ans[j].mtime)
	})
	return ans, nil
}

func (s *Store) rotate() error {
	files, err := s.listFiles()
	if err != nil {
		return fmt.Errorf("failed to rotate payloads in %s: %w", s.dir, err)
	}
	if len(files) <= s.maxFiles {
		return nil
	}
	for _, f := range files[s.maxFiles:] {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate payloads in %s: %w", s.dir, err)
		}
		log.Debug().Str("path", f.path).Msg("removed old payload")
	}
	return nil
}

// List returns ids of stored payloads, the most recent first.
func (s *Store) List() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !fs.PathExists(s.dir) {
		return []string{}, nil
	}
	files, err := s.listFiles()
	if err != nil {
		return nil, err
	}
	ans := make([]string, len(files))
	for i, f := range files {
		ans[i] = strings.TrimSuffix(filepath.Base(f.path), "."+s.suffix)
	}
	return ans, nil
}

func NewStore(conf Conf) *Store {
	maxFiles := conf.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DfltMaxFiles
	}
	suffix := strings.TrimPrefix(conf.FileSuffix, ".")
	if suffix == "" {
		suffix = DfltFileSuffix
	}
	return &Store{
		dir:      conf.Dir,
		suffix:   suffix,
		maxFiles: maxFiles,
		now:      time.Now,
	}
}
