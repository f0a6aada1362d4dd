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
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxFiles int) *Store {
	s := NewStore(Conf{Dir: filepath.Join(t.TempDir(), "payloads"), MaxFiles: maxFiles})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestWriteCreatesDirAndFile(t *testing.T) {
	s := newTestStore(t, 25)
	require.NoError(t, s.Write("abc", []byte(`{"uuid": "abc"}`)))
	data, err := os.ReadFile(filepath.Join(s.Dir(), "abc.txt"))
	require.NoError(t, err)
	assert.Equal(t, `{"uuid": "abc"}`, string(data))
}

func TestWriteOverwritesSameID(t *testing.T) {
	s := newTestStore(t, 25)
	require.NoError(t, s.Write("abc", []byte(`{"v": 1}`)))
	require.NoError(t, s.Write("abc", []byte(`{"v": 2}`)))
	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, ids)
	data, err := os.ReadFile(filepath.Join(s.Dir(), "abc.txt"))
	require.NoError(t, err)
	assert.Equal(t, `{"v": 2}`, string(data))
}

func TestRotationKeepsMostRecent(t *testing.T) {
	s := newTestStore(t, 25)
	for i := 0; i < 30; i++ {
		require.NoError(t, s.Write(fmt.Sprintf("id-%02d", i), []byte(`{}`)))
	}
	ids, err := s.List()
	require.NoError(t, err)
	require.Len(t, ids, 25)
	assert.Equal(t, "id-29", ids[0])
	assert.Equal(t, "id-05", ids[24])
	for i := 0; i < 5; i++ {
		assert.NoFileExists(t, filepath.Join(s.Dir(), fmt.Sprintf("id-%02d.txt", i)))
	}
}

func TestRotationIgnoresForeignFiles(t *testing.T) {
	s := newTestStore(t, 2)
	require.NoError(t, os.MkdirAll(s.Dir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "README"), []byte("x"), 0644))
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Write(fmt.Sprintf("p%d", i), []byte(`{}`)))
	}
	assert.FileExists(t, filepath.Join(s.Dir(), "README"))
	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2"}, ids)
}

func TestWriteSanitizesID(t *testing.T) {
	s := newTestStore(t, 25)
	require.NoError(t, s.Write("../escape", []byte(`{}`)))
	assert.FileExists(t, filepath.Join(s.Dir(), ".._escape.txt"))
}

func TestWriteEmptyID(t *testing.T) {
	s := newTestStore(t, 25)
	require.NoError(t, s.Write("", []byte(`{}`)))
	ids, err := s.List()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Contains(t, ids[0], "unknown-")
}

func TestCustomSuffix(t *testing.T) {
	s := NewStore(Conf{Dir: t.TempDir(), FileSuffix: ".json"})
	require.NoError(t, s.Write("x", []byte(`{}`)))
	assert.FileExists(t, filepath.Join(s.Dir(), "x.json"))
}

func TestListMissingDir(t *testing.T) {
	s := NewStore(Conf{Dir: filepath.Join(t.TempDir(), "nope")})
	ids, err := s.List()
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConcurrentWrites(t *testing.T) {
	s := NewStore(Conf{Dir: t.TempDir(), MaxFiles: 5})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Write(fmt.Sprintf("c%d", i), []byte(`{}`)))
		}(i)
	}
	wg.Wait()
	ids, err := s.List()
	require.NoError(t, err)
	assert.Len(t, ids, 5)
}

func TestConfDefaults(t *testing.T) {
	var conf Conf
	require.NoError(t, conf.ValidateAndDefaults("generator.payloads", "payloads"))
	assert.Equal(t, "payloads", conf.Dir)
	assert.Equal(t, 25, conf.MaxFiles)
	assert.Equal(t, "txt", conf.FileSuffix)
}

func TestConfInvalidMaxFiles(t *testing.T) {
	conf := Conf{Dir: t.TempDir(), MaxFiles: -1}
	assert.Error(t, conf.ValidateAndDefaults("generator.payloads", "payloads"))
}
