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

package resources

import (
	"errors"
	"mreport/messages"
	"mreport/taskres"
	"strings"
)

const (
	unknownCorpusType = "unknown"
)

// ErrNotApplicable is returned by a resource which does not
// handle the processor of a provided task result. It is an expected
// outcome, not a failure.
var ErrNotApplicable = errors.New("resource not applicable to the processor")

// ProcessorResource translates results of one analysis type into
// reportable messages. Implementations must be stateless and must
// not modify the provided task results.
type ProcessorResource interface {

	// Name identifies the resource in logs
	Name() string

	// ParseMessages extracts messages from the task result. In case
	// the task result comes from a different processor, ErrNotApplicable
	// is returned. The batch argument contains all the task results
	// of the current run.
	ParseMessages(
		task *taskres.TaskResult,
		batch []*taskres.TaskResult,
		language string,
	) ([]*messages.Message, error)

	// TemplatesString returns a raw, multi-language template text
	// used by the template compiler.
	TemplatesString() string

	// SlotRealizerComponents lists names of slot realization
	// extensions the resource contributes (possibly none).
	SlotRealizerComponents() []string
}

// Default returns all the built-in resources in the order
// they are consulted by the message generator.
func Default() []ProcessorResource {
	return []ProcessorResource{
		&Summarization{},
		&TrackNameSentiment{},
	}
}

// Templates concatenates templates of all the provided resources.
func Templates(res []ProcessorResource) string {
	var buff strings.Builder
	for _, r := range res {
		buff.WriteString(strings.TrimSpace(r.TemplatesString()))
		buff.WriteString("\n\n")
	}
	return buff.String()
}

// PrimaryLanguage returns the primary language subtag
// (e.g. `en-head` => `en`, `cs_CZ` => `cs`).
func PrimaryLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		return lang[:i]
	}
	return lang
}

// buildCorpusFields derives the `corpus` and `corpusType` fact
// properties from the analysed collection(s).
func buildCorpusFields(task *taskres.TaskResult) (corpus string, corpusType string) {
	corpusType = task.Dataset
	if corpusType == "" {
		corpusType = unknownCorpusType
	}
	switch {
	case task.Collection1 != nil && task.Collection2 != nil:
		corpus = task.Collection1.Describe() + " vs " + task.Collection2.Describe()
	case task.Collection1 != nil:
		corpus = task.Collection1.Describe()
	case task.Collection2 != nil:
		corpus = task.Collection2.Describe()
	case task.SearchQuery != nil:
		corpus = task.SearchQuery.Describe()
	default:
		corpus = task.Dataset
	}
	return
}
