// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history keeps a record of the games played against engines.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/versus/pkg/common"
	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/stats"
)

// Entry is the record of one finished game.
type Entry struct {
	Date   time.Time `yaml:"date"`
	Engine string    `yaml:"engine"`

	// Human is the color played by the human, "white" or "black".
	Human string `yaml:"human"`

	Result string `yaml:"result"`
	Reason string `yaml:"reason,omitempty"`
	Plies  int    `yaml:"plies"`

	FEN string `yaml:"fen,omitempty"`
}

// NewEntry records a finished game. Only decisive and drawn games can
// be recorded.
func NewEntry(engine string, human games.Color, result games.Result, reason string, plies int, startFEN string) (Entry, error) {
	switch result {
	case games.WhiteWins, games.BlackWins, games.Draw:
	default:
		return Entry{}, fmt.Errorf("history: cannot record a game with result %s", result)
	}

	entry := Entry{
		Date:   time.Now().UTC().Truncate(time.Second),
		Engine: engine,
		Human:  human.String(),
		Result: result.String(),
		Reason: reason,
		Plies:  plies,
	}

	if startFEN != games.StartFEN {
		entry.FEN = startFEN
	}

	return entry, nil
}

// Outcome returns the game's result from the human's point of view:
// 1 for a win, 0 for a draw, and -1 for a loss.
func (entry Entry) Outcome() (int, error) {
	human, err := games.ParseColor(entry.Human)
	if err != nil {
		return 0, err
	}

	switch entry.Result {
	case games.Draw.String():
		return 0, nil
	case games.GameWonBy[human].String():
		return 1, nil
	case games.GameWonBy[human.Other()].String():
		return -1, nil
	default:
		return 0, fmt.Errorf("history: unknown result %q", entry.Result)
	}
}

// Store is a yaml file of history entries.
type Store struct {
	path string
}

// Open returns the store at the given path, or at the default location
// if the path is empty. The file is created when the first entry is added.
func Open(path string) *Store {
	if path == "" {
		path = common.HistoryFile
	}

	return &Store{path: path}
}

// Path returns the location of the store's file.
func (store *Store) Path() string {
	return store.path
}

// Load reads every entry in the store. A store without a file is empty.
func (store *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("history: %s: %w", store.path, err)
	}

	return entries, nil
}

// Add appends an entry to the store.
func (store *Store) Add(entry Entry) error {
	entries, err := store.Load()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(append(entries, entry))
	if err != nil {
		return err
	}

	if err := common.TryMkdir(filepath.Dir(store.path)); err != nil {
		return err
	}

	return os.WriteFile(store.path, data, 0644)
}

// Summary is the human's score against one engine.
type Summary struct {
	Engine string
	stats.Score
}

// Summarize tallies the human's score against every engine in the
// entries, sorted by engine name. Entries with unknown results are
// skipped.
func Summarize(entries []Entry) []Summary {
	scores := make(map[string]stats.Score)
	for _, entry := range entries {
		outcome, err := entry.Outcome()
		if err != nil {
			continue
		}

		score := scores[entry.Engine]
		switch outcome {
		case 1:
			score.Wins++
		case 0:
			score.Draws++
		case -1:
			score.Losses++
		}

		scores[entry.Engine] = score
	}

	summaries := make([]Summary, 0, len(scores))
	for engine, score := range scores {
		summaries = append(summaries, Summary{Engine: engine, Score: score})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Engine < summaries[j].Engine
	})

	return summaries
}
