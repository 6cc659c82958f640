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

// Package config loads versus's configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/versus/pkg/common"
	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/match"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config describes a game against an engine.
type Config struct {
	// Engine is the engine played against. Its command is either a path
	// or the name of an engine installed with the engine manager.
	Engine match.EngineConfig `yaml:"engine"`

	// Driver and Rules select the engine driver and rules backend.
	Driver string `yaml:"driver"`
	Rules  string `yaml:"rules"`

	Color string `yaml:"color"`
	FEN   string `yaml:"fen"`

	// Assets is the directory with the piece images of the window board.
	Assets string `yaml:"assets"`

	// PGN is a file which the game's record is written to, if set.
	PGN string `yaml:"pgn"`

	// History is the results history file; the default location is
	// used if it is empty.
	History string `yaml:"history"`
}

// Default returns the configuration used for anything missing from the
// configuration file: Stockfish thinking for a second per move, with the
// human playing white from the standard initial position.
func Default() Config {
	return Config{
		Engine: match.EngineConfig{
			Cmd:      "stockfish",
			MoveTime: match.DefaultMoveTime,
		},

		Driver: match.Drivers[0],
		Rules:  games.Oracles[0],
		Color:  games.White.String(),
		FEN:    games.StartFEN,
		Assets: "image",
	}
}

// Load reads the configuration file at path on top of the defaults. An
// empty path is the default configuration file, which may not exist.
func Load(path string) (Config, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		path = common.ConfigFile
	}

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return config, nil
	default:
		return config, err
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}

	return config, config.Validate()
}

// Validate checks the fields which can be checked without starting a game.
func (config Config) Validate() error {
	if config.Engine.Cmd == "" {
		return fmt.Errorf("%w: engine command is empty", ErrInvalidConfig)
	}

	if !slices.Contains(match.Drivers, config.Driver) {
		return fmt.Errorf("%w: unknown driver %q, expected one of %v", ErrInvalidConfig, config.Driver, match.Drivers)
	}

	if !slices.Contains(games.Oracles, config.Rules) {
		return fmt.Errorf("%w: unknown rules %q, expected one of %v", ErrInvalidConfig, config.Rules, games.Oracles)
	}

	if _, err := games.ParseColor(config.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if config.Engine.MoveTime < 0 || config.Engine.Depth < 0 || config.Engine.Nodes < 0 {
		return fmt.Errorf("%w: negative search limit %s", ErrInvalidConfig, config.Engine.Limit())
	}

	return nil
}

// Human returns the color played by the human.
func (config Config) Human() games.Color {
	color, err := games.ParseColor(config.Color)
	if err != nil {
		return games.White
	}

	return color
}
