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

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/versus/pkg/config"
	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/history"
	"laptudirm.com/x/versus/pkg/manager"
	"laptudirm.com/x/versus/pkg/match"
	"laptudirm.com/x/versus/pkg/session"
)

// gameFlags registers the flags which override the configuration file
// of every command which plays a game.
func gameFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("engine", "e", "", "Engine to play against: an installed engine or a command")
	flags.StringP("color", "c", "", "Color played by the human (white or black)")
	flags.String("fen", "", "FEN of the starting position")
	flags.String("pgn", "", "Write the game's record to the given file")
	flags.String("driver", "", fmt.Sprintf("Engine driver %v", match.Drivers))
	flags.String("rules", "", fmt.Sprintf("Rules backend %v", games.Oracles))
	flags.Duration("movetime", 0, "Time the engine thinks for each move")
	flags.Int("depth", 0, "Depth the engine searches to for each move")
	flags.Int("nodes", 0, "Nodes the engine searches for each move")
}

// loadConfig loads the configuration file and applies the command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	for name, field := range map[string]*string{
		"engine": &cfg.Engine.Cmd,
		"color":  &cfg.Color,
		"fen":    &cfg.FEN,
		"pgn":    &cfg.PGN,
		"driver": &cfg.Driver,
		"rules":  &cfg.Rules,
		"assets": &cfg.Assets,
	} {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			*field = flag.Value.String()
		}
	}

	if flags.Changed("engine") {
		// the name from the configuration file belongs to its engine
		cfg.Engine.Name = ""
	}

	if flags.Changed("depth") || flags.Changed("nodes") {
		// an explicit depth or node limit replaces the default movetime
		cfg.Engine.MoveTime = 0
	}

	cfg.Engine.MoveTime = durationFlag(cmd, "movetime", cfg.Engine.MoveTime)
	cfg.Engine.Depth = intFlag(cmd, "depth", cfg.Engine.Depth)
	cfg.Engine.Nodes = intFlag(cmd, "nodes", cfg.Engine.Nodes)

	logrus.WithField("config", cfg).Trace("Loaded configuration")
	return cfg, cfg.Validate()
}

func durationFlag(cmd *cobra.Command, name string, value time.Duration) time.Duration {
	if cmd.Flags().Changed(name) {
		value, _ = cmd.Flags().GetDuration(name)
	}

	return value
}

func intFlag(cmd *cobra.Command, name string, value int) int {
	if cmd.Flags().Changed(name) {
		value, _ = cmd.Flags().GetInt(name)
	}

	return value
}

// resolveEngine replaces the name of an installed engine in the engine's
// command with the path to its binary. Paths and commands which are not
// installed engines are left alone.
func resolveEngine(engine *match.EngineConfig) {
	if engine.Name == "" {
		engine.Name = filepath.Base(engine.Cmd)
	}

	if strings.ContainsRune(engine.Cmd, filepath.Separator) {
		return
	}

	installed, err := manager.Open("")
	if err != nil {
		logrus.Debug(err)
		return
	}

	if binary, err := installed.Resolve(engine.Cmd); err == nil {
		logrus.WithField("binary", binary).Debugf("Using installed engine %s", engine.Cmd)
		engine.Cmd = binary
	}
}

// startGame starts the configured engine and a new game against it. The
// engine is never left running if this fails.
func startGame(ctx context.Context, cfg *config.Config) (*session.Session, error) {
	resolveEngine(&cfg.Engine)

	oracle, err := games.GetOracle(cfg.Rules)
	if err != nil {
		return nil, err
	}

	recommender, err := match.Start(ctx, cfg.Driver, cfg.Engine)
	if err != nil {
		return nil, err
	}

	game, err := session.New(oracle, recommender, session.Options{
		Human:    cfg.Human(),
		StartFEN: cfg.FEN,
		Limit:    cfg.Engine.Limit(),
	})

	if err != nil {
		_ = recommender.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"engine": cfg.Engine.Name,
		"human":  cfg.Human(),
		"limit":  cfg.Engine.Limit(),
	}).Debug("Started new game")

	return game, nil
}

// finishGame writes the game's record and adds finished games to the
// results history.
func finishGame(cfg config.Config, game *session.Session) error {
	result, reason := game.Outcome()

	if cfg.PGN != "" {
		if err := writeRecord(cfg, game); err != nil {
			return err
		}
	}

	if result == games.Aborted || !result.Over() {
		return nil
	}

	entry, err := history.NewEntry(cfg.Engine.Name, game.Human(), result, reason, len(game.Moves()), cfg.FEN)
	if err != nil {
		return err
	}

	store := history.Open(cfg.History)
	if err := store.Add(entry); err != nil {
		return err
	}

	logrus.WithField("file", store.Path()).Debug("Added game to history")
	return nil
}

func writeRecord(cfg config.Config, game *session.Session) error {
	players := [games.ColorN]string{}
	players[game.Human()] = "Human"
	players[game.Human().Other()] = cfg.Engine.Name

	record, err := game.Record([]games.Tag{
		{Key: "Event", Value: "Casual Game"},
		{Key: "Site", Value: "versus"},
		{Key: "Date", Value: time.Now().Format("2006.01.02")},
		{Key: "White", Value: players[games.White]},
		{Key: "Black", Value: players[games.Black]},
	})

	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.PGN, []byte(record), 0644); err != nil {
		return err
	}

	logrus.Infof("Wrote game record to %s", cfg.PGN)
	return nil
}

// playGame runs a game with the given turn loop, guaranteeing that the
// engine is closed on every exit path.
func playGame(cmd *cobra.Command, loop func(context.Context, config.Config, *session.Session) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	game, err := startGame(ctx, &cfg)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := game.Close(); closeErr != nil {
			logrus.Debugf("closing engine: %v", closeErr)
		}
	}()

	loopErr := loop(ctx, cfg, game)
	if err := finishGame(cfg, game); err != nil {
		logrus.Error(err)
	}

	return loopErr
}
