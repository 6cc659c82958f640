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

package match

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/notnil/chess/uci"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
)

// NotnilEngine is a Recommender which talks to its engine through the
// notnil/chess UCI client instead of the in-tree driver.
type NotnilEngine struct {
	engine *uci.Engine

	// logs carries the client's debug output into logrus, if enabled.
	logs *io.PipeWriter

	once     sync.Once
	closeErr error
}

// StartNotnilEngine launches the engine and completes the UCI handshake.
// The notnil client cannot pass arguments or a working directory to the
// engine, so those settings are ignored with a warning.
func StartNotnilEngine(config EngineConfig) (*NotnilEngine, error) {
	if config.Arg != "" || config.Dir != "" || config.InitStr != "" {
		logrus.Warn("The notnil driver ignores the engine's arg, dir, and init-string settings")
	}

	var logs *io.PipeWriter
	var options []func(*uci.Engine)
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logs = logrus.WithField("engine", config.Name).WriterLevel(logrus.DebugLevel)
		options = append(options, uci.Debug, uci.Logger(log.New(logs, "", 0)))
	}

	engine, err := uci.New(config.Cmd, options...)
	if err != nil {
		closeLogs(logs)
		return nil, fmt.Errorf("engine: start %s: %w", config.Cmd, err)
	}

	commands := []uci.Cmd{uci.CmdUCI}

	names := make([]string, 0, len(config.Options))
	for name := range config.Options {
		names = append(names, name)
	}

	sort.Strings(names)
	for _, name := range names {
		commands = append(commands, uci.CmdSetOption{Name: name, Value: config.Options[name]})
	}

	commands = append(commands, uci.CmdIsReady, uci.CmdUCINewGame)
	if err := engine.Run(commands...); err != nil {
		_ = engine.Close()
		closeLogs(logs)
		return nil, fmt.Errorf("engine: %s handshake: %w", config.Cmd, err)
	}

	return &NotnilEngine{engine: engine, logs: logs}, nil
}

// Recommend sends the current position to the engine and waits for its
// best move. The notnil client has no way to interrupt a running search,
// so a cancelled ctx only takes effect once the search has finished.
func (engine *NotnilEngine) Recommend(ctx context.Context, position Position, limit Limit) (games.Move, error) {
	// The start position and the moves since are sent, like the in-tree
	// driver does, so that the engine can see repetitions.
	start, moves, err := games.NotnilReplay(position.StartFEN, position.Moves)
	if err != nil {
		return games.Move{}, err
	}

	limit = limit.Normalize()
	search := uci.CmdGo{
		MoveTime: limit.MoveTime,
		Depth:    limit.Depth,
		Nodes:    limit.Nodes,
	}

	done := make(chan error, 1)
	go func() {
		done <- engine.engine.Run(uci.CmdPosition{Position: start, Moves: moves}, search)
	}()

	select {
	case err := <-done:
		if err != nil {
			return games.Move{}, err
		}
	case <-ctx.Done():
		<-done
		return games.Move{}, ctx.Err()
	}

	best := engine.engine.SearchResults().BestMove
	if best == nil {
		return games.Move{}, ErrNoMove
	}

	return games.ParseMove(best.String())
}

// Close shuts down the engine process.
func (engine *NotnilEngine) Close() error {
	engine.once.Do(func() {
		engine.closeErr = engine.engine.Close()
		closeLogs(engine.logs)
	})

	return engine.closeErr
}

func closeLogs(logs *io.PipeWriter) {
	if logs != nil {
		_ = logs.Close()
	}
}
