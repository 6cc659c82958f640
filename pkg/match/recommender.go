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

// Package match drives external move recommending engines over UCI.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laptudirm.com/x/versus/pkg/games"
)

var (
	ErrNoMove        = errors.New("engine: no move returned")
	ErrUnknownDriver = errors.New("engine: unknown driver")
)

// Position describes the game to an engine: the position the game started
// from, the moves played since, and the current position's FEN.
type Position struct {
	StartFEN string
	Moves    []games.Move
	FEN      string
}

// Recommender is an external process which proposes a move to play in a
// given position. A Recommender owns its process handle exclusively.
type Recommender interface {
	// Recommend blocks until the engine replies with its best move, the
	// limit's time budget runs out, or ctx is cancelled.
	Recommend(ctx context.Context, position Position, limit Limit) (games.Move, error)

	// Close terminates the engine process. It is safe to call more
	// than once.
	Close() error
}

// Drivers lists the names accepted by Start.
var Drivers = []string{"uci", "notnil"}

// Start launches the engine described by config with the named driver and
// completes its handshake. Any failure is returned before the engine can be
// used, and the process is not left running.
func Start(ctx context.Context, driver string, config EngineConfig) (Recommender, error) {
	switch driver {
	case "uci", "":
		return StartEngine(ctx, config)
	case "notnil":
		return StartNotnilEngine(config)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}
}

// positionCommand returns the UCI position command for the given position.
func positionCommand(position Position) string {
	command := "position fen " + position.StartFEN
	if len(position.Moves) == 0 {
		return command
	}

	moves := make([]string, len(position.Moves))
	for i, mov := range position.Moves {
		moves[i] = mov.String()
	}

	return command + " moves " + strings.Join(moves, " ")
}

// parseBestMove extracts the move from an engine's bestmove line.
func parseBestMove(line string) (games.Move, error) {
	words := strings.Fields(line)
	if len(words) < 2 || words[0] != "bestmove" {
		return games.Move{}, fmt.Errorf("engine: malformed reply %q", line)
	}

	switch words[1] {
	case "(none)", "0000":
		return games.Move{}, ErrNoMove
	}

	return games.ParseMove(words[1])
}
