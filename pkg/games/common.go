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

// Package games wraps third-party chess rules libraries behind a single
// Oracle interface which answers legality and termination queries.
package games

import (
	"errors"
	"fmt"
)

// StartFEN is the FEN string of the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrUnknownOracle = errors.New("unknown rules oracle")
)

// Oracle is a collaborator which owns a chess position and answers
// legality and termination queries about it. Implementations never
// apply a move which is not a member of the current legal move set.
type Oracle interface {
	Initialize(fen string) error

	FEN() string
	SideToMove() Color
	PieceAt(sq Square) Piece

	LegalMoves() []Move
	MakeMove(mov Move) error

	GameResult() (Result, string)
}

// Oracles lists the names accepted by GetOracle.
var Oracles = []string{"mess", "notnil"}

// GetOracle returns a new, uninitialized Oracle backed by the rules
// library with the given name.
func GetOracle(name string) (Oracle, error) {
	switch name {
	case "mess", "":
		return &MessOracle{}, nil
	case "notnil":
		return &NotnilOracle{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOracle, name)
	}
}

// Result represents the state of a game from white's point of view.
type Result uint8

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
	Aborted
)

// GameWonBy maps the winning color to the game's Result.
var GameWonBy = [ColorN]Result{
	White: WhiteWins,
	Black: BlackWins,
}

// Over reports whether the result terminates the game.
func (result Result) Over() bool {
	return result != Ongoing
}

// String returns the PGN representation of the given Result.
func (result Result) String() string {
	switch result {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Reasons for a game's termination, as reported by GameResult.
const (
	ReasonCheckmate            = "Checkmate"
	ReasonStalemate            = "Stalemate"
	ReasonFiftyMoveRule        = "50-move Rule"
	ReasonSeventyFiveMoveRule  = "75-move Rule"
	ReasonThreefoldRepetition  = "Threefold Repetition"
	ReasonFivefoldRepetition   = "Fivefold Repetition"
	ReasonInsufficientMaterial = "Insufficient Material"
)

// findMove looks for the given move in a legal move list.
func findMove(moves []Move, mov Move) (int, bool) {
	for i, legal := range moves {
		if legal == mov {
			return i, true
		}
	}

	return 0, false
}
